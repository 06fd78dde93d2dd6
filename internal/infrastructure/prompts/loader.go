// Package prompts carries the fixed system prompt the action protocol
// depends on. The prompt and the parser must agree on the wire schema.
package prompts

import (
	_ "embed"
)

//go:embed system.txt
var SystemPrompt string
