package output

import "context"

// LLMPort is a single-shot request/response call to the model. No internal
// retry; the reliability stack around it owns that.
type LLMPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	SystemPrompt string
	PageContent  string
	Task         string
}
