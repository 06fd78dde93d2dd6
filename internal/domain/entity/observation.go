package entity

import (
	"fmt"
	"strings"
)

// InteractableElement is one element the agent may type into or click,
// identified by the browsemind-id attribute assigned during observation.
type InteractableElement struct {
	ID    int
	Tag   string
	Label string
}

// Observation is an immutable snapshot of the current page: title, reduced
// visible text and the ordered element list. Produced fresh each iteration,
// never cached.
type Observation struct {
	Title    string
	Text     string
	Elements []InteractableElement
	// Truncated is set when Text was cut to fit the content limit.
	Truncated bool
}

// Render formats the observation the way the system prompt describes it.
func (o Observation) Render() string {
	var sb strings.Builder
	sb.WriteString("Title: ")
	sb.WriteString(o.Title)
	sb.WriteString("\n\nContent:\n")
	sb.WriteString(o.Text)
	sb.WriteString("\n\nInteractable Elements:\n")
	for _, el := range o.Elements {
		fmt.Fprintf(&sb, "<%s browsemind-id=\"%d\"> %s\n", el.Tag, el.ID, el.Label)
	}
	return sb.String()
}

// Truncate returns a copy with Text bounded to maxLen bytes. Content above
// the limit is cut, not rejected.
func (o Observation) Truncate(maxLen int) Observation {
	if maxLen <= 0 || len(o.Text) <= maxLen {
		return o
	}
	o.Text = o.Text[:maxLen] + "\n... (truncated)"
	o.Truncated = true
	return o
}

// HasElement reports whether the observation lists an element with this ID.
func (o Observation) HasElement(id int) bool {
	for _, el := range o.Elements {
		if el.ID == id {
			return true
		}
	}
	return false
}
