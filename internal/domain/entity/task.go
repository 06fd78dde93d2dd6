package entity

import (
	"strings"

	"browsemind/internal/domain/apperr"
)

// Task is the immutable goal description for one run.
type Task string

// NewTask validates the raw task string against the configured length bound.
func NewTask(raw string, maxLen int) (Task, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.Config("task must not be empty")
	}
	if maxLen > 0 && len(raw) > maxLen {
		return "", apperr.Config("task exceeds maximum length of %d characters", maxLen)
	}
	return Task(raw), nil
}

func (t Task) String() string {
	return string(t)
}
