package input

import "context"

type ExecuteResult struct {
	FinalAnswer string
	Iterations  int
}

// TaskExecutor drives one browser session toward the given task.
type TaskExecutor interface {
	Execute(ctx context.Context, task string) (*ExecuteResult, error)
}
