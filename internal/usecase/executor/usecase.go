// Package executor runs the agent loop: observe the page, ask the model for
// the next action through the reliability stack, dispatch it to the browser,
// repeat until a terminal action or the iteration budget is spent.
package executor

import (
	"context"
	"time"

	"browsemind/internal/application/port/input"
	"browsemind/internal/application/port/output"
	"browsemind/internal/domain/apperr"
	"browsemind/internal/domain/entity"
	"browsemind/internal/reliability"
	"browsemind/internal/usecase/protocol"
)

var _ input.TaskExecutor = (*UseCase)(nil)

// MaxIterationsResult is returned when the loop ends without a terminal
// action.
const MaxIterationsResult = "Max iterations reached."

// Options bound one run. Supplied at construction; the executor never reads
// configuration itself.
type Options struct {
	MaxIterations        int
	MaxTaskLength        int
	MaxPageContentLength int
	LLMRequestTimeout    time.Duration
}

type UseCase struct {
	browser      output.BrowserPort
	llm          output.LLMPort
	limiter      *reliability.RateLimiter
	retry        *reliability.Executor
	logger       output.LoggerPort
	systemPrompt string
	opts         Options
}

func New(
	browser output.BrowserPort,
	llm output.LLMPort,
	limiter *reliability.RateLimiter,
	retry *reliability.Executor,
	logger output.LoggerPort,
	systemPrompt string,
	opts Options,
) *UseCase {
	return &UseCase{
		browser:      browser,
		llm:          llm,
		limiter:      limiter,
		retry:        retry,
		logger:       logger,
		systemPrompt: systemPrompt,
		opts:         opts,
	}
}

// Execute drives one browser session toward the task. The page is closed on
// every exit path. Errors carry kind, code and the originating iteration.
func (uc *UseCase) Execute(ctx context.Context, rawTask string) (*input.ExecuteResult, error) {
	task, err := entity.NewTask(rawTask, uc.opts.MaxTaskLength)
	if err != nil {
		return nil, err
	}

	page, err := uc.browser.NewPage(ctx)
	if err != nil {
		return nil, apperr.Browser(0, "new_page", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			uc.logger.Warn("Failed to close page", "error", cerr.Error())
		}
	}()

	for iteration := 1; iteration <= uc.opts.MaxIterations; iteration++ {
		uc.logger.Debug("Starting iteration", "iteration", iteration)

		obs, err := page.Observe(ctx)
		if err != nil {
			return nil, apperr.Browser(iteration, "observe", err)
		}
		obs = obs.Truncate(uc.opts.MaxPageContentLength)
		if obs.Truncated {
			uc.logger.Info("Page content truncated",
				"iteration", iteration,
				"limit", uc.opts.MaxPageContentLength)
		}

		action, err := uc.nextAction(ctx, task, obs)
		if err != nil {
			return nil, apperr.WithIteration(err, iteration)
		}

		uc.logger.Info("Executing action", "iteration", iteration, "action", action.ActionName())

		result, done, err := uc.dispatch(ctx, page, action)
		if err != nil {
			return nil, apperr.WithIteration(err, iteration)
		}
		if done {
			return &input.ExecuteResult{FinalAnswer: result, Iterations: iteration}, nil
		}
	}

	uc.logger.Warn("Iteration budget exhausted", "maxIterations", uc.opts.MaxIterations)
	return &input.ExecuteResult{
		FinalAnswer: MaxIterationsResult,
		Iterations:  uc.opts.MaxIterations,
	}, nil
}

// nextAction requests one action from the model through the rate limiter,
// circuit breaker and retry executor. Protocol failures are retryable
// within the retry budget; circuit-open and timeout failures are not.
func (uc *UseCase) nextAction(ctx context.Context, task entity.Task, obs entity.Observation) (entity.Action, error) {
	return reliability.Execute(ctx, uc.retry, func(ctx context.Context) (entity.Action, error) {
		if err := uc.limiter.Acquire(ctx); err != nil {
			return nil, apperr.Unavailable(apperr.CodeTimeout, "cancelled while rate limited", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, uc.opts.LLMRequestTimeout)
		defer cancel()

		raw, err := uc.llm.Complete(callCtx, output.CompletionRequest{
			SystemPrompt: uc.systemPrompt,
			PageContent:  obs.Render(),
			Task:         task.String(),
		})
		if err != nil {
			return nil, err
		}

		return protocol.ParseAction(raw)
	})
}

// dispatch hands the action to the browser. The returned bool marks a
// terminal action. The variant set is closed; an action that reaches the
// default branch is a bug in the protocol layer.
func (uc *UseCase) dispatch(ctx context.Context, page output.PagePort, action entity.Action) (string, bool, error) {
	switch a := action.(type) {
	case entity.Navigate:
		if err := page.Navigate(ctx, a.URL); err != nil {
			return "", false, apperr.Browser(0, "navigate", err)
		}
		return "", false, nil

	case entity.TypeText:
		if err := page.TypeInto(ctx, a.ElementID, a.Text); err != nil {
			return "", false, apperr.Browser(0, "type", err)
		}
		if a.PressEnterAfter {
			if err := page.PressEnter(ctx, a.ElementID); err != nil {
				return "", false, apperr.Browser(0, "press_enter", err)
			}
		}
		return "", false, nil

	case entity.Click:
		if err := page.Click(ctx, a.ElementID); err != nil {
			return "", false, apperr.Browser(0, "click", err)
		}
		return "", false, nil

	case entity.Summarize:
		text, err := page.FullText(ctx)
		if err != nil {
			return "", false, apperr.Browser(0, "full_text", err)
		}
		return text, true, nil

	case entity.Finish:
		return a.Result, true, nil

	default:
		return "", false, apperr.Protocol(apperr.CodeUnknownAction, "unhandled action %q", action.ActionName())
	}
}
