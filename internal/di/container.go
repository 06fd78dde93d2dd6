// Package di wires the agent together. The rate limiter and circuit breaker
// are constructed here and injected, one pair per model endpoint; tests build
// their own isolated instances.
package di

import (
	"context"
	"fmt"
	"time"

	"browsemind/internal/application/port/input"
	"browsemind/internal/application/port/output"
	"browsemind/internal/infrastructure/browser/rod"
	"browsemind/internal/infrastructure/config"
	"browsemind/internal/infrastructure/llm/openrouter"
	"browsemind/internal/infrastructure/logger"
	"browsemind/internal/infrastructure/prompts"
	"browsemind/internal/reliability"
	"browsemind/internal/usecase/executor"
)

type Container struct {
	Browser      output.BrowserPort
	LLM          output.LLMPort
	Logger       output.LoggerPort
	TaskExecutor input.TaskExecutor
}

func NewContainer(ctx context.Context, cfg config.Config, debug bool) (*Container, error) {
	log, err := logger.NewLoggerAdapter(debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browserCfg.NavigationTimeout = cfg.BrowserNavigationTimeout
	browserCfg.ActionTimeout = cfg.BrowserActionTimeout
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	llmCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.ModelName)
	llmCfg.Temperature = cfg.Temperature
	llmCfg.Logger = log
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	limiter := reliability.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, log)
	breaker := reliability.NewCircuitBreaker(cfg.FailureThreshold, cfg.RecoveryTimeout, log)
	retry := reliability.NewExecutor(cfg.Retry, breaker, log)

	uc := executor.New(browser, llm, limiter, retry, log, prompts.SystemPrompt, executor.Options{
		MaxIterations:        cfg.MaxIterations,
		MaxTaskLength:        cfg.MaxTaskLength,
		MaxPageContentLength: cfg.MaxPageContentLength,
		LLMRequestTimeout:    cfg.LLMRequestTimeout,
	})

	return &Container{
		Browser:      browser,
		LLM:          llm,
		Logger:       log,
		TaskExecutor: uc,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
