// Package config assembles and validates the agent configuration. The core
// packages receive Config by value and never touch the environment.
package config

import (
	"time"

	"browsemind/internal/domain/apperr"
	"browsemind/internal/infrastructure/env"
	"browsemind/internal/reliability"
)

type Config struct {
	// Model settings.
	APIKey      string
	ModelName   string
	Temperature float64

	// Loop bounds.
	MaxIterations        int
	MaxTaskLength        int
	MaxPageContentLength int

	// Reliability settings for model calls.
	Retry                reliability.RetryPolicy
	RateLimitPerMinute   int
	FailureThreshold     int
	RecoveryTimeout      time.Duration

	// Timeouts.
	LLMRequestTimeout        time.Duration
	BrowserNavigationTimeout time.Duration
	BrowserActionTimeout     time.Duration

	// Browser settings.
	Headless bool
}

// Default returns the configuration used when no environment overrides are
// present. The API key and model name have no defaults; they are required.
func Default() Config {
	return Config{
		Temperature:              0.7,
		MaxIterations:            20,
		MaxTaskLength:            1000,
		MaxPageContentLength:     1_000_000,
		Retry:                    reliability.DefaultRetryPolicy(),
		RateLimitPerMinute:       60,
		FailureThreshold:         5,
		RecoveryTimeout:          60 * time.Second,
		LLMRequestTimeout:        300 * time.Second,
		BrowserNavigationTimeout: 30 * time.Second,
		BrowserActionTimeout:     30 * time.Second,
		Headless:                 false,
	}
}

// FromEnv builds a Config from environment variables on top of the defaults
// and validates it. Returns a configuration error before any run starts.
func FromEnv(e *env.EnvService) (Config, error) {
	cfg := Default()

	cfg.APIKey = e.Get("OPENROUTER_API_KEY")
	cfg.ModelName = e.Get("OPENROUTER_MODEL_NAME")
	cfg.Temperature = e.GetFloat("TEMPERATURE", cfg.Temperature)
	cfg.MaxIterations = e.GetInt("MAX_ITERATIONS", cfg.MaxIterations)
	cfg.MaxTaskLength = e.GetInt("MAX_TASK_LENGTH", cfg.MaxTaskLength)
	cfg.MaxPageContentLength = e.GetInt("MAX_PAGE_CONTENT_LENGTH", cfg.MaxPageContentLength)

	cfg.Retry.MaxRetries = e.GetInt("LLM_MAX_RETRIES", cfg.Retry.MaxRetries)
	cfg.Retry.BaseDelay = e.GetDuration("LLM_RETRY_DELAY", cfg.Retry.BaseDelay)
	cfg.Retry.MaxDelay = e.GetDuration("LLM_RETRY_MAX_DELAY", cfg.Retry.MaxDelay)
	cfg.Retry.Jitter = e.GetBool("LLM_RETRY_JITTER", cfg.Retry.Jitter)
	cfg.RateLimitPerMinute = e.GetInt("LLM_RATE_LIMIT_REQUESTS_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.FailureThreshold = e.GetInt("LLM_FAILURE_THRESHOLD", cfg.FailureThreshold)
	cfg.RecoveryTimeout = e.GetDuration("LLM_RECOVERY_TIMEOUT", cfg.RecoveryTimeout)

	cfg.LLMRequestTimeout = e.GetDuration("LLM_REQUEST_TIMEOUT", cfg.LLMRequestTimeout)
	cfg.BrowserNavigationTimeout = e.GetDuration("BROWSER_NAVIGATION_TIMEOUT", cfg.BrowserNavigationTimeout)
	cfg.BrowserActionTimeout = e.GetDuration("BROWSER_ACTION_TIMEOUT", cfg.BrowserActionTimeout)

	cfg.Headless = e.GetBool("BROWSER_HEADLESS", cfg.Headless)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return apperr.Config("missing required setting OPENROUTER_API_KEY")
	}
	if c.ModelName == "" {
		return apperr.Config("missing required setting OPENROUTER_MODEL_NAME")
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return apperr.Config("temperature must be between 0.0 and 1.0, got %v", c.Temperature)
	}
	if c.MaxIterations <= 0 {
		return apperr.Config("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxTaskLength <= 0 {
		return apperr.Config("max task length must be positive, got %d", c.MaxTaskLength)
	}
	if c.MaxPageContentLength <= 0 {
		return apperr.Config("max page content length must be positive, got %d", c.MaxPageContentLength)
	}
	if c.Retry.MaxRetries < 0 {
		return apperr.Config("max retries must be non-negative, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.BaseDelay < 0 {
		return apperr.Config("retry base delay must be non-negative, got %v", c.Retry.BaseDelay)
	}
	if c.Retry.ExponentialBase < 1.0 {
		return apperr.Config("retry exponential base must be at least 1.0, got %v", c.Retry.ExponentialBase)
	}
	if c.RateLimitPerMinute <= 0 {
		return apperr.Config("rate limit must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.FailureThreshold <= 0 {
		return apperr.Config("failure threshold must be positive, got %d", c.FailureThreshold)
	}
	if c.RecoveryTimeout <= 0 {
		return apperr.Config("recovery timeout must be positive, got %v", c.RecoveryTimeout)
	}
	if c.LLMRequestTimeout <= 0 {
		return apperr.Config("LLM request timeout must be positive, got %v", c.LLMRequestTimeout)
	}
	if c.BrowserNavigationTimeout <= 0 {
		return apperr.Config("browser navigation timeout must be positive, got %v", c.BrowserNavigationTimeout)
	}
	if c.BrowserActionTimeout <= 0 {
		return apperr.Config("browser action timeout must be positive, got %v", c.BrowserActionTimeout)
	}
	return nil
}
