package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browsemind/internal/domain/apperr"
	"browsemind/internal/infrastructure/env"
)

func validEnv(t *testing.T) *env.EnvService {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_MODEL_NAME", "test-model")
	return &env.EnvService{}
}

func TestFromEnv_Defaults(t *testing.T) {
	e := validEnv(t)

	cfg, err := FromEnv(e)
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "test-model", cfg.ModelName)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 20, cfg.MaxIterations)
	assert.Equal(t, 1000, cfg.MaxTaskLength)
	assert.Equal(t, 1_000_000, cfg.MaxPageContentLength)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 300*time.Second, cfg.LLMRequestTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	e := validEnv(t)
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("MAX_ITERATIONS", "5")
	t.Setenv("LLM_MAX_RETRIES", "7")
	t.Setenv("LLM_REQUEST_TIMEOUT", "45s")
	t.Setenv("BROWSER_HEADLESS", "true")

	cfg, err := FromEnv(e)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 45*time.Second, cfg.LLMRequestTimeout)
	assert.True(t, cfg.Headless)
}

func TestFromEnv_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENROUTER_MODEL_NAME", "test-model")

	_, err := FromEnv(&env.EnvService{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestFromEnv_MissingModelName(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_MODEL_NAME", "")

	_, err := FromEnv(&env.EnvService{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}

func TestFromEnv_InvalidTemperature(t *testing.T) {
	e := validEnv(t)
	t.Setenv("TEMPERATURE", "1.5")

	_, err := FromEnv(e)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "temperature")
}

func TestFromEnv_UnparseableValueFallsBack(t *testing.T) {
	e := validEnv(t)
	t.Setenv("MAX_ITERATIONS", "not-a-number")

	cfg, err := FromEnv(e)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxIterations)
}

func TestValidate_Bounds(t *testing.T) {
	base := func() Config {
		c := Default()
		c.APIKey = "k"
		c.ModelName = "m"
		return c
	}

	cases := map[string]func(*Config){
		"zero iterations":        func(c *Config) { c.MaxIterations = 0 },
		"negative task length":   func(c *Config) { c.MaxTaskLength = -1 },
		"zero content length":    func(c *Config) { c.MaxPageContentLength = 0 },
		"negative retries":       func(c *Config) { c.Retry.MaxRetries = -1 },
		"exp base below one":     func(c *Config) { c.Retry.ExponentialBase = 0.5 },
		"zero rate limit":        func(c *Config) { c.RateLimitPerMinute = 0 },
		"zero threshold":         func(c *Config) { c.FailureThreshold = 0 },
		"zero recovery timeout":  func(c *Config) { c.RecoveryTimeout = 0 },
		"zero request timeout":   func(c *Config) { c.LLMRequestTimeout = 0 },
		"zero nav timeout":       func(c *Config) { c.BrowserNavigationTimeout = 0 },
		"zero action timeout":    func(c *Config) { c.BrowserActionTimeout = 0 },
		"temperature below zero": func(c *Config) { c.Temperature = -0.1 },
	}
	for name, mutate := range cases {
		cfg := base()
		mutate(&cfg)
		err := cfg.Validate()
		require.Error(t, err, "case %s", name)
		assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err), "case %s", name)
	}

	require.NoError(t, base().Validate())
}
