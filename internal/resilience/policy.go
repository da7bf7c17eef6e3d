package resilience

import (
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

// Config holds retry and circuit breaker settings for the LLM fallback calls
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// DefaultConfig is sized for a hosted chat endpoint answering one short prompt
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 250 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Second,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      5,
		BreakerFailureRatio:     0.6,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// FromLLMConfig overlays the user's llm settings on DefaultConfig
func FromLLMConfig(cfg common.LLMConfig) Config {
	c := DefaultConfig()
	if cfg.RetryAttempts > 0 {
		c.RetryMaxAttempts = cfg.RetryAttempts
	}
	c.BreakerEnabled = cfg.BreakerEnabled
	return c.withDefaults()
}

// Backoff returns the wait after the given failed attempt, starting at 1
func (c Config) Backoff(attempt int) time.Duration {
	wait := c.RetryInitialBackoff
	for i := 1; i < attempt && wait < c.RetryMaxBackoff; i++ {
		wait = time.Duration(float64(wait) * c.RetryMultiplier)
	}
	return min(wait, c.RetryMaxBackoff)
}

// CallBudget is the longest a retried call can take when every attempt
// runs for perAttempt, including the waits between attempts.
func (c Config) CallBudget(perAttempt time.Duration) time.Duration {
	budget := perAttempt * time.Duration(c.RetryMaxAttempts)
	for attempt := 1; attempt < c.RetryMaxAttempts; attempt++ {
		budget += c.Backoff(attempt)
	}
	return budget
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	c.RetryMaxAttempts = orDefault(c.RetryMaxAttempts, def.RetryMaxAttempts)
	c.RetryInitialBackoff = orDefault(c.RetryInitialBackoff, def.RetryInitialBackoff)
	c.RetryMaxBackoff = max(orDefault(c.RetryMaxBackoff, def.RetryMaxBackoff), c.RetryInitialBackoff)
	if c.RetryMultiplier < 1.0 {
		c.RetryMultiplier = def.RetryMultiplier
	}
	c.BreakerMinRequests = orDefault(c.BreakerMinRequests, def.BreakerMinRequests)
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = def.BreakerFailureRatio
	}
	c.BreakerOpenTimeout = orDefault(c.BreakerOpenTimeout, def.BreakerOpenTimeout)
	c.BreakerHalfOpenMaxCalls = orDefault(c.BreakerHalfOpenMaxCalls, def.BreakerHalfOpenMaxCalls)
	return c
}

// orDefault treats zero and negative values as unset
func orDefault[T int | uint32 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
