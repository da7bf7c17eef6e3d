package resilience

import (
	"testing"
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

func TestBackoffGrowsToCap(t *testing.T) {
	c := Config{RetryInitialBackoff: 100 * time.Millisecond, RetryMaxBackoff: 300 * time.Millisecond, RetryMultiplier: 2}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for i, w := range want {
		if got := c.Backoff(i + 1); got != w {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, w, got)
		}
	}
}

func TestCallBudgetIncludesWaits(t *testing.T) {
	c := Config{RetryMaxAttempts: 3, RetryInitialBackoff: 100 * time.Millisecond, RetryMaxBackoff: time.Second, RetryMultiplier: 2}
	// 3 attempts of 1s plus waits of 100ms and 200ms
	if got, want := c.CallBudget(time.Second), 3300*time.Millisecond; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFromLLMConfig(t *testing.T) {
	got := FromLLMConfig(common.LLMConfig{RetryAttempts: 5})
	if got.RetryMaxAttempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", got.RetryMaxAttempts)
	}
	if got.BreakerEnabled {
		t.Fatalf("breaker should follow the llm setting")
	}
	if got.RetryInitialBackoff != DefaultConfig().RetryInitialBackoff {
		t.Fatalf("unset fields should keep defaults, got %s", got.RetryInitialBackoff)
	}

	got = FromLLMConfig(common.LLMConfig{BreakerEnabled: true})
	if got.RetryMaxAttempts != DefaultConfig().RetryMaxAttempts || !got.BreakerEnabled {
		t.Fatalf("unexpected config %+v", got)
	}
}
