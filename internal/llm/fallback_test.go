package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/resilience"
)

type completerFake struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
}

func (f *completerFake) Provider() string { return "fake" }

func (f *completerFake) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

type observerFake struct {
	outcomes []string
}

func (o *observerFake) ObserveFallback(provider, outcome string, _ float64) {
	o.outcomes = append(o.outcomes, provider+":"+outcome)
}

func fastExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
	}, nil)
}

func TestVehicleNameTrimsReply(t *testing.T) {
	fake := &completerFake{replies: []string{"  Skoda Octavia vRS\n"}}
	obs := &observerFake{}
	n := NewVehicleNamer(fake, fastExecutor(), nil, WithObserver(obs))

	got, err := n.VehicleName(context.Background(), "Skoda Octavia\nvRS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Skoda Octavia vRS" {
		t.Fatalf("VehicleName() = %q", got)
	}
	if len(fake.prompts) != 1 || !strings.HasSuffix(fake.prompts[0], "Text:\nSkoda Octavia\nvRS\n") {
		t.Fatalf("unexpected prompts %q", fake.prompts)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != "fake:ok" {
		t.Fatalf("unexpected observations %v", obs.outcomes)
	}
}

func TestVehicleNameRetriesRetryableStatus(t *testing.T) {
	fake := &completerFake{
		errs:    []error{&HTTPStatusError{StatusCode: 503}, &HTTPStatusError{StatusCode: 429}},
		replies: []string{"", "", "Peugeot 208"},
	}
	n := NewVehicleNamer(fake, fastExecutor(), nil)

	got, err := n.VehicleName(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Peugeot 208" || len(fake.prompts) != 3 {
		t.Fatalf("got %q after %d calls", got, len(fake.prompts))
	}
}

func TestVehicleNamePermanentFailure(t *testing.T) {
	fake := &completerFake{errs: []error{&HTTPStatusError{StatusCode: 401}}}
	obs := &observerFake{}
	n := NewVehicleNamer(fake, fastExecutor(), nil, WithObserver(obs))

	_, err := n.VehicleName(context.Background(), "x")
	if !errors.Is(err, common.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 401 {
		t.Fatalf("expected status cause, got %v", err)
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("expected no retry, got %d calls", len(fake.prompts))
	}
	if obs.outcomes[0] != "fake:error" {
		t.Fatalf("unexpected observations %v", obs.outcomes)
	}
}

func TestVehicleNameEmptyReply(t *testing.T) {
	obs := &observerFake{}
	n := NewVehicleNamer(&completerFake{replies: []string{" \n"}}, fastExecutor(), nil, WithObserver(obs))
	got, err := n.VehicleName(context.Background(), "x")
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
	if obs.outcomes[0] != "fake:empty" {
		t.Fatalf("unexpected observations %v", obs.outcomes)
	}
}

func TestVehicleNameRateLimitRespectsContext(t *testing.T) {
	fake := &completerFake{replies: []string{"A", "B"}}
	n := NewVehicleNamer(fake, fastExecutor(), nil, WithRateLimit(0.001), WithCallTimeout(20*time.Millisecond))

	if _, err := n.VehicleName(context.Background(), "x"); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}
	if _, err := n.VehicleName(context.Background(), "x"); err == nil {
		t.Fatalf("second call should fail waiting for the limiter")
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("limiter let %d calls through", len(fake.prompts))
	}
}
