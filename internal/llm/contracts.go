package llm

import "context"

// Completer sends one prompt to a remote model and returns the text reply.
// Providers own transport, auth and per-request timeouts.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// Observer receives one call per fallback attempt chain.
type Observer interface {
	ObserveFallback(provider, outcome string, seconds float64)
}

// Fallback outcomes reported to Observer.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)
