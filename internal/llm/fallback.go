package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/resilience"
)

// VehicleNamer asks a remote model for the vehicle name. It satisfies the
// extractor's fallback interface. The reply is trimmed and otherwise returned
// untouched: whatever the model says, short of an error, becomes the value.
type VehicleNamer struct {
	client   Completer
	exec     *resilience.Executor
	limiter  *rate.Limiter
	timeout  time.Duration
	observer Observer
	logger   *slog.Logger
}

type NamerOption func(*VehicleNamer)

// WithRateLimit caps outgoing calls per second; <= 0 disables limiting.
func WithRateLimit(perSec float64) NamerOption {
	return func(n *VehicleNamer) {
		if perSec > 0 {
			n.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithCallTimeout bounds one attempt chain, retries included.
func WithCallTimeout(d time.Duration) NamerOption {
	return func(n *VehicleNamer) {
		if d > 0 {
			n.timeout = d
		}
	}
}

func WithObserver(o Observer) NamerOption {
	return func(n *VehicleNamer) { n.observer = o }
}

func NewVehicleNamer(client Completer, exec *resilience.Executor, logger *slog.Logger, opts ...NamerOption) *VehicleNamer {
	if logger == nil {
		logger = slog.Default()
	}
	if exec == nil {
		exec = resilience.NewExecutor(resilience.DefaultConfig(), logger)
	}
	n := &VehicleNamer{client: client, exec: exec, timeout: time.Minute, logger: logger}
	for _, o := range opts {
		o(n)
	}
	return n
}

// VehicleName expects text already cut to the prompt budget.
func (n *VehicleNamer) VehicleName(ctx context.Context, text string) (string, error) {
	log := common.LoggerFromContext(ctx, n.logger)
	provider := n.client.Provider()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	log.Info("llm.vehicle_name.start", "provider", provider, "text_len", len(text))

	prompt := BuildVehicleNamePrompt(text)
	var reply string
	err := n.exec.Execute(ctx, "llm."+provider+".vehicle_name", func(ctx context.Context) error {
		if n.limiter != nil {
			if err := n.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		out, err := n.client.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		reply = out
		return nil
	}, ClassifyError)

	elapsed := time.Since(start)
	if err != nil {
		n.observe(provider, OutcomeError, elapsed)
		log.Error("llm.vehicle_name.failed", "provider", provider, "error", err, "elapsed_ms", elapsed.Milliseconds())
		return "", common.KindError(common.ErrRemote, fmt.Sprintf("%s vehicle name", provider), err)
	}

	reply = strings.TrimSpace(reply)
	outcome := OutcomeOK
	if reply == "" {
		outcome = OutcomeEmpty
	}
	n.observe(provider, outcome, elapsed)
	log.Info("llm.vehicle_name.ok", "provider", provider, "reply", reply, "elapsed_ms", elapsed.Milliseconds())
	return reply, nil
}

func (n *VehicleNamer) observe(provider, outcome string, d time.Duration) {
	if n.observer != nil {
		n.observer.ObserveFallback(provider, outcome, d.Seconds())
	}
}
