// Package app wires configuration into the pipeline components every binary
// shares.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
	"github.com/joseph-ayodele/lease-extractor/internal/llm"
	"github.com/joseph-ayodele/lease-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/lease-extractor/internal/llm/vertex"
	"github.com/joseph-ayodele/lease-extractor/internal/metrics"
	"github.com/joseph-ayodele/lease-extractor/internal/ocr"
	"github.com/joseph-ayodele/lease-extractor/internal/output"
	"github.com/joseph-ayodele/lease-extractor/internal/pipeline"
	"github.com/joseph-ayodele/lease-extractor/internal/resilience"
	"github.com/joseph-ayodele/lease-extractor/internal/vehicle"
)

type App struct {
	Config    *common.Config
	Logger    *slog.Logger
	Metrics   *metrics.PipelineMetrics
	Acquirer  *ocr.Acquirer
	Extractor *fields.Extractor
	Store     *output.Store
	Processor *pipeline.Processor

	closers []func() error
}

// New builds the processor stack from cfg. Output directories are created.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger, m *metrics.PipelineMetrics) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: m}

	acq, err := ocr.NewAcquirer(ocr.ConfigFrom(cfg.OCR), logger)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	a.Acquirer = acq

	var observer llm.Observer
	if m != nil {
		observer = m
	}
	fallback, closeFn, err := NewFallback(ctx, cfg.LLM, logger, observer)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		a.closers = append(a.closers, closeFn)
	}
	a.Extractor = NewExtractor(cfg.LLM, fallback, logger)

	textDir := ""
	if cfg.Paths.SaveText {
		textDir = cfg.Paths.TextDir
	}
	a.Store = output.NewStore(cfg.Paths.OutputDir, textDir, logger)
	if err := a.Store.Prepare(); err != nil {
		_ = a.Close()
		return nil, err
	}

	opts := []pipeline.ProcessorOption{pipeline.WithSaveText(cfg.Paths.SaveText)}
	if m != nil {
		opts = append(opts, pipeline.WithRecorder(m))
	}
	a.Processor = pipeline.NewProcessor(acq, a.Extractor, a.Store, logger, opts...)
	return a, nil
}

// NewExtractor builds the field extractor; fallback may be nil.
func NewExtractor(cfg common.LLMConfig, fallback fields.VehicleNameFallback, logger *slog.Logger) *fields.Extractor {
	return fields.NewExtractor(vehicle.NewLocator(), fallback, cfg.PromptChars, logger)
}

// NewFallback returns the remote vehicle-name fallback for cfg.Provider, or a
// nil fallback for "none". The returned close func may be nil.
func NewFallback(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger, observer llm.Observer) (fields.VehicleNameFallback, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		client  llm.Completer
		closeFn func() error
	)
	switch cfg.Provider {
	case "", common.ProviderNone:
		logger.Info("llm.fallback.disabled")
		return nil, nil, nil
	case common.ProviderOpenAI:
		client = openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
	case common.ProviderVertex:
		vc, err := vertex.NewClient(ctx, vertex.Config{
			ProjectID:   cfg.VertexProject,
			Region:      cfg.VertexRegion,
			Model:       cfg.VertexModel,
			Temperature: cfg.Temperature,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("vertex: %w", err)
		}
		client = vc
		closeFn = vc.Close
	default:
		return nil, nil, common.KindError(common.ErrInvalidInput, fmt.Sprintf("llm provider %q", cfg.Provider), nil)
	}

	rc := resilience.FromLLMConfig(cfg)
	exec := resilience.NewExecutor(rc, logger)

	opts := []llm.NamerOption{
		llm.WithRateLimit(cfg.RatePerSec),
		llm.WithCallTimeout(rc.CallBudget(cfg.Timeout)),
	}
	if observer != nil {
		opts = append(opts, llm.WithObserver(observer))
	}
	logger.Info("llm.fallback.enabled", "provider", client.Provider())
	return llm.NewVehicleNamer(client, exec, logger, opts...), closeFn, nil
}

// Close releases remote clients.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
