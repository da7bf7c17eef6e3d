package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/app"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
	"github.com/joseph-ayodele/lease-extractor/internal/sanitize"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		timeout    = flag.Duration("timeout", time.Minute, "overall deadline, fallback call included")
	)
	flag.Parse()

	cfg, err := common.LoadConfigFile(*configPath)
	logger := common.NewLoggerTo(os.Stderr, "filter", "info")
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	logger = common.NewLoggerTo(os.Stderr, "filter", cfg.LogLevel)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "filter [-config file.yaml] <extracted.txt>")
		os.Exit(2)
	}
	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Error("read input", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fallback, closeFn, err := app.NewFallback(ctx, cfg.LLM, logger, nil)
	if err != nil {
		logger.Error("build fallback", "error", err)
		os.Exit(1)
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	outcome := app.NewExtractor(cfg.LLM, fallback, logger).ExtractDetailed(ctx, sanitize.Sanitize(string(raw)))
	if err := fields.Validate(outcome.Record); err != nil {
		logger.Error("record failed validation", "error", err)
		os.Exit(1)
	}
	b, err := outcome.Record.Encode()
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
	logger.Info("record extracted", "vehicle_source", outcome.VehicleSource)
	if _, err := os.Stdout.Write(b); err != nil {
		os.Exit(1)
	}
}
