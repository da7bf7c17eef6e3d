package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/lease-extractor/internal/app"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/export"
	"github.com/joseph-ayodele/lease-extractor/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional; env vars win over it)")
		in         = flag.String("in", "", "directory of contracts to process (default from INPUT_DIR)")
		out        = flag.String("out", "", "directory for <name>.json records (default from OUTPUT_DIR)")
		text       = flag.String("text", "", "save raw text into this directory (enables SAVE_TEXT)")
		summary    = flag.String("summary", "", "write an XLSX summary workbook to this path")
		workers    = flag.Int("workers", 0, "documents processed in parallel (default from WORKERS)")
	)
	flag.Parse()

	cfg, err := common.LoadConfigFile(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *in != "" {
		cfg.Paths.InputDir = *in
	}
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}
	if *text != "" {
		cfg.Paths.TextDir = *text
		cfg.Paths.SaveText = true
	}
	if *summary != "" {
		cfg.Pipeline.SummaryXLSX = *summary
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger("lease-batch", cfg.LogLevel)
	logger.Info("config loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}()

	driver := pipeline.NewDriver(a.Processor, pipeline.DriverConfig{
		InputDir:        cfg.Paths.InputDir,
		Workers:         cfg.Pipeline.Workers,
		DocumentTimeout: cfg.Pipeline.DocumentTimeout,
	}, logger)

	sum, runErr := driver.Run(ctx)

	if cfg.Pipeline.SummaryXLSX != "" && len(sum.Results) > 0 {
		if err := writeSummary(cfg.Pipeline.SummaryXLSX, sum, export.NewWriter(logger)); err != nil {
			logger.Error("failed to write summary workbook", "path", cfg.Pipeline.SummaryXLSX, "error", err)
		}
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", sum.Dir.Matched)
	fmt.Printf("- Records written: %d\n", sum.Succeeded)
	fmt.Printf("- Failures: %d\n", sum.Failed)
	fmt.Printf("- Output: %s\n", cfg.Paths.OutputDir)
	for _, r := range sum.Results {
		if r.Err != nil {
			fmt.Printf("  ! %s: %v\n", r.Source, r.Err)
		}
	}

	if runErr != nil {
		logger.Error("batch run failed", "error", runErr)
		os.Exit(1)
	}
}

func writeSummary(path string, sum pipeline.Summary, xw *export.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sum.WriteWorkbook(f, xw); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
