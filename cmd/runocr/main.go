package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/ocr"
)

func main() {
	var (
		validate = flag.Bool("validate", false, "run PDF structure validation before acquiring text")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	logger := common.NewLoggerTo(os.Stderr, "runocr", cfg.LogLevel)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [-validate] <file.pdf|file.txt>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *validate {
		if err := ocr.Validate(path); err != nil {
			logger.Error("pdf validation failed", "path", path, "error", err)
			os.Exit(1)
		}
		logger.Info("pdf validation OK", "path", path)
	}

	acq, err := ocr.NewAcquirer(ocr.ConfigFrom(cfg.OCR), logger)
	if err != nil {
		logger.Error("build acquirer", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := acq.Acquire(ctx, path)
	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "code", common.ErrorCode(err), "error", err, "duration_ms", res.Duration.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	fmt.Print(res.Text)
}
