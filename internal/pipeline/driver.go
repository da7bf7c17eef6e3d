package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/export"
	"github.com/joseph-ayodele/lease-extractor/internal/ingest"
)

// DocumentProcessor is implemented by *Processor.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string) (Result, error)
}

type DriverConfig struct {
	InputDir        string
	Workers         int           // <= 1 runs sequentially in enumeration order
	DocumentTimeout time.Duration // 0 = no per-document bound
}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID     string
	Dir       ingest.DirStats
	Succeeded uint32
	Failed    uint32
	Results   []Result // enumeration order
	Duration  time.Duration
}

// Driver runs every supported file in InputDir through the processor.
type Driver struct {
	proc   DocumentProcessor
	cfg    DriverConfig
	logger *slog.Logger
}

func NewDriver(proc DocumentProcessor, cfg DriverConfig, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Driver{proc: proc, cfg: cfg, logger: logger}
}

// Run processes the batch. Per-document failures are counted in the summary
// and never stop the run; an error is returned only when the input directory
// cannot be listed or ctx ends.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.New().String()}
	ctx = common.WithRunID(ctx, sum.RunID)
	log := common.LoggerFromContext(ctx, d.logger)

	scan, err := ingest.ScanDirectory(d.cfg.InputDir)
	stats := scan.Stats
	sum.Dir = stats
	if err != nil {
		log.Error("pipeline.run.scan_failed", "dir", d.cfg.InputDir, "error", err)
		return sum, common.KindError(common.ErrInvalidInput, "list input directory", err)
	}
	log.Info("pipeline.run.start",
		"dir", d.cfg.InputDir,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"workers", d.cfg.Workers,
	)

	paths := scan.Paths
	results := make([]Result, len(paths))
	processed := make([]bool, len(paths))
	if d.cfg.Workers == 1 {
		for i, p := range paths {
			if ctx.Err() != nil {
				break
			}
			if owner, dup := scan.Owner(p); dup {
				results[i], processed[i] = d.duplicate(ctx, p, owner), true
				continue
			}
			results[i] = d.processOne(ctx, p)
			processed[i] = true
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.cfg.Workers)
		for i, p := range paths {
			if gctx.Err() != nil {
				break
			}
			if owner, dup := scan.Owner(p); dup {
				results[i], processed[i] = d.duplicate(ctx, p, owner), true
				continue
			}
			g.Go(func() error {
				results[i] = d.processOne(gctx, p)
				processed[i] = true
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, r := range results {
		if !processed[i] {
			continue
		}
		sum.Results = append(sum.Results, r)
		if r.Status == constants.DocumentStatusOK {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}
	sum.Duration = time.Since(start)

	log.Info("pipeline.run.done",
		"matched", stats.Matched,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"elapsed_ms", sum.Duration.Milliseconds(),
	)
	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("run interrupted: %w", err)
	}
	return sum, nil
}

func (d *Driver) processOne(ctx context.Context, path string) Result {
	if d.cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.DocumentTimeout)
		defer cancel()
	}
	res, err := d.processRecovered(ctx, path)
	if err != nil {
		res.Source = path
		res.Status = constants.DocumentStatusFailed
		res.Err = err
		common.LoggerFromContext(ctx, d.logger).Warn("pipeline.document.failed",
			"path", path,
			"code", common.ErrorCode(err),
			"error", err,
		)
	}
	return res
}

// duplicate fails path without processing it: owner writes the same output.
func (d *Driver) duplicate(ctx context.Context, path, owner string) Result {
	err := common.KindError(common.ErrDuplicateOutput,
		fmt.Sprintf("%s writes the same record as %s", filepath.Base(path), filepath.Base(owner)), nil)
	common.LoggerFromContext(ctx, d.logger).Warn("pipeline.document.duplicate",
		"path", path,
		"owner", owner,
	)
	return Result{Source: path, Status: constants.DocumentStatusFailed, Err: err}
}

// processRecovered turns a panic inside one document into that document's
// failure so the rest of the batch still runs.
func (d *Driver) processRecovered(ctx context.Context, path string) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			common.LoggerFromContext(ctx, d.logger).Error("pipeline.document.panic",
				"path", path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			res = Result{}
			err = common.KindError(common.ErrInternal, fmt.Sprintf("processing %s panicked: %v", path, rec), nil)
		}
	}()
	return d.proc.ProcessFile(ctx, path)
}

// WriteWorkbook renders the summary as an XLSX workbook.
func (s Summary) WriteWorkbook(w io.Writer, xw *export.Writer) error {
	var (
		rows     []export.Row
		failures []export.Failure
	)
	for _, r := range s.Results {
		name := filepath.Base(r.Source)
		if r.Status == constants.DocumentStatusOK {
			rows = append(rows, export.Row{Source: name, Method: r.Method, Record: r.Record})
			continue
		}
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		failures = append(failures, export.Failure{Source: name, Code: common.ErrorCode(r.Err), Error: msg})
	}
	return xw.Write(w, rows, failures)
}
