package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
	"github.com/joseph-ayodele/lease-extractor/internal/sanitize"
)

// Result is the outcome of one document.
type Result struct {
	Source        string
	Status        constants.DocumentStatus
	Method        string
	Pages         int
	Record        fields.Record
	VehicleSource string
	OutputPath    string
	TextPath      string
	Duration      time.Duration
	Err           error
}

// Processor coordinates text acquisition then field extraction for one file.
type Processor struct {
	acquirer  TextAcquirer
	extractor FieldExtractor
	store     RecordStore
	metrics   Recorder
	saveText  bool
	logger    *slog.Logger
}

type ProcessorOption func(*Processor)

// WithSaveText keeps the raw acquired text next to the records.
func WithSaveText(on bool) ProcessorOption {
	return func(p *Processor) { p.saveText = on }
}

func WithRecorder(r Recorder) ProcessorOption {
	return func(p *Processor) {
		if r != nil {
			p.metrics = r
		}
	}
}

func NewProcessor(acquirer TextAcquirer, extractor FieldExtractor, store RecordStore, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		acquirer:  acquirer,
		extractor: extractor,
		store:     store,
		metrics:   nopRecorder{},
		logger:    logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessFile acquires text for path, extracts a record and writes it. The
// returned error is the same one carried in Result.Err.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ctx = common.WithDocument(ctx, constants.BaseName(path))
	log := common.LoggerFromContext(ctx, p.logger)

	res := Result{Source: path, Status: constants.DocumentStatusFailed}
	p.metrics.StartDocument()
	defer func() {
		res.Duration = time.Since(start)
		found := -1
		if res.Status == constants.DocumentStatusOK {
			found = foundFields(res.Record)
		}
		p.metrics.FinishDocument(string(res.Status), res.Method, res.Duration, found)
	}()

	if err := p.store.Claim(path); err != nil {
		log.Error("pipeline.output.taken", "path", path, "error", err)
		res.Err = err
		return res, err
	}

	// 1) text
	acq, err := p.acquirer.Acquire(ctx, path)
	res.Method = acq.Method
	res.Pages = acq.Pages
	if err != nil {
		log.Error("pipeline.acquire.failed", "path", path, "code", common.ErrorCode(err), "error", err)
		res.Err = err
		return res, err
	}
	log.Info("pipeline.acquire.ok",
		"method", acq.Method,
		"pages", acq.Pages,
		"chars", len(acq.Text),
		"elapsed_ms", acq.Duration.Milliseconds(),
	)

	if p.saveText {
		textPath, err := p.store.WriteText(path, acq.Text)
		if err != nil {
			// raw text is a debugging aid; the record is still produced
			log.Warn("pipeline.text.save_failed", "error", err)
		}
		res.TextPath = textPath
	}

	// 2) fields
	outcome := p.extractor.ExtractDetailed(ctx, sanitize.Sanitize(acq.Text))
	res.Record = outcome.Record
	res.VehicleSource = outcome.VehicleSource

	if err := fields.Validate(res.Record); err != nil {
		log.Error("pipeline.record.invalid", "error", err)
		res.Err = err
		return res, err
	}

	// 3) output
	out, err := p.store.WriteRecord(path, res.Record)
	if err != nil {
		err = common.NewAppError("OUTPUT_FAILED", "write record", err)
		log.Error("pipeline.record.write_failed", "error", err)
		res.Err = err
		return res, err
	}
	res.OutputPath = out
	res.Status = constants.DocumentStatusOK

	log.Info("pipeline.document.ok",
		"output", out,
		"vehicle_name", res.Record.VehicleName,
		"vehicle_source", res.VehicleSource,
		"fields_found", foundFields(res.Record),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func foundFields(rec fields.Record) int {
	n := 0
	for _, v := range rec.Values() {
		if v != constants.NotAvailable {
			n++
		}
	}
	return n
}
