// Package pipeline runs contracts through acquisition, sanitizing, field
// extraction and output, one document at a time or on a bounded pool.
package pipeline

import (
	"context"
	"time"

	"github.com/joseph-ayodele/lease-extractor/internal/fields"
	"github.com/joseph-ayodele/lease-extractor/internal/ocr"
)

// TextAcquirer is stage one: file -> raw text.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (ocr.Result, error)
}

// FieldExtractor is stage two: sanitized text -> record.
type FieldExtractor interface {
	ExtractDetailed(ctx context.Context, text string) fields.Outcome
}

// RecordStore persists per-document artifacts. Claim is called before any
// work on source and fails when another input already owns its output name.
type RecordStore interface {
	Claim(source string) error
	WriteRecord(source string, rec fields.Record) (string, error)
	WriteText(source, text string) (string, error)
}

// Recorder receives per-document metrics.
type Recorder interface {
	StartDocument()
	FinishDocument(status, method string, duration time.Duration, found int)
}

type nopRecorder struct{}

func (nopRecorder) StartDocument() {}
func (nopRecorder) FinishDocument(string, string, time.Duration, int) {}
