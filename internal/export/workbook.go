// Package export renders a batch summary as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
)

const (
	recordsSheet  = "Records"
	failuresSheet = "Failures"
)

// Row is one processed document.
type Row struct {
	Source string
	Method string
	Record fields.Record
}

// Failure is one document that produced no record.
type Failure struct {
	Source string
	Code   string
	Error  string
}

type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write renders rows and failures to w. Records columns follow the record's
// field order, preceded by source file and acquisition method.
func (x *Writer) Write(w io.Writer, rows []Row, failures []Failure) error {
	start := time.Now()
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	// the default sheet becomes Records
	if err := f.SetSheetName(f.GetSheetName(0), recordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(failuresSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	headers := append([]string{"source", "method"}, constants.FieldOrder...)
	if err := writeRow(f, recordsSheet, 1, toAny(headers)); err != nil {
		return err
	}
	for i, r := range rows {
		values := r.Record.Values()
		cells := make([]any, 0, len(headers))
		cells = append(cells, r.Source, r.Method)
		for _, name := range constants.FieldOrder {
			if name == constants.FieldNotInDocument {
				cells = append(cells, strings.Join(r.Record.NotAvailableInDocument, "; "))
				continue
			}
			cells = append(cells, values[name])
		}
		if err := writeRow(f, recordsSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := writeRow(f, failuresSheet, 1, []any{"source", "code", "error"}); err != nil {
		return err
	}
	for i, fl := range failures {
		if err := writeRow(f, failuresSheet, i+2, []any{fl.Source, fl.Code, truncate(fl.Error, 500)}); err != nil {
			return err
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(recordsSheet, "A", "A", 32) // source
	_ = f.SetColWidth(recordsSheet, "B", "B", 12) // method
	_ = f.SetColWidth(recordsSheet, "C", "C", 36) // vehicle
	_ = f.SetColWidth(failuresSheet, "A", "A", 32)
	_ = f.SetColWidth(failuresSheet, "C", "C", 80)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	x.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"failures", len(failures),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// truncate keeps at most n characters, marking a cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
