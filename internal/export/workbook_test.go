package export

import (
	"bytes"
	"testing"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
)

func TestWriteWorkbook(t *testing.T) {
	rec := fields.NewRecord()
	rec.VehicleName = "Ford Focus Titanium"
	rec.DownPayment = "500.00"

	var buf bytes.Buffer
	err := NewWriter(nil).Write(&buf,
		[]Row{{Source: "a.pdf", Method: constants.MethodPDFText, Record: rec}},
		[]Failure{{Source: "b.pdf", Code: "OCR_FAILED", Error: "tesseract: exit status 1"}},
	)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Records")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "source" || rows[0][2] != constants.FieldVehicleName || len(rows[0]) != 2+len(constants.FieldOrder) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "a.pdf" || rows[1][2] != "Ford Focus Titanium" || rows[1][4] != "500.00" {
		t.Fatalf("unexpected record row %v", rows[1])
	}
	if rows[1][3] != constants.NotAvailable {
		t.Fatalf("missing field should carry the sentinel, got %q", rows[1][3])
	}

	failures, err := f.GetRows("Failures")
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 2 || failures[1][1] != "OCR_FAILED" {
		t.Fatalf("unexpected failures sheet %v", failures)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
	// multi-byte characters count once and are never split
	got := truncate("contracts/£££££.pdf", 13)
	if got != "contracts/££…" || !utf8.ValidString(got) {
		t.Fatalf("truncate = %q", got)
	}
}
