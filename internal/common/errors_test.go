package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestKindErrorKeepsBothChains(t *testing.T) {
	cause := errors.New("exit status 1")
	err := KindError(ErrOCR, "page 2", cause)
	if !errors.Is(err, ErrOCR) {
		t.Fatalf("expected ErrOCR in chain: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain: %v", err)
	}
	if ErrorCode(err) != "OCR_FAILED" {
		t.Fatalf("unexpected code %q", ErrorCode(err))
	}
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewAppError("CONFIG_ERROR", "bad", ErrInvalidInput), "CONFIG_ERROR"},
		{WrapError(ErrUnreadableDocument, "open"), "UNREADABLE_DOCUMENT"},
		{KindError(ErrUnsupported, "x.doc", nil), "UNSUPPORTED"},
		{KindError(ErrDuplicateOutput, "deal.txt", nil), "DUPLICATE_OUTPUT"},
		{KindError(ErrInternal, "panic", nil), "INTERNAL"},
		{errors.New("boom"), "INTERNAL"},
	}
	for _, tc := range cases {
		if got := ErrorCode(tc.err); got != tc.want {
			t.Fatalf("ErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerTo(&buf, "test", "debug")

	ctx := WithDocument(WithRunID(context.Background(), "run-1"), "a.pdf")
	LoggerFromContext(ctx, base).Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["run_id"] != "run-1" || line["doc"] != "a.pdf" || line["service"] != "test" {
		t.Fatalf("unexpected log attrs: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("WARNING") != slog.LevelWarn {
		t.Fatalf("expected warn")
	}
	if ParseLevel("") != slog.LevelInfo {
		t.Fatalf("expected info default")
	}
}
