//go:build !gosseract

package ocr

import (
	"errors"
	"testing"
)

func TestGosseractEngineNeedsBuildTag(t *testing.T) {
	if _, err := NewGosseractEngine("eng", 6, ""); !errors.Is(err, ErrGosseractUnavailable) {
		t.Fatalf("expected ErrGosseractUnavailable, got %v", err)
	}
	if _, err := NewAcquirer(Config{Engine: EngineGosseract}, nil); !errors.Is(err, ErrGosseractUnavailable) {
		t.Fatalf("NewAcquirer should surface the missing engine, got %v", err)
	}
}
