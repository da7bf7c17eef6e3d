package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/llm"
	"github.com/joseph-ayodele/lease-extractor/internal/metrics"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := common.DefaultConfig()
	cfg.Paths.InputDir = filepath.Join(dir, "contracts")
	cfg.Paths.OutputDir = filepath.Join(dir, "filtered_output")
	cfg.Paths.TextDir = filepath.Join(dir, "extracted_text")
	return cfg
}

func TestNewBuildsLocalStack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.SaveText = true

	a, err := New(context.Background(), cfg, nil, metrics.NewPipelineMetrics("test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Processor == nil || a.Acquirer == nil || a.Extractor == nil {
		t.Fatalf("incomplete app %+v", a)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.TextDir} {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			t.Fatalf("%s not created: %v", dir, err)
		}
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.OCR.Engine = "abbyy"
	if _, err := New(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}

func TestNewFallbackByProvider(t *testing.T) {
	ctx := context.Background()
	cfg := common.DefaultConfig().LLM

	fb, closeFn, err := NewFallback(ctx, cfg, nil, nil)
	if err != nil || fb != nil || closeFn != nil {
		t.Fatalf("provider none: got %v, %v", fb, err)
	}

	cfg.Provider = common.ProviderOpenAI
	cfg.APIKey = "sk-test"
	fb, _, err = NewFallback(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := fb.(*llm.VehicleNamer); !ok {
		t.Fatalf("openai fallback is %T", fb)
	}

	cfg.Provider = "acme"
	if _, _, err := NewFallback(ctx, cfg, nil, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}

	cfg.Provider = common.ProviderVertex
	cfg.VertexProject = ""
	if _, _, err := NewFallback(ctx, cfg, nil, nil); err == nil {
		t.Fatalf("expected error for vertex without project")
	}
}
