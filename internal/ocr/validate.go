package ocr

import (
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

var pdfcpuOnce sync.Once

// pdfcpuConfig returns a relaxed configuration without touching config.yml.
// pdfcpu otherwise writes one under the user config dir and calls os.Exit
// when it cannot.
func pdfcpuConfig() *model.Configuration {
	pdfcpuOnce.Do(func() { model.ConfigPath = "disable" })
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Validate checks path is a structurally readable PDF. Relaxed mode accepts
// the small PDF format violations common in scanner output.
func Validate(path string) error {
	if err := api.ValidateFile(path, pdfcpuConfig()); err != nil {
		return common.KindError(common.ErrUnreadableDocument, "validate "+path, err)
	}
	return nil
}

// PageCountFile counts the pages of the PDF at path.
func PageCountFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	n, err := api.PageCount(f, pdfcpuConfig())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu: %w", err)
	}
	return n, nil
}
