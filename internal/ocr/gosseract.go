//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine links libtesseract directly. It is built only with
// -tags gosseract, which needs cgo plus the tesseract and leptonica headers.
// A client is created per page, so one engine is safe for concurrent documents.
type GosseractEngine struct {
	lang        string
	psm         int
	tessdataDir string
}

func NewGosseractEngine(lang string, psm int, tessdataDir string) (Engine, error) {
	return &GosseractEngine{lang: lang, psm: psm, tessdataDir: tessdataDir}, nil
}

func (e *GosseractEngine) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(e.lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if e.psm > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(e.psm)); err != nil {
			return "", fmt.Errorf("set psm: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract: %w", err)
	}
	return text, nil
}
