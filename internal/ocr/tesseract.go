package ocr

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TesseractEngine runs the tesseract CLI on a temporary PNG.
type TesseractEngine struct {
	Bin         string
	Lang        string
	PSM         int
	OEM         int
	TessdataDir string
	Runner      Runner
}

func (e *TesseractEngine) Recognize(ctx context.Context, img []byte) (string, error) {
	f, err := os.CreateTemp("", "lease-ocr-*.png")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(f.Name()) }()
	if _, err := f.Write(img); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.Runner.Run(ctx, e.Bin, e.args(f.Name())...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}
	return string(out), nil
}

func (e *TesseractEngine) args(path string) []string {
	args := []string{path, "stdout", "-l", e.Lang}
	if e.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.PSM))
	}
	if e.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.OEM))
	}
	if e.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.TessdataDir)
	}
	return args
}
