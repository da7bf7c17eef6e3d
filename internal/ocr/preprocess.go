package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ImagingPreprocessor converts a page to grayscale and lifts contrast, which
// helps tesseract on faint scans.
type ImagingPreprocessor struct {
	Contrast float64 // percentage, default 20
	Sharpen  float64 // gaussian sigma, 0 disables
}

func (p ImagingPreprocessor) Prepare(img []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	contrast := p.Contrast
	if contrast == 0 {
		contrast = 20
	}
	out := imaging.AdjustContrast(imaging.Grayscale(src), contrast)
	if p.Sharpen > 0 {
		out = imaging.Sharpen(out, p.Sharpen)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}
	return buf.Bytes(), nil
}
