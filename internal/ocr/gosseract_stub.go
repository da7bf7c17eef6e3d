//go:build !gosseract

package ocr

import "errors"

// ErrGosseractUnavailable is returned when the binary was built without the
// gosseract tag.
var ErrGosseractUnavailable = errors.New("ocr engine gosseract is not compiled in; rebuild with -tags gosseract or use tesseract")

func NewGosseractEngine(string, int, string) (Engine, error) {
	return nil, ErrGosseractUnavailable
}
