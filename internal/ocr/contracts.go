package ocr

import "context"

// PageTextSource returns the embedded text of every page in page order. Pages
// without a text layer yield "".
type PageTextSource interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// PageImage is one rendered page.
type PageImage struct {
	Page int // 1-based
	PNG  []byte
}

// Rasterizer renders every page of a PDF to an image, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) ([]PageImage, error)
}

// Engine recognizes text in a single page image.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// Preprocessor cleans up a page image before recognition.
type Preprocessor interface {
	Prepare(img []byte) ([]byte, error)
}
