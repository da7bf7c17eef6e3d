package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PdftoppmRasterizer renders pages one at a time with poppler's pdftoppm.
type PdftoppmRasterizer struct {
	Bin    string
	DPI    int
	Runner Runner

	// PageCount defaults to PageCountFile.
	PageCount func(path string) (int, error)
}

func (r *PdftoppmRasterizer) Rasterize(ctx context.Context, path string) ([]PageImage, error) {
	count := r.PageCount
	if count == nil {
		count = PageCountFile
	}
	n, err := count(path)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "lease-pp-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	images := make([]PageImage, 0, n)
	for page := 1; page <= n; page++ {
		prefix := filepath.Join(tmpDir, "page-"+strconv.Itoa(page))
		pg := strconv.Itoa(page)
		// pdftoppm -r 300 -png -f N -l N -singlefile <in.pdf> <tmp/page-N>
		_, errb, err := r.Runner.Run(ctx, r.Bin,
			"-r", strconv.Itoa(r.DPI), "-png", "-f", pg, "-l", pg, "-singlefile", path, prefix)
		if err != nil {
			return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, truncate(string(errb), 512))
		}
		png, err := os.ReadFile(prefix + ".png")
		if err != nil {
			return nil, fmt.Errorf("pdftoppm page %d produced no image: %w", page, err)
		}
		images = append(images, PageImage{Page: page, PNG: png})
	}
	return images, nil
}
