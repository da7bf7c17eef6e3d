// Package ocr turns an input document into raw text: the embedded text layer
// when a PDF has one, page-by-page OCR when it does not.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
)

// Text sources and engines selectable from configuration.
const (
	SourceNative    = "native"
	SourcePdftotext = "pdftotext"
	EngineTesseract = "tesseract"
	EngineGosseract = "gosseract"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TextSource string // native | pdftotext
	Engine     string // tesseract | gosseract

	Lang        string // default "eng"
	DPI         int    // rasterization DPI for scanned PDFs, default 300
	PSM         int    // e.g., 6 is good for uniform block of text
	OEM         int    // 1 = LSTM; leave 0 to use default
	TessdataDir string

	Preprocess  bool
	PageTimeout time.Duration // 0 = caller's deadline only
}

// ConfigFrom maps application settings onto the acquirer.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		TextSource:  c.TextSource,
		Engine:      c.Engine,
		Lang:        c.Lang,
		DPI:         c.DPI,
		PSM:         c.PSM,
		OEM:         c.OEM,
		TessdataDir: c.TessdataDir,
		Preprocess:  c.Preprocess,
		PageTimeout: c.PageTimeout,
	}
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TEXT
	Method     string // constants.MethodPDFText | MethodPDFOCR | MethodTextFile
	Duration   time.Duration
}

// Acquirer produces the raw text of one document.
type Acquirer struct {
	cfg    Config
	runner Runner
	text   PageTextSource
	raster Rasterizer
	engine Engine
	pre    Preprocessor
	logger *slog.Logger
}

type Option func(*Acquirer)

func WithRunner(r Runner) Option { return func(a *Acquirer) { a.runner = r } }
func WithTextSource(s PageTextSource) Option { return func(a *Acquirer) { a.text = s } }
func WithRasterizer(r Rasterizer) Option { return func(a *Acquirer) { a.raster = r } }
func WithEngine(e Engine) Option { return func(a *Acquirer) { a.engine = e } }
func WithPreprocessor(p Preprocessor) Option { return func(a *Acquirer) { a.pre = p } }

// NewAcquirer fills every collaborator not supplied through opts from cfg.
func NewAcquirer(cfg Config, logger *slog.Logger, opts ...Option) (*Acquirer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}

	a := &Acquirer{cfg: cfg, logger: logger}
	for _, o := range opts {
		o(a)
	}
	if a.runner == nil {
		a.runner = ExecRunner{Logger: logger}
	}

	if a.text == nil {
		switch cfg.TextSource {
		case "", SourceNative:
			a.text = NativeTextSource{}
		case SourcePdftotext:
			a.text = &PdftotextSource{Bin: cfg.Pdftotext, Runner: a.runner}
		default:
			return nil, fmt.Errorf("unknown text source %q", cfg.TextSource)
		}
	}
	if a.raster == nil {
		a.raster = &PdftoppmRasterizer{Bin: cfg.Pdftoppm, DPI: cfg.DPI, Runner: a.runner}
	}
	if a.engine == nil {
		switch cfg.Engine {
		case "", EngineTesseract:
			a.engine = &TesseractEngine{
				Bin:         cfg.Tesseract,
				Lang:        cfg.Lang,
				PSM:         cfg.PSM,
				OEM:         cfg.OEM,
				TessdataDir: cfg.TessdataDir,
				Runner:      a.runner,
			}
		case EngineGosseract:
			eng, err := NewGosseractEngine(cfg.Lang, cfg.PSM, cfg.TessdataDir)
			if err != nil {
				return nil, err
			}
			a.engine = eng
		default:
			return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
		}
	}
	if a.pre == nil && cfg.Preprocess {
		a.pre = ImagingPreprocessor{}
	}
	return a, nil
}

// Acquire picks a strategy based on file extension.
func (a *Acquirer) Acquire(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	log := common.LoggerFromContext(ctx, a.logger)
	ext := constants.NormalizeExt(filepath.Ext(path))
	log.Debug("ocr.acquire.start", "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = a.acquirePDF(ctx, log, path)
	case constants.TEXT:
		res, err = a.readText(path)
	default:
		err = common.KindError(common.ErrUnsupported, fmt.Sprintf("extension %q", ext), nil)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	log.Info("ocr.acquire.done",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (a *Acquirer) readText(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TEXT}, common.KindError(common.ErrUnreadableDocument, "read "+path, err)
	}
	return Result{
		Text:       string(b),
		Pages:      1,
		SourceType: constants.TEXT,
		Method:     constants.MethodTextFile,
	}, nil
}

func (a *Acquirer) acquirePDF(ctx context.Context, log *slog.Logger, path string) (Result, error) {
	res := Result{SourceType: constants.PDF}

	pages, err := a.text.PageTexts(ctx, path)
	if err != nil {
		return res, common.KindError(common.ErrUnreadableDocument, "read "+path, err)
	}
	embedded := strings.Join(pages, "\n")
	if strings.TrimSpace(embedded) != "" {
		log.Info("ocr.acquire.text_based", "pages", len(pages))
		res.Text = embedded
		res.Pages = len(pages)
		res.Method = constants.MethodPDFText
		return res, nil
	}

	log.Info("ocr.acquire.scanned", "pages", len(pages))
	res.Method = constants.MethodPDFOCR

	images, err := a.raster.Rasterize(ctx, path)
	if err != nil {
		return res, common.KindError(common.ErrOCR, "rasterize "+path, err)
	}
	texts := make([]string, 0, len(images))
	for _, img := range images {
		txt, err := a.recognizePage(ctx, img)
		if err != nil {
			return res, common.KindError(common.ErrOCR, fmt.Sprintf("page %d of %s", img.Page, path), err)
		}
		log.Debug("ocr.page.done", "page", img.Page, "chars", len(txt))
		texts = append(texts, txt)
	}
	res.Text = strings.Join(texts, "\n")
	res.Pages = len(images)
	return res, nil
}

func (a *Acquirer) recognizePage(ctx context.Context, img PageImage) (string, error) {
	if a.cfg.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.PageTimeout)
		defer cancel()
	}
	data := img.PNG
	if a.pre != nil {
		prepared, err := a.pre.Prepare(data)
		if err != nil {
			return "", fmt.Errorf("preprocess: %w", err)
		}
		data = prepared
	}
	return a.engine.Recognize(ctx, data)
}
