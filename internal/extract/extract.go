// Package extract converts raw report bytes (PDF or image) into a sparse,
// partially-filled feature schema with a confidence estimate. Extraction is
// advisory: an unreadable document degrades to a zero-confidence result so
// the caller can fall back to manual entry.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/cardioscan/heartrisk/constants"
	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/schema"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// MinTextChars is the text-layer yield below which a PDF is treated as
	// scanned and sent through rasterization + OCR.
	MinTextChars int

	// MaxConcurrent bounds simultaneous OCR/rasterization work. Excess
	// requests wait until their deadline cancels them.
	MaxConcurrent int64
}

// Result is the outcome of one extraction.
type Result struct {
	Fields     schema.Partial
	Confidence float64
	Format     constants.Format
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Pages      int
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
	sem    *semaphore.Weighted
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
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
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 32
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Extractor{
		cfg:    cfg,
		runner: execRunner{},
		logger: logger,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

// Extract validates the file signature against the declared type, recovers
// the document text and parses it into a sparse schema.
func (e *Extractor) Extract(ctx context.Context, data []byte, declaredType string) (Result, error) {
	start := time.Now()

	format, err := sniffFormat(data, declaredType)
	if err != nil {
		return Result{}, err
	}

	// OCR and rasterization are the CPU-bound stages; hold a slot for the
	// whole document pass. Waiters are released by their request deadline.
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return Result{Format: format}, common.TimeoutError()
	}
	defer e.sem.Release(1)

	path, cleanup, err := writeTemp(data, format)
	if err != nil {
		return Result{Format: format}, common.ExtractionError("could not stage document", err)
	}
	defer cleanup()

	var res Result
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	}
	res.Format = format
	res.Duration = time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return res, common.TimeoutError()
		}
		return res, err
	}

	e.logger.Debug("extract.ok",
		"format", string(format),
		"method", res.Method,
		"pages", res.Pages,
		"fields", len(res.Fields.FieldsSet()),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// extractPDF tries the text layer first; a negligible yield means the PDF is
// a scan, so it falls back to rasterization + OCR. The caller never needs to
// know which kind of report it uploaded.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{}, common.ExtractionError("document could not be read", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512)))
	}

	text := Normalize(string(out))
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(string(out), "\f")

	if len(text) >= e.cfg.MinTextChars {
		return e.finish(text, "pdf-text", pages, nil), nil
	}

	e.logger.Debug("extract.pdf.text_layer_empty", "chars", len(text), "threshold", e.cfg.MinTextChars)
	return e.pdfToOCR(ctx, path)
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (Result, error) {
	tmpDir, err := os.MkdirTemp("", "hr-pp-*")
	if err != nil {
		return Result{}, common.ExtractionError("could not stage document", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("extract.tmpdir.remove_failed", "path", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return Result{}, common.ExtractionError("document could not be rendered", fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512)))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return Result{}, common.ExtractionError("document could not be rendered", fmt.Errorf("pdftoppm produced no images"))
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, common.TimeoutError()
			}
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return e.finish(Normalize(b.String()), "pdf-ocr", len(matches), warns), nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{}, common.ExtractionError("image could not be read", err)
	}
	return e.finish(Normalize(txt), "image-ocr", 1, nil), nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang> --psm 6
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang, "--psm", "6")
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// finish parses the recovered text. Empty text is not an error: it produces a
// zero-confidence result with no fields set.
func (e *Extractor) finish(text, method string, pages int, warns []string) Result {
	res := Result{Method: method, Pages: pages, Warnings: warns}
	if text == "" {
		return res
	}
	res.Fields = ParseFields(text)
	res.Confidence = aggregateConfidence(&res.Fields)
	return res
}

func writeTemp(data []byte, format constants.Format) (string, func(), error) {
	suffix := "*.png"
	if format == constants.PDF {
		suffix = "*.pdf"
	}
	f, err := os.CreateTemp("", "hr-doc-"+suffix)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
