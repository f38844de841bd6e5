package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"docextract/internal/contextutil"
)

// PDFSource reads a PDF's text layer with pdftotext. When no page has
// text it rasterizes the document with pdftoppm and runs tesseract on
// each page image.
type PDFSource struct {
	Path string

	cfg       Config
	runner    Runner
	pageCount func(path string) (int, error)
}

// NewPDFSource creates a source for the PDF at path.
func NewPDFSource(path string, cfg Config) *PDFSource {
	return &PDFSource{
		Path:      path,
		cfg:       cfg.withDefaults(),
		runner:    execRunner{},
		pageCount: api.PageCountFile,
	}
}

// Pages returns the text of each page, OCR'd if the text layer is empty.
func (s *PDFSource) Pages(ctx context.Context) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	count, err := s.pageCount(s.Path)
	if err != nil {
		return nil, fmt.Errorf("inspect pdf: %w", err)
	}

	pages, err := s.textLayer(ctx)
	if err != nil {
		return nil, err
	}
	if len(pages) > count {
		pages = pages[:count]
	}
	if !blank(pages) {
		logger.DebugContext(ctx, "pdf text layer read", "path", s.Path, "pages", len(pages))
		return pages, nil
	}

	logger.InfoContext(ctx, "pdf has no text layer, running ocr", "path", s.Path, "pages", count)
	return s.ocr(ctx)
}

func (s *PDFSource) textLayer(ctx context.Context) ([]string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := s.runner.Run(ctx, s.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", s.Path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return splitPages(string(out)), nil
}

func (s *PDFSource) ocr(ctx context.Context) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	tmpDir, err := os.MkdirTemp("", "docextract-ocr-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.WarnContext(ctx, "failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	if _, errb, err := s.runner.Run(ctx, s.cfg.Pdftoppm, "-r", strconv.Itoa(s.cfg.DPI), "-png", s.Path, prefix); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	// prefix-1.png, prefix-2.png, ... zero-padded to a common width
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	pages := make([]string, 0, len(images))
	var lastErr error
	failed := 0
	for _, img := range images {
		// tesseract <file> stdout -l <lang>
		out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, img, "stdout", "-l", s.cfg.Lang)
		if err != nil {
			logger.WarnContext(ctx, "ocr failed for page", "image", filepath.Base(img), "error", err, "stderr", truncate(string(errb), 512))
			lastErr = err
			failed++
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimRight(string(out), "\f\n "))
	}
	if failed == len(images) {
		return nil, fmt.Errorf("tesseract: %w", lastErr)
	}
	return pages, nil
}
