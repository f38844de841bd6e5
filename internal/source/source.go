// Package source acquires raw per-page text from documents on disk or in memory.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by Open for file types it cannot read.
var ErrUnsupported = errors.New("unsupported document type")

// Source returns the raw text of a document, one string per page.
type Source interface {
	Pages(ctx context.Context) ([]string, error)
}

// Config holds the external tools used for PDF text and OCR.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // tesseract language, default "eng"
	DPI       int    // rasterization resolution for OCR, default 300
}

func (c Config) withDefaults() Config {
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Lang == "" {
		c.Lang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}

// Supported reports whether Open can read path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text", ".md", ".markdown":
		return true
	}
	return false
}

// Open picks a source for path by file extension.
func Open(path string, cfg Config) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFSource(path, cfg), nil
	case ".txt", ".text":
		return &FileSource{Path: path}, nil
	case ".md", ".markdown":
		return NewMarkdownSource(path), nil
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
	}
}

// StaticSource serves pages held in memory.
type StaticSource []string

// Pages returns a copy of the pages.
func (s StaticSource) Pages(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// FileSource reads a plain-text file. Form feeds separate pages.
type FileSource struct {
	Path string
}

// Pages reads the file and splits it into pages.
func (s *FileSource) Pages(context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return splitPages(string(data)), nil
}

// splitPages splits text on form feeds, dropping the empty tail left by a
// trailing separator.
func splitPages(text string) []string {
	if text == "" {
		return []string{}
	}
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// blank reports whether every page is whitespace.
func blank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}
