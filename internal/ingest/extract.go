// Package ingest extracts per-page text from supported document files:
// plain text and Markdown directly, PDF via its text layer with an OCR
// fallback, and images via OCR.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for file extensions the extractor
// does not handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Page is the extracted text of one page. Plain-text sources produce a
// single page numbered 1.
type Page struct {
	Number int
	Text   string
}

// FileExtractor extracts text from files on disk.
type FileExtractor struct {
	logger *slog.Logger
}

// NewFileExtractor creates a FileExtractor. A nil logger falls back to
// slog.Default().
func NewFileExtractor(logger *slog.Logger) *FileExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExtractor{logger: logger}
}

// ExtractPages reads the file at path and returns its pages. The file
// type is chosen by extension; unknown extensions return
// ErrUnsupportedType.
func (e *FileExtractor) ExtractPages(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return e.extractPlainText(path)
	case ".pdf":
		return e.extractPDF(path)
	case ".png", ".jpg", ".jpeg", ".webp":
		return e.extractImage(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}

func (e *FileExtractor) extractPlainText(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []Page{{Number: 1, Text: text}}, nil
}

func (e *FileExtractor) extractImage(path string) ([]Page, error) {
	text, err := ocrImage(path)
	if err != nil {
		return nil, fmt.Errorf("running OCR on %s: %w", path, err)
	}
	if text == "" {
		return nil, nil
	}
	return []Page{{Number: 1, Text: text}}, nil
}
