package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF walks the PDF page by page through its text layer. Pages
// with no extractable text (scanned pages) fall back to OCR; a page
// where both routes come up empty is skipped.
func (e *FileExtractor) extractPDF(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	for num := 1; num <= total; num++ {
		p := r.Page(num)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("page text extraction failed, trying OCR",
				"path", path, "page", num, "error", err)
			text = ""
		}
		text = strings.TrimSpace(text)

		if text == "" {
			text, err = ocrPDFPage(path, num)
			if err != nil {
				e.logger.Warn("page OCR failed, skipping page",
					"path", path, "page", num, "error", err)
				continue
			}
		}
		if text == "" {
			continue
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	return pages, nil
}
