package ingest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ocrPDFPage rasterizes one PDF page with pdftoppm (poppler) and runs
// tesseract over the result.
func ocrPDFPage(path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ragchat-ocr")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	pageArg := fmt.Sprintf("%d", page)
	cmd := exec.Command("pdftoppm", "-png", "-r", "300", "-f", pageArg, "-l", pageArg, path, prefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w", err)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	var combined strings.Builder
	for _, m := range matches {
		text, err := ocrImage(m)
		if err != nil {
			return "", err
		}
		if text != "" {
			combined.WriteString(text)
			combined.WriteString("\n")
		}
	}
	return strings.TrimSpace(combined.String()), nil
}

// ocrImage runs tesseract over a single image file.
func ocrImage(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}
