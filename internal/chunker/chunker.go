// Package chunker splits extracted document text into overlapping
// fixed-size chunks suitable for embedding.
package chunker

import (
	"regexp"
	"strings"
)

// Defaults match the configuration fallbacks: 1000-character chunks
// with 200 characters of overlap.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

var (
	paragraphRe = regexp.MustCompile(`\n{2,}`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// Splitter produces overlapping chunks from cleaned text.
// Zero or negative parameters fall back to the defaults; an overlap at
// or above the chunk size is clamped so the window always advances.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a Splitter with the given chunk size and overlap.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Clean normalizes raw extracted text: CRLF to LF, trailing spaces
// stripped, runs of blank lines collapsed to one.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Split breaks text into chunks. Paragraphs are the natural unit;
// paragraphs longer than the chunk size are windowed with overlap so
// no boundary loses context. Empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	text = Clean(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for _, para := range paragraphRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		chunks = append(chunks, s.splitLong(para)...)
	}
	return chunks
}

// splitLong windows over runes, not bytes, so a boundary never lands
// mid-rune and every chunk stays valid UTF-8.
func (s *Splitter) splitLong(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var out []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[i:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
