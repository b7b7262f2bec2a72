// Package rag connects document ingestion and the knowledge store to
// question answering: the Indexer fills the store from local files and
// the Retriever serves similarity search to the answer workflow.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/shyam-thakkar/rag-chatbot/internal/ingest"
	"github.com/shyam-thakkar/rag-chatbot/internal/knowledge"
)

// IndexerStore defines the storage operation Indexer needs. The
// interface is defined by the consumer so tests can substitute a mock.
type IndexerStore interface {
	// ReplaceSource embeds the chunks and atomically swaps them in for
	// the source's existing ones
	ReplaceSource(ctx context.Context, source string, chunks []knowledge.Chunk) error
}

// Extractor produces per-page text from a file on disk.
type Extractor interface {
	ExtractPages(path string) ([]ingest.Page, error)
}

// TextSplitter breaks page text into embeddable chunks.
type TextSplitter interface {
	Split(text string) []string
}

// supportedExtensions are the file types the indexer accepts.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// IndexResult summarizes one indexing run.
type IndexResult struct {
	FilesAdded   int
	FilesSkipped int
	FilesFailed  int
	ChunksAdded  int
	Duration     time.Duration
}

// Indexer ingests local files into the knowledge store.
type Indexer struct {
	store     IndexerStore
	extractor Extractor
	splitter  TextSplitter
	logger    *slog.Logger
}

// NewIndexer creates an Indexer. A nil logger falls back to
// slog.Default().
func NewIndexer(store IndexerStore, extractor Extractor, splitter TextSplitter, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		store:     store,
		extractor: extractor,
		splitter:  splitter,
		logger:    logger,
	}
}

// AddPath indexes a file or, recursively, a directory. Directory walks
// honor a .gitignore at the directory root and skip unsupported file
// types; individual file failures are counted, not fatal.
func (idx *Indexer) AddPath(ctx context.Context, path string) (*IndexResult, error) {
	start := time.Now()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	result := &IndexResult{}
	if info.IsDir() {
		err = idx.addDirectory(ctx, absPath, result)
	} else {
		err = idx.addSingleFile(ctx, absPath, result)
	}
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (idx *Indexer) addSingleFile(ctx context.Context, absPath string, result *IndexResult) error {
	ext := strings.ToLower(filepath.Ext(absPath))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %s", ingest.ErrUnsupportedType, ext)
	}

	added, err := idx.indexFile(ctx, absPath)
	if err != nil {
		return err
	}
	result.FilesAdded++
	result.ChunksAdded += added
	return nil
}

func (idx *Indexer) addDirectory(ctx context.Context, absDir string, result *IndexResult) error {
	var gitIgnore *ignore.GitIgnore
	gitignorePath := filepath.Join(absDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		gitIgnore, err = ignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			// A malformed .gitignore must not fail the whole run.
			idx.logger.Warn("ignoring malformed .gitignore", "path", gitignorePath, "error", err)
			gitIgnore = nil
		}
	}

	return filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.FilesFailed++
			return nil
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			result.FilesFailed++
			return nil
		}

		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			result.FilesSkipped++
			return nil
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExtensions[ext] {
			result.FilesSkipped++
			return nil
		}

		added, err := idx.indexFile(ctx, path)
		if err != nil {
			idx.logger.Warn("indexing file failed", "path", path, "error", err)
			result.FilesFailed++
			return nil
		}

		result.FilesAdded++
		result.ChunksAdded += added
		return nil
	})
}

// indexFile extracts and chunks one file, then hands the full chunk set
// to the store in a single replace so a failure never leaves the source
// partially indexed.
func (idx *Indexer) indexFile(ctx context.Context, absPath string) (int, error) {
	source := filepath.Base(absPath)

	pages, err := idx.extractor.ExtractPages(absPath)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", source, err)
	}

	isMarkdown := strings.EqualFold(filepath.Ext(absPath), ".md")

	var chunks []knowledge.Chunk
	for _, page := range pages {
		for _, text := range idx.splitter.Split(page.Text) {
			chunk := knowledge.Chunk{
				ID:      uuid.NewString(),
				Content: text,
				Source:  source,
				Page:    page.Number,
				Index:   len(chunks),
			}
			if isMarkdown {
				chunk.Section = headingOf(text)
			}
			chunks = append(chunks, chunk)
		}
	}

	if err := idx.store.ReplaceSource(ctx, source, chunks); err != nil {
		return 0, fmt.Errorf("storing %s: %w", source, err)
	}

	idx.logger.Info("indexed file", "source", source, "pages", len(pages), "chunks", len(chunks))
	return len(chunks), nil
}

// headingOf returns the first Markdown heading in the chunk, if any.
func headingOf(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
