package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shyam-thakkar/rag-chatbot/internal/ingest"
	"github.com/shyam-thakkar/rag-chatbot/internal/knowledge"
)

// ============================================================================
// Mocks
// ============================================================================

type mockStore struct {
	replaceErr error

	replaced map[string][]knowledge.Chunk
}

func (m *mockStore) ReplaceSource(ctx context.Context, source string, chunks []knowledge.Chunk) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if m.replaced == nil {
		m.replaced = map[string][]knowledge.Chunk{}
	}
	m.replaced[source] = chunks
	return nil
}

// fileExtractor reads real txt/md files so directory-walk tests can use
// t.TempDir() fixtures without OCR or PDF machinery.
type fileExtractor struct {
	err error
}

func (e *fileExtractor) ExtractPages(path string) ([]ingest.Page, error) {
	if e.err != nil {
		return nil, e.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []ingest.Page{{Number: 1, Text: text}}, nil
}

// passthroughSplitter emits paragraphs unchanged.
type passthroughSplitter struct{}

func (passthroughSplitter) Split(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newTestIndexer(store *mockStore, extractor Extractor) *Indexer {
	return NewIndexer(store, extractor, passthroughSplitter{}, nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// ============================================================================
// Single file
// ============================================================================

func TestAddPathSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "policy.txt", "Refunds within 30 days.\n\nShipping takes 5 days.")

	store := &mockStore{}
	result, err := newTestIndexer(store, &fileExtractor{}).AddPath(context.Background(), path)
	if err != nil {
		t.Fatalf("AddPath() error = %v", err)
	}

	if result.FilesAdded != 1 || result.ChunksAdded != 2 {
		t.Errorf("result = %+v, want 1 file and 2 chunks", result)
	}
	chunks, ok := store.replaced["policy.txt"]
	if !ok || len(chunks) != 2 {
		t.Fatalf("replaced = %v, want one call for policy.txt with 2 chunks", store.replaced)
	}

	for i, chunk := range chunks {
		if chunk.ID == "" {
			t.Errorf("chunk %d has empty ID", i)
		}
		if chunk.Source != "policy.txt" || chunk.Page != 1 || chunk.Index != i {
			t.Errorf("chunk %d = %+v, want source policy.txt page 1 index %d", i, chunk, i)
		}
	}
}

func TestAddPathMarkdownSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", "# Returns\nItems may be returned.")

	store := &mockStore{}
	if _, err := newTestIndexer(store, &fileExtractor{}).AddPath(context.Background(), path); err != nil {
		t.Fatalf("AddPath() error = %v", err)
	}

	chunks := store.replaced["guide.md"]
	if len(chunks) != 1 || chunks[0].Section != "Returns" {
		t.Errorf("chunks = %+v, want one chunk with section Returns", chunks)
	}
}

func TestAddPathUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "a,b,c")

	_, err := newTestIndexer(&mockStore{}, &fileExtractor{}).AddPath(context.Background(), path)
	if !errors.Is(err, ingest.ErrUnsupportedType) {
		t.Fatalf("AddPath() error = %v, want ErrUnsupportedType", err)
	}
}

func TestAddPathMissing(t *testing.T) {
	_, err := newTestIndexer(&mockStore{}, &fileExtractor{}).
		AddPath(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("AddPath() error = nil for missing path, want error")
	}
}

// ============================================================================
// Directory walk
// ============================================================================

func TestAddPathDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "*.log\ndrafts/\n")
	writeFile(t, dir, "a.txt", "alpha content")
	writeFile(t, dir, "b.md", "beta content")
	writeFile(t, dir, "debug.log", "ignored by gitignore")
	writeFile(t, dir, "drafts/wip.txt", "ignored directory")
	writeFile(t, dir, "binary.bin", "unsupported extension")

	store := &mockStore{}
	result, err := newTestIndexer(store, &fileExtractor{}).AddPath(context.Background(), dir)
	if err != nil {
		t.Fatalf("AddPath() error = %v", err)
	}

	if result.FilesAdded != 2 {
		t.Errorf("FilesAdded = %d, want 2", result.FilesAdded)
	}
	// debug.log and drafts/wip.txt via gitignore, .gitignore and
	// binary.bin via extension.
	if result.FilesSkipped < 3 {
		t.Errorf("FilesSkipped = %d, want at least 3", result.FilesSkipped)
	}
	if result.FilesFailed != 0 {
		t.Errorf("FilesFailed = %d, want 0", result.FilesFailed)
	}

	if len(store.replaced) != 2 || store.replaced["a.txt"] == nil || store.replaced["b.md"] == nil {
		t.Errorf("indexed sources = %v, want a.txt and b.md only", store.replaced)
	}
}

func TestAddPathDirectoryFailuresCounted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "content")
	writeFile(t, dir, "b.txt", "content")

	store := &mockStore{}
	result, err := newTestIndexer(store, &fileExtractor{err: errors.New("extract broke")}).
		AddPath(context.Background(), dir)
	if err != nil {
		t.Fatalf("AddPath() error = %v, directory walk must not abort", err)
	}
	if result.FilesFailed != 2 || result.FilesAdded != 0 {
		t.Errorf("result = %+v, want 2 failed and 0 added", result)
	}
	// A failed extraction must never reach the store, or a re-index
	// would wipe the source's existing chunks.
	if len(store.replaced) != 0 {
		t.Errorf("store touched for failed files: %v", store.replaced)
	}
}

func TestAddPathStoreFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "content")

	store := &mockStore{replaceErr: errors.New("db down")}
	_, err := newTestIndexer(store, &fileExtractor{}).AddPath(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("AddPath() error = %v, want wrapped store error", err)
	}
}
