package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shyam-thakkar/rag-chatbot/internal/knowledge"
	"github.com/shyam-thakkar/rag-chatbot/internal/workflow"
)

// SearchStore defines the search operation Retriever needs.
type SearchStore interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Retriever adapts the knowledge store's similarity search to the
// answer workflow's retrieval step.
type Retriever struct {
	store  SearchStore
	logger *slog.Logger
}

// NewRetriever creates a Retriever. A nil logger falls back to
// slog.Default().
func NewRetriever(store SearchStore, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns the k most similar chunks for the query, in
// similarity order. An empty store yields an empty slice, not an
// error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]workflow.Chunk, error) {
	results, err := r.store.Search(ctx, query, knowledge.WithTopK(k))
	if err != nil {
		return nil, fmt.Errorf("searching knowledge store: %w", err)
	}

	chunks := make([]workflow.Chunk, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, workflow.Chunk{
			Text:    res.Chunk.Content,
			Source:  res.Chunk.Source,
			Page:    res.Chunk.Page,
			Section: res.Chunk.Section,
			Index:   res.Chunk.Index,
		})
	}

	r.logger.Debug("retrieved context", "query_length", len(query), "k", k, "chunks", len(chunks))
	return chunks, nil
}
