// Package knowledge stores document chunks with vector embeddings and
// serves cosine-similarity search over them, backed by PostgreSQL with
// the pgvector extension.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
)

// UpsertChunkParams carries one chunk row for insert-or-update.
type UpsertChunkParams struct {
	ID        string
	Content   string
	Embedding *pgvector.Vector
	Source    string
	Page      int32
	Section   string
	Index     int32
}

// SearchChunksParams carries a vector search request.
type SearchChunksParams struct {
	QueryEmbedding *pgvector.Vector
	ResultLimit    int32
}

// SearchChunksRow is one row returned by a vector search.
type SearchChunksRow struct {
	ID         string
	Content    string
	Source     string
	Page       int32
	Section    string
	Index      int32
	Similarity float32
}

// Querier defines the database operations Store needs. The interface is
// defined here, by the consumer, so tests can substitute a mock and the
// concrete PostgreSQL implementation stays swappable.
type Querier interface {
	// ReplaceChunks atomically swaps a source's rows for new ones
	ReplaceChunks(ctx context.Context, source string, rows []UpsertChunkParams) error

	// SearchChunks performs vector similarity search
	SearchChunks(ctx context.Context, arg SearchChunksParams) ([]SearchChunksRow, error)

	// CountChunks counts all stored chunks
	CountChunks(ctx context.Context) (int64, error)

	// ListSources returns per-source chunk counts
	ListSources(ctx context.Context) ([]SourceInfo, error)

	// DeleteChunksBySource removes all chunks for one source
	DeleteChunksBySource(ctx context.Context, source string) error

	// DeleteAllChunks empties the store
	DeleteAllChunks(ctx context.Context) error
}

// Store manages document chunks with vector search capabilities.
// It handles embedding generation and similarity search using
// PostgreSQL + pgvector.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	queries  Querier
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a Store. A nil logger falls back to slog.Default().
func New(querier Querier, embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		queries:  querier,
		embedder: embedder,
		logger:   logger,
	}
}

// ReplaceSource embeds the given chunks and swaps them in for the
// source's existing rows. All embeddings are generated before the
// database is touched, and the swap itself is atomic, so a failure at
// any point leaves the source's previous chunks intact.
func (s *Store) ReplaceSource(ctx context.Context, source string, chunks []Chunk) error {
	if source == "" {
		return fmt.Errorf("source must not be empty")
	}

	rows := make([]UpsertChunkParams, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := s.embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("embedding chunk %q: %w", chunk.ID, err)
		}
		rows = append(rows, UpsertChunkParams{
			ID:        chunk.ID,
			Content:   chunk.Content,
			Embedding: embedding,
			Source:    chunk.Source,
			Page:      int32(chunk.Page),
			Section:   chunk.Section,
			Index:     int32(chunk.Index),
		})
	}

	if err := s.queries.ReplaceChunks(ctx, source, rows); err != nil {
		return fmt.Errorf("replacing source %q: %w", source, err)
	}

	s.logger.Debug("replaced source", "source", source, "chunks", len(rows))
	return nil
}

// Search embeds the query and returns the most similar chunks, ordered
// by similarity. A per-search timeout (default 10s) bounds both the
// embedding call and the vector query.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	embedding, err := s.embed(queryCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding query timed out: %w", err)
		}
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.queries.SearchChunks(queryCtx, SearchChunksParams{
		QueryEmbedding: embedding,
		ResultLimit:    int32(cfg.topK),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("vector search timed out: %w", err)
		}
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			Chunk: Chunk{
				ID:      row.ID,
				Content: row.Content,
				Source:  row.Source,
				Page:    int(row.Page),
				Section: row.Section,
				Index:   int(row.Index),
			},
			Similarity: row.Similarity,
		})
	}
	return results, nil
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}

	// Overflow protection for 32-bit platforms.
	if count > math.MaxInt {
		return 0, fmt.Errorf("chunk count %d exceeds platform int capacity", count)
	}
	return int(count), nil
}

// Sources lists indexed sources with their chunk counts.
func (s *Store) Sources(ctx context.Context) ([]SourceInfo, error) {
	sources, err := s.queries.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return sources, nil
}

// DeleteSource removes every chunk belonging to the given source.
func (s *Store) DeleteSource(ctx context.Context, source string) error {
	if source == "" {
		return fmt.Errorf("source must not be empty")
	}
	if err := s.queries.DeleteChunksBySource(ctx, source); err != nil {
		return fmt.Errorf("deleting chunks for source %q: %w", source, err)
	}

	s.logger.Debug("deleted source", "source", source)
	return nil
}

// Clear removes all chunks from the store.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.queries.DeleteAllChunks(ctx); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	s.logger.Debug("cleared store")
	return nil
}

func (s *Store) embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{
				Content: []*ai.Part{ai.NewTextPart(text)},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedder returned no embedding")
	}

	vec := pgvector.NewVector(resp.Embeddings[0].Embedding)
	return &vec, nil
}
