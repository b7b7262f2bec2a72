package knowledge

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx methods the PostgreSQL querier needs.
// Both *pgxpool.Pool and pgx.Tx satisfy it (pgx.Tx.Begin starts a
// nested transaction via savepoints).
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGQuerier implements Querier against PostgreSQL with the pgvector
// extension. Similarity is cosine: 1 - (embedding <=> query).
type PGQuerier struct {
	db DBTX
}

// NewPGQuerier creates a PostgreSQL-backed querier.
func NewPGQuerier(db DBTX) *PGQuerier {
	return &PGQuerier{db: db}
}

const upsertChunkSQL = `
INSERT INTO chunks (id, content, embedding, source, page, section, chunk_index)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    content     = EXCLUDED.content,
    embedding   = EXCLUDED.embedding,
    source      = EXCLUDED.source,
    page        = EXCLUDED.page,
    section     = EXCLUDED.section,
    chunk_index = EXCLUDED.chunk_index`

func (q *PGQuerier) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	_, err := q.db.Exec(ctx, upsertChunkSQL,
		arg.ID, arg.Content, arg.Embedding, arg.Source, arg.Page, arg.Section, arg.Index)
	return err
}

// ReplaceChunks swaps a source's rows atomically: the delete and all
// inserts run in one transaction, so a mid-run failure leaves the
// previously indexed chunks in place.
func (q *PGQuerier) ReplaceChunks(ctx context.Context, source string, rows []UpsertChunkParams) error {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	qtx := NewPGQuerier(tx)
	if err := qtx.DeleteChunksBySource(ctx, source); err != nil {
		return err
	}
	for _, row := range rows {
		if err := qtx.UpsertChunk(ctx, row); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const searchChunksSQL = `
SELECT id, content, source, page, section, chunk_index,
       1 - (embedding <=> $1) AS similarity
FROM chunks
ORDER BY embedding <=> $1
LIMIT $2`

func (q *PGQuerier) SearchChunks(ctx context.Context, arg SearchChunksParams) ([]SearchChunksRow, error) {
	rows, err := q.db.Query(ctx, searchChunksSQL, arg.QueryEmbedding, arg.ResultLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchChunksRow
	for rows.Next() {
		var row SearchChunksRow
		if err := rows.Scan(
			&row.ID, &row.Content, &row.Source,
			&row.Page, &row.Section, &row.Index, &row.Similarity,
		); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (q *PGQuerier) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM chunks`).Scan(&count)
	return count, err
}

const listSourcesSQL = `
SELECT source, count(*)
FROM chunks
GROUP BY source
ORDER BY source`

func (q *PGQuerier) ListSources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := q.db.Query(ctx, listSourcesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		if err := rows.Scan(&info.Source, &info.Chunks); err != nil {
			return nil, err
		}
		sources = append(sources, info)
	}
	return sources, rows.Err()
}

func (q *PGQuerier) DeleteChunksBySource(ctx context.Context, source string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM chunks WHERE source = $1`, source)
	return err
}

func (q *PGQuerier) DeleteAllChunks(ctx context.Context) error {
	_, err := q.db.Exec(ctx, `DELETE FROM chunks`)
	return err
}
