package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shyam-thakkar/rag-chatbot/db"
	"github.com/shyam-thakkar/rag-chatbot/internal/chunker"
	"github.com/shyam-thakkar/rag-chatbot/internal/config"
	"github.com/shyam-thakkar/rag-chatbot/internal/ingest"
	"github.com/shyam-thakkar/rag-chatbot/internal/knowledge"
	"github.com/shyam-thakkar/rag-chatbot/internal/llm"
	"github.com/shyam-thakkar/rag-chatbot/internal/log"
	"github.com/shyam-thakkar/rag-chatbot/internal/rag"
	"github.com/shyam-thakkar/rag-chatbot/internal/workflow"
)

// app wires configuration, storage and model access for the commands.
type app struct {
	cfg    *config.Config
	logger log.Logger
	pool   *pgxpool.Pool
	g      *genkit.Genkit
	store  *knowledge.Store
}

// newApp loads configuration, runs migrations and connects the
// database and embedder. Callers must invoke close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := newDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	g, err := llm.Init(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	embedder := llm.Embedder(g, cfg.EmbedderModel)

	store := knowledge.New(knowledge.NewPGQuerier(pool), embedder, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		g:      g,
		store:  store,
	}, nil
}

func (a *app) close() {
	a.pool.Close()
}

// newIndexer builds the file indexer over the app's store.
func (a *app) newIndexer() *rag.Indexer {
	splitter := chunker.New(a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	extractor := ingest.NewFileExtractor(a.logger)
	return rag.NewIndexer(a.store, extractor, splitter, a.logger)
}

// newEngine builds the answer workflow over the app's store and model.
// The same model serves generation and validation, as separate calls.
func (a *app) newEngine() *workflow.Engine {
	client := llm.NewClient(a.g, a.cfg.ModelName, a.logger)
	retriever := rag.NewRetriever(a.store, a.logger)

	return workflow.New(retriever, client, client, workflow.Config{
		MaxRetries: a.cfg.MaxRetries,
		RetrievalK: a.cfg.RetrievalK,
	}, a.logger)
}

func newDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
