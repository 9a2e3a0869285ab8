package bootstrap

import (
	"context"
	"fmt"
	"time"

	"docrag/internal/ai"
	"docrag/internal/app"
	"docrag/internal/config"
	"docrag/internal/pkg/webfetch"
	"docrag/internal/vectorstore"
	"docrag/internal/vectorstore/memory"
	"docrag/internal/vectorstore/mysqlvec"
	"docrag/internal/vectorstore/pgvector"
	"docrag/internal/vectorstore/qdrant"
	"docrag/internal/vectorstore/redisvec"
)

type App struct {
	Config  *config.Config
	Store   vectorstore.Store
	Service *app.RAGService
	Fetcher app.PageFetcher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llm := ai.NewClient(cfg.Embedding, cfg.Generation)
	service := app.NewRAGService(
		store,
		llm,
		llm,
		cfg.Chunking.WindowSize,
		cfg.Chunking.Overlap,
		cfg.Retrieval.TopK,
	)

	return &App{
		Config:    cfg,
		Store:     store,
		Service:   service,
		Fetcher:   webfetch.New(),
		StartedAt: time.Now(),
	}, nil
}

// openStore selects the vector store backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Store.Kind {
	case config.StoreKindMemory:
		return memory.New(), nil
	case config.StoreKindQdrant:
		return qdrant.New(ctx, cfg.Store.Qdrant, cfg.Store.Dimension)
	case config.StoreKindMySQL:
		return mysqlvec.New(ctx, cfg.MySQLDSN())
	case config.StoreKindPgvector:
		return pgvector.New(ctx, cfg.Store.Postgres.DSN, cfg.Store.Dimension)
	case config.StoreKindRedis:
		return redisvec.New(ctx, cfg.Store.Redis)
	default:
		return nil, fmt.Errorf("unknown vector store kind %q", cfg.Store.Kind)
	}
}

func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
