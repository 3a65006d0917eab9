// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// the operational modes:
//
//   - Serve mode: HTTP API for plan generation and admin reindexing
//   - Ingest mode: one-shot corpus index build
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/api"
	"github.com/sachan-rai/healthtrack-pro/internal/catalog"
	"github.com/sachan-rai/healthtrack-pro/internal/core/embeddings"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/core/llm"
	"github.com/sachan-rai/healthtrack-pro/internal/ingest"
	"github.com/sachan-rai/healthtrack-pro/internal/plan"
	"github.com/sachan-rai/healthtrack-pro/internal/platform/config"
	"github.com/sachan-rai/healthtrack-pro/internal/platform/worker"
	"github.com/sachan-rai/healthtrack-pro/internal/process/curation"
	"github.com/sachan-rai/healthtrack-pro/internal/process/dedup"
	"github.com/sachan-rai/healthtrack-pro/internal/process/filters"
	"github.com/sachan-rai/healthtrack-pro/internal/process/normalize"
	db "github.com/sachan-rai/healthtrack-pro/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// RunServe runs the HTTP API until the context is canceled.
func (a *App) RunServe(ctx context.Context) error {
	a.logger.Info().Msg("Starting serve mode")

	cat, err := catalog.Load(a.cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load recipe catalog: %w", err)
	}

	if cat.Len() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrEmptyCatalog, a.cfg.CatalogPath)
	}

	a.logger.Info().Int("recipes", cat.Len()).Str("path", a.cfg.CatalogPath).Msg("Recipe catalog loaded")

	planner := a.newPlanner(cat)
	indexer := a.newIndexer()
	srv := api.NewServer(planner, indexer, a.database, a.cfg.CorpusDir, a.cfg.HTTPPort, a.logger)

	if a.cfg.ReindexInterval > 0 {
		go a.runReindexWorker(ctx, indexer)
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func (a *App) runReindexWorker(ctx context.Context, indexer *ingest.Indexer) {
	err := worker.RunPeriodic(ctx, worker.PeriodicConfig{
		Name:     "reindex",
		Interval: a.cfg.ReindexInterval,
		OnTick: func(ctx context.Context) {
			if err := indexer.BuildIndex(ctx, a.cfg.CorpusDir); err != nil {
				a.logger.Warn().Err(err).Msg("Scheduled reindex failed")
			}
		},
		Logger: a.logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn().Err(err).Msg("Reindex worker exited")
	}
}

// RunIngest rebuilds the corpus index once and exits.
func (a *App) RunIngest(ctx context.Context) error {
	a.logger.Info().Str("corpus_dir", a.cfg.CorpusDir).Msg("Starting ingest mode")

	if err := a.newIndexer().BuildIndex(ctx, a.cfg.CorpusDir); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	count, err := a.database.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	a.logger.Info().Int("chunks", count).Msg("Ingest complete")

	return nil
}

func (a *App) newIndexer() *ingest.Indexer {
	cleaner := normalize.NewCleaner(nil)
	fetcher := ingest.NewWebFetcher(a.cfg.WebFetchRPS, a.cfg.WebFetchTimeout)
	loader := ingest.NewLoader(cleaner, fetcher, a.logger)
	splitter := ingest.NewSplitter(a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	quality := filters.New(filters.WithMinLength(a.cfg.MinChunkChars))
	deduper := dedup.New(quality, a.logger)

	return ingest.NewIndexer(loader, splitter, deduper, a.newEmbeddingProvider(), a.database, a.logger)
}

func (a *App) newPlanner(cat *catalog.Catalog) *plan.Planner {
	curator := curation.New(
		curation.WithMaxSnippetChars(a.cfg.MaxSnippetChars),
		curation.WithLogger(a.logger),
	)

	return plan.NewPlanner(
		a.newEmbeddingProvider(),
		a.database,
		curator,
		a.newLLMClient(),
		cat,
		plan.PlannerOptions{
			TopK:                 a.cfg.TopK,
			OverfetchFactor:      a.cfg.OverfetchFactor,
			Slots:                a.cfg.MealSlots,
			RotateCuisines:       a.cfg.RotateCuisines,
			MaxSameCuisinePerDay: a.cfg.MaxSameCuisinePerDay,
		},
		a.logger,
	)
}

func (a *App) newLLMClient() llm.Client {
	if a.cfg.UseMockLLM() {
		a.logger.Warn().Msg("LLM_API_KEY is empty, using mock LLM client")
		return llm.NewMock()
	}

	return llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:    a.cfg.LLMAPIKey,
		Model:     a.cfg.LLMModel,
		RateLimit: a.cfg.LLMRateLimitRPS,
	}, a.logger)
}

func (a *App) newEmbeddingProvider() embeddings.Provider {
	if a.cfg.UseMockLLM() {
		return embeddings.NewMockProvider(a.cfg.EmbeddingDimensions)
	}

	return embeddings.NewOpenAIProvider(embeddings.OpenAIConfig{
		APIKey:     a.cfg.LLMAPIKey,
		Model:      a.cfg.EmbeddingModel,
		Dimensions: a.cfg.EmbeddingDimensions,
		RateLimit:  a.cfg.LLMRateLimitRPS,
	})
}
