package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/core/embeddings"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/platform/observability"
	"github.com/sachan-rai/healthtrack-pro/internal/process/dedup"
)

// ChunkStore persists indexed chunks.
type ChunkStore interface {
	SaveChunk(ctx context.Context, chunk *domain.Chunk) error
	TruncateChunks(ctx context.Context) error
}

// Indexer builds the searchable corpus index from a document folder.
type Indexer struct {
	loader   *Loader
	splitter *Splitter
	deduper  *dedup.Deduper
	embedder embeddings.Provider
	store    ChunkStore
	logger   *zerolog.Logger
}

// NewIndexer wires the ingestion pipeline.
func NewIndexer(
	loader *Loader,
	splitter *Splitter,
	deduper *dedup.Deduper,
	embedder embeddings.Provider,
	store ChunkStore,
	logger *zerolog.Logger,
) *Indexer {
	return &Indexer{
		loader:   loader,
		splitter: splitter,
		deduper:  deduper,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// BuildIndex loads the corpus directory (plus the optional urls.txt),
// chunks, filters, dedupes, embeds and stores the surviving chunks. The
// existing index is replaced.
func (i *Indexer) BuildIndex(ctx context.Context, corpusDir string) error {
	units, err := i.loader.LoadFolder(corpusDir)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	urlsPath := filepath.Join(corpusDir, URLsFile)
	if _, err := os.Stat(urlsPath); err == nil {
		urlUnits, err := i.loader.LoadURLs(ctx, urlsPath)
		if err != nil {
			return fmt.Errorf("load urls: %w", err)
		}

		units = append(units, urlUnits...)
	}

	if len(units) == 0 {
		return fmt.Errorf("%w: no supported documents in %s", apperrors.ErrNoResults, corpusDir)
	}

	var chunks []domain.ContentUnit
	for _, unit := range units {
		chunks = append(chunks, i.splitter.SplitUnit(unit)...)
	}

	result := i.deduper.Dedupe(chunks)

	observability.ChunksRejected.WithLabelValues(observability.ReasonDuplicate).Add(float64(result.DroppedDuplicate))

	for reason, count := range result.QualityReasons {
		observability.ChunksRejected.WithLabelValues(reason).Add(float64(count))
	}

	i.logger.Info().
		Int("documents", len(units)).
		Int("chunks", len(chunks)).
		Int("unique_chunks", len(result.Units)).
		Int("dropped_quality", result.DroppedQuality).
		Int("dropped_duplicate", result.DroppedDuplicate).
		Msg("Corpus filtered")

	if err := i.store.TruncateChunks(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}

	for _, unit := range result.Units {
		embedding, err := i.embedder.GetEmbedding(ctx, unit.Text)
		if err != nil {
			observability.EmbeddingRequests.WithLabelValues("error").Inc()

			return fmt.Errorf("embed chunk from %s: %w", unit.Source, err)
		}

		observability.EmbeddingRequests.WithLabelValues("ok").Inc()

		chunk := &domain.Chunk{
			Source:    unit.Source,
			Page:      unit.Page,
			Kind:      unit.Kind,
			Text:      unit.Text,
			Embedding: embedding,
		}

		if err := i.store.SaveChunk(ctx, chunk); err != nil {
			return fmt.Errorf("store chunk: %w", err)
		}

		observability.ChunksIngested.Inc()
	}

	i.logger.Info().Int("indexed", len(result.Units)).Msg("Corpus index built")

	return nil
}
