package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// SaveChunk stores an indexed chunk with its embedding. A missing ID is
// generated.
func (db *DB) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO chunks (id, source, page, kind, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, chunk.ID, chunk.Source, chunk.Page, chunk.Kind, chunk.Text, pgvector.NewVector(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("save chunk: %w", err)
	}

	return nil
}

// SearchSimilar returns the chunks nearest to the query embedding by
// cosine distance, most similar first.
func (db *DB) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]domain.Chunk, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, source, page, kind, content, created_at
		FROM chunks
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("search similar chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk

	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.Source, &c.Page, &c.Kind, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}

		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	return chunks, nil
}

// CountChunks returns the number of indexed chunks.
func (db *DB) CountChunks(ctx context.Context) (int, error) {
	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}

	return count, nil
}

// TruncateChunks drops the whole index, used before a full reindex.
func (db *DB) TruncateChunks(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, "TRUNCATE chunks"); err != nil {
		return fmt.Errorf("truncate chunks: %w", err)
	}

	return nil
}
