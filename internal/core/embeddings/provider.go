// Package embeddings provides the embedding provider used to index corpus
// chunks and to embed plan queries for similarity search.
package embeddings

import "context"

// Model constants.
const (
	ModelTextEmbedding3Small = "text-embedding-3-small"
)

// DefaultDimensions matches the vector column width in the database schema.
const DefaultDimensions = 1536

// Provider generates embedding vectors for text.
type Provider interface {
	// GetEmbedding generates an embedding for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the provider's output vector width.
	Dimensions() int
}
