package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

// MockProvider produces deterministic pseudo-embeddings derived from the
// text hash. Identical texts map to identical vectors, which is enough for
// exercising dedup and retrieval paths in tests.
type MockProvider struct {
	dimensions int
}

// NewMockProvider creates a MockProvider with the given vector width.
func NewMockProvider(dimensions int) *MockProvider {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	return &MockProvider{dimensions: dimensions}
}

// Dimensions returns the configured output dimensions.
func (p *MockProvider) Dimensions() int {
	return p.dimensions
}

// GetEmbedding returns a deterministic unit-scale vector for the text.
func (p *MockProvider) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, p.dimensions)

	for i := range vec {
		word := binary.BigEndian.Uint32(sum[(i*4)%(len(sum)-4):])
		vec[i] = float32(word%1000)/1000 - 0.5
		sum = sha256.Sum256(sum[:])
	}

	return vec, nil
}
