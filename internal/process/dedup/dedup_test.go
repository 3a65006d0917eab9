package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/process/filters"
)

func chunkText(lead string) string {
	return lead + " " + strings.Repeat("Balanced meals combine protein, whole grains and vegetables. ", 6)
}

func TestDeduper_KeepsFirstOfEqualSignatures(t *testing.T) {
	d := New(filters.New(), nil)

	units := []domain.ContentUnit{
		{Text: chunkText("First occurrence."), Source: "guide.pdf", Page: 3},
		{Text: chunkText("First occurrence."), Source: "guide.pdf", Page: 3},
		{Text: chunkText("First occurrence."), Source: "guide.pdf", Page: 4},
	}

	result := d.Dedupe(units)

	assert.Len(t, result.Units, 2)
	assert.Equal(t, 1, result.DroppedDuplicate)
	assert.Equal(t, 3, result.Units[0].Page)
	assert.Equal(t, 4, result.Units[1].Page)
}

func TestDeduper_DistinctSourcesSurvive(t *testing.T) {
	d := New(filters.New(), nil)

	units := []domain.ContentUnit{
		{Text: chunkText("Shared body."), Source: "a.pdf", Page: 1},
		{Text: chunkText("Shared body."), Source: "b.pdf", Page: 1},
	}

	result := d.Dedupe(units)
	assert.Len(t, result.Units, 2)
}

func TestDeduper_QualityRejectsBeforeSignature(t *testing.T) {
	d := New(filters.New(), nil)

	units := []domain.ContentUnit{
		{Text: "too short", Source: "a.pdf", Page: 1},
		{Text: chunkText("Good chunk."), Source: "a.pdf", Page: 1},
	}

	result := d.Dedupe(units)

	assert.Len(t, result.Units, 1)
	assert.Equal(t, 1, result.DroppedQuality)
	assert.Equal(t, 0, result.DroppedDuplicate)
}

func TestDeduper_SignatureUsesNormalizedPrefix(t *testing.T) {
	d := New(filters.New(), nil)

	base := chunkText("Same after normalization.")
	units := []domain.ContentUnit{
		{Text: base, Source: "a.pdf", Page: 1},
		{Text: strings.ToUpper(base), Source: "a.pdf", Page: 1},
	}

	result := d.Dedupe(units)
	assert.Len(t, result.Units, 1)
}

func TestDeduper_DivergenceBeyondPrefixIsDuplicate(t *testing.T) {
	d := New(filters.New(), nil)

	// Identical for well over the 400-char ingest prefix, different tails.
	head := strings.Repeat("Shared leading text about daily movement and hydration habits. ", 8)
	units := []domain.ContentUnit{
		{Text: head + "Tail one differs here.", Source: "a.pdf", Page: 1},
		{Text: head + "Tail two differs here.", Source: "a.pdf", Page: 1},
	}

	result := d.Dedupe(units)
	assert.Len(t, result.Units, 1)
}
