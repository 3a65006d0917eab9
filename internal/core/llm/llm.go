// Package llm provides the language model client used to generalize
// retrieved evidence into guidance bullets and to draft structured plans.
package llm

import (
	"context"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// Default model constants.
const (
	DefaultChatModel = "gpt-4o-mini"
)

// Client is the language model boundary. Implementations must be safe for
// concurrent use.
type Client interface {
	// SummarizeEvidence turns curated evidence snippets into concise,
	// universally applicable guidance bullets with bracketed citations.
	// An empty evidence list returns an empty summary without a model call.
	SummarizeEvidence(ctx context.Context, goal string, evidence []domain.EvidenceItem) (string, error)

	// DraftPlan produces a structured multi-day plan for the goal, grounded
	// in the evidence summary. Meal names are placeholders; the caller
	// overrides them from the catalog selection.
	DraftPlan(ctx context.Context, goal string, evidenceSummary string, days int) (*domain.GeneratedPlan, error)
}
