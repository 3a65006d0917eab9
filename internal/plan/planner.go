package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/catalog"
	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/core/llm"
	"github.com/sachan-rai/healthtrack-pro/internal/platform/observability"
	"github.com/sachan-rai/healthtrack-pro/internal/process/curation"
)

const (
	// DefaultDays is the plan length when the request leaves it unset.
	DefaultDays = 3

	// DefaultTopK caps the curated evidence passed to the model.
	DefaultTopK = 4

	// DefaultOverfetchFactor widens the similarity search so curation has
	// enough raw candidates to reject from.
	DefaultOverfetchFactor = 4

	// maxDraftAttempts bounds regeneration after a structural failure.
	maxDraftAttempts = 2
)

// Embedder produces a query embedding.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher runs the similarity search over the corpus index.
type ChunkSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]domain.Chunk, error)
}

// Request is one plan generation request.
type Request struct {
	Goal    string          `json:"goal"`
	Days    int             `json:"days,omitempty"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

// Response is the full plan generation result.
type Response struct {
	Plan            *domain.GeneratedPlan `json:"plan"`
	Retrieved       []domain.EvidenceItem `json:"retrieved"`
	EvidenceSummary string                `json:"evidence_summary"`
	LatencyMs       int64                 `json:"latency_ms"`
}

// PlannerOptions tunes a Planner.
type PlannerOptions struct {
	TopK                 int
	OverfetchFactor      int
	Slots                []string
	RotateCuisines       bool
	MaxSameCuisinePerDay int
}

// Planner orchestrates a plan request end to end: retrieve, curate,
// summarize, draft, diversify meals and validate.
type Planner struct {
	embedder  Embedder
	searcher  ChunkSearcher
	curator   *curation.Curator
	llm       llm.Client
	catalog   *catalog.Catalog
	validator *Validator
	opts      PlannerOptions
	logger    *zerolog.Logger
}

// NewPlanner wires the planning pipeline. Zero option fields fall back to
// the defaults.
func NewPlanner(
	embedder Embedder,
	searcher ChunkSearcher,
	curator *curation.Curator,
	llmClient llm.Client,
	cat *catalog.Catalog,
	opts PlannerOptions,
	logger *zerolog.Logger,
) *Planner {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	if opts.OverfetchFactor <= 0 {
		opts.OverfetchFactor = DefaultOverfetchFactor
	}

	if len(opts.Slots) == 0 {
		opts.Slots = domain.DefaultSlots
	}

	return &Planner{
		embedder:  embedder,
		searcher:  searcher,
		curator:   curator,
		llm:       llmClient,
		catalog:   cat,
		validator: NewValidator(opts.Slots),
		opts:      opts,
		logger:    logger,
	}
}

// Generate builds a plan for the request. The returned plan's meals come
// from the catalog selection, not from the model draft.
func (p *Planner) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := p.generate(ctx, req)
	if err != nil {
		observability.PlanRequests.WithLabelValues("error").Inc()

		return nil, err
	}

	resp.LatencyMs = time.Since(start).Milliseconds()

	observability.PlanRequests.WithLabelValues("ok").Inc()
	observability.PlanRequestDuration.Observe(time.Since(start).Seconds())

	return resp, nil
}

func (p *Planner) generate(ctx context.Context, req Request) (*Response, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: goal is required", apperrors.ErrInvalidInput)
	}

	days := req.Days
	if days <= 0 {
		days = DefaultDays
	}

	evidence, err := p.retrieveEvidence(ctx, goal, req.Profile)
	if err != nil {
		return nil, err
	}

	summary, err := p.llm.SummarizeEvidence(ctx, goal, evidence)
	if err != nil {
		return nil, fmt.Errorf("summarize evidence: %w", err)
	}

	draft, err := p.draftValidPlan(ctx, goal, summary, days)
	if err != nil {
		return nil, err
	}

	p.applyMealSelection(draft, req.Profile, days)

	if err := p.validator.Validate(draft); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}

	p.logger.Info().
		Str("goal", goal).
		Int("days", days).
		Int("evidence", len(evidence)).
		Msg("Plan generated")

	return &Response{
		Plan:            draft,
		Retrieved:       evidence,
		EvidenceSummary: summary,
	}, nil
}

// retrieveEvidence embeds the profile-enriched goal, runs the widened
// similarity search and curates the candidates down to TopK. An empty
// index yields empty evidence, not an error.
func (p *Planner) retrieveEvidence(ctx context.Context, goal string, profile *domain.Profile) ([]domain.EvidenceItem, error) {
	query := enrichQuery(goal, profile)

	embedding, err := p.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	limit := p.opts.TopK * p.opts.OverfetchFactor

	chunks, err := p.searcher.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}

	if len(chunks) == 0 {
		p.logger.Warn().Str("goal", goal).Msg("No corpus matches, drafting without evidence")
		return nil, nil
	}

	candidates := make([]curation.Candidate, 0, len(chunks))
	for _, c := range chunks {
		candidates = append(candidates, curation.Candidate{Text: c.Text, Source: c.Source, Page: c.Page})
	}

	evidence := p.curator.Curate(candidates, p.opts.TopK)

	observability.RetrievalCandidatesDropped.WithLabelValues("curation").Add(float64(len(candidates) - len(evidence)))

	return evidence, nil
}

// draftValidPlan asks the model for a plan and retries once when the
// draft fails structural validation.
func (p *Planner) draftValidPlan(ctx context.Context, goal, summary string, days int) (*domain.GeneratedPlan, error) {
	var lastErr error

	for attempt := 1; attempt <= maxDraftAttempts; attempt++ {
		draft, err := p.llm.DraftPlan(ctx, goal, summary, days)
		if err != nil {
			return nil, fmt.Errorf("draft plan: %w", err)
		}

		if err := p.validateDraftShape(draft, days); err != nil {
			lastErr = err
			p.logger.Warn().Err(err).Int("attempt", attempt).Msg("Discarding malformed draft")

			continue
		}

		return draft, nil
	}

	return nil, fmt.Errorf("draft plan: %w", lastErr)
}

// validateDraftShape checks only what the meal override cannot repair:
// day count and per-day workout text.
func (p *Planner) validateDraftShape(draft *domain.GeneratedPlan, days int) error {
	if draft == nil || len(draft.Days) == 0 {
		return &apperrors.StructuralError{Day: -1, Field: "days"}
	}

	if len(draft.Days) != days {
		return &apperrors.StructuralError{Day: -1, Field: "days"}
	}

	for i, day := range draft.Days {
		if strings.TrimSpace(day.Workout) == "" {
			return &apperrors.StructuralError{Day: i, Field: "workout"}
		}
	}

	return nil
}

// applyMealSelection replaces the draft's meal placeholders with the
// diversified catalog selection, honoring dietary restrictions.
func (p *Planner) applyMealSelection(draft *domain.GeneratedPlan, profile *domain.Profile, days int) {
	restrictions := ""
	if profile != nil {
		restrictions = profile.Restrictions
	}

	eligible := p.catalog.FilterByRestrictions(restrictions)
	selector := NewSelector(eligible, p.logger)

	selections := selector.Select(SelectorOptions{
		Days:                 days,
		Slots:                p.opts.Slots,
		RotateCuisines:       p.opts.RotateCuisines,
		MaxSameCuisinePerDay: p.opts.MaxSameCuisinePerDay,
	})

	for i := range draft.Days {
		if i >= len(selections) {
			break
		}

		if draft.Days[i].Meals == nil {
			draft.Days[i].Meals = make(map[string]string, len(p.opts.Slots))
		}

		for slot, recipe := range selections[i] {
			draft.Days[i].Meals[slot] = recipe.Name
		}
	}
}

// enrichQuery folds profile context into the retrieval query so the
// similarity search sees restrictions and body stats alongside the goal.
func enrichQuery(goal string, profile *domain.Profile) string {
	if profile == nil {
		return goal
	}

	parts := []string{goal}

	if profile.Restrictions != "" {
		parts = append(parts, "dietary restrictions: "+profile.Restrictions)
	}

	if profile.Age > 0 {
		parts = append(parts, fmt.Sprintf("age %d", profile.Age))
	}

	if profile.WeightKg > 0 {
		parts = append(parts, fmt.Sprintf("weight %.0f kg", profile.WeightKg))
	}

	if profile.HeightCm > 0 {
		parts = append(parts, fmt.Sprintf("height %.0f cm", profile.HeightCm))
	}

	return strings.Join(parts, ". ")
}
