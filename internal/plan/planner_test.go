package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachan-rai/healthtrack-pro/internal/catalog"
	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/core/embeddings"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/core/llm"
	"github.com/sachan-rai/healthtrack-pro/internal/process/curation"
)

type stubSearcher struct {
	chunks []domain.Chunk
	err    error
	gotLim int
}

func (s *stubSearcher) SearchSimilar(_ context.Context, _ []float32, limit int) ([]domain.Chunk, error) {
	s.gotLim = limit
	return s.chunks, s.err
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Recipe{
		{Name: "Oatmeal Bowl", Meals: []string{domain.SlotBreakfast}, Cuisine: "american", Diet: []string{"vegetarian"}},
		{Name: "Greek Yogurt Parfait", Meals: []string{domain.SlotBreakfast}, Cuisine: "greek", Diet: []string{"vegetarian"}},
		{Name: "Lentil Soup", Meals: []string{domain.SlotLunch}, Cuisine: "mediterranean", Diet: []string{"vegan"}},
		{Name: "Chicken Wrap", Meals: []string{domain.SlotLunch}, Cuisine: "mexican"},
		{Name: "Tofu Stir Fry", Meals: []string{domain.SlotDinner}, Cuisine: "asian", Diet: []string{"vegan"}},
		{Name: "Grilled Salmon", Meals: []string{domain.SlotDinner}, Cuisine: "nordic"},
		{Name: "Chickpea Salad", Cuisine: "mediterranean", Diet: []string{"vegan"}},
	})
}

func testPlanner(t *testing.T, searcher ChunkSearcher, client llm.Client) *Planner {
	t.Helper()

	logger := zerolog.Nop()

	return NewPlanner(
		embeddings.NewMockProvider(32),
		searcher,
		curation.New(),
		client,
		testCatalog(),
		PlannerOptions{},
		&logger,
	)
}

func evidenceChunk(text string) domain.Chunk {
	return domain.Chunk{Text: text, Source: "nutrition-guide.pdf", Page: 3}
}

func TestPlanner_GenerateFillsMealsFromCatalog(t *testing.T) {
	searcher := &stubSearcher{chunks: []domain.Chunk{
		evidenceChunk("Adults should aim for a balance of protein, fiber and healthy fats at every meal to maintain steady energy."),
	}}

	p := testPlanner(t, searcher, llm.NewMock())

	resp, err := p.Generate(context.Background(), Request{Goal: "improve energy", Days: 2})
	require.NoError(t, err)
	require.Len(t, resp.Plan.Days, 2)

	catalogNames := make(map[string]struct{})
	for _, r := range testCatalog().Recipes() {
		catalogNames[r.Name] = struct{}{}
	}

	for _, day := range resp.Plan.Days {
		for _, slot := range domain.DefaultSlots {
			name := day.Meals[slot]
			require.NotEmpty(t, name, "slot %s unfilled", slot)

			_, ok := catalogNames[name]
			assert.True(t, ok, "meal %q not from catalog", name)
		}
	}
}

func TestPlanner_GenerateDefaultsDays(t *testing.T) {
	p := testPlanner(t, &stubSearcher{}, llm.NewMock())

	resp, err := p.Generate(context.Background(), Request{Goal: "sleep better"})
	require.NoError(t, err)
	assert.Len(t, resp.Plan.Days, DefaultDays)
}

func TestPlanner_GenerateRejectsEmptyGoal(t *testing.T) {
	p := testPlanner(t, &stubSearcher{}, llm.NewMock())

	_, err := p.Generate(context.Background(), Request{Goal: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPlanner_GenerateOverfetchesSearch(t *testing.T) {
	searcher := &stubSearcher{}
	p := testPlanner(t, searcher, llm.NewMock())

	_, err := p.Generate(context.Background(), Request{Goal: "lose weight"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK*DefaultOverfetchFactor, searcher.gotLim)
}

func TestPlanner_GenerateEmptyIndexStillDrafts(t *testing.T) {
	p := testPlanner(t, &stubSearcher{}, llm.NewMock())

	resp, err := p.Generate(context.Background(), Request{Goal: "build muscle"})
	require.NoError(t, err)
	assert.Empty(t, resp.Retrieved)
	assert.Empty(t, resp.EvidenceSummary)
	require.Len(t, resp.Plan.Days, DefaultDays)
}

func TestPlanner_GenerateCuratesEvidence(t *testing.T) {
	long := strings.Repeat("Fiber-rich vegetables support digestion and satiety across the day. ", 5)
	searcher := &stubSearcher{chunks: []domain.Chunk{
		evidenceChunk(long),
		evidenceChunk(long), // duplicate, dropped by signature
		evidenceChunk("Subscribe to our newsletter for weekly recipes."),
	}}

	p := testPlanner(t, searcher, llm.NewMock())

	resp, err := p.Generate(context.Background(), Request{Goal: "eat healthier"})
	require.NoError(t, err)
	require.Len(t, resp.Retrieved, 1)
	assert.Equal(t, domain.ClassGeneralizable, resp.Retrieved[0].Class)
	assert.NotEmpty(t, resp.EvidenceSummary)
}

func TestPlanner_GenerateHonorsRestrictions(t *testing.T) {
	p := testPlanner(t, &stubSearcher{}, llm.NewMock())

	resp, err := p.Generate(context.Background(), Request{
		Goal:    "plant based reset",
		Days:    1,
		Profile: &domain.Profile{Restrictions: "vegan"},
	})
	require.NoError(t, err)

	allowed := map[string]struct{}{"Lentil Soup": {}, "Tofu Stir Fry": {}, "Chickpea Salad": {}}
	for _, day := range resp.Plan.Days {
		for slot, name := range day.Meals {
			_, ok := allowed[name]
			assert.True(t, ok, "slot %s holds non-vegan meal %q", slot, name)
		}
	}
}

func TestPlanner_GenerateRetriesMalformedDraft(t *testing.T) {
	calls := 0
	client := llm.NewMock()
	client.DraftFunc = func(ctx context.Context, goal, summary string, days int) (*domain.GeneratedPlan, error) {
		calls++
		if calls == 1 {
			return &domain.GeneratedPlan{}, nil
		}

		return llm.NewMock().DraftPlan(ctx, goal, summary, days)
	}

	p := testPlanner(t, &stubSearcher{}, client)

	resp, err := p.Generate(context.Background(), Request{Goal: "get fit", Days: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, resp.Plan.Days, 2)
}

func TestPlanner_GenerateGivesUpAfterRetries(t *testing.T) {
	client := llm.NewMock()
	client.DraftFunc = func(context.Context, string, string, int) (*domain.GeneratedPlan, error) {
		return &domain.GeneratedPlan{}, nil
	}

	p := testPlanner(t, &stubSearcher{}, client)

	_, err := p.Generate(context.Background(), Request{Goal: "get fit"})
	require.Error(t, err)

	var sErr *apperrors.StructuralError
	assert.True(t, errors.As(err, &sErr))
}

func TestPlanner_GenerateSearchErrorPropagates(t *testing.T) {
	p := testPlanner(t, &stubSearcher{err: errors.New("connection refused")}, llm.NewMock())

	_, err := p.Generate(context.Background(), Request{Goal: "run faster"})
	assert.ErrorContains(t, err, "search corpus")
}

func TestPlanner_GenerateDraftErrorPropagates(t *testing.T) {
	client := llm.NewMock()
	client.DraftFunc = func(context.Context, string, string, int) (*domain.GeneratedPlan, error) {
		return nil, errors.New("rate limited")
	}

	p := testPlanner(t, &stubSearcher{}, client)

	_, err := p.Generate(context.Background(), Request{Goal: "run faster"})
	assert.ErrorContains(t, err, "draft plan")
}

func TestEnrichQuery(t *testing.T) {
	got := enrichQuery("lose weight", &domain.Profile{
		Age:          34,
		WeightKg:     82,
		HeightCm:     178,
		Restrictions: "vegetarian",
	})

	assert.Contains(t, got, "lose weight")
	assert.Contains(t, got, "dietary restrictions: vegetarian")
	assert.Contains(t, got, "age 34")
	assert.Contains(t, got, "weight 82 kg")
	assert.Contains(t, got, "height 178 cm")

	assert.Equal(t, "lose weight", enrichQuery("lose weight", nil))
}
