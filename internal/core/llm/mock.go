package llm

import (
	"context"
	"fmt"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// MockClient is a deterministic Client for tests and local runs without
// an API key.
type MockClient struct {
	// SummarizeFunc and DraftFunc override the default canned responses.
	SummarizeFunc func(ctx context.Context, goal string, evidence []domain.EvidenceItem) (string, error)
	DraftFunc     func(ctx context.Context, goal string, evidenceSummary string, days int) (*domain.GeneratedPlan, error)
}

// NewMock creates a MockClient with canned responses.
func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) SummarizeEvidence(ctx context.Context, goal string, evidence []domain.EvidenceItem) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, goal, evidence)
	}

	if len(evidence) == 0 {
		return "", nil
	}

	summary := ""
	for _, item := range evidence {
		summary += fmt.Sprintf("- General guidance derived from evidence. [Source: %s p.%d]\n", item.Source, item.Page)
	}

	return summary, nil
}

func (m *MockClient) DraftPlan(ctx context.Context, goal string, evidenceSummary string, days int) (*domain.GeneratedPlan, error) {
	if m.DraftFunc != nil {
		return m.DraftFunc(ctx, goal, evidenceSummary, days)
	}

	planDays := make([]domain.PlanDay, 0, days)
	for i := 0; i < days; i++ {
		planDays = append(planDays, domain.PlanDay{
			Day: fmt.Sprintf("Day %d", i+1),
			Meals: map[string]string{
				domain.SlotBreakfast: "",
				domain.SlotLunch:     "",
				domain.SlotDinner:    "",
			},
			Workout: "30 minutes of moderate cardio plus two strength circuits",
		})
	}

	return &domain.GeneratedPlan{
		Days:    planDays,
		Tips:    []string{"Stay hydrated through the day", "Prioritize seven to nine hours of sleep"},
		Caution: "Consult a professional before major changes to diet or training.",
	}, nil
}
