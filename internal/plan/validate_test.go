package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
)

func validDay(day string) domain.PlanDay {
	return domain.PlanDay{
		Day: day,
		Meals: map[string]string{
			"breakfast": "Oatmeal",
			"lunch":     "Greek Salad",
			"dinner":    "Salmon Bowl",
		},
		Workout: "30 minutes of moderate cycling plus core work",
	}
}

func TestValidator_AcceptsSoundPlan(t *testing.T) {
	v := NewValidator(nil)

	p := &domain.GeneratedPlan{
		Days:    []domain.PlanDay{validDay("Day 1"), validDay("Day 2")},
		Tips:    []string{"Hydrate before workouts"},
		Caution: "Consult a professional before major dietary changes",
	}

	assert.NoError(t, v.Validate(p))
}

func TestValidator_StructuralFailures(t *testing.T) {
	v := NewValidator(nil)

	missingWorkout := validDay("Day 1")
	missingWorkout.Workout = "  "

	missingSlot := validDay("Day 1")
	delete(missingSlot.Meals, "lunch")

	emptySlot := validDay("Day 1")
	emptySlot.Meals["dinner"] = ""

	tests := []struct {
		name      string
		plan      *domain.GeneratedPlan
		wantDay   int
		wantField string
	}{
		{
			name:      "nil plan",
			plan:      nil,
			wantDay:   -1,
			wantField: "days",
		},
		{
			name:      "empty days",
			plan:      &domain.GeneratedPlan{},
			wantDay:   -1,
			wantField: "days",
		},
		{
			name:      "missing meals map",
			plan:      &domain.GeneratedPlan{Days: []domain.PlanDay{{Day: "Day 1", Workout: "run"}}},
			wantDay:   0,
			wantField: "meals",
		},
		{
			name:      "missing workout",
			plan:      &domain.GeneratedPlan{Days: []domain.PlanDay{missingWorkout}},
			wantDay:   0,
			wantField: "workout",
		},
		{
			name:      "missing required slot",
			plan:      &domain.GeneratedPlan{Days: []domain.PlanDay{missingSlot}},
			wantDay:   0,
			wantField: "meals.lunch",
		},
		{
			name:      "empty slot value",
			plan:      &domain.GeneratedPlan{Days: []domain.PlanDay{emptySlot}},
			wantDay:   0,
			wantField: "meals.dinner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.plan)
			require.Error(t, err)

			var sErr *apperrors.StructuralError
			require.ErrorAs(t, err, &sErr)

			assert.Equal(t, tt.wantDay, sErr.Day)
			assert.Equal(t, tt.wantField, sErr.Field)
		})
	}
}

func TestValidator_DuplicateNamesCaseInsensitive(t *testing.T) {
	v := NewValidator(nil)

	day := validDay("Day 2")
	day.Meals["dinner"] = "  greek salad "

	p := &domain.GeneratedPlan{Days: []domain.PlanDay{validDay("Day 1"), day}}

	err := v.Validate(p)
	require.Error(t, err)

	var sErr *apperrors.StructuralError
	require.ErrorAs(t, err, &sErr)

	assert.Equal(t, 1, sErr.Day)
	assert.Equal(t, []string{"greek salad"}, sErr.Names)
}

func TestValidator_SelectorOutputAlwaysPasses(t *testing.T) {
	v := NewValidator(nil)
	s := NewSelector(sampleCatalog(), nil)

	for seed := int64(0); seed < 25; seed++ {
		days := s.Select(SelectorOptions{Days: 3, Seed: seedPtr(seed)})

		planDays := make([]domain.PlanDay, 0, len(days))

		for i, sel := range days {
			meals := make(map[string]string, len(sel))
			for slot, r := range sel {
				meals[slot] = r.Name
			}

			planDays = append(planDays, domain.PlanDay{
				Day:     "Day " + string(rune('1'+i)),
				Meals:   meals,
				Workout: "Full body strength session",
			})
		}

		err := v.Validate(&domain.GeneratedPlan{Days: planDays})
		assert.NoError(t, err, "seed %d", seed)
	}
}
