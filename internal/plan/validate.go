package plan

import (
	"sort"
	"strings"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
)

// Validator performs post-hoc structural checks on a generated plan.
// It never mutates the plan; callers decide whether a failure means
// retrying generation or surfacing the error.
type Validator struct {
	requiredSlots []string
}

// NewValidator creates a Validator requiring the given meal slots per day.
// An empty slice defaults to breakfast/lunch/dinner.
func NewValidator(requiredSlots []string) *Validator {
	if len(requiredSlots) == 0 {
		requiredSlots = domain.DefaultSlots
	}

	return &Validator{requiredSlots: requiredSlots}
}

// Validate returns nil for a structurally sound plan, or a *StructuralError
// naming the offending day and field.
func (v *Validator) Validate(p *domain.GeneratedPlan) error {
	if p == nil || len(p.Days) == 0 {
		return &apperrors.StructuralError{Day: -1, Field: "days"}
	}

	for i, day := range p.Days {
		if day.Meals == nil {
			return &apperrors.StructuralError{Day: i, Field: "meals"}
		}

		if strings.TrimSpace(day.Workout) == "" {
			return &apperrors.StructuralError{Day: i, Field: "workout"}
		}

		for _, slot := range v.requiredSlots {
			if strings.TrimSpace(day.Meals[slot]) == "" {
				return &apperrors.StructuralError{Day: i, Field: "meals." + slot}
			}
		}

		if dups := duplicateMealNames(day.Meals); len(dups) > 0 {
			return &apperrors.StructuralError{Day: i, Field: "meals", Names: dups}
		}
	}

	return nil
}

// duplicateMealNames returns meal names occurring in more than one slot of
// the same day, compared case-insensitively after trimming.
func duplicateMealNames(meals map[string]string) []string {
	seen := make(map[string]struct{}, len(meals))
	reported := make(map[string]struct{})

	var dups []string

	for _, name := range meals {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			if _, done := reported[key]; !done {
				dups = append(dups, key)
				reported[key] = struct{}{}
			}

			continue
		}

		seen[key] = struct{}{}
	}

	sort.Strings(dups)

	return dups
}
