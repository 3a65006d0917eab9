// Package plan builds and validates multi-day plan skeletons: diversified
// meal selection from the recipe catalog, plan drafting orchestration and
// structural validation of generated plans.
package plan

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// Soft-constraint weights. Uniqueness within a day is a hard filter;
// these penalties only steer selection and never block it.
const (
	noveltyPenalty      = 0.6
	rotationPenaltyStep = 0.5
	tieBreakJitterMax   = 0.25

	defaultCuisine = "general"
)

// SelectorOptions controls one multi-day selection run.
type SelectorOptions struct {
	// Days is the number of days to fill. Non-positive means no output.
	Days int

	// Slots are the slot names requested for every day, in order.
	// Empty defaults to breakfast/lunch/dinner.
	Slots []string

	// Recent seeds the novelty penalty with names the caller considers
	// recently consumed.
	Recent []string

	// Seed fixes the tie-break randomness for reproducible selection.
	// Nil draws fresh randomness per call.
	Seed *int64

	// RotateCuisines enables the per-day cuisine rotation penalty.
	RotateCuisines bool

	// MaxSameCuisinePerDay is the allowed per-day cuisine count before
	// the rotation penalty kicks in. Only used when RotateCuisines is set.
	MaxSameCuisinePerDay int
}

// Selector picks one recipe per (day, slot) from a read-only catalog.
// Each Select call owns its own recency state and random stream, so
// concurrent calls over a shared catalog are independent.
type Selector struct {
	catalog []domain.Recipe
	logger  *zerolog.Logger
}

// NewSelector creates a Selector over the given recipes. The logger may be nil.
func NewSelector(catalog []domain.Recipe, logger *zerolog.Logger) *Selector {
	return &Selector{
		catalog: catalog,
		logger:  logger,
	}
}

type scoredRecipe struct {
	score  float64
	recipe domain.Recipe
}

// Select returns one DaySelection per requested day. Within a day no two
// slots hold recipes with equal names; across the run, earlier picks
// penalize re-selection via the growing recent set (never reset between
// days). A slot with no usable candidate is left unfilled rather than
// failing the run.
func (s *Selector) Select(opts SelectorOptions) []domain.DaySelection {
	if opts.Days <= 0 || len(s.catalog) == 0 {
		return nil
	}

	slots := opts.Slots
	if len(slots) == 0 {
		slots = domain.DefaultSlots
	}

	rng := newRand(opts.Seed)

	recent := make(map[string]struct{}, len(opts.Recent))
	for _, name := range opts.Recent {
		recent[name] = struct{}{}
	}

	days := make([]domain.DaySelection, 0, opts.Days)

	for day := 0; day < opts.Days; day++ {
		selection := make(domain.DaySelection, len(slots))
		usedNames := make(map[string]struct{}, len(slots))
		cuisineCounts := make(map[string]int)

		for _, slot := range slots {
			pick, ok := s.pickForSlot(slot, usedNames, recent, cuisineCounts, opts, rng)
			if !ok {
				if s.logger != nil {
					s.logger.Debug().Int("day", day+1).Str("slot", slot).Msg("No candidate for slot, leaving unfilled")
				}

				continue
			}

			selection[slot] = pick
			usedNames[pick.Name] = struct{}{}
			recent[pick.Name] = struct{}{}
			cuisineCounts[cuisineOf(pick)]++
		}

		days = append(days, selection)
	}

	return days
}

func (s *Selector) pickForSlot(
	slot string,
	usedNames map[string]struct{},
	recent map[string]struct{},
	cuisineCounts map[string]int,
	opts SelectorOptions,
	rng *rand.Rand,
) (domain.Recipe, bool) {
	var best scoredRecipe

	found := false

	for _, r := range s.catalog {
		name := strings.TrimSpace(r.Name)
		if name == "" || !r.SupportsSlot(slot) {
			continue
		}

		if _, used := usedNames[name]; used {
			continue
		}

		score := rng.Float64() * tieBreakJitterMax
		if _, seen := recent[name]; seen {
			score += noveltyPenalty
		}

		if opts.RotateCuisines {
			score += cuisinePenalty(cuisineCounts, cuisineOf(r), opts.MaxSameCuisinePerDay)
		}

		if !found || score < best.score {
			best = scoredRecipe{score: score, recipe: r}
			found = true
		}
	}

	if found {
		return best.recipe, true
	}

	// Graceful degradation: ignore slot eligibility before giving up,
	// still honoring per-day name uniqueness.
	for _, r := range s.catalog {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}

		if _, used := usedNames[name]; used {
			continue
		}

		score := rng.Float64() * tieBreakJitterMax
		if !found || score < best.score {
			best = scoredRecipe{score: score, recipe: r}
			found = true
		}
	}

	return best.recipe, found
}

// cuisinePenalty nudges selection away from repeating the same cuisine
// within one day once it already reached the allowed count.
func cuisinePenalty(counts map[string]int, cuisine string, maxPerDay int) float64 {
	if maxPerDay <= 0 {
		return 0
	}

	over := counts[cuisine] - (maxPerDay - 1)
	if over < 0 {
		over = 0
	}

	return float64(over) * rotationPenaltyStep
}

func cuisineOf(r domain.Recipe) string {
	if r.Cuisine == "" {
		return defaultCuisine
	}

	return r.Cuisine
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed)) //nolint:gosec // tie-break jitter, not security sensitive
	}

	return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // tie-break jitter, not security sensitive
}
