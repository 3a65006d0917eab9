// Package catalog loads the static recipe catalog and applies
// dietary-restriction filtering before meal selection.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// Diet tag constants.
const (
	DietVegan      = "vegan"
	DietVegetarian = "vegetarian"
	DietGlutenFree = "gluten-free"
	DietDairyFree  = "dairy-free"
	DietLowCarb    = "low-carb"
	DietKeto       = "keto"
	DietPaleo      = "paleo"
)

// Catalog is a read-only recipe collection. It is safe to share across
// concurrent selector invocations.
type Catalog struct {
	recipes []domain.Recipe
}

// Load reads a recipe catalog from a JSON file. Recipes without a name
// are skipped.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes a recipe catalog from JSON bytes.
func Parse(data []byte) (*Catalog, error) {
	var recipes []domain.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	kept := make([]domain.Recipe, 0, len(recipes))

	for _, r := range recipes {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}

		kept = append(kept, r)
	}

	return &Catalog{recipes: kept}, nil
}

// New wraps an in-memory recipe list, used by tests and fixtures.
func New(recipes []domain.Recipe) *Catalog {
	return &Catalog{recipes: recipes}
}

// Recipes returns the full recipe list.
func (c *Catalog) Recipes() []domain.Recipe {
	return c.recipes
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// FilterByRestrictions returns recipes compatible with the given
// free-text dietary restrictions. When filtering leaves nothing, the
// full catalog is returned so selection can still proceed.
func (c *Catalog) FilterByRestrictions(restrictions string) []domain.Recipe {
	restrictions = strings.ToLower(strings.TrimSpace(restrictions))
	if restrictions == "" {
		return c.recipes
	}

	filtered := make([]domain.Recipe, 0, len(c.recipes))

	for _, r := range c.recipes {
		if matchesRestrictions(r, restrictions) {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) == 0 {
		return c.recipes
	}

	return filtered
}

func matchesRestrictions(r domain.Recipe, restrictions string) bool {
	diets := make(map[string]bool, len(r.Diet))
	for _, d := range r.Diet {
		diets[strings.ToLower(d)] = true
	}

	switch {
	case strings.Contains(restrictions, DietVegan):
		return diets[DietVegan]
	case strings.Contains(restrictions, DietVegetarian):
		// Vegan recipes satisfy vegetarian restrictions.
		return diets[DietVegetarian] || diets[DietVegan]
	case strings.Contains(restrictions, DietGlutenFree):
		return diets[DietGlutenFree]
	case strings.Contains(restrictions, DietDairyFree):
		return diets[DietDairyFree]
	case strings.Contains(restrictions, DietKeto):
		return diets[DietKeto]
	case strings.Contains(restrictions, DietLowCarb):
		return diets[DietLowCarb]
	case strings.Contains(restrictions, DietPaleo):
		return diets[DietPaleo]
	default:
		return true
	}
}
