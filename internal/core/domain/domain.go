package domain

import "time"

// ContentUnit is a span of extracted text with provenance metadata.
// Units are produced by the ingestion loaders or the retrieval layer and
// are immutable once created.
type ContentUnit struct {
	Text   string
	Source string
	Page   int // 0 when the source has no page structure
	Kind   string
}

// Content kind constants.
const (
	KindPDF      = "pdf"
	KindMarkdown = "md"
	KindHTML     = "html"
	KindText     = "txt"
	KindURL      = "url"
)

// Chunk is an indexed unit of corpus text with its embedding.
type Chunk struct {
	ID        string
	Source    string
	Page      int
	Kind      string
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// EvidenceClass labels retrieved evidence as universally applicable
// guidance or a personal/narrative anecdote.
type EvidenceClass string

// Evidence class constants.
const (
	ClassGeneralizable EvidenceClass = "generalizable"
	ClassCaseStudy     EvidenceClass = "case_study"
)

// EvidenceItem is one curated retrieval snippet. It lives only for the
// duration of a plan request and is never persisted.
type EvidenceItem struct {
	Text   string        `json:"text"`
	Source string        `json:"source"`
	Page   int           `json:"page,omitempty"`
	Class  EvidenceClass `json:"class"`
}

// Recipe is a catalog item eligible to fill meal slots.
// Name is the uniqueness key within a day. An empty Meals set means the
// recipe is eligible for every slot.
type Recipe struct {
	Name        string   `json:"name"`
	Meals       []string `json:"meal"`
	Cuisine     string   `json:"cuisine"`
	Diet        []string `json:"diet"`
	Protein     []string `json:"protein"`
	Grain       []string `json:"grain"`
	Ingredients []string `json:"ingredients"`
	Kcal        int      `json:"kcal"`
}

// SupportsSlot reports whether the recipe may fill the given meal slot.
func (r Recipe) SupportsSlot(slot string) bool {
	if len(r.Meals) == 0 {
		return true
	}

	for _, m := range r.Meals {
		if m == slot {
			return true
		}
	}

	return false
}

// DaySelection maps a slot name to the recipe chosen for it.
// Slots with no eligible candidate are absent from the map.
type DaySelection map[string]Recipe

// Meal slot constants.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
)

// DefaultSlots are the meal slots requested for every planned day.
var DefaultSlots = []string{SlotBreakfast, SlotLunch, SlotDinner}

// PlanDay is one day of a generated plan.
type PlanDay struct {
	Day     string            `json:"day"`
	Meals   map[string]string `json:"meals"`
	Workout string            `json:"workout"`
}

// GeneratedPlan is the structured plan drafted by the language model and
// checked by the validator before it is returned to the caller.
type GeneratedPlan struct {
	Days    []PlanDay `json:"days"`
	Tips    []string  `json:"tips"`
	Caution string    `json:"caution"`
}

// Profile carries optional caller context used to enrich the goal query.
type Profile struct {
	Age          int     `json:"age,omitempty"`
	WeightKg     float64 `json:"weight_kg,omitempty"`
	HeightCm     float64 `json:"height_cm,omitempty"`
	Restrictions string  `json:"restrictions,omitempty"`
}
