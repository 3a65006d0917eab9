// Package curation turns a ranked list of raw retrieval candidates into a
// clean evidence list: boilerplate rejected, snippets clipped to sentence
// boundaries, near-duplicates dropped, and anecdotal material demoted
// behind generalizable guidance.
package curation

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/process/dedup"
)

const (
	// A sentence terminator this early marks the snippet as starting
	// mid-sentence; everything up to it is a truncated fragment.
	leadingFragmentWindow = 80

	// Snippets longer than this are cut back to the nearest preceding
	// sentence end.
	defaultMaxSnippetChars = 900
)

// Log key constants.
const (
	logKeySource = "source"
	logKeyReason = "reason"
)

// Drop reason codes.
const (
	reasonBoilerplate = "boilerplate_phrase"
	reasonDuplicate   = "duplicate_signature"
	reasonEmpty       = "empty_after_clip"
)

// DefaultBoilerplatePhrases reject whole candidates whose text leaked
// navigation or promotional copy past extraction.
var DefaultBoilerplatePhrases = []string{
	"available at",
	"myplate.gov",
	"subscribe",
	"sign up",
	"privacy policy",
	"newsletter",
	"back to top",
}

// DefaultCaseStudyMarkers flag narrative or anecdotal snippets: age
// phrases, role words and pronoun-verb combinations that indicate a
// personal story rather than generalizable guidance.
var DefaultCaseStudyMarkers = []string{
	"year-old",
	"case study",
	"scenario:",
	"example:",
	"for example",
	"patient",
	"subject",
	"participant",
	"individual",
	"client",
	"male,",
	"female,",
	"he was",
	"she was",
	"they were",
	"his ",
	"her ",
	"their ",
	"doctor",
	"physician",
	"nurse",
	"trainer",
}

// Candidate is one raw ranked snippet from the similarity search.
type Candidate struct {
	Text   string
	Source string
	Page   int
}

// Curator curates ranked retrieval candidates into an evidence list.
type Curator struct {
	boilerplate     []string
	caseMarkers     []string
	maxSnippetChars int
	logger          *zerolog.Logger
}

// Option customizes a Curator.
type Option func(*Curator)

// WithBoilerplatePhrases overrides the boilerplate reject list.
func WithBoilerplatePhrases(phrases []string) Option {
	return func(c *Curator) {
		if len(phrases) > 0 {
			c.boilerplate = phrases
		}
	}
}

// WithCaseStudyMarkers overrides the case-study marker list.
func WithCaseStudyMarkers(markers []string) Option {
	return func(c *Curator) {
		if len(markers) > 0 {
			c.caseMarkers = markers
		}
	}
}

// WithMaxSnippetChars overrides the snippet length cap.
func WithMaxSnippetChars(n int) Option {
	return func(c *Curator) {
		if n > 0 {
			c.maxSnippetChars = n
		}
	}
}

// WithLogger attaches a logger for drop diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Curator) {
		c.logger = logger
	}
}

// New creates a Curator with default phrase lists and limits.
func New(opts ...Option) *Curator {
	c := &Curator{
		boilerplate:     DefaultBoilerplatePhrases,
		caseMarkers:     DefaultCaseStudyMarkers,
		maxSnippetChars: defaultMaxSnippetChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Curate processes candidates in ranked order and returns at most k
// evidence items: generalizable snippets first, then case-study snippets,
// each class keeping its original relative order. Fewer than k survivors
// are returned as-is, never padded.
func (c *Curator) Curate(candidates []Candidate, k int) []domain.EvidenceItem {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	var generalizable, caseStudies []domain.EvidenceItem

	seen := dedup.NewSignatureSet(dedup.RetrievalPrefixLen)

	for _, cand := range candidates {
		raw := strings.TrimSpace(cand.Text)
		lower := strings.ToLower(raw)

		if c.hasBoilerplate(lower) {
			c.logDrop(cand.Source, reasonBoilerplate)
			continue
		}

		text := ClipToSentences(raw, c.maxSnippetChars)
		if text == "" {
			c.logDrop(cand.Source, reasonEmpty)
			continue
		}

		unit := domain.ContentUnit{Text: text, Source: cand.Source, Page: cand.Page}
		if seen.SeenBefore(unit) {
			c.logDrop(cand.Source, reasonDuplicate)
			continue
		}

		item := domain.EvidenceItem{
			Text:   text,
			Source: cand.Source,
			Page:   cand.Page,
			Class:  domain.ClassGeneralizable,
		}

		if c.looksLikeCaseStudy(text) {
			item.Class = domain.ClassCaseStudy
			caseStudies = append(caseStudies, item)
		} else {
			generalizable = append(generalizable, item)
		}
	}

	merged := append(generalizable, caseStudies...)
	if len(merged) > k {
		merged = merged[:k]
	}

	return merged
}

func (c *Curator) hasBoilerplate(lower string) bool {
	for _, phrase := range c.boilerplate {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return false
}

func (c *Curator) looksLikeCaseStudy(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range c.caseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}

func (c *Curator) logDrop(source, reason string) {
	if c.logger == nil {
		return
	}

	c.logger.Debug().
		Str(logKeySource, source).
		Str(logKeyReason, reason).
		Msg("Dropping retrieval candidate")
}

// ClipToSentences trims a leading partial sentence and caps the snippet at
// maxChars, cutting back to the nearest sentence-ending punctuation. A
// snippet with no sentence end under the cap is hard-truncated.
func ClipToSentences(text string, maxChars int) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return t
	}

	if idx := strings.Index(t, ". "); idx >= 0 && idx <= leadingFragmentWindow {
		t = strings.TrimLeft(t[idx+2:], " \t\n")
	}

	if len(t) > maxChars {
		cut := strings.LastIndex(t[:maxChars], ". ")
		if cut == -1 {
			cut = strings.LastIndex(t[:maxChars], "? ")
		}

		if cut == -1 {
			cut = strings.LastIndex(t[:maxChars], "! ")
		}

		if cut != -1 {
			t = t[:cut+1]
		} else {
			t = t[:maxChars]
		}
	}

	return strings.TrimSpace(t)
}
