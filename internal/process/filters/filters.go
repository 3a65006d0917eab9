// Package filters implements chunk quality filtering for corpus ingestion.
//
// The filter rejects fragments that would pollute the vector index:
//   - Chunks below a minimum length
//   - Link-heavy chunks leaking navigation or footers
//   - Chunks with too few alphabetic characters (tables, digit noise)
//   - Chunks matching promotional/ad phrases
package filters

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sachan-rai/healthtrack-pro/internal/process/normalize"
)

// Rejection reason codes, recorded in metrics and drop logs.
const (
	ReasonTooShort  = "chunk_too_short"
	ReasonLinkHeavy = "chunk_link_heavy"
	ReasonLowAlpha  = "chunk_low_alpha"
	ReasonAdPhrase  = "chunk_ad_phrase"
)

// Defaults tuned for ~700 char chunks with ~120 char overlap: anything
// under 250 chars is too fragmentary to embed on its own.
const (
	defaultMinChunkLen   = 250
	defaultMinAlphaCount = 100
	maxHTTPOccurrences   = 1
)

// DefaultAdPhrases catch navigation and footer leakage from HTML and
// markdown extraction. The list is loaded data; tune it without touching
// the algorithm.
var DefaultAdPhrases = []string{
	"myplate",
	"available at",
	"subscribe",
	"sign up",
	"cookie",
	"privacy policy",
	"newsletter",
	"back to top",
	"sponsored",
}

// QualityFilter classifies ingested chunks as acceptable or rejectable.
type QualityFilter struct {
	minLen    int
	minAlpha  int
	adPhrases []string
	caser     cases.Caser
}

// Option customizes a QualityFilter.
type Option func(*QualityFilter)

// WithMinLength overrides the minimum chunk length.
func WithMinLength(n int) Option {
	return func(f *QualityFilter) {
		if n > 0 {
			f.minLen = n
		}
	}
}

// WithMinAlpha overrides the minimum alphabetic character count.
func WithMinAlpha(n int) Option {
	return func(f *QualityFilter) {
		if n > 0 {
			f.minAlpha = n
		}
	}
}

// WithAdPhrases overrides the ad phrase list.
func WithAdPhrases(phrases []string) Option {
	return func(f *QualityFilter) {
		if len(phrases) > 0 {
			f.adPhrases = phrases
		}
	}
}

// New creates a QualityFilter with default thresholds.
func New(opts ...Option) *QualityFilter {
	f := &QualityFilter{
		minLen:    defaultMinChunkLen,
		minAlpha:  defaultMinAlphaCount,
		adPhrases: DefaultAdPhrases,
		caser:     cases.Fold(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// IsLowQuality returns true if the chunk should be rejected.
func (f *QualityFilter) IsLowQuality(text string) bool {
	rejected, _ := f.RejectReason(text)
	return rejected
}

// RejectReason returns whether the chunk is rejected and the reason code.
func (f *QualityFilter) RejectReason(text string) (bool, string) {
	lower := f.caser.String(text)

	if len(lower) < f.minLen {
		return true, ReasonTooShort
	}

	if strings.Count(lower, "http") > maxHTTPOccurrences {
		return true, ReasonLinkHeavy
	}

	if normalize.CountAlpha(lower) < f.minAlpha {
		return true, ReasonLowAlpha
	}

	for _, phrase := range f.adPhrases {
		if strings.Contains(lower, phrase) {
			return true, ReasonAdPhrase
		}
	}

	return false, ""
}
