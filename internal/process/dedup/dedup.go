// Package dedup collapses near-identical content units using normalized
// prefix signatures keyed by source and page.
//
// The ingestion stage and the retrieval curation stage use different prefix
// budgets (400 vs 220 chars). Both constants are intentional per-stage
// tuning inherited from the corpus pipeline; do not unify them.
package dedup

import (
	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/process/normalize"
)

// Signature prefix budgets per stage.
const (
	IngestPrefixLen    = 400
	RetrievalPrefixLen = 220
)

// Log key constants for deduplication.
const (
	logKeySource = "source"
	logKeyPage   = "page"
	logKeyReason = "reason"
)

// Signature is the derived identity of a content unit for dedup purposes.
// Two units with equal signatures are duplicates; only the first survives.
type Signature struct {
	Source string
	Page   int
	Prefix string
}

// NewSignature derives a signature from a unit with the given prefix budget.
func NewSignature(unit domain.ContentUnit, prefixLen int) Signature {
	return Signature{
		Source: unit.Source,
		Page:   unit.Page,
		Prefix: normalize.SignaturePrefix(unit.Text, prefixLen),
	}
}

// SignatureSet tracks seen signatures within one batch.
type SignatureSet struct {
	prefixLen int
	seen      map[Signature]struct{}
}

// NewSignatureSet creates an empty set with the given prefix budget.
func NewSignatureSet(prefixLen int) *SignatureSet {
	return &SignatureSet{
		prefixLen: prefixLen,
		seen:      make(map[Signature]struct{}),
	}
}

// SeenBefore records the unit's signature and reports whether an equal
// signature was already present.
func (s *SignatureSet) SeenBefore(unit domain.ContentUnit) bool {
	sig := NewSignature(unit, s.prefixLen)
	if _, ok := s.seen[sig]; ok {
		return true
	}

	s.seen[sig] = struct{}{}

	return false
}

// QualityFilter rejects low-quality chunks before dedup.
type QualityFilter interface {
	RejectReason(text string) (bool, string)
}

// Result carries the surviving units plus drop counters for observability.
type Result struct {
	Units            []domain.ContentUnit
	DroppedQuality   int
	DroppedDuplicate int

	// QualityReasons counts quality drops per reason code.
	QualityReasons map[string]int
}

// Deduper filters and deduplicates ingested content units.
type Deduper struct {
	quality QualityFilter
	logger  *zerolog.Logger
}

// New creates a Deduper. The logger may be nil.
func New(quality QualityFilter, logger *zerolog.Logger) *Deduper {
	return &Deduper{
		quality: quality,
		logger:  logger,
	}
}

// Dedupe performs a single order-preserving pass over the input: a unit is
// emitted iff it passes the quality filter and its ingest-stage signature
// has not been seen. Rejections are expected and non-fatal.
func (d *Deduper) Dedupe(units []domain.ContentUnit) Result {
	result := Result{
		Units:          make([]domain.ContentUnit, 0, len(units)),
		QualityReasons: make(map[string]int),
	}
	seen := NewSignatureSet(IngestPrefixLen)

	for _, unit := range units {
		if rejected, reason := d.quality.RejectReason(unit.Text); rejected {
			result.DroppedQuality++
			result.QualityReasons[reason]++
			d.logDrop(unit, reason)

			continue
		}

		if seen.SeenBefore(unit) {
			result.DroppedDuplicate++
			d.logDrop(unit, "duplicate_signature")

			continue
		}

		result.Units = append(result.Units, unit)
	}

	return result
}

func (d *Deduper) logDrop(unit domain.ContentUnit, reason string) {
	if d.logger == nil {
		return
	}

	d.logger.Debug().
		Str(logKeySource, unit.Source).
		Int(logKeyPage, unit.Page).
		Str(logKeyReason, reason).
		Msg("Dropping chunk")
}
