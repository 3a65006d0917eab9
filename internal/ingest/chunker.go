package ingest

import (
	"strings"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
)

// Chunk geometry tuned together with the quality filter's 250-char floor.
const (
	DefaultChunkSize    = 700
	DefaultChunkOverlap = 120
)

// defaultSeparators are tried in order, coarsest boundary first.
var defaultSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", "; ", "• ", " - ", " "}

// Splitter cuts document text into overlapping chunks along natural
// boundaries, falling back to finer separators for oversized spans.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a Splitter. Non-positive sizes fall back to the
// defaults; overlap is clamped below the chunk size.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}

	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}

	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// SplitUnit splits one ContentUnit into chunk-sized units preserving
// provenance metadata.
func (s *Splitter) SplitUnit(unit domain.ContentUnit) []domain.ContentUnit {
	chunks := s.Split(unit.Text)
	units := make([]domain.ContentUnit, 0, len(chunks))

	for _, chunk := range chunks {
		units = append(units, domain.ContentUnit{
			Text:   chunk,
			Source: unit.Source,
			Page:   unit.Page,
			Kind:   unit.Kind,
		})
	}

	return units
}

// Split cuts the text into chunks of at most the configured size.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	chunks := s.splitRecursive(text, s.separators)

	kept := chunks[:0]

	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c != "" {
			kept = append(kept, c)
		}
	}

	return kept
}

func (s *Splitter) splitRecursive(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		return s.windowSplit(text)
	}

	sep := separators[0]
	if !strings.Contains(text, sep) {
		return s.splitRecursive(text, separators[1:])
	}

	parts := strings.SplitAfter(text, sep)
	pieces := make([]string, 0, len(parts))

	for _, p := range parts {
		if p == "" {
			continue
		}

		if len(p) > s.chunkSize {
			pieces = append(pieces, s.splitRecursive(p, separators[1:])...)
		} else {
			pieces = append(pieces, p)
		}
	}

	return s.merge(pieces)
}

// merge greedily packs pieces into chunks, carrying a tail of up to the
// overlap budget into the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string

	var current []string

	currentLen := 0

	for _, piece := range pieces {
		if currentLen > 0 && currentLen+len(piece) > s.chunkSize {
			chunks = append(chunks, strings.Join(current, ""))

			current, currentLen = s.overlapTail(current)
			for currentLen > 0 && currentLen+len(piece) > s.chunkSize {
				currentLen -= len(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		currentLen += len(piece)
	}

	if currentLen > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}

	return chunks
}

func (s *Splitter) overlapTail(pieces []string) ([]string, int) {
	var tail []string

	tailLen := 0

	for i := len(pieces) - 1; i >= 0; i-- {
		if tailLen+len(pieces[i]) > s.overlap {
			break
		}

		tail = append([]string{pieces[i]}, tail...)
		tailLen += len(pieces[i])
	}

	return tail, tailLen
}

// windowSplit cuts separator-free text into fixed windows with overlap.
func (s *Splitter) windowSplit(text string) []string {
	step := s.chunkSize - s.overlap

	var chunks []string

	for start := 0; start < len(text); start += step {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		chunks = append(chunks, text[start:end])
	}

	return chunks
}
