// Package normalize provides text normalization and dedup signature helpers
// shared by the ingestion and retrieval curation stages.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

const (
	minBoilerplateLineLen = 30
	minLineAlphaCount     = 10
)

var (
	urlRE      = regexp.MustCompile(`https?://\S+`)
	wsRE       = regexp.MustCompile(`\s+`)
	nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)
)

// DefaultBoilerplatePhrases flag promotional and navigational lines dropped
// during boilerplate stripping. The list is data, not logic: callers may
// supply their own via NewCleaner.
var DefaultBoilerplatePhrases = []string{
	"subscribe",
	"sign up",
	"cookie",
	"privacy",
	"terms",
	"share this",
	"available at:",
	"myplate.gov",
	"myplate plan",
	"back to top",
	"newsletter",
	"sponsored",
}

// Normalize lowercases the text, replaces URL substrings with a space,
// collapses runs of non-alphanumeric characters to single spaces and trims.
// Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = urlRE.ReplaceAllString(text, " ")
	text = wsRE.ReplaceAllString(text, " ")
	text = nonAlnumRE.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// CollapseWhitespace replaces whitespace runs with single spaces and trims.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(wsRE.ReplaceAllString(text, " "))
}

// SignaturePrefix returns the normalized text truncated to at most n bytes.
// Normalized text is plain ASCII, so byte truncation never splits a rune.
func SignaturePrefix(text string, n int) string {
	norm := Normalize(text)
	if len(norm) > n {
		norm = norm[:n]
	}

	return norm
}

// HashContent returns a hex digest of the text, used for whole-document dedup.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// CountAlpha returns the number of alphabetic runes in the text.
func CountAlpha(text string) int {
	count := 0

	for _, r := range text {
		if unicode.IsLetter(r) {
			count++
		}
	}

	return count
}

// ContainsURL reports whether the text contains an http(s) URL.
func ContainsURL(text string) bool {
	return urlRE.MatchString(text)
}

// Cleaner strips boilerplate lines from extracted document text.
type Cleaner struct {
	phrases []string
}

// NewCleaner creates a Cleaner with the given phrase list.
// A nil or empty list falls back to DefaultBoilerplatePhrases.
func NewCleaner(phrases []string) *Cleaner {
	if len(phrases) == 0 {
		phrases = DefaultBoilerplatePhrases
	}

	return &Cleaner{phrases: phrases}
}

// StripBoilerplate drops lines that look like navigation, footers or
// promotional copy and rejoins the remainder with normalized whitespace.
func (c *Cleaner) StripBoilerplate(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || c.isBoilerplateLine(line) {
			continue
		}

		kept = append(kept, line)
	}

	return CollapseWhitespace(strings.Join(kept, "\n"))
}

func (c *Cleaner) isBoilerplateLine(line string) bool {
	if len(line) < minBoilerplateLineLen {
		return true
	}

	lower := strings.ToLower(line)
	if ContainsURL(lower) {
		return true
	}

	for _, phrase := range c.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return CountAlpha(lower) < minLineAlphaCount
}
