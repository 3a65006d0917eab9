package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/process/normalize"
)

// URLsFile is the optional per-corpus file listing source URLs.
const URLsFile = "urls.txt"

// hashPrefixLen bounds the content prefix hashed for whole-document dedup.
const hashPrefixLen = 1200

// Loader walks a corpus directory and extracts ContentUnits from the
// supported document formats.
type Loader struct {
	cleaner *normalize.Cleaner
	fetcher *WebFetcher
	logger  *zerolog.Logger
}

// NewLoader creates a Loader. The fetcher may be nil to disable URL
// ingestion.
func NewLoader(cleaner *normalize.Cleaner, fetcher *WebFetcher, logger *zerolog.Logger) *Loader {
	return &Loader{
		cleaner: cleaner,
		fetcher: fetcher,
		logger:  logger,
	}
}

// LoadFolder extracts ContentUnits from every supported file under dir.
// Whole documents with identical (source, page, content-prefix hash) are
// collapsed to their first occurrence.
func (l *Loader) LoadFolder(dir string) ([]domain.ContentUnit, error) {
	var units []domain.ContentUnit

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		loaded, err := l.loadFile(path)
		if err != nil {
			// A broken document should not sink the whole corpus.
			l.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable document")
			return nil
		}

		units = append(units, loaded...)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus dir: %w", err)
	}

	return dedupeDocuments(units), nil
}

func (l *Loader) loadFile(path string) ([]domain.ContentUnit, error) {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return loadPDF(path, name, l.cleaner)
	case ".html", ".htm":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}

		text, err := ExtractHTMLText(raw, "")
		if err != nil {
			return nil, err
		}

		return l.singleUnit(text, name, domain.KindHTML), nil
	case ".md", ".markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}

		return l.singleUnit(string(raw), name, domain.KindMarkdown), nil
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}

		return l.singleUnit(string(raw), name, domain.KindText), nil
	default:
		return nil, nil
	}
}

func (l *Loader) singleUnit(text, source, kind string) []domain.ContentUnit {
	text = l.cleaner.StripBoilerplate(text)
	if text == "" {
		return nil
	}

	return []domain.ContentUnit{{Text: text, Source: source, Kind: kind}}
}

// LoadURLs fetches and extracts the pages listed one-per-line in the urls
// file. Lines starting with '#' are skipped; bad URLs are logged and
// dropped, never fatal.
func (l *Loader) LoadURLs(ctx context.Context, path string) ([]domain.ContentUnit, error) {
	if l.fetcher == nil {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open urls file: %w", err)
	}
	defer file.Close()

	var units []domain.ContentUnit

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		rawURL := strings.TrimSpace(scanner.Text())
		if rawURL == "" || strings.HasPrefix(rawURL, "#") {
			continue
		}

		body, err := l.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			l.logger.Warn().Err(err).Str("url", rawURL).Msg("Skipping unreachable URL")
			continue
		}

		text, err := ExtractHTMLText(body, rawURL)
		if err != nil {
			l.logger.Warn().Err(err).Str("url", rawURL).Msg("Skipping unparsable page")
			continue
		}

		text = l.cleaner.StripBoilerplate(text)
		if text == "" {
			continue
		}

		units = append(units, domain.ContentUnit{Text: text, Source: rawURL, Kind: domain.KindURL})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan urls file: %w", err)
	}

	return units, nil
}

type docKey struct {
	source string
	page   int
	hash   string
}

func dedupeDocuments(units []domain.ContentUnit) []domain.ContentUnit {
	seen := make(map[docKey]struct{}, len(units))
	kept := units[:0]

	for _, u := range units {
		prefix := u.Text
		if len(prefix) > hashPrefixLen {
			prefix = prefix[:hashPrefixLen]
		}

		key := docKey{source: u.Source, page: u.Page, hash: normalize.HashContent(prefix)}
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		kept = append(kept, u)
	}

	return kept
}
