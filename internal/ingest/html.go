package ingest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Tags stripped before plain-text extraction when readability fails.
var strippedSelectors = []string{"script", "style", "noscript", "header", "footer", "nav", "aside"}

// ExtractHTMLText extracts readable article text from an HTML document.
// Readability (Reader Mode algorithm) is tried first; on failure the
// document is stripped of chrome tags and flattened to text.
func ExtractHTMLText(htmlBytes []byte, sourceURL string) (string, error) {
	u, _ := url.Parse(sourceURL)

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), u)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}

	return flattenHTML(htmlBytes)
}

func flattenHTML(htmlBytes []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for _, selector := range strippedSelectors {
		doc.Find(selector).Remove()
	}

	var b strings.Builder

	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteString(" ")
	})

	text := b.String()
	if strings.TrimSpace(text) == "" {
		// Some fixtures are fragments without a body element.
		text = doc.Text()
	}

	return text, nil
}
