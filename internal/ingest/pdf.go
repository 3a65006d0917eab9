package ingest

import (
	"bytes"
	"fmt"
	"os"

	pdf "github.com/ledongthuc/pdf"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/process/normalize"
)

// loadPDF extracts one ContentUnit per non-empty page.
func loadPDF(path, name string, cleaner *normalize.Cleaner) ([]domain.ContentUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf reader: %w", err)
	}

	var units []domain.ContentUnit

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page should not sink the whole document.
			continue
		}

		text = cleaner.StripBoilerplate(text)
		if text == "" {
			continue
		}

		units = append(units, domain.ContentUnit{
			Text:   text,
			Source: name,
			Page:   pageNum,
			Kind:   domain.KindPDF,
		})
	}

	return units, nil
}
