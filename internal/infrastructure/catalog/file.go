// Package catalog loads the product and FAQ datasets the pipeline depends
// on at startup. Sources are read once; the loaded snapshot is immutable.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/shopassist/rag/internal/core/domain"
)

// FileSource reads the catalog from JSON files on disk.
type FileSource struct {
	productsPath string
	faqPath      string
}

func NewFileSource(productsPath, faqPath string) *FileSource {
	return &FileSource{productsPath: productsPath, faqPath: faqPath}
}

func (s *FileSource) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	var products []domain.Product
	if err := readJSONFile(s.productsPath, &products); err != nil {
		return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_products", err)
	}

	var faq []domain.FAQEntry
	if s.faqPath != "" {
		if err := readJSONFile(s.faqPath, &faq); err != nil {
			return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_faq", err)
		}
	}

	return domain.Dataset{Products: products, FAQ: assignFAQIDs(faq)}, nil
}

func readJSONFile(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// assignFAQIDs fills in positional ids for entries that carry none.
func assignFAQIDs(entries []domain.FAQEntry) []domain.FAQEntry {
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = "faq-" + strconv.Itoa(i+1)
		}
	}
	return entries
}
