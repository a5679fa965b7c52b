package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shopassist/rag/internal/core/domain"
)

// XLSXSource reads the catalog from a spreadsheet workbook. The first row of
// each sheet names the columns; unknown columns are ignored.
type XLSXSource struct {
	path          string
	productsSheet string
	faqSheet      string
}

func NewXLSXSource(path, productsSheet, faqSheet string) *XLSXSource {
	if productsSheet == "" {
		productsSheet = "Products"
	}
	if faqSheet == "" {
		faqSheet = "Faq"
	}
	return &XLSXSource{path: path, productsSheet: productsSheet, faqSheet: faqSheet}
}

func (s *XLSXSource) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	workbook, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.open_workbook", err)
	}
	defer workbook.Close()

	products, err := s.readProducts(workbook)
	if err != nil {
		return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_products", err)
	}

	var faq []domain.FAQEntry
	if sheetExists(workbook, s.faqSheet) {
		faq, err = s.readFAQ(workbook)
		if err != nil {
			return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_faq", err)
		}
	}

	return domain.Dataset{Products: products, FAQ: assignFAQIDs(faq)}, nil
}

func (s *XLSXSource) readProducts(workbook *excelize.File) ([]domain.Product, error) {
	rows, err := workbook.GetRows(s.productsSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.productsSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", s.productsSheet)
	}

	columns := headerIndex(rows[0])
	products := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string { return cellAt(row, columns, name) }
		if cell("product_id") == "" && cell("productDisplayName") == "" {
			continue
		}
		year, _ := strconv.Atoi(cell("year"))
		price, _ := strconv.ParseFloat(cell("price"), 64)
		products = append(products, domain.Product{
			ID:             cell("product_id"),
			DisplayName:    cell("productDisplayName"),
			Gender:         cell("gender"),
			MasterCategory: cell("masterCategory"),
			SubCategory:    cell("subCategory"),
			ArticleType:    cell("articleType"),
			BaseColour:     cell("baseColour"),
			Season:         cell("season"),
			Year:           year,
			Usage:          cell("usage"),
			Price:          price,
		})
	}
	return products, nil
}

func (s *XLSXSource) readFAQ(workbook *excelize.File) ([]domain.FAQEntry, error) {
	rows, err := workbook.GetRows(s.faqSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.faqSheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := headerIndex(rows[0])
	entries := make([]domain.FAQEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string { return cellAt(row, columns, name) }
		if cell("question") == "" {
			continue
		}
		entries = append(entries, domain.FAQEntry{
			ID:       cell("id"),
			Question: cell("question"),
			Answer:   cell("answer"),
			Category: cell("type"),
		})
	}
	return entries, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

func cellAt(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func sheetExists(workbook *excelize.File, name string) bool {
	for _, sheet := range workbook.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}
