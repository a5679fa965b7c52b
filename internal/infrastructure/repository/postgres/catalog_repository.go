// Package postgres loads the catalog snapshot from a relational store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shopassist/rag/internal/core/domain"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// Load reads the full product and FAQ tables. The pipeline only needs a
// startup snapshot, so there is no pagination.
func (r *CatalogRepository) Load(ctx context.Context) (domain.Dataset, error) {
	products, err := r.loadProducts(ctx)
	if err != nil {
		return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_products", err)
	}
	faq, err := r.loadFAQ(ctx)
	if err != nil {
		return domain.Dataset{}, domain.WrapError(domain.ErrCatalogSourceUnavailable, "catalog.load_faq", err)
	}
	return domain.Dataset{Products: products, FAQ: faq}, nil
}

func (r *CatalogRepository) loadProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT product_id, product_display_name, gender, master_category, sub_category,
       article_type, base_colour, season, year, usage, price
FROM products
ORDER BY product_id
`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.DisplayName, &p.Gender, &p.MasterCategory, &p.SubCategory,
			&p.ArticleType, &p.BaseColour, &p.Season, &p.Year, &p.Usage, &p.Price,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *CatalogRepository) loadFAQ(ctx context.Context) ([]domain.FAQEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, question, answer, category
FROM faq_entries
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.FAQEntry
	for rows.Next() {
		var e domain.FAQEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Category); err != nil {
			return nil, fmt.Errorf("scan faq entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faq entries: %w", err)
	}
	return entries, nil
}
