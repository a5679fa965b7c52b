package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/shopassist/rag/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*CatalogRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &CatalogRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestLoadReadsProductsAndFAQ(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	productRows := sqlmock.NewRows([]string{
		"product_id", "product_display_name", "gender", "master_category", "sub_category",
		"article_type", "base_colour", "season", "year", "usage", "price",
	}).
		AddRow("101", "Blue Running Shoes", "Men", "Footwear", "Shoes", "Sports Shoes", "Blue", "Summer", 2017, "Sports", 59.9).
		AddRow("102", "Red Jacket", "Women", "Apparel", "Topwear", "Jackets", "Red", "Winter", 2018, "Casual", 120.0)
	mock.ExpectQuery("SELECT product_id, product_display_name").WillReturnRows(productRows)

	faqRows := sqlmock.NewRows([]string{"id", "question", "answer", "category"}).
		AddRow("faq-1", "How do I return an item?", "Within 30 days.", "returns")
	mock.ExpectQuery("SELECT id, question, answer, category").WillReturnRows(faqRows)

	dataset, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dataset.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(dataset.Products))
	}
	if dataset.Products[0].DisplayName != "Blue Running Shoes" || dataset.Products[1].Price != 120 {
		t.Fatalf("products = %+v", dataset.Products)
	}
	if len(dataset.FAQ) != 1 || dataset.FAQ[0].Category != "returns" {
		t.Fatalf("faq = %+v", dataset.FAQ)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoadProductQueryFailure(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT product_id, product_display_name").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Load(context.Background())
	if !domain.IsKind(err, domain.ErrCatalogSourceUnavailable) {
		t.Fatalf("want catalog source unavailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoadFAQQueryFailure(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT product_id, product_display_name").
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "product_display_name", "gender", "master_category", "sub_category",
			"article_type", "base_colour", "season", "year", "usage", "price",
		}))
	mock.ExpectQuery("SELECT id, question, answer, category").
		WillReturnError(errors.New("relation faq_entries does not exist"))

	_, err := repo.Load(context.Background())
	if !domain.IsKind(err, domain.ErrCatalogSourceUnavailable) {
		t.Fatalf("want catalog source unavailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
