package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/constitution-api/internal/domain"
)

// CatalogStore defines the interface for questionnaire catalog persistence:
// the question bank and the category (constitution type) list.
type CatalogStore interface {
	// ListQuestions returns every stored question ordered by sort order, then id.
	// Options and related category ids are decoded from their JSON columns.
	ListQuestions(ctx context.Context) ([]domain.Question, error)

	// ListCategories returns every stored category ordered by sort order, then id.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// ReplaceCatalog deletes the stored catalog and inserts the given one.
	// IMPORTANT: This method MUST be run within a transaction so that readers
	// never observe a half-written catalog. Use WithTx with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return catalogStore.WithTx(tx).ReplaceCatalog(ctx, questions, categories)
	//   })
	//
	// Returns ErrQuestionExists or ErrCategoryExists when the input repeats an id.
	ReplaceCatalog(ctx context.Context, questions []domain.Question, categories []domain.Category) error

	// WithTx returns a new CatalogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CatalogStore
}
