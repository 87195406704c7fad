package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
)

// SQLiteCatalogStore implements the store.CatalogStore interface
// using a SQLite database as the storage backend.
type SQLiteCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteCatalogStore creates a new SQLite implementation of the CatalogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteCatalogStore(db store.DBTX, logger *slog.Logger) *SQLiteCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure SQLiteCatalogStore implements store.CatalogStore interface
var _ store.CatalogStore = (*SQLiteCatalogStore)(nil)

// ListQuestions implements store.CatalogStore.ListQuestions
func (s *SQLiteCatalogStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question, type, options, related_constitutions, sort_order
		FROM questions
		ORDER BY sort_order, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query questions", slog.String("error", err.Error()))
		return nil, store.NewStoreError("question", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var questions []domain.Question
	for rows.Next() {
		var (
			q                        domain.Question
			optionsJSON, relatedJSON string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Type, &optionsJSON, &relatedJSON, &q.SortOrder); err != nil {
			log.Error("failed to scan question row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("question", "list", "scan failed", err)
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			log.Warn("skipping question with malformed options",
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()))
			continue
		}
		if err := json.Unmarshal([]byte(relatedJSON), &q.RelatedCategories); err != nil {
			log.Warn("skipping question with malformed related categories",
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()))
			continue
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("question", "list", "row iteration failed", err)
	}

	log.Debug("listed questions", slog.Int("count", len(questions)))
	return questions, nil
}

// ListCategories implements store.CatalogStore.ListCategories
func (s *SQLiteCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, recommendation, tags, sort_order
		FROM constitution_types
		ORDER BY sort_order, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query categories", slog.String("error", err.Error()))
		return nil, store.NewStoreError("category", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var categories []domain.Category
	for rows.Next() {
		var (
			c        domain.Category
			tagsJSON string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Recommendation, &tagsJSON, &c.SortOrder); err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("category", "list", "scan failed", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
			log.Warn("skipping category with malformed tags",
				slog.String("category_id", c.ID),
				slog.String("error", err.Error()))
			continue
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("category", "list", "row iteration failed", err)
	}

	log.Debug("listed categories", slog.Int("count", len(categories)))
	return categories, nil
}

// ReplaceCatalog implements store.CatalogStore.ReplaceCatalog
// Rows are inserted through prepared statements reused for the whole batch.
func (s *SQLiteCatalogStore) ReplaceCatalog(
	ctx context.Context,
	questions []domain.Question,
	categories []domain.Category,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return store.NewStoreError("question", "replace", "delete failed", MapError(err))
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM constitution_types`); err != nil {
		return store.NewStoreError("category", "replace", "delete failed", MapError(err))
	}

	categoryStmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO constitution_types (id, name, description, recommendation, tags, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return store.NewStoreError("category", "replace", "prepare insert", err)
	}
	defer func() { _ = categoryStmt.Close() }()

	for _, c := range categories {
		tags, err := json.Marshal(nonNilStrings(c.Tags))
		if err != nil {
			return store.NewStoreError("category", "replace", "encode tags", err)
		}
		_, err = categoryStmt.ExecContext(ctx,
			c.ID, c.Name, c.Description, c.Recommendation, string(tags), c.SortOrder)
		if err != nil {
			log.Warn("failed to insert category",
				slog.String("category_id", c.ID),
				slog.String("error", err.Error()))
			return store.NewStoreError("category", "replace", "insert failed",
				mapDuplicate(err, store.ErrCategoryExists))
		}
	}

	questionStmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO questions (id, question, type, options, related_constitutions, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return store.NewStoreError("question", "replace", "prepare insert", err)
	}
	defer func() { _ = questionStmt.Close() }()

	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return store.NewStoreError("question", "replace", "encode options", err)
		}
		related, err := json.Marshal(nonNilStrings(q.RelatedCategories))
		if err != nil {
			return store.NewStoreError("question", "replace", "encode related categories", err)
		}
		_, err = questionStmt.ExecContext(ctx,
			q.ID, q.Prompt, q.Type, string(options), string(related), q.SortOrder)
		if err != nil {
			log.Warn("failed to insert question",
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()))
			return store.NewStoreError("question", "replace", "insert failed",
				mapDuplicate(err, store.ErrQuestionExists))
		}
	}

	log.Info("catalog replaced",
		slog.Int("questions", len(questions)),
		slog.Int("categories", len(categories)))
	return nil
}

// WithTx implements store.CatalogStore.WithTx
func (s *SQLiteCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return &SQLiteCatalogStore{
		db:     tx,
		logger: s.logger,
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
