// Package seed ships the reference questionnaire catalog (nine constitution
// types, thirty-six frequency questions) and writes it to storage.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/constitution-api/internal/catalog"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
)

//go:embed catalog.json
var catalogJSON []byte

// ErrInvalidCatalog is returned when a seed file fails validation.
var ErrInvalidCatalog = errors.New("invalid seed catalog")

// Catalog is the on-disk seed format.
type Catalog struct {
	Categories []domain.Category `json:"categories"`
	Questions  []domain.Question `json:"questions"`
}

// Default returns the embedded reference catalog.
func Default(minScore, maxScore int) (*Catalog, error) {
	return Parse(bytes.NewReader(catalogJSON), minScore, maxScore)
}

// Parse decodes a seed catalog and validates it strictly: unlike the
// runtime catalog loader, a single bad record rejects the whole file.
func Parse(r io.Reader, minScore, maxScore int) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidCatalog, err)
	}
	if err := c.validate(catalog.NewValidator(minScore, maxScore)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate(v *catalog.Validator) error {
	var errs []error

	if len(c.Categories) == 0 {
		errs = append(errs, catalog.ErrEmptyCategories)
	}

	categoryIDs := make(map[string]struct{}, len(c.Categories))
	for i := range c.Categories {
		cat := &c.Categories[i]
		if err := v.Category(cat); err != nil {
			errs = append(errs, fmt.Errorf("category %d (%q): %w", i, cat.ID, err))
			continue
		}
		if _, dup := categoryIDs[cat.ID]; dup {
			errs = append(errs, fmt.Errorf("category %q: %w", cat.ID, domain.ErrDuplicateValue))
			continue
		}
		categoryIDs[cat.ID] = struct{}{}
	}

	questionIDs := make(map[string]struct{}, len(c.Questions))
	for i := range c.Questions {
		q := &c.Questions[i]
		if err := v.Question(q); err != nil {
			errs = append(errs, fmt.Errorf("question %d (%q): %w", i, q.ID, err))
			continue
		}
		if _, dup := questionIDs[q.ID]; dup {
			errs = append(errs, fmt.Errorf("question %q: %w", q.ID, domain.ErrDuplicateValue))
			continue
		}
		questionIDs[q.ID] = struct{}{}

		for _, related := range q.RelatedCategories {
			if _, ok := categoryIDs[related]; !ok {
				errs = append(errs, fmt.Errorf("question %q: unknown category %q: %w",
					q.ID, related, domain.ErrInvalidID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

// Apply replaces the stored catalog with c inside a single transaction.
func Apply(ctx context.Context, db *sql.DB, catalogStore store.CatalogStore, c *Catalog, fallback *slog.Logger) error {
	log := logger.FromContextOrDefault(ctx, fallback)

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return catalogStore.WithTx(tx).ReplaceCatalog(ctx, c.Questions, c.Categories)
	})
	if err != nil {
		log.Error("failed to seed catalog", slog.String("error", err.Error()))
		return fmt.Errorf("seed catalog: %w", err)
	}

	log.Info("catalog seeded",
		slog.Int("categories", len(c.Categories)),
		slog.Int("questions", len(c.Questions)))
	return nil
}
