// Package catalog loads the questionnaire catalog (questions and categories)
// from storage, validates it and caches it for the scoring service.
//
// Records are validated at this boundary: malformed questions or categories
// are logged and dropped so the scoring engine only ever sees well-formed
// input. The first Get loads lazily; Refresh reloads on demand.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
)

var (
	// ErrCatalogNotLoaded is returned when the catalog could not be read from storage.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrEmptyCategories is returned when storage holds no valid category.
	ErrEmptyCategories = errors.New("catalog has no categories")
)

// Snapshot is an immutable view of the validated catalog. Callers must not
// modify the slices.
type Snapshot struct {
	Questions  []domain.Question
	Categories []domain.Category
	LoadedAt   time.Time

	questionsByID  map[string]*domain.Question
	categoriesByID map[string]*domain.Category
}

// Question returns the question with the given id.
func (s *Snapshot) Question(id string) (*domain.Question, bool) {
	q, ok := s.questionsByID[id]
	return q, ok
}

// Category returns the category with the given id.
func (s *Snapshot) Category(id string) (*domain.Category, bool) {
	c, ok := s.categoriesByID[id]
	return c, ok
}

// Provider caches the validated catalog.
type Provider struct {
	store     store.CatalogStore
	validator *Validator
	logger    *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewProvider creates a provider reading from catalogStore. Option scores
// outside [minScore, maxScore] make a question invalid.
func NewProvider(catalogStore store.CatalogStore, minScore, maxScore int, logger *slog.Logger) *Provider {
	if catalogStore == nil {
		panic("catalog store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		store:     catalogStore,
		validator: NewValidator(minScore, maxScore),
		logger:    logger.With(slog.String("component", "catalog")),
	}
}

// Get returns the cached catalog, loading it on first use.
func (p *Provider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snapshot := p.snapshot
	p.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot != nil {
		return p.snapshot, nil
	}
	return p.loadLocked(ctx)
}

// Refresh reloads the catalog from storage. On failure the previous snapshot
// is kept and the error is returned.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

func (p *Provider) loadLocked(ctx context.Context) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	rawCategories, err := p.store.ListCategories(ctx)
	if err != nil {
		log.Error("failed to fetch categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrCatalogNotLoaded, err)
	}
	rawQuestions, err := p.store.ListQuestions(ctx)
	if err != nil {
		log.Error("failed to fetch questions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrCatalogNotLoaded, err)
	}

	snapshot := p.build(log, rawQuestions, rawCategories)
	if len(snapshot.Categories) == 0 {
		log.Error("catalog has no valid categories",
			slog.Int("fetched", len(rawCategories)))
		return nil, ErrEmptyCategories
	}

	p.snapshot = snapshot
	log.Info("catalog loaded",
		slog.Int("questions", len(snapshot.Questions)),
		slog.Int("categories", len(snapshot.Categories)),
		slog.Int("dropped_questions", len(rawQuestions)-len(snapshot.Questions)),
		slog.Int("dropped_categories", len(rawCategories)-len(snapshot.Categories)))
	return snapshot, nil
}

// build validates the fetched records and indexes the survivors. Order is preserved.
func (p *Provider) build(log *slog.Logger, questions []domain.Question, categories []domain.Category) *Snapshot {
	snapshot := &Snapshot{
		LoadedAt:       time.Now().UTC(),
		questionsByID:  make(map[string]*domain.Question, len(questions)),
		categoriesByID: make(map[string]*domain.Category, len(categories)),
	}

	for _, c := range categories {
		if err := p.validator.Category(&c); err != nil {
			log.Warn("dropping invalid category",
				slog.String("category_id", c.ID),
				slog.String("error", err.Error()))
			continue
		}
		if _, dup := snapshot.categoriesByID[c.ID]; dup {
			log.Warn("dropping duplicate category", slog.String("category_id", c.ID))
			continue
		}
		snapshot.Categories = append(snapshot.Categories, c)
		snapshot.categoriesByID[c.ID] = nil
	}
	for i := range snapshot.Categories {
		snapshot.categoriesByID[snapshot.Categories[i].ID] = &snapshot.Categories[i]
	}

	for _, q := range questions {
		if err := p.validator.Question(&q); err != nil {
			log.Warn("dropping invalid question",
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()))
			continue
		}
		if _, dup := snapshot.questionsByID[q.ID]; dup {
			log.Warn("dropping duplicate question", slog.String("question_id", q.ID))
			continue
		}
		snapshot.questionsByID[q.ID] = nil
		for _, categoryID := range q.RelatedCategories {
			if _, ok := snapshot.categoriesByID[categoryID]; !ok {
				log.Warn("question references unknown category",
					slog.String("question_id", q.ID),
					slog.String("category_id", categoryID))
			}
		}
		snapshot.Questions = append(snapshot.Questions, q)
	}

	// Index after the slice stops growing so the pointers stay valid
	for i := range snapshot.Questions {
		snapshot.questionsByID[snapshot.Questions[i].ID] = &snapshot.Questions[i]
	}

	return snapshot
}

// NewSnapshot indexes an already validated catalog. When an id repeats, the
// first record wins and later ones are dropped from the slices too. The
// slices are copied.
func NewSnapshot(questions []domain.Question, categories []domain.Category) *Snapshot {
	snapshot := &Snapshot{
		Questions:      uniqueByID(questions, func(q domain.Question) string { return q.ID }),
		Categories:     uniqueByID(categories, func(c domain.Category) string { return c.ID }),
		LoadedAt:       time.Now().UTC(),
		questionsByID:  make(map[string]*domain.Question, len(questions)),
		categoriesByID: make(map[string]*domain.Category, len(categories)),
	}
	for i := range snapshot.Questions {
		snapshot.questionsByID[snapshot.Questions[i].ID] = &snapshot.Questions[i]
	}
	for i := range snapshot.Categories {
		snapshot.categoriesByID[snapshot.Categories[i].ID] = &snapshot.Categories[i]
	}
	return snapshot
}

// uniqueByID returns a copy of items keeping only the first item per id.
func uniqueByID[T any](items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := id(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
