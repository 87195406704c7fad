package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/platform/sqlite"
	"github.com/phrazzld/constitution-api/internal/seed"
	"github.com/phrazzld/constitution-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c, err := seed.Default(1, 5)
	require.NoError(t, err)

	require.Len(t, c.Categories, 9)
	require.Len(t, c.Questions, 36)
	assert.Equal(t, domain.DefaultBaselineCategoryID, c.Categories[0].ID)

	perCategory := map[string]int{}
	for _, q := range c.Questions {
		assert.Equal(t, domain.FrequencyOptions(), q.Options, "question %s", q.ID)
		for _, id := range q.RelatedCategories {
			perCategory[id]++
		}
	}
	for _, cat := range c.Categories {
		assert.GreaterOrEqual(t, perCategory[cat.ID], 4, "category %s", cat.ID)
	}
}

func TestParseRejectsInvalidCatalog(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"categories": [`},
		{name: "unknown field", body: `{"categories": [], "extra": true}`},
		{name: "no categories", body: `{"categories": [], "questions": []}`},
		{
			name: "unknown related category",
			body: `{"categories":[{"id":"a","name":"A","description":"d","recommendation":"r"}],
				"questions":[{"id":"q1","question":"p","type":"single",
				"options":[{"value":"1","text":"x","score":1}],"relatedConstitutions":["b"]}]}`,
		},
		{
			name: "score out of range",
			body: `{"categories":[{"id":"a","name":"A","description":"d","recommendation":"r"}],
				"questions":[{"id":"q1","question":"p","type":"single",
				"options":[{"value":"1","text":"x","score":9}],"relatedConstitutions":["a"]}]}`,
		},
		{
			name: "duplicate category",
			body: `{"categories":[{"id":"a","name":"A","description":"d","recommendation":"r"},
				{"id":"a","name":"A2","description":"d","recommendation":"r"}],"questions":[]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := seed.Parse(strings.NewReader(tc.body), 1, 5)
			assert.ErrorIs(t, err, seed.ErrInvalidCatalog)
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := testdb.NewSQLiteDB(t)
	log, logBuf := logger.NewTestLogger(t)
	catalogStore := sqlite.NewSQLiteCatalogStore(db, log)

	c, err := seed.Default(1, 5)
	require.NoError(t, err)

	// Seeding twice leaves exactly one copy of the catalog
	require.NoError(t, seed.Apply(ctx, db, catalogStore, c, log))
	require.NoError(t, seed.Apply(ctx, db, catalogStore, c, log))

	questions, err := catalogStore.ListQuestions(ctx)
	require.NoError(t, err)
	categories, err := catalogStore.ListCategories(ctx)
	require.NoError(t, err)

	assert.Len(t, questions, 36)
	assert.Len(t, categories, 9)
	assert.Equal(t, c.Questions[0], questions[0])
	assert.Equal(t, c.Categories, categories)

	assert.Len(t, logger.EntriesWithMessage(t, logBuf, "catalog seeded"), 2)
}
