package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/phrazzld/constitution-api/internal/platform/sqlite"
	"github.com/phrazzld/constitution-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	dsn := sqlite.DSN("data/app.db")
	assert.Contains(t, dsn, "file:data/app.db?")
	assert.Contains(t, dsn, "_pragma=foreign_keys%281%29")

	withQuery := sqlite.DSN("file:app.db?mode=rwc")
	assert.Contains(t, withQuery, "file:app.db?mode=rwc&_pragma=")
}

func TestOpenAppliesPragmas(t *testing.T) {
	t.Parallel()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "pragmas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tests := []struct {
		pragma string
		want   string
	}{
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"journal_mode", "wal"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	t.Parallel()
	_, err := sqlite.Open(context.Background(), "")
	assert.Error(t, err)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "errors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE t (id TEXT PRIMARY KEY, v TEXT NOT NULL CHECK (v <> 'bad'))`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (id, v) VALUES ('a', 'ok')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO t (id, v) VALUES ('a', 'ok')`)
	assert.True(t, sqlite.IsUniqueViolation(err))
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrDuplicate)

	_, err = db.Exec(`INSERT INTO t (id, v) VALUES ('b', 'bad')`)
	assert.False(t, sqlite.IsUniqueViolation(err))
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity)

	var v string
	err = db.QueryRow(`SELECT v FROM t WHERE id = 'missing'`).Scan(&v)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrNotFound)

	plain := errors.New("plain")
	assert.Equal(t, plain, sqlite.MapError(plain))
	assert.NoError(t, sqlite.MapError(nil))
}
