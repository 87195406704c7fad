package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/constitution-api/internal/platform/postgres"
	"github.com/phrazzld/constitution-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "questions",
		ColumnName:     "options",
		ConstraintName: "questions_pkey",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")

	testCases := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), target: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), target: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), target: store.ErrDuplicate},
		{name: "unmapped pg error", err: newPgError("42P01"), target: nil},
		{name: "plain error", err: plain, target: plain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tc.err)
			if tc.target == nil {
				assert.Equal(t, tc.err, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tc.target)
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("wrapped: %w", newPgError("23505"))))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("other")))
	assert.False(t, postgres.IsUniqueViolation(nil))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrSessionNotFound))
	assert.False(t, postgres.IsNotFoundError(errors.New("other")))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := newPgError("23505")

	specific := postgres.MapUniqueViolation(pgErr, "question", "questions_pkey", store.ErrQuestionExists)
	assert.ErrorIs(t, specific, store.ErrQuestionExists)
	assert.ErrorIs(t, specific, store.ErrDuplicate)

	generic := postgres.MapUniqueViolation(pgErr, "category", "", nil)
	assert.ErrorIs(t, generic, store.ErrDuplicate)
	assert.Contains(t, generic.Error(), "category already exists")

	byConstraint := postgres.MapUniqueViolation(pgErr, "", "constitution_types_pkey", nil)
	assert.Contains(t, byConstraint.Error(), "constitution_types_pkey")

	other := errors.New("not unique")
	assert.Equal(t, other, postgres.MapUniqueViolation(other, "question", "", store.ErrQuestionExists))
}
