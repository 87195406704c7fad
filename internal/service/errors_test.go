package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/constitution-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewServiceError("op", "msg", nil))

	// Session misses are returned as the service sentinel
	err := NewServiceError("get_session", "lookup failed",
		store.NewStoreError("session", "get", "missing", store.ErrSessionNotFound))
	assert.Same(t, ErrSessionNotFound, err)

	cause := errors.New("connection refused")
	err = NewServiceError("save_session", "failed to save", cause)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "save_session", serviceErr.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t,
		"assessment service save_session failed: failed to save: connection refused",
		err.Error())
}

func TestServiceErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := &ServiceError{Operation: "evaluate", Message: "no catalog"}
	assert.Equal(t, "assessment service evaluate failed: no catalog", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
