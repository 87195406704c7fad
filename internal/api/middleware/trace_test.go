package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/constitution-api/internal/api/shared"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, logBuf := logger.NewTestLogger(t)

	var seenTraceID string
	handler := chimiddleware.RequestID(NewTraceMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenTraceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
			w.WriteHeader(http.StatusNoContent)
		}),
	))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, seenTraceID, shared.TraceIDLength)

	started := logger.EntriesWithMessage(t, logBuf, "request started")
	require.Len(t, started, 1)
	assert.Equal(t, "/api/questions", started[0]["path"])

	inside := logger.EntriesWithMessage(t, logBuf, "inside handler")
	require.Len(t, inside, 1)
	assert.Equal(t, seenTraceID, inside[0]["trace_id"])
	assert.NotEmpty(t, inside[0]["request_id"])
}

func TestTraceMiddlewareDistinctIDs(t *testing.T) {
	t.Parallel()

	var ids []string
	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, shared.GetTraceID(r.Context()))
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
}
