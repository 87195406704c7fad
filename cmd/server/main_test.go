package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/constitution-api/internal/api"
	"github.com/phrazzld/constitution-api/internal/config"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/domain/scoring"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/service"
)

var categoryIDs = []string{"pinghe", "qixu", "yangxu", "yinxu", "tanshi", "shire", "xueyu", "qiyu", "tebing"}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

// seededDatabase returns the path of a migrated SQLite file holding the
// built-in catalog.
func seededDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "constitution.db")
	out, err := executeCommand(t, "seed", "--db-driver", "sqlite", "--db-url", path)
	require.NoError(t, err)
	assert.Equal(t, "seeded 9 constitution types and 36 questions\n", out)
	return path
}

// writeAnswers writes an answers file giving every question of the baseline
// category the value high and every other question the value low.
func writeAnswers(t *testing.T, high, low string, skip ...string) string {
	t.Helper()

	skipped := make(map[string]bool, len(skip))
	for _, id := range skip {
		skipped[id] = true
	}

	answers := domain.AnswerSet{}
	for _, category := range categoryIDs {
		value := low
		if category == "pinghe" {
			value = high
		}
		for i := 1; i <= 4; i++ {
			id := category + "-" + string(rune('0'+i))
			if !skipped[id] {
				answers[id] = value
			}
		}
	}

	data, err := json.Marshal(answers)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "constitution-api (devel)\n", out)
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constitution.db")

	_, err := executeCommand(t, "migrate", "--db-driver", "sqlite", "--db-url", path)
	require.NoError(t, err)

	out, err := executeCommand(t, "migrate", "version", "--db-driver", "sqlite", "--db-url", path)
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	_, err = executeCommand(t, "migrate", "sideways", "--db-driver", "sqlite", "--db-url", path)
	assert.Error(t, err)
}

func TestSeedCommandRejectsInvalidFile(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"categories": [], "questions": [], "extra": 1}`), 0o600))

	dbPath := filepath.Join(t.TempDir(), "constitution.db")
	_, err := executeCommand(t, "seed", "--file", catalogPath, "--db-driver", "sqlite", "--db-url", dbPath)
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	dbPath := seededDatabase(t)

	t.Run("report", func(t *testing.T) {
		answersPath := writeAnswers(t, "5", "1")

		out, err := executeCommand(t, "score", answersPath, "--db-url", dbPath, "--bar-width", "10")
		require.NoError(t, err)
		assert.Contains(t, out, "Constitution assessment")
		assert.Contains(t, out, "100.0 points")
		assert.Contains(t, out, "20.0 points")
		assert.Contains(t, out, "baseline type")
	})

	t.Run("json", func(t *testing.T) {
		answersPath := writeAnswers(t, "1", "1")

		out, err := executeCommand(t, "score", answersPath, "--db-url", dbPath, "--json")
		require.NoError(t, err)

		var assessment service.Assessment
		require.NoError(t, json.Unmarshal([]byte(out), &assessment))
		require.Len(t, assessment.Scores, len(categoryIDs))
		for _, score := range assessment.Scores {
			assert.InDelta(t, 20.0, score.Score, 0.001, score.CategoryID)
		}
		assert.Equal(t, "undetermined", string(assessment.Verdict.Kind))
	})

	t.Run("incomplete answers", func(t *testing.T) {
		answersPath := writeAnswers(t, "5", "1", "qixu-2")

		_, err := executeCommand(t, "score", answersPath, "--db-url", dbPath)
		assert.ErrorIs(t, err, service.ErrIncompleteAnswers)
	})

	t.Run("incomplete answers allowed", func(t *testing.T) {
		answersPath := writeAnswers(t, "5", "1", "qixu-2")

		out, err := executeCommand(t, "score", answersPath, "--db-url", dbPath, "--allow-partial")
		require.NoError(t, err)
		assert.Contains(t, out, "baseline type")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executeCommand(t, "score", filepath.Join(t.TempDir(), "nope.json"), "--db-url", dbPath)
		assert.Error(t, err)
	})
}

func TestScoringParams(t *testing.T) {
	zero, maxScore := 0.0, 4

	params := scoringParams(config.ScoringConfig{
		BaselineCategoryID: "pinghe",
		LowThreshold:       &zero,
		MaxOptionScore:     &maxScore,
	})

	assert.Zero(t, params.LowThreshold)
	assert.Equal(t, 4, params.MaxOptionScore)
	assert.Equal(t, scoring.DefaultHighThreshold, params.HighThreshold)
	assert.Equal(t, scoring.DefaultScaleFactor, params.ScaleFactor)
	assert.NoError(t, params.Validate())
}

func TestRouter(t *testing.T) {
	dbPath := seededDatabase(t)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, URL: dbPath},
		Session:  config.SessionConfig{Backend: config.SessionBackendMemory, TTLMinutes: 5},
		Scoring:  config.ScoringConfig{BaselineCategoryID: "pinghe"},
	}
	log, _ := logger.NewTestLogger(t)

	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body api.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("questions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var questions []domain.Question
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
		assert.Len(t, questions, 36)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
		require.Equal(t, http.StatusCreated, rec.Code)

		var session api.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
		assert.Equal(t, 36, session.Progress.Total)
		assert.Equal(t, "/api/sessions/"+session.ID, rec.Header().Get("Location"))

		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+session.ID+"/answers/pinghe-1",
			strings.NewReader(`{"value": "4"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
		assert.Equal(t, 1, session.Progress.Answered)
		assert.Equal(t, "4", session.Answers["pinghe-1"])

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+session.ID+"/result", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+session.ID, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("catalog reload", func(t *testing.T) {
		app.reloadCatalog(context.Background())
		snapshot, err := app.catalog.Get(context.Background())
		require.NoError(t, err)
		assert.Len(t, snapshot.Categories, len(categoryIDs))
	})
}
