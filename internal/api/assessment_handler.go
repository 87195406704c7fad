package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/constitution-api/internal/api/shared"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/service"
)

// AssessmentHandler handles the questionnaire HTTP requests: catalog reads,
// stateless assessments and the answer session flow.
type AssessmentHandler struct {
	assessmentService service.AssessmentService
	logger            *slog.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(assessmentService service.AssessmentService, logger *slog.Logger) *AssessmentHandler {
	if assessmentService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("assessment service cannot be nil for AssessmentHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AssessmentHandler")
	}

	return &AssessmentHandler{
		assessmentService: assessmentService,
		logger:            logger.With(slog.String("component", "assessment_handler")),
	}
}

// Routes registers the questionnaire endpoints on r.
func (h *AssessmentHandler) Routes(r chi.Router) {
	r.Get("/questions", h.ListQuestions)
	r.Get("/constitution-types", h.ListCategories)
	r.Post("/assessments", h.Evaluate)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Put("/{id}/answers/{questionID}", h.RecordAnswer)
		r.Post("/{id}/result", h.SessionResult)
		r.Post("/{id}/reset", h.ResetSession)
	})
}

// ListQuestions handles GET /questions requests
func (h *AssessmentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.assessmentService.Questions(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load questions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, questions)
}

// ListCategories handles GET /constitution-types requests
func (h *AssessmentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.assessmentService.Categories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load constitution types")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// Evaluate handles POST /assessments requests.
// It scores the submitted answers without creating a session.
func (h *AssessmentHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req EvaluateRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	assessment, err := h.assessmentService.Evaluate(
		r.Context(),
		answerSetFromRequest(req.Answers),
		req.AllowPartial,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to score answers")
		return
	}

	log.Debug("assessment evaluated",
		slog.Int("answers", len(req.Answers)),
		slog.String("verdict", string(assessment.Verdict.Kind)))
	shared.RespondWithJSON(w, r, http.StatusOK, assessment)
}

// StartSession handles POST /sessions requests
func (h *AssessmentHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentService.StartSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.Session.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(view))
}

// GetSession handles GET /sessions/{id} requests
func (h *AssessmentHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	view, err := h.assessmentService.GetSession(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(view))
}

// RecordAnswer handles PUT /sessions/{id}/answers/{questionID} requests
func (h *AssessmentHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}
	questionID := chi.URLParam(r, "questionID")

	var req RecordAnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	view, err := h.assessmentService.RecordAnswer(r.Context(), id, questionID, req.Value)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(view))
}

// SessionResult handles POST /sessions/{id}/result requests
func (h *AssessmentHandler) SessionResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.SessionResult(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute result")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, assessment)
}

// ResetSession handles POST /sessions/{id}/reset requests
func (h *AssessmentHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	view, err := h.assessmentService.ResetSession(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(view))
}

// DeleteSession handles DELETE /sessions/{id} requests
func (h *AssessmentHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.assessmentService.DeleteSession(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
