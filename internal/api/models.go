package api

import (
	"time"

	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/service"
)

// EvaluateRequest is the body of POST /api/assessments.
type EvaluateRequest struct {
	Answers      map[string]string `json:"answers"       validate:"required"`
	AllowPartial bool              `json:"allow_partial"`
}

// RecordAnswerRequest is the body of PUT /api/sessions/{id}/answers/{questionID}.
type RecordAnswerRequest struct {
	Value string `json:"value" validate:"required"`
}

// SessionResponse describes an answer session.
type SessionResponse struct {
	ID        string            `json:"id"`
	Answers   map[string]string `json:"answers"`
	Progress  service.Progress  `json:"progress"`
	Complete  bool              `json:"complete"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func sessionToResponse(view *service.SessionView) SessionResponse {
	answers := map[string]string(view.Session.Answers)
	if answers == nil {
		answers = map[string]string{}
	}
	return SessionResponse{
		ID:        view.Session.ID.String(),
		Answers:   answers,
		Progress:  view.Progress,
		Complete:  view.Progress.Complete(),
		CreatedAt: view.Session.CreatedAt,
		UpdatedAt: view.Session.UpdatedAt,
	}
}

func answerSetFromRequest(answers map[string]string) domain.AnswerSet {
	return domain.AnswerSet(answers).Clone()
}
