package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionIDEmpty is returned when an answer session has no ID.
var ErrSessionIDEmpty = errors.New("answer session ID cannot be empty")

// AnswerSession holds a respondent's in-progress answers. Sessions are
// ephemeral: they expire after a TTL and are reset when the respondent retakes
// the questionnaire.
type AnswerSession struct {
	ID        uuid.UUID `json:"id"`
	Answers   AnswerSet `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAnswerSession creates an empty session with a fresh ID.
func NewAnswerSession() *AnswerSession {
	now := time.Now().UTC()
	return &AnswerSession{
		ID:        uuid.New(),
		Answers:   AnswerSet{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks that the session is usable.
func (s *AnswerSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	return nil
}

// Answer records the selected option for a question.
func (s *AnswerSession) Answer(questionID, value string) {
	if s.Answers == nil {
		s.Answers = AnswerSet{}
	}
	s.Answers[questionID] = value
	s.UpdatedAt = time.Now().UTC()
}

// Reset discards every answer so the questionnaire can be retaken.
func (s *AnswerSession) Reset() {
	s.Answers = AnswerSet{}
	s.UpdatedAt = time.Now().UTC()
}
