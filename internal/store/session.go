package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/constitution-api/internal/domain"
)

// AnswerSessionStore keeps in-progress answer sessions. Sessions are
// short-lived; implementations expire them after a configured TTL, counted
// from the last Save.
type AnswerSessionStore interface {
	// Save creates or overwrites the session and refreshes its expiry.
	Save(ctx context.Context, session *domain.AnswerSession) error

	// Get returns the session with the given id.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error)

	// SetAnswer records value for questionID on the stored session in a
	// single atomic step and returns the updated session.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	SetAnswer(ctx context.Context, id uuid.UUID, questionID, value string) (*domain.AnswerSession, error)

	// ClearAnswers atomically drops every answer of the stored session.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	ClearAnswers(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error)

	// Delete removes the session.
	// Returns ErrSessionNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
