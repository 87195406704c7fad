// Package memory provides an in-process implementation of the answer
// session store, used when no Redis backend is configured.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
)

type sessionEntry struct {
	session   domain.AnswerSession
	expiresAt time.Time
}

// SessionStore implements store.AnswerSessionStore with a mutex-guarded map.
// Sessions are copied on the way in and out, so callers never share state
// with the store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]sessionEntry
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionStore creates an in-memory session store whose entries expire
// ttl after their last save.
func NewSessionStore(ttl time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "memory_session_store")),
	}
}

// Ensure SessionStore implements store.AnswerSessionStore interface
var _ store.AnswerSessionStore = (*SessionStore)(nil)

// Save implements store.AnswerSessionStore.Save
func (s *SessionStore) Save(ctx context.Context, session *domain.AnswerSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[session.ID] = sessionEntry{
		session:   copySession(session),
		expiresAt: s.now().Add(s.ttl),
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("session saved",
		slog.String("session_id", session.ID.String()),
		slog.Int("answers", len(session.Answers)))
	return nil
}

// Get implements store.AnswerSessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		logger.FromContextOrDefault(ctx, s.logger).Debug("session not found",
			slog.String("session_id", id.String()))
		return nil, store.ErrSessionNotFound
	}

	session := copySession(&entry.session)
	return &session, nil
}

// SetAnswer implements store.AnswerSessionStore.SetAnswer
func (s *SessionStore) SetAnswer(
	ctx context.Context,
	id uuid.UUID,
	questionID, value string,
) (*domain.AnswerSession, error) {
	return s.update(ctx, id, func(session *domain.AnswerSession) {
		session.Answer(questionID, value)
	})
}

// ClearAnswers implements store.AnswerSessionStore.ClearAnswers
func (s *SessionStore) ClearAnswers(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error) {
	return s.update(ctx, id, func(session *domain.AnswerSession) {
		session.Reset()
	})
}

// update applies mutate to the live session while holding s.mu and
// refreshes its expiry.
func (s *SessionStore) update(
	ctx context.Context,
	id uuid.UUID,
	mutate func(*domain.AnswerSession),
) (*domain.AnswerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, store.ErrSessionNotFound
	}

	mutate(&entry.session)
	entry.expiresAt = s.now().Add(s.ttl)
	s.sessions[id] = entry

	logger.FromContextOrDefault(ctx, s.logger).Debug("session updated",
		slog.String("session_id", id.String()),
		slog.Int("answers", len(entry.session.Answers)))

	session := copySession(&entry.session)
	return &session, nil
}

// Delete implements store.AnswerSessionStore.Delete
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	if !ok || !s.now().Before(entry.expiresAt) {
		return store.ErrSessionNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("session deleted",
		slog.String("session_id", id.String()))
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

// sweepLocked drops expired entries. Callers must hold s.mu.
func (s *SessionStore) sweepLocked() {
	now := s.now()
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func copySession(session *domain.AnswerSession) domain.AnswerSession {
	out := *session
	out.Answers = session.Answers.Clone()
	return out
}
