// Package redis provides a Redis-backed implementation of the answer session
// store. Sessions are stored as JSON under "session:<id>" with a TTL that is
// refreshed on every save.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "session:"

// maxUpdateAttempts bounds the optimistic retries of a watched update.
const maxUpdateAttempts = 10

// SessionStore implements store.AnswerSessionStore on top of Redis.
type SessionStore struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStore creates a session store using client. Entries expire ttl
// after their last save.
func NewSessionStore(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		client: client,
		prefix: DefaultKeyPrefix,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_session_store")),
	}
}

// Ensure SessionStore implements store.AnswerSessionStore interface
var _ store.AnswerSessionStore = (*SessionStore)(nil)

func (s *SessionStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

// Save implements store.AnswerSessionStore.Save
func (s *SessionStore) Save(ctx context.Context, session *domain.AnswerSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return store.NewStoreError("session", "save", "encode session", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(); err != nil {
		log.Error("failed to save session",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("session", "save", "redis set failed", err)
	}

	log.Debug("session saved",
		slog.String("session_id", session.ID.String()),
		slog.Int("answers", len(session.Answers)))
	return nil
}

// Get implements store.AnswerSessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to load session",
			slog.String("session_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("session", "get", "redis get failed", err)
	}

	var session domain.AnswerSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, store.NewStoreError("session", "get", "decode session", err)
	}
	if session.Answers == nil {
		session.Answers = domain.AnswerSet{}
	}
	return &session, nil
}

// SetAnswer implements store.AnswerSessionStore.SetAnswer
func (s *SessionStore) SetAnswer(
	ctx context.Context,
	id uuid.UUID,
	questionID, value string,
) (*domain.AnswerSession, error) {
	return s.update(ctx, "set_answer", id, func(session *domain.AnswerSession) {
		session.Answer(questionID, value)
	})
}

// ClearAnswers implements store.AnswerSessionStore.ClearAnswers
func (s *SessionStore) ClearAnswers(ctx context.Context, id uuid.UUID) (*domain.AnswerSession, error) {
	return s.update(ctx, "clear_answers", id, func(session *domain.AnswerSession) {
		session.Reset()
	})
}

// update runs a read-modify-write of the session under WATCH, so a
// concurrent writer aborts the transaction and the mutation is replayed
// on fresh state.
func (s *SessionStore) update(
	ctx context.Context,
	op string,
	id uuid.UUID,
	mutate func(*domain.AnswerSession),
) (*domain.AnswerSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", id.String()))
	key := s.key(id)

	var updated domain.AnswerSession
	txf := func(tx *goredis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return store.ErrSessionNotFound
			}
			return store.NewStoreError("session", op, "redis get failed", err)
		}

		var session domain.AnswerSession
		if err := json.Unmarshal(data, &session); err != nil {
			return store.NewStoreError("session", op, "decode session", err)
		}
		mutate(&session)

		encoded, err := json.Marshal(&session)
		if err != nil {
			return store.NewStoreError("session", op, "encode session", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = session
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			log.Debug("session updated", slog.Int("answers", len(updated.Answers)))
			return &updated, nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			log.Debug("session changed during update, retrying", slog.Int("attempt", attempt))
			continue
		}
		if errors.Is(err, store.ErrSessionNotFound) {
			log.Debug("session not found")
			return nil, err
		}

		var storeErr *store.StoreError
		if !errors.As(err, &storeErr) {
			err = store.NewStoreError("session", op, "redis transaction failed", err)
		}
		log.Error("failed to update session", slog.String("error", err.Error()))
		return nil, err
	}

	log.Warn("giving up on contended session update", slog.Int("attempts", maxUpdateAttempts))
	return nil, store.NewStoreError("session", op, "too many concurrent updates", store.ErrUpdateFailed)
}

// Delete implements store.AnswerSessionStore.Delete
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete session",
			slog.String("session_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("session", "delete", "redis del failed",
			fmt.Errorf("%w: %w", store.ErrDeleteFailed, err))
	}
	if removed == 0 {
		return store.ErrSessionNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("session deleted",
		slog.String("session_id", id.String()))
	return nil
}
