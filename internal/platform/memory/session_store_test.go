package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewSessionStore(ttl, nil)
	s.now = clock.Now
	return s, clock
}

func TestSessionStore_SaveGet(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	session.Answer("q1", "3")
	require.NoError(t, s.Save(ctx, session))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, domain.AnswerSet{"q1": "3"}, got.Answers)
}

func TestSessionStore_CopiesOnSaveAndGet(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	session.Answer("q1", "3")
	require.NoError(t, s.Save(ctx, session))

	// Mutating the caller's copy must not leak into the store
	session.Answer("q2", "5")
	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)

	got.Answer("q3", "1")
	again, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, again.Answers, 1)
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore(10 * time.Minute)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	require.NoError(t, s.Save(ctx, session))

	clock.Advance(9 * time.Minute)
	_, err := s.Get(ctx, session.ID)
	require.NoError(t, err)

	// Saving refreshes the expiry
	require.NoError(t, s.Save(ctx, session))
	clock.Advance(9 * time.Minute)
	_, err = s.Get(ctx, session.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	require.NoError(t, s.Save(ctx, session))
	require.NoError(t, s.Delete(ctx, session.ID))

	_, err := s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete(ctx, session.ID), store.ErrSessionNotFound)
}

func TestSessionStore_RejectsInvalidSession(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)

	err := s.Save(context.Background(), &domain.AnswerSession{})
	assert.ErrorIs(t, err, domain.ErrSessionIDEmpty)
}

func TestSessionStore_UnknownID(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)

	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	require.NoError(t, s.Save(ctx, session))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := s.Get(ctx, session.ID)
			if err != nil {
				return
			}
			got.Answer("q", string(rune('a'+i%5)))
			_ = s.Save(ctx, got)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 1)
}

func TestSessionStore_SetAnswerConcurrentWriters(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	require.NoError(t, s.Save(ctx, session))

	const questions = 30
	var wg sync.WaitGroup
	for i := 0; i < questions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.SetAnswer(ctx, session.ID, fmt.Sprintf("q%d", i), "3")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, questions, "no answer may be lost to a concurrent writer")
}

func TestSessionStore_SetAnswerAndClear(t *testing.T) {
	t.Parallel()
	s, clock := newTestStore(time.Minute)
	ctx := context.Background()

	session := domain.NewAnswerSession()
	require.NoError(t, s.Save(ctx, session))

	clock.Advance(50 * time.Second)
	updated, err := s.SetAnswer(ctx, session.ID, "q1", "4")
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerSet{"q1": "4"}, updated.Answers)

	// The returned session is a copy.
	updated.Answers["q2"] = "1"

	// Updating refreshes the expiry.
	clock.Advance(50 * time.Second)
	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerSet{"q1": "4"}, got.Answers)

	cleared, err := s.ClearAnswers(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Answers)

	clock.Advance(2 * time.Minute)
	_, err = s.SetAnswer(ctx, session.ID, "q1", "4")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = s.ClearAnswers(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
