package v1_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/duynhne/session-auth-service/internal/core/domain"
	"github.com/duynhne/session-auth-service/internal/core/repository"
	logicv1 "github.com/duynhne/session-auth-service/internal/logic/v1"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
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

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Save(context.Context, domain.SessionRecord) error {
	return errors.New("store unavailable")
}

func (failingStore) Get(context.Context, string) (*domain.SessionRecord, error) {
	return nil, errors.New("store unavailable")
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("returns unique non-empty ids", func(t *testing.T) {
		auth := logicv1.NewSessionAuthenticator(repository.NewMemorySessionStore(), 0)

		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			id, err := auth.CreateSession(ctx, "user-1")
			require.NoError(t, err)
			require.NotEmpty(t, id)
			_, dup := seen[id]
			require.False(t, dup, "session id %q returned twice", id)
			seen[id] = struct{}{}
		}
	})

	t.Run("stores record with creation time", func(t *testing.T) {
		clock := newFakeClock()
		store := repository.NewMemorySessionStore()
		auth := logicv1.NewSessionAuthenticator(store, time.Minute, logicv1.WithClock(clock.Now))

		id, err := auth.CreateSession(ctx, "user-1")
		require.NoError(t, err)

		rec, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, domain.SessionRecord{SessionID: id, UserID: "user-1", CreatedAt: clock.Now()}, *rec)
	})

	t.Run("uses configured id generator", func(t *testing.T) {
		auth := logicv1.NewSessionAuthenticator(repository.NewMemorySessionStore(), 0,
			logicv1.WithIDGenerator(func() string { return "fixed-id" }))

		id, err := auth.CreateSession(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", id)
	})

	t.Run("empty user id is invalid input", func(t *testing.T) {
		store := repository.NewMemorySessionStore()
		auth := logicv1.NewSessionAuthenticator(store, 0)

		id, err := auth.CreateSession(ctx, "")
		assert.ErrorIs(t, err, logicv1.ErrInvalidInput)
		assert.Empty(t, id)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("store failure is returned", func(t *testing.T) {
		auth := logicv1.NewSessionAuthenticator(failingStore{}, 0)

		_, err := auth.CreateSession(ctx, "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store unavailable")
	})

	t.Run("multiple sessions per user", func(t *testing.T) {
		store := repository.NewMemorySessionStore()
		auth := logicv1.NewSessionAuthenticator(store, 0)

		a, err := auth.CreateSession(ctx, "user-1")
		require.NoError(t, err)
		b, err := auth.CreateSession(ctx, "user-1")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Equal(t, 2, store.Len())
		for _, id := range []string{a, b} {
			got, ok := auth.UserIDForSessionID(ctx, id)
			assert.True(t, ok)
			assert.Equal(t, "user-1", got)
		}
	})
}

func TestUserIDForSessionID(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves immediately after creation", func(t *testing.T) {
		for _, d := range []time.Duration{0, time.Second, time.Hour} {
			auth := logicv1.NewSessionAuthenticator(repository.NewMemorySessionStore(), d)
			id, err := auth.CreateSession(ctx, "user-42")
			require.NoError(t, err)

			got, ok := auth.UserIDForSessionID(ctx, id)
			assert.True(t, ok, "duration %v", d)
			assert.Equal(t, "user-42", got)
		}
	})

	t.Run("empty and unknown ids are invalid", func(t *testing.T) {
		auth := logicv1.NewSessionAuthenticator(repository.NewMemorySessionStore(), 0)

		for _, id := range []string{"", "unknown-token"} {
			got, ok := auth.UserIDForSessionID(ctx, id)
			assert.False(t, ok, "id %q", id)
			assert.Empty(t, got)
		}
	})

	t.Run("record without creation time is invalid", func(t *testing.T) {
		store := repository.NewMemorySessionStore()
		require.NoError(t, store.Save(ctx, domain.SessionRecord{SessionID: "s1", UserID: "user-1"}))
		auth := logicv1.NewSessionAuthenticator(store, 0)

		_, ok := auth.UserIDForSessionID(ctx, "s1")
		assert.False(t, ok)
	})

	t.Run("store failure is invalid", func(t *testing.T) {
		auth := logicv1.NewSessionAuthenticator(failingStore{}, 0)

		_, ok := auth.UserIDForSessionID(ctx, "s1")
		assert.False(t, ok)
	})
}

func TestExpirationPolicy(t *testing.T) {
	ctx := context.Background()
	const d = 10 * time.Second
	const eps = time.Millisecond

	tests := []struct {
		name     string
		duration time.Duration
		elapsed  time.Duration
		wantOK   bool
	}{
		{name: "no expiration long after creation", duration: 0, elapsed: 24 * 365 * time.Hour, wantOK: true},
		{name: "negative duration never expires", duration: -d, elapsed: 24 * time.Hour, wantOK: true},
		{name: "just before window end", duration: d, elapsed: d - eps, wantOK: true},
		{name: "exactly at window end", duration: d, elapsed: d, wantOK: true},
		{name: "just after window end", duration: d, elapsed: d + eps, wantOK: false},
		{name: "long expired", duration: d, elapsed: time.Hour, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			store := repository.NewMemorySessionStore()
			auth := logicv1.NewSessionAuthenticator(store, tt.duration, logicv1.WithClock(clock.Now))

			id, err := auth.CreateSession(ctx, "user-1")
			require.NoError(t, err)

			clock.Advance(tt.elapsed)
			got, ok := auth.UserIDForSessionID(ctx, id)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "user-1", got)
			} else {
				assert.Empty(t, got)
			}

			// expired sessions stop resolving but are not removed
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestSessionAuthenticator_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := repository.NewMemorySessionStore()
	auth := logicv1.NewSessionAuthenticator(store, time.Hour)

	const workers = 20
	const perWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", w)
			for i := 0; i < perWorker; i++ {
				id, err := auth.CreateSession(ctx, userID)
				if err != nil {
					errs <- err
					return
				}
				if got, ok := auth.UserIDForSessionID(ctx, id); !ok || got != userID {
					errs <- fmt.Errorf("session %s resolved to %q, %v", id, got, ok)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, workers*perWorker, store.Len())
}
