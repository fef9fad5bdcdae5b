package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/session-auth-service/internal/core/domain"
	"github.com/duynhne/session-auth-service/middleware"
)

// SessionAuthenticator creates sessions and resolves session ids to user ids.
//
// A session is valid while its record is present and, when the configured
// duration is positive, until CreatedAt+duration inclusive. A duration of
// zero or less disables expiration. Expired records stay in the store; they
// simply stop resolving.
type SessionAuthenticator struct {
	store    domain.SessionStore
	duration time.Duration
	now      func() time.Time
	newID    func() string
}

// SessionOption configures a SessionAuthenticator.
type SessionOption func(*SessionAuthenticator)

// WithClock sets the time source used for creation and expiration checks.
func WithClock(now func() time.Time) SessionOption {
	return func(a *SessionAuthenticator) { a.now = now }
}

// WithIDGenerator sets the session id generator. Generated ids must be
// unique and non-empty.
func WithIDGenerator(newID func() string) SessionOption {
	return func(a *SessionAuthenticator) { a.newID = newID }
}

// NewSessionAuthenticator creates a SessionAuthenticator over store.
// Sessions expire duration after creation; duration <= 0 means never.
func NewSessionAuthenticator(store domain.SessionStore, duration time.Duration, opts ...SessionOption) *SessionAuthenticator {
	a := &SessionAuthenticator{
		store:    store,
		duration: duration,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Duration returns the configured session lifetime.
func (a *SessionAuthenticator) Duration() time.Duration {
	return a.duration
}

// CreateSession stores a new session for userID and returns its id.
// An empty userID fails with ErrInvalidInput.
func (a *SessionAuthenticator) CreateSession(ctx context.Context, userID string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "session.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if userID == "" {
		span.SetAttributes(attribute.Bool("session.created", false))
		return "", fmt.Errorf("create session: empty user id: %w", ErrInvalidInput)
	}

	record := domain.SessionRecord{
		SessionID: a.newID(),
		UserID:    userID,
		CreatedAt: a.now(),
	}
	if err := a.store.Save(ctx, record); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("save session for user %q: %w", userID, err)
	}

	middleware.RecordSessionCreated()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("session.created", true),
	)
	return record.SessionID, nil
}

// UserIDForSessionID returns the user owning sessionID.
// The boolean is false when sessionID is empty, unknown, lacks a creation
// time, has expired, or the store fails; these cases are not distinguished.
func (a *SessionAuthenticator) UserIDForSessionID(ctx context.Context, sessionID string) (string, bool) {
	ctx, span := middleware.StartSpan(ctx, "session.lookup", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	userID, result := a.lookup(ctx, sessionID)
	middleware.RecordSessionLookup(result)
	span.SetAttributes(attribute.String("session.result", result))
	return userID, result == middleware.LookupValid
}

func (a *SessionAuthenticator) lookup(ctx context.Context, sessionID string) (string, string) {
	if sessionID == "" {
		return "", middleware.LookupInvalid
	}

	record, err := a.store.Get(ctx, sessionID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Session store lookup failed")
		return "", middleware.LookupError
	}
	if record == nil {
		return "", middleware.LookupUnknown
	}
	if !record.HasCreatedAt() {
		return "", middleware.LookupInvalid
	}

	if a.duration <= 0 {
		return record.UserID, middleware.LookupValid
	}
	if a.now().After(record.CreatedAt.Add(a.duration)) {
		return "", middleware.LookupExpired
	}
	return record.UserID, middleware.LookupValid
}
