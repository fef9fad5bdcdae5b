package domain

import (
	"context"
	"time"
)

// SessionRecord binds an opaque session id to the user that owns it.
// Records are never mutated after creation.
type SessionRecord struct {
	SessionID string
	UserID    string
	CreatedAt time.Time
}

// HasCreatedAt reports whether the record carries a creation timestamp.
func (r *SessionRecord) HasCreatedAt() bool {
	return !r.CreatedAt.IsZero()
}

// SessionStore defines the data-access contract for session records.
// Implementations live in internal/core/repository (Core layer) and must be
// safe for concurrent use.
type SessionStore interface {
	// Save stores a record keyed by its SessionID.
	Save(ctx context.Context, record SessionRecord) error

	// Get returns the record for sessionID.
	// Returns (nil, nil) when no record exists.
	Get(ctx context.Context, sessionID string) (*SessionRecord, error)
}
