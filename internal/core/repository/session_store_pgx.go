package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/session-auth-service/internal/core/domain"
)

// PgxSessionStore implements domain.SessionStore on the sessions table.
type PgxSessionStore struct {
	db Querier
}

// NewPgxSessionStore creates a new PgxSessionStore.
func NewPgxSessionStore(db Querier) *PgxSessionStore {
	return &PgxSessionStore{db: db}
}

// Save inserts a session record. Session ids are never reused, so an
// existing id is a conflict error from the database.
func (s *PgxSessionStore) Save(ctx context.Context, record domain.SessionRecord) error {
	query := `INSERT INTO sessions (session_id, user_id, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.Exec(ctx, query, record.SessionID, record.UserID, record.CreatedAt)
	return err
}

// Get looks up a session record by id.
// A NULL created_at reads back as the zero time.
// Returns (nil, nil) when the id does not match any session.
func (s *PgxSessionStore) Get(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	query := `SELECT user_id, created_at FROM sessions WHERE session_id = $1`

	var (
		userID    string
		createdAt *time.Time
	)
	err := s.db.QueryRow(ctx, query, sessionID).Scan(&userID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := &domain.SessionRecord{SessionID: sessionID, UserID: userID}
	if createdAt != nil {
		record.CreatedAt = *createdAt
	}
	return record, nil
}
