package domain

import "context"

// UserRow represents a user record returned from the user directory.
// It includes the password digest so the Logic layer can verify credentials.
type UserRow struct {
	ID             int
	Email          string
	HashedPassword string
	SessionID      *string
	ResetToken     *string
}

// UserCriteria selects users in FindUserBy. Zero-valued fields are ignored;
// at least one field must be set.
type UserCriteria struct {
	ID    int
	Email string
}

// IsEmpty reports whether no criteria field is set.
func (c UserCriteria) IsEmpty() bool {
	return c.ID == 0 && c.Email == ""
}

// UserRepository defines the data-access contract for the user directory.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// FindUserBy returns the first user matching every set field of criteria.
	// Returns (nil, nil) when no user is found.
	FindUserBy(ctx context.Context, criteria UserCriteria) (*UserRow, error)

	// AddUser inserts a new user and returns the stored row.
	AddUser(ctx context.Context, email, hashedPassword string) (*UserRow, error)
}
