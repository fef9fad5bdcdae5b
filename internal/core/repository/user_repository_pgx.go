package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/session-auth-service/internal/core/domain"
)

// ErrNoCriteria is returned by FindUserBy when no criteria field is set.
var ErrNoCriteria = errors.New("no user criteria given")

// PgxUserRepository implements domain.UserRepository on the users table.
type PgxUserRepository struct {
	db Querier
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db Querier) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

// FindUserBy returns the first user matching every set field of criteria.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) FindUserBy(ctx context.Context, criteria domain.UserCriteria) (*domain.UserRow, error) {
	if criteria.IsEmpty() {
		return nil, ErrNoCriteria
	}

	var (
		conds []string
		args  []any
	)
	if criteria.ID != 0 {
		args = append(args, criteria.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if criteria.Email != "" {
		args = append(args, criteria.Email)
		conds = append(conds, fmt.Sprintf("email = $%d", len(args)))
	}

	query := `SELECT id, email, hashed_password, session_id, reset_token FROM users WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY id LIMIT 1`

	var row domain.UserRow
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&row.ID, &row.Email, &row.HashedPassword, &row.SessionID, &row.ResetToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// AddUser inserts a new user and returns the stored row.
func (r *PgxUserRepository) AddUser(ctx context.Context, email, hashedPassword string) (*domain.UserRow, error) {
	query := `INSERT INTO users (email, hashed_password) VALUES ($1, $2) RETURNING id`

	row := domain.UserRow{Email: email, HashedPassword: hashedPassword}
	if err := r.db.QueryRow(ctx, query, email, hashedPassword).Scan(&row.ID); err != nil {
		return nil, err
	}

	return &row, nil
}

// EachRecord calls fn with the column names and values of every users row.
// Iteration stops at the first error returned by fn.
func (r *PgxUserRepository) EachRecord(ctx context.Context, fn func(columns []string, values []any) error) error {
	rows, err := r.db.Query(ctx, `SELECT * FROM users ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		if err := fn(columns, values); err != nil {
			return err
		}
	}

	return rows.Err()
}
