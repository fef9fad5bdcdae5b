package repository

import (
	"context"
	"sync"

	"github.com/duynhne/session-auth-service/internal/core/domain"
)

// MemoryUserRepository implements domain.UserRepository in process memory.
// It backs the service when no database is configured.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  []domain.UserRow
	nextID int
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1}
}

// FindUserBy returns the first user matching every set field of criteria.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) FindUserBy(_ context.Context, criteria domain.UserCriteria) (*domain.UserRow, error) {
	if criteria.IsEmpty() {
		return nil, ErrNoCriteria
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if criteria.ID != 0 && u.ID != criteria.ID {
			continue
		}
		if criteria.Email != "" && u.Email != criteria.Email {
			continue
		}
		found := u
		return &found, nil
	}
	return nil, nil
}

// AddUser appends a user with the next free id.
// It does not check for duplicate emails; that is a Logic layer rule.
func (r *MemoryUserRepository) AddUser(_ context.Context, email, hashedPassword string) (*domain.UserRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := domain.UserRow{ID: r.nextID, Email: email, HashedPassword: hashedPassword}
	r.nextID++
	r.users = append(r.users, row)
	return &row, nil
}
