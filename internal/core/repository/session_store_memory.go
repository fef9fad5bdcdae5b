package repository

import (
	"context"
	"sync"

	"github.com/duynhne/session-auth-service/internal/core/domain"
)

// MemorySessionStore implements domain.SessionStore with an in-process map.
// Records are kept until the process exits.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domain.SessionRecord)}
}

// Save stores record under its SessionID, replacing any previous record.
func (s *MemorySessionStore) Save(_ context.Context, record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.SessionID] = record
	return nil
}

// Get returns a copy of the record for sessionID, or (nil, nil) when absent.
func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Len returns the number of stored records, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
