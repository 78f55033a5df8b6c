package store

import (
	"context"
	"sync"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

// MemoryStore implements Repository in memory. Used in tests and when the dev
// server runs without a database path.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	state   *domain.Snapshot
	updated time.Time
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

// GetGameSession retrieves the state snapshot for a session.
func (m *MemoryStore) GetGameSession(_ context.Context, sessionID string) (*domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return sess.state.Clone(), nil
}

// SaveGameSession creates or replaces the state snapshot for a session.
func (m *MemoryStore) SaveGameSession(_ context.Context, sessionID string, state *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = &memorySession{state: state.Clone(), updated: time.Now()}
	return nil
}

// DeleteGameSession removes a session's state.
func (m *MemoryStore) DeleteGameSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// CleanupExpiredSessions removes sessions untouched for longer than ttl.
func (m *MemoryStore) CleanupExpiredSessions(_ context.Context, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-ttl)
	var removed int64
	for id, sess := range m.sessions {
		if sess.updated.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
