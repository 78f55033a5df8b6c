// Package store provides persistence for narrator game sessions.
package store

import (
	"context"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

// Repository defines the interface for persisting per-session game state.
type Repository interface {
	// GetGameSession retrieves the state snapshot for a session.
	// Returns (nil, nil) when the session does not exist.
	GetGameSession(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// SaveGameSession creates or replaces the state snapshot for a session.
	SaveGameSession(ctx context.Context, sessionID string, state *domain.Snapshot) error

	// DeleteGameSession removes a session's state.
	DeleteGameSession(ctx context.Context, sessionID string) error

	// CleanupExpiredSessions removes sessions untouched for longer than ttl
	// and returns how many were removed.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing storage.
	Close() error
}
