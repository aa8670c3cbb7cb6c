// Package store defines the persistence port the progression engine runs on.
// Two adapters satisfy it: a Postgres one for the server and an in-memory one
// for offline/local mode and tests, so the game rules exist exactly once.
package store

import (
	"context"
	"errors"

	"tapventure/internal/domain"
)

var (
	// ErrNotFound is returned when no player exists for the given id.
	ErrNotFound = errors.New("player not found")
	// ErrExists is returned by Create when the player already has state.
	ErrExists = errors.New("player already exists")
)

// PlayerStore persists per-player progression state.
//
// Update is the single mutation path: it loads the player's full state under
// an exclusive per-player scope, applies fn, and persists every change
// atomically. When fn or the commit fails, nothing is applied. No cross-player
// locking exists; concurrent updates for different players never block each
// other.
type PlayerStore interface {
	// Get returns a snapshot of the player's state without locking.
	Get(ctx context.Context, playerID int64) (*domain.PlayerState, error)
	// Create inserts the initial state for a new player.
	Create(ctx context.Context, state *domain.PlayerState) error
	// Update atomically applies fn to the player's state.
	Update(ctx context.Context, playerID int64, fn func(*domain.PlayerState) error) error
}
