// Package memory is the embedded PlayerStore adapter. It backs offline/local
// play and the engine's unit tests; behavior mirrors the Postgres adapter,
// including error values.
package memory

import (
	"context"
	"sync"

	"tapventure/internal/domain"
	"tapventure/internal/store"
)

// Store keeps player state in process memory behind a per-player lock.
type Store struct {
	mu      sync.RWMutex
	players map[int64]*playerSlot
	nextID  int64
}

type playerSlot struct {
	mu    sync.Mutex
	state *domain.PlayerState
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{players: make(map[int64]*playerSlot)}
}

func (s *Store) slot(playerID int64) (*playerSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.players[playerID]
	return sl, ok
}

// Get returns a deep copy of the player's state.
func (s *Store) Get(ctx context.Context, playerID int64) (*domain.PlayerState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sl, ok := s.slot(playerID)
	if !ok {
		return nil, store.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.state.Clone(), nil
}

// Create inserts the initial state for a new player, assigning an id when
// the caller left it zero.
func (s *Store) Create(ctx context.Context, state *domain.PlayerState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Player.ID == 0 {
		s.nextID++
		state.Player.ID = s.nextID
	}
	if _, ok := s.players[state.Player.ID]; ok {
		return store.ErrExists
	}
	s.players[state.Player.ID] = &playerSlot{state: state.Clone()}
	return nil
}

// Update applies fn to a copy of the state under the player's lock and swaps
// the copy in only when fn succeeds, so a failed mutation leaves nothing
// half-applied.
func (s *Store) Update(ctx context.Context, playerID int64, fn func(*domain.PlayerState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sl, ok := s.slot(playerID)
	if !ok {
		return store.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	work := sl.state.Clone()
	if err := fn(work); err != nil {
		return err
	}
	sl.state = work
	return nil
}
