// Package engine implements the tap-to-earn progression rules: tap
// resolution, energy regeneration, level-up reward cascades, tool/location/
// helper unlock gating, storage capacity and resource exchange. It is the
// only place these rules exist; both storage backends run the same engine.
package engine

import (
	"context"
	"errors"
	"time"

	"tapventure/internal/catalog"
	"tapventure/internal/clock"
	"tapventure/internal/domain"
	"tapventure/internal/store"
)

var (
	ErrPlayerNotFound  = store.ErrNotFound
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrUnknownHelper   = errors.New("unknown helper")
	ErrNoToolEquipped  = errors.New("no tool equipped for this character")
	ErrToolNotOwned    = errors.New("tool not owned")
	ErrHelperNotOwned  = errors.New("helper not owned")
	ErrLevelTooLow     = errors.New("player level too low")
	ErrLocationLocked  = errors.New("location not unlocked")
)

// Config holds engine tunables sourced from the environment.
type Config struct {
	// DefaultMaxEnergy is the energy capacity of a fresh level-1 player.
	DefaultMaxEnergy int
	// RefillInterval is how long one energy point takes to regenerate.
	RefillInterval time.Duration
}

// DefaultConfig matches the original game's balance.
func DefaultConfig() Config {
	return Config{
		DefaultMaxEnergy: 100,
		RefillInterval:   time.Minute,
	}
}

// Engine resolves all progression operations against a PlayerStore and a
// read-only content catalog. It keeps no session state; every operation is a
// single atomic read-modify-write scoped to one player.
type Engine struct {
	store   store.PlayerStore
	catalog *catalog.Catalog
	clock   clock.Clock
	cfg     Config
}

// New builds an engine. A nil clk falls back to the system clock.
func New(st store.PlayerStore, cat *catalog.Catalog, clk clock.Clock, cfg Config) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	if cfg.DefaultMaxEnergy <= 0 {
		cfg.DefaultMaxEnergy = DefaultConfig().DefaultMaxEnergy
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = DefaultConfig().RefillInterval
	}
	return &Engine{store: st, catalog: cat, clock: clk, cfg: cfg}
}

// Catalog exposes the engine's content catalog to the request layer.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// CreatePlayer sets up initial state for a first-contact player: level 1,
// full energy, starter tool unlocked and equipped, starter location unlocked.
func (e *Engine) CreatePlayer(ctx context.Context, tgID int64, username, firstName string) (*domain.PlayerState, error) {
	now := e.clock.Now().UTC()
	state := domain.NewPlayerState(domain.Player{
		TgID:             tgID,
		Username:         username,
		FirstName:        firstName,
		Level:            1,
		Energy:           e.cfg.DefaultMaxEnergy,
		MaxEnergy:        e.cfg.DefaultMaxEnergy,
		LastEnergyRefill: now,
		CreatedAt:        now,
	})

	if t := e.catalog.StarterTool(); t != nil {
		state.UnlockedTools[t.ID] = true
		state.Equipped[t.CharacterID] = t.ID
	}
	if l := e.catalog.StarterLocation(); l != nil {
		state.UnlockedLocations[l.ID] = true
	}

	if err := e.store.Create(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// GetPlayerState returns a read-only snapshot of the player's progression.
func (e *Engine) GetPlayerState(ctx context.Context, playerID int64) (*domain.PlayerState, error) {
	return e.store.Get(ctx, playerID)
}

// toolOwned implements the ownership rule: a tool is owned when it is in the
// unlocked set, is free, or is currently equipped.
func (e *Engine) toolOwned(state *domain.PlayerState, t *domain.Tool) bool {
	if state.UnlockedTools[t.ID] || t.Free() {
		return true
	}
	return state.Equipped[t.CharacterID] == t.ID
}

// locationUnlocked mirrors toolOwned for locations.
func (e *Engine) locationUnlocked(state *domain.PlayerState, l *domain.Location) bool {
	return state.UnlockedLocations[l.ID] || l.Free()
}
