// Package postgres is the server-side PlayerStore adapter. Every Update runs
// as one pgx transaction holding a FOR UPDATE lock on the player row, so a
// double-tap from a network retry or a second browser tab serializes instead
// of racing.
package postgres

import (
	"context"
	"errors"

	"tapventure/internal/domain"
	"tapventure/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists player state in Postgres.
type Store struct {
	db *pgxpool.Pool
}

// New returns a Postgres-backed player store.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get returns a snapshot of the player's state without locking.
func (s *Store) Get(ctx context.Context, playerID int64) (*domain.PlayerState, error) {
	return s.load(ctx, s.db, playerID, false)
}

// Create inserts the initial state for a new player. The player row must
// carry a tg_id; the generated id is written back into state.
func (s *Store) Create(ctx context.Context, state *domain.PlayerState) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := &state.Player
	err = tx.QueryRow(ctx,
		`INSERT INTO players (tg_id, username, first_name, level, experience, energy, max_energy, last_energy_refill)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tg_id) DO NOTHING
		 RETURNING id, created_at`,
		p.TgID, p.Username, p.FirstName, p.Level, p.Experience, p.Energy, p.MaxEnergy, p.LastEnergyRefill,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrExists
		}
		return err
	}

	if err := s.writeChildren(ctx, tx, state); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update atomically applies fn to the player's state.
func (s *Store) Update(ctx context.Context, playerID int64, fn func(*domain.PlayerState) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	state, err := s.load(ctx, tx, playerID, true)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	p := state.Player
	if _, err := tx.Exec(ctx,
		`UPDATE players
		 SET level = $1, experience = $2, energy = $3, max_energy = $4, last_energy_refill = $5
		 WHERE id = $6`,
		p.Level, p.Experience, p.Energy, p.MaxEnergy, p.LastEnergyRefill, p.ID,
	); err != nil {
		return err
	}

	if err := s.writeChildren(ctx, tx, state); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// querier covers both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) load(ctx context.Context, q querier, playerID int64, forUpdate bool) (*domain.PlayerState, error) {
	playerSQL := `SELECT id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''),
	       level, experience, energy, max_energy, last_energy_refill, created_at
	       FROM players WHERE id = $1`
	if forUpdate {
		playerSQL += ` FOR UPDATE`
	}

	var p domain.Player
	err := q.QueryRow(ctx, playerSQL, playerID).Scan(
		&p.ID, &p.TgID, &p.Username, &p.FirstName,
		&p.Level, &p.Experience, &p.Energy, &p.MaxEnergy, &p.LastEnergyRefill, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	state := domain.NewPlayerState(p)

	rows, err := q.Query(ctx,
		`SELECT currency, amount FROM player_balances WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var cur string
		var amount float64
		if err := rows.Scan(&cur, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		state.Balances[domain.CurrencyID(cur)] = amount
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = q.Query(ctx,
		`SELECT tool_id FROM player_tools WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		state.UnlockedTools[id] = true
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = q.Query(ctx,
		`SELECT location_id FROM player_locations WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		state.UnlockedLocations[id] = true
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = q.Query(ctx,
		`SELECT character_id, tool_id FROM player_equipped WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var charID, toolID int64
		if err := rows.Scan(&charID, &toolID); err != nil {
			rows.Close()
			return nil, err
		}
		state.Equipped[charID] = toolID
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = q.Query(ctx,
		`SELECT helper_id, level, last_collected_at FROM player_helpers WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var h domain.OwnedHelper
		if err := rows.Scan(&h.HelperID, &h.Level, &h.LastCollectedAt); err != nil {
			rows.Close()
			return nil, err
		}
		state.Helpers[h.HelperID] = &h
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = q.Query(ctx,
		`SELECT currency, level, capacity FROM player_storage WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var st domain.OwnedStorage
		var cur string
		if err := rows.Scan(&cur, &st.Level, &st.Capacity); err != nil {
			rows.Close()
			return nil, err
		}
		st.Currency = domain.CurrencyID(cur)
		state.Storage[st.Currency] = &st
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return state, nil
}

// writeChildren upserts every child collection of the state. Unlock sets only
// ever grow and balances/helpers/storage rows are never deleted during play,
// so upserts cover all mutations the engine performs.
func (s *Store) writeChildren(ctx context.Context, tx pgx.Tx, state *domain.PlayerState) error {
	playerID := state.Player.ID

	for cur, amount := range state.Balances {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_balances (player_id, currency, amount)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (player_id, currency) DO UPDATE SET amount = EXCLUDED.amount`,
			playerID, cur.String(), amount,
		); err != nil {
			return err
		}
	}

	for toolID := range state.UnlockedTools {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_tools (player_id, tool_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			playerID, toolID,
		); err != nil {
			return err
		}
	}

	for locID := range state.UnlockedLocations {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_locations (player_id, location_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			playerID, locID,
		); err != nil {
			return err
		}
	}

	for charID, toolID := range state.Equipped {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_equipped (player_id, character_id, tool_id)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (player_id, character_id) DO UPDATE SET tool_id = EXCLUDED.tool_id`,
			playerID, charID, toolID,
		); err != nil {
			return err
		}
	}

	for _, h := range state.Helpers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_helpers (player_id, helper_id, level, last_collected_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (player_id, helper_id) DO UPDATE
			 SET level = EXCLUDED.level, last_collected_at = EXCLUDED.last_collected_at`,
			playerID, h.HelperID, h.Level, h.LastCollectedAt,
		); err != nil {
			return err
		}
	}

	for _, st := range state.Storage {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_storage (player_id, currency, level, capacity)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (player_id, currency) DO UPDATE
			 SET level = EXCLUDED.level, capacity = EXCLUDED.capacity`,
			playerID, st.Currency.String(), st.Level, st.Capacity,
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByTgID resolves a player id from a Telegram account id.
func (s *Store) GetByTgID(ctx context.Context, tgID int64) (*domain.PlayerState, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM players WHERE tg_id = $1`, tgID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}
