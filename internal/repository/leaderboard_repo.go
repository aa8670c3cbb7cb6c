package repository

import (
	"context"

	"tapventure/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaderboardEntry is one row of the main-currency leaderboard.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	PlayerID  int64   `json:"player_id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	Level     int     `json:"level"`
	Balance   float64 `json:"balance"`
}

type LeaderboardRepository struct {
	db *pgxpool.Pool
}

func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// GetTop returns players ordered by main-currency balance.
func (r *LeaderboardRepository) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, COALESCE(p.username, ''), COALESCE(p.first_name, ''), p.level,
		       COALESCE(b.amount, 0) AS balance
		FROM players p
		LEFT JOIN player_balances b ON b.player_id = p.id AND b.currency = $1
		ORDER BY balance DESC, p.id
		LIMIT $2`, domain.MainCurrency.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Username, &e.FirstName, &e.Level, &e.Balance); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		res = append(res, e)
	}
	return res, rows.Err()
}

// GetRank returns a player's rank and main-currency balance.
func (r *LeaderboardRepository) GetRank(ctx context.Context, playerID int64) (int, float64, error) {
	var rank int
	var balance float64
	err := r.db.QueryRow(ctx, `
		WITH ranked AS (
			SELECT p.id, COALESCE(b.amount, 0) AS balance,
			       RANK() OVER (ORDER BY COALESCE(b.amount, 0) DESC) AS rank
			FROM players p
			LEFT JOIN player_balances b ON b.player_id = p.id AND b.currency = $1
		)
		SELECT rank, balance FROM ranked WHERE id = $2
	`, domain.MainCurrency.String(), playerID).Scan(&rank, &balance)
	if err != nil {
		return 0, 0, err
	}
	return rank, balance, nil
}
