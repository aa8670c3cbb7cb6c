package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Referral struct {
	ID         int64     `json:"id"`
	ReferrerID int64     `json:"referrer_id"`
	ReferredID int64     `json:"referred_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReferralStats struct {
	TotalReferrals int     `json:"total_referrals"`
	TotalEarned    float64 `json:"total_earned"`
}

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GenerateReferralCode generates a random referral code.
func GenerateReferralCode() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GetOrCreateReferralCode gets an existing code or assigns a new one.
func (r *ReferralRepository) GetOrCreateReferralCode(ctx context.Context, playerID int64) (string, error) {
	var code string
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(referral_code, '') FROM players WHERE id = $1`,
		playerID,
	).Scan(&code)
	if err == nil && code != "" {
		return code, nil
	}
	if err != nil {
		return "", err
	}

	// retry on the unlikely unique collision
	for i := 0; i < 5; i++ {
		code = GenerateReferralCode()
		_, err = r.db.Exec(ctx,
			`UPDATE players SET referral_code = $1 WHERE id = $2`,
			code, playerID,
		)
		if err == nil {
			return code, nil
		}
	}
	return "", err
}

// GetPlayerByReferralCode resolves a referral code to a player id.
func (r *ReferralRepository) GetPlayerByReferralCode(ctx context.Context, code string) (int64, error) {
	var playerID int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM players WHERE referral_code = $1`,
		code,
	).Scan(&playerID)
	return playerID, err
}

// CreateReferral records a referral relationship; a player can be referred
// at most once.
func (r *ReferralRepository) CreateReferral(ctx context.Context, referrerID, referredID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO referrals (referrer_id, referred_id)
		 VALUES ($1, $2)
		 ON CONFLICT (referred_id) DO NOTHING`,
		referrerID, referredID,
	)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`UPDATE players SET referred_by = $1 WHERE id = $2 AND referred_by IS NULL`,
		referrerID, referredID,
	)
	return err
}

// GetReferralsByPlayer returns referrals made by a player, newest first.
func (r *ReferralRepository) GetReferralsByPlayer(ctx context.Context, playerID int64) ([]Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, referrer_id, referred_id, created_at
		 FROM referrals
		 WHERE referrer_id = $1
		 ORDER BY created_at DESC`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []Referral
	for rows.Next() {
		var ref Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.CreatedAt); err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}
	return referrals, rows.Err()
}

// GetReferralStats returns referral statistics for a player.
func (r *ReferralRepository) GetReferralStats(ctx context.Context, playerID int64) (*ReferralStats, error) {
	stats := &ReferralStats{}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`,
		playerID,
	).Scan(&stats.TotalReferrals)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(referral_earnings, 0) FROM players WHERE id = $1`,
		playerID,
	).Scan(&stats.TotalEarned)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
