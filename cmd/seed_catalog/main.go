package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tapventure/internal/catalog"
	"tapventure/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	path := flag.String("file", "catalog.json", "catalog seed file")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	data, err := catalog.ReadFile(*path)
	if err != nil {
		log.Fatalf("read catalog file: %v", err)
	}
	// Build the in-memory catalog first so a broken seed never reaches the DB.
	if _, err := catalog.New(data); err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := seed(ctx, db, data); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	fmt.Printf("seeded catalog: %d tools, %d locations, %d levels, %d rewards, %d helpers\n",
		len(data.Tools), len(data.Locations), len(data.Levels), len(data.Rewards), len(data.Helpers))
}

func seed(ctx context.Context, db *pgxpool.Pool, data *catalog.Data) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO currencies (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		domain.MainCurrency.String()); err != nil {
		return err
	}
	for _, cur := range data.Currencies {
		if _, err := tx.Exec(ctx, `
			INSERT INTO currencies (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
			cur.String()); err != nil {
			return err
		}
	}

	for _, t := range data.Tools {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tools (id, character_id, name, unlock_level, unlock_cost, unlock_currency,
			                   main_power_per_tap, local_power_per_tap)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				character_id = EXCLUDED.character_id,
				name = EXCLUDED.name,
				unlock_level = EXCLUDED.unlock_level,
				unlock_cost = EXCLUDED.unlock_cost,
				unlock_currency = EXCLUDED.unlock_currency,
				main_power_per_tap = EXCLUDED.main_power_per_tap,
				local_power_per_tap = EXCLUDED.local_power_per_tap`,
			t.ID, t.CharacterID, t.Name, t.UnlockLevel, t.UnlockCost, t.UnlockCurrency.String(),
			t.MainPowerPerTap, t.LocalPowerPerTap); err != nil {
			return err
		}
	}

	for _, l := range data.Locations {
		if _, err := tx.Exec(ctx, `
			INSERT INTO locations (id, character_id, name, currency, unlock_level, unlock_cost, background)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				character_id = EXCLUDED.character_id,
				name = EXCLUDED.name,
				currency = EXCLUDED.currency,
				unlock_level = EXCLUDED.unlock_level,
				unlock_cost = EXCLUDED.unlock_cost,
				background = EXCLUDED.background`,
			l.ID, l.CharacterID, l.Name, l.Currency.String(), l.UnlockLevel, l.UnlockCost, l.Background); err != nil {
			return err
		}
	}

	for _, lv := range data.Levels {
		if _, err := tx.Exec(ctx, `
			INSERT INTO levels (number, required_exp) VALUES ($1, $2)
			ON CONFLICT (number) DO UPDATE SET required_exp = EXCLUDED.required_exp`,
			lv.Number, lv.RequiredExp); err != nil {
			return err
		}
	}

	for _, rw := range data.Rewards {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rewards (id, level, kind, amount, target_id, currency)
			VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''))
			ON CONFLICT (id) DO UPDATE SET
				level = EXCLUDED.level,
				kind = EXCLUDED.kind,
				amount = EXCLUDED.amount,
				target_id = EXCLUDED.target_id,
				currency = EXCLUDED.currency`,
			rw.ID, rw.Level, string(rw.Kind), rw.Amount, rw.TargetID, rw.Currency.String()); err != nil {
			return err
		}
	}

	for _, h := range data.Helpers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO helpers (id, location_id, name, unlock_level, unlock_cost)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				location_id = EXCLUDED.location_id,
				name = EXCLUDED.name,
				unlock_level = EXCLUDED.unlock_level,
				unlock_cost = EXCLUDED.unlock_cost`,
			h.ID, h.LocationID, h.Name, h.UnlockLevel, h.UnlockCost); err != nil {
			return err
		}
	}

	for _, hl := range data.HelperLevels {
		if _, err := tx.Exec(ctx, `
			INSERT INTO helper_levels (helper_id, level, income_per_hour, upgrade_cost)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (helper_id, level) DO UPDATE SET
				income_per_hour = EXCLUDED.income_per_hour,
				upgrade_cost = EXCLUDED.upgrade_cost`,
			hl.HelperID, hl.Level, hl.IncomePerHour, hl.UpgradeCost); err != nil {
			return err
		}
	}

	for _, sl := range data.StorageLevels {
		if _, err := tx.Exec(ctx, `
			INSERT INTO storage_levels (currency, level, capacity, upgrade_cost)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (currency, level) DO UPDATE SET
				capacity = EXCLUDED.capacity,
				upgrade_cost = EXCLUDED.upgrade_cost`,
			sl.Currency.String(), sl.Level, sl.Capacity, sl.UpgradeCost); err != nil {
			return err
		}
	}

	for _, er := range data.ExchangeRates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO exchange_rates (currency, rate) VALUES ($1, $2)
			ON CONFLICT (currency) DO UPDATE SET rate = EXCLUDED.rate`,
			er.Currency.String(), er.Rate); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
