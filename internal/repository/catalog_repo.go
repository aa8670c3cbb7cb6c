package repository

import (
	"context"

	"tapventure/internal/catalog"
	"tapventure/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads the content catalog tables. The tables are written
// only by cmd/seed_catalog; at runtime they are read once at startup.
type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Load reads all content rows and builds the validated in-memory catalog.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(data)
}

// ReadData reads the raw content rows without building indexes.
func (r *CatalogRepository) ReadData(ctx context.Context) (*catalog.Data, error) {
	data := &catalog.Data{}

	rows, err := r.db.Query(ctx, `SELECT id FROM currencies WHERE id <> $1 ORDER BY id`, domain.MainCurrency.String())
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		data.Currencies = append(data.Currencies, domain.CurrencyID(id))
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, character_id, name, unlock_level, unlock_cost, unlock_currency,
		       main_power_per_tap, local_power_per_tap
		FROM tools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t domain.Tool
		var cur string
		if err := rows.Scan(&t.ID, &t.CharacterID, &t.Name, &t.UnlockLevel, &t.UnlockCost,
			&cur, &t.MainPowerPerTap, &t.LocalPowerPerTap); err != nil {
			rows.Close()
			return nil, err
		}
		t.UnlockCurrency = domain.CurrencyID(cur)
		data.Tools = append(data.Tools, t)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, character_id, name, currency, unlock_level, unlock_cost, COALESCE(background, '')
		FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var l domain.Location
		var cur string
		if err := rows.Scan(&l.ID, &l.CharacterID, &l.Name, &cur, &l.UnlockLevel,
			&l.UnlockCost, &l.Background); err != nil {
			rows.Close()
			return nil, err
		}
		l.Currency = domain.CurrencyID(cur)
		data.Locations = append(data.Locations, l)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `SELECT number, required_exp FROM levels ORDER BY number`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var lv domain.Level
		if err := rows.Scan(&lv.Number, &lv.RequiredExp); err != nil {
			rows.Close()
			return nil, err
		}
		data.Levels = append(data.Levels, lv)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, level, kind, amount, COALESCE(target_id, 0), COALESCE(currency, '')
		FROM rewards ORDER BY level, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var rw domain.Reward
		var kind, cur string
		if err := rows.Scan(&rw.ID, &rw.Level, &kind, &rw.Amount, &rw.TargetID, &cur); err != nil {
			rows.Close()
			return nil, err
		}
		rw.Kind = domain.RewardKind(kind)
		rw.Currency = domain.CurrencyID(cur)
		data.Rewards = append(data.Rewards, rw)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, location_id, name, unlock_level, unlock_cost FROM helpers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var h domain.Helper
		if err := rows.Scan(&h.ID, &h.LocationID, &h.Name, &h.UnlockLevel, &h.UnlockCost); err != nil {
			rows.Close()
			return nil, err
		}
		data.Helpers = append(data.Helpers, h)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT helper_id, level, income_per_hour, upgrade_cost
		FROM helper_levels ORDER BY helper_id, level`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var hl domain.HelperLevel
		if err := rows.Scan(&hl.HelperID, &hl.Level, &hl.IncomePerHour, &hl.UpgradeCost); err != nil {
			rows.Close()
			return nil, err
		}
		data.HelperLevels = append(data.HelperLevels, hl)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `
		SELECT currency, level, capacity, upgrade_cost
		FROM storage_levels ORDER BY currency, level`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var sl domain.StorageLevel
		var cur string
		if err := rows.Scan(&cur, &sl.Level, &sl.Capacity, &sl.UpgradeCost); err != nil {
			rows.Close()
			return nil, err
		}
		sl.Currency = domain.CurrencyID(cur)
		data.StorageLevels = append(data.StorageLevels, sl)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = r.db.Query(ctx, `SELECT currency, rate FROM exchange_rates ORDER BY currency`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var er domain.ExchangeRate
		var cur string
		if err := rows.Scan(&cur, &er.Rate); err != nil {
			rows.Close()
			return nil, err
		}
		er.Currency = domain.CurrencyID(cur)
		data.ExchangeRates = append(data.ExchangeRates, er)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return data, nil
}
