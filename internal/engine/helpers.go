package engine

import (
	"context"
	"sort"

	"tapventure/internal/domain"
)

// BuyHelper purchases a per-location helper with the location's currency.
// The helper starts at level 1 and begins accruing from the purchase moment.
func (e *Engine) BuyHelper(ctx context.Context, playerID, helperID int64) (bool, error) {
	helper := e.catalog.Helper(helperID)
	if helper == nil {
		return false, ErrUnknownHelper
	}
	loc := e.catalog.Location(helper.LocationID)
	if loc == nil {
		return false, ErrUnknownLocation
	}
	now := e.clock.Now()

	bought := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if _, owned := state.Helpers[helper.ID]; owned {
			return nil
		}
		if state.Player.Level < helper.UnlockLevel {
			return ErrLevelTooLow
		}
		if !e.locationUnlocked(state, loc) {
			return ErrLocationLocked
		}
		if !state.Debit(loc.Currency, helper.UnlockCost) {
			return nil
		}
		state.Helpers[helper.ID] = &domain.OwnedHelper{
			HelperID:        helper.ID,
			Level:           1,
			LastCollectedAt: now,
		}
		bought = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bought, nil
}

// UpgradeHelper advances an owned helper one level, paying the next row's
// main-currency cost from the helper level table. False at table max or on
// insufficient funds.
func (e *Engine) UpgradeHelper(ctx context.Context, playerID, helperID int64) (bool, error) {
	if e.catalog.Helper(helperID) == nil {
		return false, ErrUnknownHelper
	}

	upgraded := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		owned, ok := state.Helpers[helperID]
		if !ok {
			return ErrHelperNotOwned
		}
		next := e.catalog.HelperLevel(helperID, owned.Level+1)
		if next == nil {
			return nil
		}
		cur := e.catalog.HelperLevel(helperID, owned.Level)
		if cur == nil || !state.Debit(domain.MainCurrency, cur.UpgradeCost) {
			return nil
		}
		owned.Level++
		upgraded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return upgraded, nil
}

// CollectResult reports passive income gathered from one helper.
type CollectResult struct {
	HelperID int64             `json:"helper_id"`
	Currency domain.CurrencyID `json:"currency"`
	Amount   float64           `json:"amount"`
}

// CollectHelperIncome credits the passive income every owned helper earned
// since its last collection. Income is computed lazily from wall-clock
// elapsed time, so no scheduler runs while the player is away; credits are
// clamped to storage headroom like tap credits.
func (e *Engine) CollectHelperIncome(ctx context.Context, playerID int64) ([]CollectResult, error) {
	now := e.clock.Now()

	var collected []CollectResult
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		collected = collected[:0]

		ids := make([]int64, 0, len(state.Helpers))
		for id := range state.Helpers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			owned := state.Helpers[id]
			helper := e.catalog.Helper(owned.HelperID)
			if helper == nil {
				continue
			}
			loc := e.catalog.Location(helper.LocationID)
			row := e.catalog.HelperLevel(owned.HelperID, owned.Level)
			if loc == nil || row == nil {
				continue
			}

			elapsed := now.Sub(owned.LastCollectedAt)
			if elapsed <= 0 {
				continue
			}
			income := row.IncomePerHour * elapsed.Hours()
			credited := state.Credit(loc.Currency, income)
			owned.LastCollectedAt = now
			if credited > 0 {
				collected = append(collected, CollectResult{
					HelperID: owned.HelperID,
					Currency: loc.Currency,
					Amount:   credited,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}
