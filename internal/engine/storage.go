package engine

import (
	"context"

	"tapventure/internal/domain"
)

// UpgradeStorage raises the player's storage capacity for a location
// currency by one level, paying the next level's main-currency cost from the
// catalog's storage table. A player with no storage record starts from the
// table's level 1; false at table max or on insufficient funds.
func (e *Engine) UpgradeStorage(ctx context.Context, playerID int64, currency domain.CurrencyID) (bool, error) {
	if !e.catalog.KnownCurrency(currency) || currency.IsMain() {
		return false, domain.ErrUnknownCurrency
	}
	if e.catalog.StorageMaxLevel(currency) == 0 {
		return false, domain.ErrUnknownCurrency
	}

	upgraded := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		nextLevel := 1
		if owned, ok := state.Storage[currency]; ok {
			nextLevel = owned.Level + 1
		}
		row := e.catalog.StorageLevel(currency, nextLevel)
		if row == nil {
			return nil
		}
		if !state.Debit(domain.MainCurrency, row.UpgradeCost) {
			return nil
		}
		state.Storage[currency] = &domain.OwnedStorage{
			Currency: currency,
			Level:    row.Level,
			Capacity: row.Capacity,
		}
		upgraded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return upgraded, nil
}

// ExchangeResult reports a location-currency to main-currency conversion.
type ExchangeResult struct {
	Spent    float64           `json:"spent"`
	Currency domain.CurrencyID `json:"currency"`
	Received float64           `json:"received"`
	Balance  float64           `json:"balance"`
}

// Exchange converts amount of a location currency into main currency at the
// catalog rate. Like every spend it rejects, not clamps, when the balance is
// short; ok=false with a nil error is the insufficient-funds outcome.
func (e *Engine) Exchange(ctx context.Context, playerID int64, currency domain.CurrencyID, amount float64) (ExchangeResult, bool, error) {
	rate, exchangeable := e.catalog.ExchangeRate(currency)
	if !exchangeable {
		return ExchangeResult{}, false, domain.ErrUnknownCurrency
	}
	if amount <= 0 {
		return ExchangeResult{}, false, nil
	}

	var res ExchangeResult
	ok := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if !state.Debit(currency, amount) {
			return nil
		}
		received := amount * rate
		state.Credit(domain.MainCurrency, received)
		res = ExchangeResult{
			Spent:    amount,
			Currency: currency,
			Received: received,
			Balance:  state.Balance(domain.MainCurrency),
		}
		ok = true
		return nil
	})
	if err != nil {
		return ExchangeResult{}, false, err
	}
	return res, ok, nil
}
