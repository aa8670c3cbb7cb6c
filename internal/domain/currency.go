package domain

import (
	"errors"
	"fmt"
)

// CurrencyID identifies a currency. The only valid values are MainCurrency
// and the location currencies declared by the content catalog; raw strings
// from requests or seed data must pass through catalog validation before
// reaching the engine.
type CurrencyID string

// MainCurrency is the single global currency usable across all locations.
const MainCurrency CurrencyID = "coin"

var ErrUnknownCurrency = errors.New("unknown currency")

func (c CurrencyID) String() string { return string(c) }

// IsMain reports whether c is the global main currency.
func (c CurrencyID) IsMain() bool { return c == MainCurrency }

// ParseCurrencyID validates a raw currency identifier against the set of
// known currencies. known must include MainCurrency.
func ParseCurrencyID(raw string, known map[CurrencyID]bool) (CurrencyID, error) {
	id := CurrencyID(raw)
	if !known[id] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, raw)
	}
	return id, nil
}
