package domain

import "time"

// Player holds the progression core of a user: level, experience, energy.
// Mutated only through the engine.
type Player struct {
	ID               int64     `json:"id" db:"id"`
	TgID             int64     `json:"tg_id" db:"tg_id"`
	Username         string    `json:"username" db:"username"`
	FirstName        string    `json:"first_name" db:"first_name"`
	Level            int       `json:"level" db:"level"`
	Experience       int64     `json:"experience" db:"experience"`
	Energy           int       `json:"energy" db:"energy"`
	MaxEnergy        int       `json:"max_energy" db:"max_energy"`
	LastEnergyRefill time.Time `json:"last_energy_refill" db:"last_energy_refill"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// OwnedHelper is a helper purchased by a player. Income accrues lazily since
// LastCollectedAt; there is no background timer.
type OwnedHelper struct {
	HelperID        int64     `json:"helper_id" db:"helper_id"`
	Level           int       `json:"level" db:"level"`
	LastCollectedAt time.Time `json:"last_collected_at" db:"last_collected_at"`
}

// OwnedStorage is a player's storage record for one location currency.
// While a record exists, the balance of that currency is clamped to Capacity.
type OwnedStorage struct {
	Currency CurrencyID `json:"currency" db:"currency"`
	Level    int        `json:"level" db:"level"`
	Capacity float64    `json:"capacity" db:"capacity"`
}

// PlayerState is the full mutable state the engine operates on. A store
// adapter loads it atomically, the engine mutates it in memory, and the
// adapter persists every change in one transaction.
type PlayerState struct {
	Player            Player                       `json:"player"`
	Balances          map[CurrencyID]float64       `json:"balances"`
	UnlockedTools     map[int64]bool               `json:"unlocked_tools"`
	UnlockedLocations map[int64]bool               `json:"unlocked_locations"`
	Equipped          map[int64]int64              `json:"equipped"` // characterID -> toolID
	Helpers           map[int64]*OwnedHelper       `json:"helpers"`
	Storage           map[CurrencyID]*OwnedStorage `json:"storage"`
}

// NewPlayerState returns an empty state for a fresh player with all lazy
// collections initialized.
func NewPlayerState(p Player) *PlayerState {
	return &PlayerState{
		Player:            p,
		Balances:          make(map[CurrencyID]float64),
		UnlockedTools:     make(map[int64]bool),
		UnlockedLocations: make(map[int64]bool),
		Equipped:          make(map[int64]int64),
		Helpers:           make(map[int64]*OwnedHelper),
		Storage:           make(map[CurrencyID]*OwnedStorage),
	}
}

// Balance returns the player's balance for a currency, zero if untouched.
func (s *PlayerState) Balance(c CurrencyID) float64 { return s.Balances[c] }

// Credit adds amount to a currency balance, clamped to the storage capacity
// when a storage record exists for that currency. Returns the amount actually
// credited; the surplus is discarded.
func (s *PlayerState) Credit(c CurrencyID, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	if st, ok := s.Storage[c]; ok {
		headroom := st.Capacity - s.Balances[c]
		if headroom <= 0 {
			return 0
		}
		if amount > headroom {
			amount = headroom
		}
	}
	s.Balances[c] += amount
	return amount
}

// Debit removes amount from a currency balance. It rejects, not clamps:
// false is returned and nothing changes when the balance is insufficient.
func (s *PlayerState) Debit(c CurrencyID, amount float64) bool {
	if amount < 0 {
		return false
	}
	if s.Balances[c] < amount {
		return false
	}
	s.Balances[c] -= amount
	return true
}

// Clone makes a deep copy of the state. Used by the in-memory store so
// callers never alias its internal maps.
func (s *PlayerState) Clone() *PlayerState {
	c := &PlayerState{
		Player:            s.Player,
		Balances:          make(map[CurrencyID]float64, len(s.Balances)),
		UnlockedTools:     make(map[int64]bool, len(s.UnlockedTools)),
		UnlockedLocations: make(map[int64]bool, len(s.UnlockedLocations)),
		Equipped:          make(map[int64]int64, len(s.Equipped)),
		Helpers:           make(map[int64]*OwnedHelper, len(s.Helpers)),
		Storage:           make(map[CurrencyID]*OwnedStorage, len(s.Storage)),
	}
	for k, v := range s.Balances {
		c.Balances[k] = v
	}
	for k, v := range s.UnlockedTools {
		c.UnlockedTools[k] = v
	}
	for k, v := range s.UnlockedLocations {
		c.UnlockedLocations[k] = v
	}
	for k, v := range s.Equipped {
		c.Equipped[k] = v
	}
	for k, v := range s.Helpers {
		h := *v
		c.Helpers[k] = &h
	}
	for k, v := range s.Storage {
		st := *v
		c.Storage[k] = &st
	}
	return c
}
