package domain

// Content catalog reference data. These types are immutable once loaded;
// the engine reads them and never writes them.

// Tool is a tappable instrument owned by a character.
type Tool struct {
	ID               int64      `json:"id" db:"id"`
	CharacterID      int64      `json:"character_id" db:"character_id"`
	Name             string     `json:"name" db:"name"`
	UnlockLevel      int        `json:"unlock_level" db:"unlock_level"`
	UnlockCost       float64    `json:"unlock_cost" db:"unlock_cost"`
	UnlockCurrency   CurrencyID `json:"unlock_currency" db:"unlock_currency"`
	MainPowerPerTap  float64    `json:"main_power_per_tap" db:"main_power_per_tap"`
	LocalPowerPerTap float64    `json:"local_power_per_tap" db:"local_power_per_tap"`
}

// Free reports whether the tool is implicitly owned (zero unlock cost).
func (t Tool) Free() bool { return t.UnlockCost == 0 }

// Location is a place the player taps in, tied to one character and one
// location currency.
type Location struct {
	ID          int64      `json:"id" db:"id"`
	CharacterID int64      `json:"character_id" db:"character_id"`
	Name        string     `json:"name" db:"name"`
	Currency    CurrencyID `json:"currency" db:"currency"`
	UnlockLevel int        `json:"unlock_level" db:"unlock_level"`
	UnlockCost  float64    `json:"unlock_cost" db:"unlock_cost"`
	Background  string     `json:"background" db:"background"`
}

func (l Location) Free() bool { return l.UnlockCost == 0 }

// Level defines the experience threshold to advance past a level.
// RequiredExp is cumulative: a player levels up from N to N+1 once total
// experience reaches Level(N).RequiredExp.
type Level struct {
	Number      int   `json:"number" db:"number"`
	RequiredExp int64 `json:"required_exp" db:"required_exp"`
}

// RewardKind enumerates what a level-up reward grants.
type RewardKind string

const (
	RewardMainCurrency     RewardKind = "main_currency"
	RewardLocationCurrency RewardKind = "location_currency"
	RewardUnlockTool       RewardKind = "unlock_tool"
	RewardUnlockLocation   RewardKind = "unlock_location"
	RewardEnergy           RewardKind = "energy"
)

// Reward is granted when a player reaches its level. Location-currency
// rewards always carry an explicit Currency; the catalog rejects seed data
// that omits it.
type Reward struct {
	ID       int64      `json:"id" db:"id"`
	Level    int        `json:"level" db:"level"`
	Kind     RewardKind `json:"kind" db:"kind"`
	Amount   float64    `json:"amount" db:"amount"`
	TargetID int64      `json:"target_id,omitempty" db:"target_id"`
	Currency CurrencyID `json:"currency,omitempty" db:"currency"`
}

// Helper is a per-location passive income source. Income and upgrade costs
// scale with the helper's level through HelperLevel rows.
type Helper struct {
	ID          int64   `json:"id" db:"id"`
	LocationID  int64   `json:"location_id" db:"location_id"`
	Name        string  `json:"name" db:"name"`
	UnlockLevel int     `json:"unlock_level" db:"unlock_level"`
	UnlockCost  float64 `json:"unlock_cost" db:"unlock_cost"`
}

// HelperLevel is one row of a helper's income/upgrade-cost table.
// UpgradeCost is the main-currency price to advance from Level to Level+1;
// zero on the last row.
type HelperLevel struct {
	HelperID      int64   `json:"helper_id" db:"helper_id"`
	Level         int     `json:"level" db:"level"`
	IncomePerHour float64 `json:"income_per_hour" db:"income_per_hour"`
	UpgradeCost   float64 `json:"upgrade_cost" db:"upgrade_cost"`
}

// StorageLevel is one row of a currency's storage table. Upgrading from
// Level to Level+1 costs the next row's UpgradeCost in main currency.
type StorageLevel struct {
	Currency    CurrencyID `json:"currency" db:"currency"`
	Level       int        `json:"level" db:"level"`
	Capacity    float64    `json:"capacity" db:"capacity"`
	UpgradeCost float64    `json:"upgrade_cost" db:"upgrade_cost"`
}

// ExchangeRate is how many units of main currency one unit of a location
// currency converts into.
type ExchangeRate struct {
	Currency CurrencyID `json:"currency" db:"currency"`
	Rate     float64    `json:"rate" db:"rate"`
}
