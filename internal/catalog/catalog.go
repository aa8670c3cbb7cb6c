package catalog

import (
	"fmt"
	"sort"

	"tapventure/internal/domain"
)

// Data is the raw reference content a Catalog is built from, as loaded from
// Postgres or from a JSON seed file.
type Data struct {
	Currencies    []domain.CurrencyID   `json:"currencies"` // location currencies, main is implicit
	Tools         []domain.Tool         `json:"tools"`
	Locations     []domain.Location     `json:"locations"`
	Levels        []domain.Level        `json:"levels"`
	Rewards       []domain.Reward       `json:"rewards"`
	Helpers       []domain.Helper       `json:"helpers"`
	HelperLevels  []domain.HelperLevel  `json:"helper_levels"`
	StorageLevels []domain.StorageLevel `json:"storage_levels"`
	ExchangeRates []domain.ExchangeRate `json:"exchange_rates"`
}

// Catalog provides O(1) read-only lookups over the game's reference content.
// All indexes are built at construction; the engine never mutates it.
type Catalog struct {
	currencies     map[domain.CurrencyID]bool
	tools          map[int64]*domain.Tool
	locations      map[int64]*domain.Location
	levels         map[int]*domain.Level
	maxLevel       int
	rewardsByLevel map[int][]domain.Reward
	helpers        map[int64]*domain.Helper
	helperLevels   map[int64]map[int]*domain.HelperLevel
	helperMaxLevel map[int64]int
	storageLevels  map[domain.CurrencyID]map[int]*domain.StorageLevel
	storageMax     map[domain.CurrencyID]int
	exchangeRates  map[domain.CurrencyID]float64
	starterTool    *domain.Tool
	starterLoc     *domain.Location
}

// New builds and validates a catalog from raw content data.
func New(data *Data) (*Catalog, error) {
	c := &Catalog{
		currencies:     map[domain.CurrencyID]bool{domain.MainCurrency: true},
		tools:          make(map[int64]*domain.Tool, len(data.Tools)),
		locations:      make(map[int64]*domain.Location, len(data.Locations)),
		levels:         make(map[int]*domain.Level, len(data.Levels)),
		rewardsByLevel: make(map[int][]domain.Reward),
		helpers:        make(map[int64]*domain.Helper, len(data.Helpers)),
		helperLevels:   make(map[int64]map[int]*domain.HelperLevel),
		helperMaxLevel: make(map[int64]int),
		storageLevels:  make(map[domain.CurrencyID]map[int]*domain.StorageLevel),
		storageMax:     make(map[domain.CurrencyID]int),
		exchangeRates:  make(map[domain.CurrencyID]float64, len(data.ExchangeRates)),
	}

	for _, cur := range data.Currencies {
		c.currencies[cur] = true
	}

	for i := range data.Tools {
		t := &data.Tools[i]
		c.tools[t.ID] = t
		if c.starterTool == nil && t.Free() {
			c.starterTool = t
		}
	}
	for i := range data.Locations {
		l := &data.Locations[i]
		c.locations[l.ID] = l
		if c.starterLoc == nil && l.Free() {
			c.starterLoc = l
		}
	}
	for i := range data.Levels {
		lv := &data.Levels[i]
		c.levels[lv.Number] = lv
		if lv.Number > c.maxLevel {
			c.maxLevel = lv.Number
		}
	}
	for _, r := range data.Rewards {
		c.rewardsByLevel[r.Level] = append(c.rewardsByLevel[r.Level], r)
	}
	// Deterministic reward order within a level.
	for lvl := range c.rewardsByLevel {
		rs := c.rewardsByLevel[lvl]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	}
	for i := range data.Helpers {
		h := &data.Helpers[i]
		c.helpers[h.ID] = h
		c.helperLevels[h.ID] = make(map[int]*domain.HelperLevel)
	}
	for i := range data.HelperLevels {
		hl := &data.HelperLevels[i]
		byLevel, ok := c.helperLevels[hl.HelperID]
		if !ok {
			return nil, fmt.Errorf("helper level row for unknown helper %d", hl.HelperID)
		}
		byLevel[hl.Level] = hl
		if hl.Level > c.helperMaxLevel[hl.HelperID] {
			c.helperMaxLevel[hl.HelperID] = hl.Level
		}
	}
	for i := range data.StorageLevels {
		sl := &data.StorageLevels[i]
		byLevel, ok := c.storageLevels[sl.Currency]
		if !ok {
			byLevel = make(map[int]*domain.StorageLevel)
			c.storageLevels[sl.Currency] = byLevel
		}
		byLevel[sl.Level] = sl
		if sl.Level > c.storageMax[sl.Currency] {
			c.storageMax[sl.Currency] = sl.Level
		}
	}
	for _, er := range data.ExchangeRates {
		c.exchangeRates[er.Currency] = er.Rate
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Currencies returns the set of known currency ids, main currency included.
func (c *Catalog) Currencies() map[domain.CurrencyID]bool { return c.currencies }

// KnownCurrency reports whether id is main or a declared location currency.
func (c *Catalog) KnownCurrency(id domain.CurrencyID) bool { return c.currencies[id] }

// Tool returns the tool with the given id, or nil.
func (c *Catalog) Tool(id int64) *domain.Tool { return c.tools[id] }

// Location returns the location with the given id, or nil.
func (c *Catalog) Location(id int64) *domain.Location { return c.locations[id] }

// Level returns the definition for level n, or nil when n is past the last
// defined level.
func (c *Catalog) Level(n int) *domain.Level { return c.levels[n] }

// MaxLevel is the highest defined level number.
func (c *Catalog) MaxLevel() int { return c.maxLevel }

// RewardsForLevel returns the rewards granted on reaching level n, in stable
// order. The returned slice must not be modified.
func (c *Catalog) RewardsForLevel(n int) []domain.Reward { return c.rewardsByLevel[n] }

// Helper returns the helper with the given id, or nil.
func (c *Catalog) Helper(id int64) *domain.Helper { return c.helpers[id] }

// HelperLevel returns one row of a helper's level table, or nil.
func (c *Catalog) HelperLevel(id int64, level int) *domain.HelperLevel {
	return c.helperLevels[id][level]
}

// HelperMaxLevel is the last defined level for a helper.
func (c *Catalog) HelperMaxLevel(id int64) int { return c.helperMaxLevel[id] }

// StorageLevel returns one row of a currency's storage table, or nil.
func (c *Catalog) StorageLevel(cur domain.CurrencyID, level int) *domain.StorageLevel {
	return c.storageLevels[cur][level]
}

// StorageMaxLevel is the last defined storage level for a currency, zero when
// the currency has no storage table.
func (c *Catalog) StorageMaxLevel(cur domain.CurrencyID) int { return c.storageMax[cur] }

// ExchangeRate returns the main-currency rate for a location currency.
// ok is false when the currency is not exchangeable.
func (c *Catalog) ExchangeRate(cur domain.CurrencyID) (float64, bool) {
	rate, ok := c.exchangeRates[cur]
	return rate, ok
}

// StarterTool is the zero-cost tool every new player begins with.
func (c *Catalog) StarterTool() *domain.Tool { return c.starterTool }

// StarterLocation is the zero-cost location every new player begins in.
func (c *Catalog) StarterLocation() *domain.Location { return c.starterLoc }

// Tools returns all tools ordered by id.
func (c *Catalog) Tools() []domain.Tool {
	out := make([]domain.Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Locations returns all locations ordered by id.
func (c *Catalog) Locations() []domain.Location {
	out := make([]domain.Location, 0, len(c.locations))
	for _, l := range c.locations {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Levels returns all level definitions ordered by number.
func (c *Catalog) Levels() []domain.Level {
	out := make([]domain.Level, 0, len(c.levels))
	for _, lv := range c.levels {
		out = append(out, *lv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Helpers returns all helpers ordered by id.
func (c *Catalog) Helpers() []domain.Helper {
	out := make([]domain.Helper, 0, len(c.helpers))
	for _, h := range c.helpers {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
