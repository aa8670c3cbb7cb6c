package catalog

import (
	"fmt"

	"tapventure/internal/domain"
)

// validate enforces the structural rules seed data must satisfy before the
// engine is allowed to consult the catalog.
func (c *Catalog) validate() error {
	if len(c.levels) == 0 {
		return fmt.Errorf("catalog defines no levels")
	}
	if c.levels[1] == nil {
		return fmt.Errorf("catalog must define level 1")
	}
	if c.levels[1].RequiredExp != 0 {
		return fmt.Errorf("level 1 must have required_exp 0, got %d", c.levels[1].RequiredExp)
	}

	// Levels must be contiguous with strictly increasing thresholds.
	prev := int64(-1)
	for n := 1; n <= c.maxLevel; n++ {
		lv := c.levels[n]
		if lv == nil {
			return fmt.Errorf("level gap: level %d is missing", n)
		}
		if lv.RequiredExp <= prev {
			return fmt.Errorf("level %d required_exp %d does not increase", n, lv.RequiredExp)
		}
		prev = lv.RequiredExp
	}

	if c.starterTool == nil {
		return fmt.Errorf("catalog has no zero-cost starter tool")
	}
	if c.starterLoc == nil {
		return fmt.Errorf("catalog has no zero-cost starter location")
	}

	for _, t := range c.tools {
		if !c.currencies[t.UnlockCurrency] {
			return fmt.Errorf("tool %d priced in unknown currency %q", t.ID, t.UnlockCurrency)
		}
		if t.UnlockCost < 0 {
			return fmt.Errorf("tool %d has negative unlock cost", t.ID)
		}
	}
	for _, l := range c.locations {
		if !c.currencies[l.Currency] || l.Currency.IsMain() {
			return fmt.Errorf("location %d yields invalid currency %q", l.ID, l.Currency)
		}
	}

	for lvl, rs := range c.rewardsByLevel {
		if c.levels[lvl] == nil {
			return fmt.Errorf("rewards defined for undefined level %d", lvl)
		}
		for _, r := range rs {
			switch r.Kind {
			case domain.RewardMainCurrency, domain.RewardEnergy:
				if r.Amount <= 0 {
					return fmt.Errorf("level %d %s reward has non-positive amount", lvl, r.Kind)
				}
			case domain.RewardLocationCurrency:
				// Explicit currency required; no silent main-currency fallback.
				if r.Currency == "" || !c.currencies[r.Currency] || r.Currency.IsMain() {
					return fmt.Errorf("level %d location-currency reward must name a location currency, got %q", lvl, r.Currency)
				}
				if r.Amount <= 0 {
					return fmt.Errorf("level %d %s reward has non-positive amount", lvl, r.Kind)
				}
			case domain.RewardUnlockTool:
				if c.tools[r.TargetID] == nil {
					return fmt.Errorf("level %d unlocks unknown tool %d", lvl, r.TargetID)
				}
			case domain.RewardUnlockLocation:
				if c.locations[r.TargetID] == nil {
					return fmt.Errorf("level %d unlocks unknown location %d", lvl, r.TargetID)
				}
			default:
				return fmt.Errorf("level %d has reward of unknown kind %q", lvl, r.Kind)
			}
		}
	}

	for id, h := range c.helpers {
		if c.locations[h.LocationID] == nil {
			return fmt.Errorf("helper %d belongs to unknown location %d", id, h.LocationID)
		}
		if c.helperLevels[id][1] == nil {
			return fmt.Errorf("helper %d has no level 1 row", id)
		}
		for n := 1; n <= c.helperMaxLevel[id]; n++ {
			if c.helperLevels[id][n] == nil {
				return fmt.Errorf("helper %d level table gap at level %d", id, n)
			}
		}
	}

	for cur, byLevel := range c.storageLevels {
		if !c.currencies[cur] || cur.IsMain() {
			return fmt.Errorf("storage table for invalid currency %q", cur)
		}
		prevCap := -1.0
		for n := 1; n <= c.storageMax[cur]; n++ {
			sl := byLevel[n]
			if sl == nil {
				return fmt.Errorf("storage table for %q has gap at level %d", cur, n)
			}
			if sl.Capacity <= prevCap {
				return fmt.Errorf("storage capacity for %q does not increase at level %d", cur, n)
			}
			prevCap = sl.Capacity
		}
	}

	for cur, rate := range c.exchangeRates {
		if !c.currencies[cur] || cur.IsMain() {
			return fmt.Errorf("exchange rate for invalid currency %q", cur)
		}
		if rate <= 0 {
			return fmt.Errorf("exchange rate for %q must be positive", cur)
		}
	}

	return nil
}
