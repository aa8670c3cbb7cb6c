package engine

import (
	"context"

	"tapventure/internal/domain"
)

// TapResult reports what a single tap produced.
type TapResult struct {
	ResourcesGained    float64         `json:"resources_gained"`
	MainCurrencyGained float64         `json:"main_currency_gained"`
	ExperienceGained   int64           `json:"experience_gained"`
	LevelUp            bool            `json:"level_up"`
	Level              int             `json:"level"`
	Rewards            []domain.Reward `json:"rewards,omitempty"`
	EnergyLeft         int             `json:"energy_left"`
}

// Tap resolves one tap in a location: credits the location currency (clamped
// to storage headroom) and the main currency per the equipped tool's power,
// grants experience, cascades level-ups, and burns one energy.
//
// A tap at zero energy is not an error: it returns a zero-effect result so
// rapid clicking on an empty bar is harmless.
func (e *Engine) Tap(ctx context.Context, playerID, locationID int64) (TapResult, error) {
	loc := e.catalog.Location(locationID)
	if loc == nil {
		return TapResult{}, ErrUnknownLocation
	}

	var res TapResult
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if !e.locationUnlocked(state, loc) {
			return ErrLocationLocked
		}

		toolID, ok := state.Equipped[loc.CharacterID]
		if !ok {
			return ErrNoToolEquipped
		}
		tool := e.catalog.Tool(toolID)
		if tool == nil {
			return ErrUnknownTool
		}

		res.Level = state.Player.Level
		res.EnergyLeft = state.Player.Energy
		if state.Player.Energy == 0 {
			return nil
		}

		res.ResourcesGained = state.Credit(loc.Currency, tool.LocalPowerPerTap)
		res.MainCurrencyGained = state.Credit(domain.MainCurrency, tool.MainPowerPerTap)

		// Experience tracks the tool's nominal location output, not the
		// possibly storage-clamped credit.
		res.ExperienceGained = int64(tool.LocalPowerPerTap)
		state.Player.Experience += res.ExperienceGained

		res.LevelUp, res.Rewards = e.resolveLevels(state)
		res.Level = state.Player.Level

		state.Player.Energy--
		if state.Player.Energy < 0 {
			state.Player.Energy = 0
		}
		res.EnergyLeft = state.Player.Energy
		return nil
	})
	if err != nil {
		return TapResult{}, err
	}

	tapsTotal.Inc()
	if res.LevelUp {
		levelUpsTotal.Inc()
	}
	return res, nil
}

// resolveLevels drains accumulated experience into level-ups, applying each
// reached level's rewards in catalog order. The cascade crosses as many
// thresholds as the experience covers and stops cleanly at the last defined
// level.
func (e *Engine) resolveLevels(state *domain.PlayerState) (leveledUp bool, applied []domain.Reward) {
	for {
		cur := e.catalog.Level(state.Player.Level)
		next := e.catalog.Level(state.Player.Level + 1)
		if cur == nil || next == nil {
			break
		}
		if state.Player.Experience < cur.RequiredExp {
			break
		}

		state.Player.Level++
		leveledUp = true

		for _, r := range e.catalog.RewardsForLevel(state.Player.Level) {
			e.applyReward(state, r)
			applied = append(applied, r)
		}
	}
	return leveledUp, applied
}

// applyReward mutates state for one level-up reward. Unlock rewards are
// idempotent; re-granting an owned tool or location is a no-op.
func (e *Engine) applyReward(state *domain.PlayerState, r domain.Reward) {
	switch r.Kind {
	case domain.RewardMainCurrency:
		state.Credit(domain.MainCurrency, r.Amount)
	case domain.RewardLocationCurrency:
		// Validated at catalog build time to carry an explicit currency.
		state.Credit(r.Currency, r.Amount)
	case domain.RewardUnlockTool:
		state.UnlockedTools[r.TargetID] = true
	case domain.RewardUnlockLocation:
		state.UnlockedLocations[r.TargetID] = true
	case domain.RewardEnergy:
		state.Player.MaxEnergy += int(r.Amount)
	}
}
