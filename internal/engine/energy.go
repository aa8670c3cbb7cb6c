package engine

import (
	"context"
	"time"

	"tapventure/internal/domain"
)

// RefillResult is the energy state after a refill attempt.
type RefillResult struct {
	Energy           int       `json:"energy"`
	MaxEnergy        int       `json:"max_energy"`
	LastEnergyRefill time.Time `json:"last_energy_refill"`
}

// EnergyRefill regenerates one energy per elapsed whole refill interval
// since the player's last refill mark, capped at max energy.
//
// Two consistency rules matter here. When the player is already full the
// mark is left untouched, so a later max-energy increase resumes counting
// from a correct baseline. When energy is credited the mark advances by the
// whole intervals consumed, not to now, preserving the sub-interval
// remainder; calling this on every client tick never loses time and never
// double-credits a partial interval.
func (e *Engine) EnergyRefill(ctx context.Context, playerID int64) (RefillResult, error) {
	now := e.clock.Now()

	var res RefillResult
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		p := &state.Player
		defer func() {
			res = RefillResult{Energy: p.Energy, MaxEnergy: p.MaxEnergy, LastEnergyRefill: p.LastEnergyRefill}
		}()

		if p.Energy >= p.MaxEnergy {
			return nil
		}

		elapsed := now.Sub(p.LastEnergyRefill)
		ticks := int64(elapsed / e.cfg.RefillInterval)
		if ticks <= 0 {
			return nil
		}

		p.Energy += int(ticks)
		if p.Energy > p.MaxEnergy {
			p.Energy = p.MaxEnergy
		}
		p.LastEnergyRefill = p.LastEnergyRefill.Add(time.Duration(ticks) * e.cfg.RefillInterval)

		energyRefillsTotal.Inc()
		return nil
	})
	if err != nil {
		return RefillResult{}, err
	}
	return res, nil
}
