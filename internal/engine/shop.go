package engine

import (
	"context"

	"tapventure/internal/domain"
)

// BuyTool purchases a tool with its unlock currency. It returns false with a
// nil error when the tool is already owned or the balance is insufficient;
// both are normal outcomes, not failures. No partial debit ever happens and
// buying never equips.
func (e *Engine) BuyTool(ctx context.Context, playerID, toolID int64) (bool, error) {
	tool := e.catalog.Tool(toolID)
	if tool == nil {
		return false, ErrUnknownTool
	}

	bought := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if e.toolOwned(state, tool) {
			return nil
		}
		if state.Player.Level < tool.UnlockLevel {
			return ErrLevelTooLow
		}
		if !state.Debit(tool.UnlockCurrency, tool.UnlockCost) {
			return nil
		}
		state.UnlockedTools[tool.ID] = true
		bought = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bought, nil
}

// EquipTool sets the player's active tool for a character. The tool must
// belong to that character and be owned; re-equipping overwrites the slot.
func (e *Engine) EquipTool(ctx context.Context, playerID, characterID, toolID int64) error {
	tool := e.catalog.Tool(toolID)
	if tool == nil {
		return ErrUnknownTool
	}
	if tool.CharacterID != characterID {
		return ErrToolNotOwned
	}

	return e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if !e.toolOwned(state, tool) {
			return ErrToolNotOwned
		}
		state.Equipped[characterID] = tool.ID
		return nil
	})
}

// UnlockLocation purchases a location with main currency, gated on player
// level. Like BuyTool it returns false for already-unlocked and for
// insufficient funds.
func (e *Engine) UnlockLocation(ctx context.Context, playerID, locationID int64) (bool, error) {
	loc := e.catalog.Location(locationID)
	if loc == nil {
		return false, ErrUnknownLocation
	}

	unlocked := false
	err := e.store.Update(ctx, playerID, func(state *domain.PlayerState) error {
		if e.locationUnlocked(state, loc) {
			return nil
		}
		if state.Player.Level < loc.UnlockLevel {
			return ErrLevelTooLow
		}
		if !state.Debit(domain.MainCurrency, loc.UnlockCost) {
			return nil
		}
		state.UnlockedLocations[loc.ID] = true
		unlocked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return unlocked, nil
}
