package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	state, err := h.Engine.GetPlayerState(c.Request.Context(), playerID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": playerJSON(state)})
}

type TapRequest struct {
	LocationID int64 `json:"location_id"`
	// Taps lets a laggy client batch a few taps into one request. Each tap
	// is still resolved one at a time on the server.
	Taps int `json:"taps,omitempty"`
}

func (h *Handler) Tap(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req TapRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	taps := req.Taps
	if taps <= 0 {
		taps = 1
	}
	if taps > 50 {
		taps = 50
	}

	ctx := c.Request.Context()

	var (
		resources float64
		mainGain  float64
		exp       int64
		levelUp   bool
	)
	last, err := h.Engine.Tap(ctx, playerID, req.LocationID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	resources += last.ResourcesGained
	mainGain += last.MainCurrencyGained
	exp += last.ExperienceGained
	levelUp = levelUp || last.LevelUp
	for i := 1; i < taps && last.EnergyLeft > 0; i++ {
		last, err = h.Engine.Tap(ctx, playerID, req.LocationID)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		resources += last.ResourcesGained
		mainGain += last.MainCurrencyGained
		exp += last.ExperienceGained
		levelUp = levelUp || last.LevelUp
	}

	if levelUp && h.Hub != nil {
		h.Hub.BroadcastLevelUp(playerID, last.Level)
	}

	c.JSON(http.StatusOK, gin.H{
		"resources_gained":     resources,
		"main_currency_gained": mainGain,
		"experience_gained":    exp,
		"level_up":             levelUp,
		"level":                last.Level,
		"rewards":              last.Rewards,
		"energy_left":          last.EnergyLeft,
	})
}

func (h *Handler) UpdateEnergy(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	res, err := h.Engine.EnergyRefill(c.Request.Context(), playerID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"energy":             res.Energy,
		"max_energy":         res.MaxEnergy,
		"last_energy_refill": res.LastEnergyRefill,
	})
}

type BuyToolRequest struct {
	ToolID int64 `json:"tool_id"`
}

func (h *Handler) BuyTool(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req BuyToolRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	bought, err := h.Engine.BuyTool(c.Request.Context(), playerID, req.ToolID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if !bought {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type EquipToolRequest struct {
	CharacterID int64 `json:"character_id"`
	ToolID      int64 `json:"tool_id"`
}

func (h *Handler) EquipTool(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req EquipToolRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Engine.EquipTool(c.Request.Context(), playerID, req.CharacterID, req.ToolID); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UnlockLocationRequest struct {
	LocationID int64 `json:"location_id"`
}

func (h *Handler) UnlockLocation(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req UnlockLocationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	unlocked, err := h.Engine.UnlockLocation(c.Request.Context(), playerID, req.LocationID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if !unlocked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
