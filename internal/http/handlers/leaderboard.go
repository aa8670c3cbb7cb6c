package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.LeaderboardRepo.GetTop(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *Handler) GetMyRank(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	rank, balance, err := h.LeaderboardRepo.GetRank(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rank"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rank": rank, "balance": balance})
}
