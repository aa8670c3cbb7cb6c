package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetReferralCode(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	code, err := h.ReferralRepo.GetOrCreateReferralCode(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referral code"})
		return
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "TapVentureBot"
	}

	c.JSON(http.StatusOK, gin.H{
		"code": code,
		"link": fmt.Sprintf("https://t.me/%s?startapp=%s", botUsername, code),
	})
}

func (h *Handler) GetReferrals(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	referrals, err := h.ReferralRepo.GetReferralsByPlayer(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load referrals"})
		return
	}

	stats, err := h.ReferralRepo.GetReferralStats(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load referral stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": referrals,
		"stats":     stats,
	})
}

type ApplyReferralRequest struct {
	Code string `json:"code"`
}

// ApplyReferralCode lets a player attach a referrer after the fact (e.g.
// the code arrived outside the bot start param). Self-referrals and second
// attempts are rejected.
func (h *Handler) ApplyReferralCode(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req ApplyReferralRequest
	if err := c.BindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()

	referrerID, err := h.ReferralRepo.GetPlayerByReferralCode(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown referral code"})
		return
	}
	if referrerID == playerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot refer yourself"})
		return
	}

	if err := h.ReferralRepo.CreateReferral(ctx, referrerID, playerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply referral code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
