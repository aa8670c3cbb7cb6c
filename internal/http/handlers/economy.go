package handlers

import (
	"net/http"

	"tapventure/internal/domain"

	"github.com/gin-gonic/gin"
)

type HelperRequest struct {
	HelperID int64 `json:"helper_id"`
}

func (h *Handler) BuyHelper(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req HelperRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	bought, err := h.Engine.BuyHelper(c.Request.Context(), playerID, req.HelperID)
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

func (h *Handler) UpgradeHelper(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req HelperRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	upgraded, err := h.Engine.UpgradeHelper(c.Request.Context(), playerID, req.HelperID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if !upgraded {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds or max level"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) CollectHelperIncome(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	collected, err := h.Engine.CollectHelperIncome(c.Request.Context(), playerID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collected": collected})
}

type UpgradeStorageRequest struct {
	Currency string `json:"currency"`
}

func (h *Handler) UpgradeStorage(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req UpgradeStorageRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	upgraded, err := h.Engine.UpgradeStorage(c.Request.Context(), playerID, domain.CurrencyID(req.Currency))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if !upgraded {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds or max level"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ExchangeRequest struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

func (h *Handler) Exchange(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		return
	}

	var req ExchangeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, done, err := h.Engine.Exchange(c.Request.Context(), playerID, domain.CurrencyID(req.Currency), req.Amount)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if !done {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"spent":    res.Spent,
		"currency": res.Currency,
		"received": res.Received,
		"balance":  res.Balance,
	})
}
