package handlers

import (
	"net/http"
	"sort"

	"tapventure/internal/domain"

	"github.com/gin-gonic/gin"
)

// Catalog endpoints are public: the shop screens render before auth finishes.

func (h *Handler) GetTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.Engine.Catalog().Tools()})
}

func (h *Handler) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": h.Engine.Catalog().Locations()})
}

func (h *Handler) GetLevels(c *gin.Context) {
	cat := h.Engine.Catalog()
	levels := cat.Levels()
	out := make([]gin.H, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, gin.H{
			"number":       lvl.Number,
			"required_exp": lvl.RequiredExp,
			"rewards":      cat.RewardsForLevel(lvl.Number),
		})
	}
	c.JSON(http.StatusOK, gin.H{"levels": out})
}

func (h *Handler) GetHelpers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"helpers": h.Engine.Catalog().Helpers()})
}

func (h *Handler) GetExchangeRates(c *gin.Context) {
	cat := h.Engine.Catalog()
	ids := make([]domain.CurrencyID, 0, len(cat.Currencies()))
	for id := range cat.Currencies() {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rates := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		if rate, ok := cat.ExchangeRate(id); ok {
			rates = append(rates, gin.H{"currency": id, "rate": rate})
		}
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}
