package handlers

import (
	"errors"
	"net/http"

	"tapventure/internal/domain"
	"tapventure/internal/engine"
	"tapventure/internal/repository"
	"tapventure/internal/store/postgres"
	"tapventure/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB              *pgxpool.Pool
	BotToken        string
	Engine          *engine.Engine
	PlayerStore     *postgres.Store
	LeaderboardRepo *repository.LeaderboardRepository
	ReferralRepo    *repository.ReferralRepository
	Hub             *ws.Hub
}

func NewHandler(db *pgxpool.Pool, botToken string, eng *engine.Engine, pgStore *postgres.Store, hub *ws.Hub) *Handler {
	return &Handler{
		DB:              db,
		BotToken:        botToken,
		Engine:          eng,
		PlayerStore:     pgStore,
		LeaderboardRepo: repository.NewLeaderboardRepository(db),
		ReferralRepo:    repository.NewReferralRepository(db),
		Hub:             hub,
	}
}

// getPlayerID извлекает player_id из контекста Gin
func getPlayerID(c *gin.Context) (int64, bool) {
	val, ok := c.Get("player_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	switch v := val.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
}

// respondEngineError maps engine errors onto HTTP verdicts. Business-level
// false results never reach here; only genuine failures do.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrPlayerNotFound),
		errors.Is(err, engine.ErrUnknownLocation),
		errors.Is(err, engine.ErrUnknownTool),
		errors.Is(err, engine.ErrUnknownHelper),
		errors.Is(err, domain.ErrUnknownCurrency):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNoToolEquipped),
		errors.Is(err, engine.ErrToolNotOwned),
		errors.Is(err, engine.ErrHelperNotOwned),
		errors.Is(err, engine.ErrLevelTooLow),
		errors.Is(err, engine.ErrLocationLocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
