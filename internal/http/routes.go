package http

import (
	"time"

	"tapventure/internal/config"
	"tapventure/internal/engine"
	"tapventure/internal/http/handlers"
	"tapventure/internal/http/middleware"
	"tapventure/internal/store/postgres"
	"tapventure/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, eng *engine.Engine, pgStore *postgres.Store, cfg *config.Config, version string) *ws.Hub {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, cfg.BotToken, eng, pgStore, hub)
	healthHandler := handlers.NewHealthHandler(db, eng.Catalog(), version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authRateWindow := time.Minute
	tapRateWindow := time.Duration(cfg.TapRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, cfg.AuthRateLimit, authRateWindow, cfg.TapRateLimit, tapRateWindow)

	// Legacy /api routes for older clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, cfg.AuthRateLimit, authRateWindow, cfg.TapRateLimit, tapRateWindow)

	// WebSocket live feed (level-ups)
	r.GET("/ws", ws.HandleWS(hub))

	return hub
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration, tapRateLimit int, tapRateWindow time.Duration) {
	// Auth
	api.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// Player state
	api.GET("/me", middleware.JWT(), h.Me)

	// Tap rate limiter is per player, not per IP
	tapRL := middleware.TapRateLimit(tapRateLimit, tapRateWindow)

	player := api.Group("/player")
	player.Use(middleware.JWT())
	{
		player.POST("/tap", tapRL, h.Tap)
		player.POST("/update-energy", h.UpdateEnergy)
		player.POST("/upgrade-tool", h.BuyTool)
		player.POST("/equip-tool", h.EquipTool)
		player.POST("/unlock-location", h.UnlockLocation)
		player.POST("/helpers/buy", h.BuyHelper)
		player.POST("/helpers/upgrade", h.UpgradeHelper)
		player.POST("/helpers/collect", h.CollectHelperIncome)
		player.POST("/storage/upgrade", h.UpgradeStorage)
		player.POST("/exchange", h.Exchange)
	}

	// Catalog (public, read-only)
	catalog := api.Group("/catalog")
	{
		catalog.GET("/tools", h.GetTools)
		catalog.GET("/locations", h.GetLocations)
		catalog.GET("/levels", h.GetLevels)
		catalog.GET("/helpers", h.GetHelpers)
		catalog.GET("/exchange-rates", h.GetExchangeRates)
	}

	// Referral system
	referral := api.Group("/referral")
	referral.Use(middleware.JWT())
	{
		referral.GET("/code", h.GetReferralCode)
		referral.GET("/stats", h.GetReferrals)
		referral.POST("/apply", h.ApplyReferralCode)
	}

	// Leaderboard (top by main currency + own rank)
	api.GET("/leaderboard", h.GetLeaderboard)
	api.GET("/leaderboard/rank", middleware.JWT(), h.GetMyRank)
}
