package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tapventure/internal/catalog"
	"tapventure/internal/config"
	"tapventure/internal/db"
	"tapventure/internal/engine"
	httpServer "tapventure/internal/http"
	"tapventure/internal/http/middleware"
	"tapventure/internal/logger"
	"tapventure/internal/repository"
	"tapventure/internal/service"
	"tapventure/internal/store/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	cat := loadCatalog(cfg, dbPool)

	pgStore := postgres.New(dbPool)
	eng := engine.New(pgStore, cat, nil, engine.Config{
		DefaultMaxEnergy: cfg.DefaultMaxEnergy,
		RefillInterval:   cfg.RefillInterval(),
	})

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, dbPool, eng, pgStore, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exited")
}

// loadCatalog prefers the database; a JSON file via CATALOG_PATH is the
// fallback for fresh installs that have not seeded yet.
func loadCatalog(cfg *config.Config, dbPool *pgxpool.Pool) *catalog.Catalog {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cat, err := repository.NewCatalogRepository(dbPool).Load(ctx)
	if err == nil {
		return cat
	}
	logger.Warn("failed to load catalog from database, trying file", "error", err)

	if cfg.CatalogPath == "" {
		logger.Fatal("catalog unavailable: database load failed and CATALOG_PATH is not set", "error", err)
	}
	cat, err = catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog file", "path", cfg.CatalogPath, "error", err)
	}
	return cat
}
