package config

import (
	"os"
	"strconv"
	"time"

	"tapventure/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	BotUsername string
	JWTSecret   string
	DevMode     bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CatalogPath points at a JSON content seed. When set, the catalog is
	// loaded from the file instead of Postgres (local/dev mode).
	CatalogPath string

	// Progression tunables
	DefaultMaxEnergy    int
	EnergyRefillSeconds int

	// Rate limits
	APIRateLimit  int
	APIRateWindow int // seconds
	AuthRateLimit int
	TapRateLimit  int
	TapRateWindow int // seconds
}

func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "TapVentureBot"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		BotToken:    botToken,
		BotUsername: botUsername,
		JWTSecret:   jwtSecret,
		DevMode:     os.Getenv("DEV_MODE") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		CatalogPath: os.Getenv("CATALOG_PATH"),

		DefaultMaxEnergy:    envInt("DEFAULT_MAX_ENERGY", 100),
		EnergyRefillSeconds: envInt("ENERGY_REFILL_SECONDS", 60),

		APIRateLimit:  envInt("API_RATE_LIMIT", 30),
		APIRateWindow: envInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit: envInt("AUTH_RATE_LIMIT", 5),
		// Taps arrive in bursts; the default allows ~10/s sustained.
		TapRateLimit:  envInt("TAP_RATE_LIMIT", 600),
		TapRateWindow: envInt("TAP_RATE_WINDOW_SECONDS", 60),
	}
}

// RefillInterval returns the energy regeneration tick as a duration.
func (c *Config) RefillInterval() time.Duration {
	return time.Duration(c.EnergyRefillSeconds) * time.Second
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
