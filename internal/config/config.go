package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (optional — empty disables persistence)
	DatabaseURL string

	// Redis (optional — empty disables snapshot caching)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation limits
	MaxBalls           int
	MaxRuns            int
	RunExpiryMinutes   int     // idle runs are evicted after this
	SnapshotEveryTicks int     // persist a DB snapshot every N ticks while playing
	MaxDt              float64 // upper bound on a caller-supplied time increment

	// Security
	JWTSecret      string
	AdminTokenHash string // bcrypt hash, generated with cmd/admin-token
	TokenTTLHours  int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation limits
		MaxBalls:           getEnvInt("MAX_BALLS", 64),
		MaxRuns:            getEnvInt("MAX_RUNS", 256),
		RunExpiryMinutes:   getEnvInt("RUN_EXPIRY_MINUTES", 30),
		SnapshotEveryTicks: getEnvInt("SNAPSHOT_EVERY_TICKS", 300),
		MaxDt:              getEnvFloat("MAX_DT", 10),

		// Security
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),
		TokenTTLHours:  getEnvInt("TOKEN_TTL_HOURS", 24),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
