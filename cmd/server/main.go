package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dynbilliards/backend/internal/api"
	"github.com/dynbilliards/backend/internal/config"
	"github.com/dynbilliards/backend/internal/database"
	"github.com/dynbilliards/backend/internal/migrations"
	"github.com/dynbilliards/backend/internal/redis"
	"github.com/dynbilliards/backend/internal/sim"
	"github.com/dynbilliards/backend/internal/store"
	"github.com/dynbilliards/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database (optional — the simulator runs without it)
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if os.Getenv("MIGRATE_ON_START") == "true" {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, run persistence disabled")
	}

	// Initialize Redis (optional — snapshot caching only)
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL not set, snapshot caching disabled")
	}

	// Initialize run manager and WebSocket hub
	st := store.New(db)
	manager := sim.NewManager(cfg, st, rdb)
	hub := ws.NewHub()
	manager.SetFrameHandler(hub.BroadcastFrame)

	// Evict idle runs
	manager.StartExpiryWorker(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, manager, hub, st, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting dynbilliards server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
