package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/routes"
	"github.com/sokoni-online/cart-api/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("✅ Starting cart service...")

	// Init snapshot store
	st := initStore(log)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, st, log)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("🚀 Server running", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server", "error", err)
	}
}

// initStore picks the snapshot backend: Redis when REDIS_ADDR is set,
// Postgres when a database is configured, otherwise in-memory.
func initStore(log *logger.Logger) store.SnapshotStore {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ttl := time.Duration(0)
		if hours, err := strconv.Atoi(os.Getenv("CART_TTL_HOURS")); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
		st, err := store.NewRedisStore(addr, ttl)
		if err != nil {
			log.Fatal("❌ Redis connection failed", "error", err)
		}
		log.Info("✅ Using Redis snapshot store", "addr", addr)
		return st
	}

	if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" {
		st, err := store.NewPostgresStore(initDatabase(log))
		if err != nil {
			log.Fatal("❌ Snapshot table migration failed", "error", err)
		}
		log.Info("✅ Using Postgres snapshot store")
		return st
	}

	log.Warn("⚠️ No REDIS_ADDR or database configured, using in-memory snapshot store")
	return store.NewMemoryStore()
}

// initDatabase sets up the GORM DB connection
func initDatabase(log *logger.Logger) *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatal("❌ DB connection failed", "error", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect DB", "error", err)
	}
	return db
}
