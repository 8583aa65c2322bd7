package main

import (
	"log"
	"net/http"

	"marketplace-scout/internal/api"
	"marketplace-scout/internal/config"
	"marketplace-scout/internal/database"
	"marketplace-scout/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	st := store.NewListingStore(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware. The overlay script runs on the marketplace's origin,
	// so every browser request here is cross-origin.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api.SetupRoutes(r, st)

	log.Printf("🚀 Scout server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
