package main

import (
	"log"
	"net/http"

	"tiempos_backend/internal/database"
	"tiempos_backend/internal/router"
	"tiempos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	// Refuse to serve release builds with the development signing key.
	if gin.Mode() == gin.ReleaseMode && utils.UsingFallbackJWTSecret() {
		log.Fatal("JWT_SECRET must be set when running in release mode")
	}

	cfg := database.Config{
		Host:     utils.Getenv("DB_HOST", "localhost"),
		Port:     utils.Getenv("DB_PORT", "5432"),
		User:     utils.Getenv("DB_USER", "tiempos_user"),
		Password: utils.Getenv("DB_PASSWORD", "tiempos_password"),
		DBName:   utils.Getenv("DB_NAME", "tiempos_db"),
		SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.Host, "name": cfg.DBName})

	if err := database.RunMigrations(db); err != nil {
		utils.LogError(err, "Failed to run migrations")
		log.Fatalf("Failed to run migrations: %v", err)
	}
	utils.LogInfo("Database migrations applied")

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// CORS configuration
	allowedOrigins := utils.GetenvList("CORS_ALLOWED_ORIGINS",
		[]string{"http://localhost:3000", "http://localhost:5173"})

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
