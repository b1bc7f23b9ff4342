package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"plinko-fair-backend/internal/config"
	"plinko-fair-backend/internal/handlers"
	"plinko-fair-backend/internal/middleware"
	"plinko-fair-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	roundEngine := services.NewRoundEngine(redisService)
	wsHandler := handlers.NewWebSocketHandler(redisService)
	roundEngine.SetBroadcaster(wsHandler)

	authHandler := handlers.NewAuthHandler(redisService, jwtService)
	roundHandler := handlers.NewRoundHandler(roundEngine, redisService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/session", authHandler.CreateSession)

	// Verification only needs disclosed values, so it stays public.
	router.POST("/verify", roundHandler.Verify)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", authHandler.GetCurrentSession)
		protected.POST("/logout", authHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		rounds := protected.Group("/rounds")
		{
			rounds.POST("/commit", roundHandler.Commit)
			rounds.POST("/:id/play", roundHandler.Play)
			rounds.POST("/:id/reveal", roundHandler.Reveal)
			rounds.GET("/:id", roundHandler.GetRound)
			rounds.GET("", roundHandler.ListRounds)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
