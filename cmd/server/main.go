package main

import (
	"fmt"
	"log"
	"net/http"

	"simbengride/internal/config"
	"simbengride/internal/gateway"
	"simbengride/internal/handlers"
	"simbengride/internal/middleware"
	"simbengride/internal/services"
	"simbengride/pkg/cache"
	"simbengride/pkg/logger"
	"simbengride/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.Gateway.BaseURL == "" {
		appLogger.Fatal("RIDE_API_BASE_URL is required")
	}

	// Session store: in-memory by default, Redis when configured.
	var store services.SessionStore
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		store = services.NewRedisSessionStore(redisCache, cfg.Security.SessionTTL)
	} else {
		store = services.NewMemorySessionStore()
	}

	gatewayClient := gateway.NewClient(cfg.Gateway, cfg.Security, cfg.Location, appLogger)

	sessionService := services.NewSessionService(store, cfg.Security, appLogger)
	subscriptionService := services.NewSubscriptionService()
	paymentService := services.NewPaymentService(gatewayClient, sessionService, appLogger)
	presenceService := services.NewPresenceService(gatewayClient, sessionService, subscriptionService, cfg.Location, appLogger)
	feedService := services.NewFeedService(gatewayClient, cfg.Location, appLogger)

	authHandler := handlers.NewAuthHandler(gatewayClient, sessionService, subscriptionService, appLogger)
	profileHandler := handlers.NewProfileHandler(gatewayClient, sessionService, subscriptionService, appLogger)
	areaHandler := handlers.NewAreaHandler(gatewayClient, appLogger)
	ownerHandler := handlers.NewOwnerHandler(presenceService, paymentService, subscriptionService, appLogger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.Subscription, appLogger)
	feedHandler := handlers.NewFeedHandler(feedService, appLogger)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, sessionService)
		routes.SetupProfileRoutes(v1, profileHandler, sessionService)
		routes.SetupAreaRoutes(v1, areaHandler, sessionService)
		routes.SetupOwnerRoutes(v1, ownerHandler, sessionService)
		routes.SetupPaymentRoutes(v1, paymentHandler, sessionService)
		routes.SetupFeedRoutes(v1, feedHandler, sessionService)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}
