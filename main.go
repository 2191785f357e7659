package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rent-easy-server/config"
	"rent-easy-server/database"
	"rent-easy-server/jobs"
	"rent-easy-server/middleware"
	"rent-easy-server/repository"
	"rent-easy-server/routes"
	"rent-easy-server/services"
	ws "rent-easy-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Notification hub: the only owner of live websocket connections
	hub := ws.NewHub()
	go hub.Run()

	// Services
	jwtService := services.NewJWTService()
	emailService := services.NewEmailService()
	contactService := services.NewContactService(
		repository.NewUserRepository(database.DB),
		repository.NewListingRepository(database.DB),
		repository.NewContactRequestRepository(database.DB),
		repository.NewNotificationRepository(database.DB),
		hub,
	)
	notificationService := services.NewNotificationService(
		repository.NewNotificationRepository(database.DB),
	)

	routes.Init(contactService, notificationService, jwtService, emailService)

	// Background jobs: release lapsed reservations, purge expired
	// refresh tokens
	expirationJob := jobs.NewExpirationJob(emailService, hub)
	expirationJob.Start()
	defer expirationJob.Stop()

	tokenCleanupJob := jobs.NewTokenCleanupJob(jwtService, 24*time.Hour)
	tokenCleanupJob.Start()
	defer tokenCleanupJob.Stop()

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.BodySizeLimitMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.Client.BaseURL, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "RentEasy server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Notification websocket. Auth happens inside the handshake (token
	// query parameter, close 1008 on failure), not in middleware.
	router.GET("/ws/notifications", func(c *gin.Context) {
		ws.ServeNotifications(hub, jwtService, c)
	})

	// API routes
	api := router.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())

		protectedAuth := api.Group("/auth")
		protectedAuth.Use(middleware.AuthMiddleware())

		routes.RegisterAuthRoutes(authRoutes, protectedAuth)

		// Public browse
		listingRoutes := api.Group("/listings")

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterListingRoutes(listingRoutes, protected)

			notifications := protected.Group("/notifications")
			routes.RegisterNotificationRoutes(notifications)

			routes.RegisterContactRequestRoutes(protected)
		}

		// Admin moderation
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		routes.RegisterAdminRoutes(adminRoutes)
	}

	port := config.AppConfig.Server.Port
	log.Printf("🚀 RentEasy server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
