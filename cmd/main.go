package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fbw-backend/internal/auth"
	"fbw-backend/internal/config"
	"fbw-backend/internal/database"
	"fbw-backend/internal/handlers"
	"fbw-backend/internal/jobs"
	"fbw-backend/internal/llm"
	"fbw-backend/internal/services"
	"fbw-backend/internal/sportsdata"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Upstream clients
	fixtureClient := sportsdata.NewClient(cfg.Football.APIKey, logger)
	generator := llm.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, logger)

	// Initialize services
	authService := services.NewAuthService(db, logger)
	userService := services.NewUserService(db)
	adminService := services.NewAdminService(db, logger)
	entitlementService := services.NewEntitlementService(db)
	subscriptionService := services.NewSubscriptionService(db, adminService, logger)
	predictionService := services.NewPredictionService(db, fixtureClient, generator, logger)
	publicationService := services.NewPublicationService(db, adminService, logger)
	settlementService := services.NewSettlementService(db, fixtureClient, logger)
	feedService := services.NewFeedService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	predictionHandler := handlers.NewPredictionHandler(predictionService, entitlementService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, entitlementService)
	feedHandler := handlers.NewFeedHandler(feedService)
	adminHandler := handlers.NewAdminHandler(
		predictionService,
		publicationService,
		subscriptionService,
		settlementService,
		adminService,
	)

	// Start settlement job (runs every 30 minutes)
	resultsChecker := jobs.NewResultsChecker(settlementService, 30*time.Minute, logger)
	go resultsChecker.Start()

	// Start daily generation job (06:00 UTC)
	generationJob := jobs.NewGenerationJob(predictionService, 6, logger)
	go generationJob.Start()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public routes
	router.GET("/api/predictions/:date", predictionHandler.GetFreePredictions)
	router.GET("/api/plans", predictionHandler.GetPlans)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.PUT("/profile", userHandler.UpdateProfile)
		}

		// Prediction endpoints (entitlement checked per category)
		api.GET("/predictions/:date/:category", predictionHandler.GetCategoryPredictions)

		// Subscription endpoints
		api.POST("/payments", subscriptionHandler.SubmitPayment)
		api.GET("/payments", subscriptionHandler.GetMyPayments)
		api.GET("/subscription", subscriptionHandler.GetMySubscription)

		// Community feed endpoints
		api.GET("/feed", feedHandler.ListPosts)
		api.POST("/feed", feedHandler.CreatePost)
		api.GET("/feed/:id/comments", feedHandler.ListComments)
		api.POST("/feed/:id/comments", feedHandler.AddComment)
		api.POST("/feed/:id/like", feedHandler.ToggleLike)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware(adminService))
	{
		admin.POST("/predictions/generate", adminHandler.GenerateOfficial)
		admin.POST("/predictions/generate-special", adminHandler.GenerateSpecial)
		admin.GET("/predictions/:date", adminHandler.GetDayPredictions)
		admin.POST("/predictions/:date/:category/publish", adminHandler.Publish)
		admin.POST("/predictions/:date/:category/unpublish", adminHandler.Unpublish)
		admin.POST("/results/settle", adminHandler.SettleResults)

		// Payment verification
		admin.GET("/payments", adminHandler.GetPendingPayments)
		admin.POST("/payments/:id/verify", adminHandler.VerifyPayment)
		admin.POST("/payments/:id/reject", adminHandler.RejectPayment)

		// Audit and platform surface
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/logs", adminHandler.GetLogs)
		admin.GET("/users", adminHandler.GetUsers)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		logger.Infof("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	resultsChecker.Stop()
	generationJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
