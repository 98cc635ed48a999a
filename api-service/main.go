package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "gaurosa-backend/docs"

	"gaurosa-backend/api-service/handlers"
	"gaurosa-backend/api-service/middleware"
	"gaurosa-backend/api-service/services"
	"gaurosa-backend/api-service/workers"
	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database"
	"gaurosa-backend/shared/utils/cache"
	"gaurosa-backend/shared/utils/mail"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config.LoadConfig()
	cfg := config.GetConfig()

	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	// Redis and MinIO are optional at startup. Handlers degrade to DB
	// queries and remote image URLs when either is down.
	cacheManager := cache.GetCacheManager()

	imageService, err := services.NewImageService()
	if err != nil {
		log.Printf("❌ MinIO unavailable, product images will keep remote URLs: %v", err)
		imageService = nil
	}

	mailer := mail.NewMailer(cfg)
	mazgestClient := clients.NewMazGestClient(cfg.MazGestAPIURL, cfg.MazGestAPIKey)
	googleClient := clients.NewGoogleClient(cfg.GoogleClientID)

	syncService := services.NewCustomerSyncService(db, mazgestClient)

	authHandler := handlers.NewAuthHandler(db, mailer, syncService, googleClient)
	customerSyncHandler := handlers.NewCustomerSyncHandler(db)
	productSyncHandler := handlers.NewProductSyncHandler(db, imageService, cacheManager)
	orderSyncHandler := handlers.NewOrderSyncHandler(db)
	webhookHandler := handlers.NewWebhookHandler(db)

	// Background poller re-drives pending and failed customer pushes.
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	syncWorker := workers.NewCustomerSyncWorker(syncService, cfg.GetSyncWorkerInterval())
	go syncWorker.Start(workerCtx)

	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)
	generalConfig := middleware.GeneralRateLimitConfig()
	loginConfig := middleware.LoginRateLimitConfig()
	registerConfig := middleware.RegisterRateLimitConfig()
	passwordResetConfig := middleware.PasswordResetRateLimitConfig()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Api-Key", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestIDMiddleware())

	// Auth endpoints
	router.POST("/api/auth/register", rateLimiter.Limit("register", registerConfig), authHandler.Register)
	router.POST("/api/auth/login", rateLimiter.Limit("login", loginConfig), authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)
	router.GET("/api/auth/me", authHandler.Me)
	router.PUT("/api/auth/me", middleware.AuthMiddleware(), authHandler.UpdateProfile)
	router.POST("/api/auth/google", rateLimiter.Limit("general", generalConfig), authHandler.GoogleAuth)

	// Email verification endpoints
	router.POST("/api/auth/verify-email", authHandler.VerifyEmail)
	router.GET("/api/auth/verify-email", authHandler.VerifyEmail)
	router.POST("/api/auth/resend-verification", rateLimiter.Limit("general", generalConfig), authHandler.ResendVerification)

	// Password management endpoints
	router.POST("/api/auth/forgot-password", rateLimiter.Limit("password-reset", passwordResetConfig), authHandler.ForgotPassword)
	router.POST("/api/auth/reset-password", rateLimiter.Limit("password-reset", passwordResetConfig), authHandler.ResetPassword)

	// MazGest sync endpoints
	router.GET("/api/sync/pending-customers", middleware.APIKeyMiddleware(), customerSyncHandler.PendingCustomers)
	router.POST("/api/sync/products", productSyncHandler.SyncProducts)
	router.DELETE("/api/sync/products", middleware.APIKeyMiddleware(), productSyncHandler.DeleteProduct)
	router.DELETE("/api/sync/products/batch-delete", middleware.APIKeyMiddleware(), productSyncHandler.BatchDeleteProducts)
	router.GET("/api/sync/synced-ids", productSyncHandler.SyncedIDs)
	router.POST("/api/sync/confirm-orders", middleware.APIKeyMiddleware(), orderSyncHandler.ConfirmOrders)

	// Payment webhooks
	router.POST("/api/webhook/stripe", webhookHandler.StripeWebhook)

	// API documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "gaurosa-api",
		})
	})

	log.Printf("🚀 API service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
