// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcabs/josephs-list/internal/api/handlers"
	"github.com/bcabs/josephs-list/internal/api/middleware"
	"github.com/bcabs/josephs-list/internal/config"
	"github.com/bcabs/josephs-list/internal/cron"
	"github.com/bcabs/josephs-list/internal/db"
	"github.com/bcabs/josephs-list/internal/email"
	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/bcabs/josephs-list/internal/seed"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/bcabs/josephs-list/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	pg, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pg.Pool)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Image Storage
	// ============================================
	store, err := storage.NewStore(&storage.Config{
		Provider:  cfg.StorageProvider,
		Folder:    cfg.StorageFolder,
		BaseURL:   cfg.StorageBaseURL,
		AccessID:  cfg.StorageAccessID,
		AccessKey: cfg.StorageAccessKey,
		Region:    cfg.StorageRegion,
		Bucket:    cfg.StorageBucket,
		Endpoint:  cfg.StorageEndpoint,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize image storage: %v", err)
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		log.Println("🌱 Seeding development data...")
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:   cfg,
		Repos:    repos,
		Cache:    redisDB,
		Store:    store,
		EmailSvc: emailSvc,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(repos.ProfileRepo, repos.InvitationRepo)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()
	r.Use(middleware.RequestLogger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images when using the filesystem provider
	if cfg.StorageProvider == "filesystem" {
		r.Static("/uploads", cfg.StorageFolder)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"database":  "connected",
			"cache":     cacheStatus(redisDB),
			"email":     emailStatus(emailSvc),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
		}

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/me", h.Profile.GetCurrentProfile)
				users.PUT("/me", h.Profile.UpdateCurrentProfile)
				users.GET("/:id", h.Profile.GetProfile)
				users.GET("/:id/tools", h.Tool.ListByOwner)
			}

			// Group routes
			groups := protected.Group("/groups")
			{
				groups.GET("", h.Group.ListMyGroups)
				groups.POST("", h.Group.Create)
				groups.GET("/:id", h.Group.Get)
				groups.PUT("/:id", h.Group.Update)
				groups.GET("/:id/members", h.Group.ListMembers)
				groups.POST("/:id/members", h.Group.InviteMember)
				groups.GET("/:id/tools", h.Tool.ListByGroup)
				groups.GET("/:id/invitations", h.Invitation.ListPendingByGroup)
			}

			// Tool routes
			tools := protected.Group("/tools")
			{
				tools.GET("", h.Tool.ListVisible)
				tools.POST("", h.Tool.Create)
				tools.POST("/images", h.Tool.UploadImage)
				tools.GET("/:id", h.Tool.Get)
				tools.PUT("/:id", h.Tool.Update)
				tools.DELETE("/:id", h.Tool.Delete)
			}

			// Invitation routes
			invitations := protected.Group("/invitations")
			{
				invitations.GET("/pending", h.Invitation.ListPending)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func cacheStatus(r *db.RedisDB) string {
	if r == nil {
		return "disabled"
	}
	return "connected"
}

func emailStatus(s *email.Service) string {
	if s == nil {
		return "disabled"
	}
	return "configured"
}
