package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"Sistem-Reward-Venue/config"
	"Sistem-Reward-Venue/config/middleware"
	_ "Sistem-Reward-Venue/docs"
	"Sistem-Reward-Venue/handlers"
	"Sistem-Reward-Venue/repository"
	"Sistem-Reward-Venue/reward"
)

func SetupRoutes(app *fiber.App) {
	log.Println("Memulai pendaftaran rute aplikasi...")

	cfg := config.LoadConfig()

	// Inisialisasi Repositories
	userRepo := repository.NewUserRepository()
	venueRepo := repository.NewVenueRepository()
	collectionRepo := repository.NewCollectionRepository()
	ledgerRepo := repository.NewLedgerRepository()

	// Pipeline redemption: repositories sebagai store, RNG global untuk
	// lotere, drop rate dari konfigurasi.
	tracker := reward.NewTracker(collectionRepo)
	pipeline := reward.NewPipeline(venueRepo, ledgerRepo, tracker, reward.DefaultRand, cfg.DropRatePercent)

	// Inisialisasi Handlers
	authHandler := handlers.NewAuthHandler(userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	venueHandler := handlers.NewVenueHandler(venueRepo)
	collectionHandler := handlers.NewCollectionHandler(collectionRepo, tracker)
	scanHandler := handlers.NewScanHandler(pipeline, venueRepo, ledgerRepo)

	// Health check & Docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Sistem Reward Venue API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	// API v1 group
	api := app.Group("/api/v1")

	// Authentication routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// User routes
	protectedUserGroup := api.Group("/users", middleware.AuthMiddleware())
	protectedUserGroup.Post("/change-password", authHandler.ChangePassword)
	protectedUserGroup.Get("/me", userHandler.GetMyProfile)
	protectedUserGroup.Get("/:id", userHandler.GetUserByID)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	adminGroup.Get("/users", userHandler.GetAllUsers)

	// Venue routes
	api.Get("/venues", middleware.AuthMiddleware(), venueHandler.GetAllVenues)
	api.Get("/venues/:id", middleware.AuthMiddleware(), venueHandler.GetVenueByID)
	api.Get("/venues/:id/bonus-days", middleware.AuthMiddleware(), venueHandler.GetVenueBonusDays)
	adminGroup.Post("/venues", venueHandler.CreateVenue)
	adminGroup.Put("/venues/:id", venueHandler.UpdateVenue)
	adminGroup.Delete("/venues/:id", venueHandler.DeleteVenue)
	adminGroup.Get("/venues/:id/qr", scanHandler.GenerateVenueQRCode)

	// Collection routes
	api.Get("/collections", middleware.AuthMiddleware(), collectionHandler.GetAllCollectionSets)
	api.Get("/collections/:id/collectibles", middleware.AuthMiddleware(), collectionHandler.GetCollectiblesBySet)
	api.Get("/collections/:id/my-progress", middleware.AuthMiddleware(), collectionHandler.GetMyProgress)
	adminGroup.Post("/collections", collectionHandler.CreateCollectionSet)
	adminGroup.Delete("/collections/:id", collectionHandler.DeleteCollectionSet)
	adminGroup.Post("/collectibles", collectionHandler.CreateCollectible)

	// Scan routes
	scanGroup := api.Group("/scan", middleware.AuthMiddleware())
	scanGroup.Post("/", scanHandler.SubmitScan)
	scanGroup.Get("/my-history", scanHandler.GetMyScanHistory)
	adminGroup.Get("/scan/today", scanHandler.GetTodayRedemptions)

	log.Println("Semua rute aplikasi berhasil didaftarkan.")
	log.Println("Routes yang tersedia:")
	log.Println("- POST /api/v1/auth/register")
	log.Println("- POST /api/v1/auth/login")
	log.Println("- POST /api/v1/users/change-password (protected)")
	log.Println("- GET /api/v1/users/me (protected)")
	log.Println("- GET /api/v1/users/:id (protected)")
	log.Println("- GET /api/v1/admin/users (admin only)")
	log.Println("- GET /api/v1/venues (protected)")
	log.Println("- GET /api/v1/venues/:id (protected)")
	log.Println("- GET /api/v1/venues/:id/bonus-days (protected)")
	log.Println("- POST /api/v1/admin/venues (admin only)")
	log.Println("- PUT /api/v1/admin/venues/:id (admin only)")
	log.Println("- DELETE /api/v1/admin/venues/:id (admin only)")
	log.Println("- GET /api/v1/admin/venues/:id/qr (admin only)")
	log.Println("- GET /api/v1/collections (protected)")
	log.Println("- GET /api/v1/collections/:id/collectibles (protected)")
	log.Println("- GET /api/v1/collections/:id/my-progress (protected)")
	log.Println("- POST /api/v1/admin/collections (admin only)")
	log.Println("- DELETE /api/v1/admin/collections/:id (admin only)")
	log.Println("- POST /api/v1/admin/collectibles (admin only)")
	log.Println("- POST /api/v1/scan (protected)")
	log.Println("- GET /api/v1/scan/my-history (protected)")
	log.Println("- GET /api/v1/admin/scan/today (admin only)")
	log.Println("Swagger documentation tersedia di: /docs/index.html")
}
