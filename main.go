package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"Sistem-Reward-Venue/config"
	_ "Sistem-Reward-Venue/docs" // Import docs untuk swagger
	"Sistem-Reward-Venue/repository"
	"Sistem-Reward-Venue/router"
	"Sistem-Reward-Venue/seeder"
	_ "time/tzdata"
)

// @title Sistem Reward Venue API
// @version 1.0
// @description API untuk reward game berbasis lokasi: scan QR venue, poin, collectible drop, dan progress koleksi
// @termsOfService https://github.com/your-repo/terms/
//
// @contact.name API Support
// @contact.url https://github.com/your-repo
// @contact.email support@example.com
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Users
// @tag.description User endpoints
//
// @tag.name Admin
// @tag.description Admin only endpoints
//
// @tag.name Venues
// @tag.description Venue endpoints
//
// @tag.name Collections
// @tag.description Collection set dan progress endpoints
//
// @tag.name Scan
// @tag.description QR scan redemption endpoints
func main() {

	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file tidak ditemukan, menggunakan environment variables sistem")
	}

	cfg := config.LoadConfig()

	config.MongoConnect()
	config.InitDatabase()

	defer config.DisconnectDB()

	if os.Getenv("RUN_SEEDER") == "true" {
		seeder.SeedUsers(repository.NewUserRepository())
		seeder.SeedCollections(repository.NewCollectionRepository(), repository.NewVenueRepository())
	}

	app := fiber.New()

	config.SetupCORS(app)

	app.Use(logger.New())

	router.SetupRoutes(app)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Printf("Health Check: http://localhost:%s/", cfg.Port)
	log.Printf("CORS enabled for origins: %v", config.GetAllowedOrigins())
	log.Fatal(app.Listen(":" + cfg.Port))
}
