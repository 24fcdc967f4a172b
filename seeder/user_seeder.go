// file: seeder/user_seeder.go

package seeder

import (
	"Sistem-Reward-Venue/models"
	"Sistem-Reward-Venue/repository"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(userRepo *repository.UserRepository) {
	log.Println("🌱 Memulai seeding user...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Gagal hash password: %v", err)
	}

	// =======================================================
	// Data untuk Admin
	// =======================================================
	adminEmail := "admin.utama@gmail.com"
	adminUser, err := userRepo.FindUserByEmail(ctx, adminEmail)
	if err == nil && adminUser != nil {
		log.Println("✅ User admin sudah ada, seeding user admin dilewati.")
	} else {
		log.Println("🔄 Menambahkan user Admin...")
		newAdmin := &models.User{
			ID:           primitive.NewObjectID(),
			Name:         "Admin Utama",
			Email:        adminEmail,
			Password:     string(hashedPassword),
			Role:         "admin",
			Points:       0,
			IsFirstLogin: true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		_, err := userRepo.CreateUser(ctx, newAdmin)
		if err != nil {
			log.Printf("❌ Gagal menyimpan user admin: %v\n", err)
		} else {
			fmt.Printf("✔ User Admin (%s) berhasil ditambahkan.\n", newAdmin.Email)
		}
	}

	// =======================================================
	// Data untuk Member
	// =======================================================
	memberNames := []string{"Budi Santoso", "Siti Wijaya", "Agus Putra", "Dewi Utami", "Joko Nugroho"}

	log.Printf("🔄 Menambahkan %d user Member...\n", len(memberNames))
	for i, name := range memberNames {
		email := fmt.Sprintf("member%02d@gmail.com", i+1)
		existingUser, err := userRepo.FindUserByEmail(ctx, email)
		if err == nil && existingUser != nil {
			fmt.Printf("Skipping: User %s sudah ada.\n", email)
			continue
		}

		newMember := &models.User{
			ID:           primitive.NewObjectID(),
			Name:         name,
			Email:        email,
			Password:     string(hashedPassword),
			Role:         "member",
			Points:       0,
			IsFirstLogin: true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		_, err = userRepo.CreateUser(ctx, newMember)
		if err != nil {
			log.Printf("❌ Gagal menyimpan user %s: %v\n", email, err)
		} else {
			fmt.Printf("✔ User Member (%s) berhasil ditambahkan.\n", email)
		}
	}

	log.Println("✅ Seeding user selesai.")
}
