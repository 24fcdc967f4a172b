// file: seeder/collection_seeder.go

package seeder

import (
	"Sistem-Reward-Venue/models"
	"Sistem-Reward-Venue/repository"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedCollections memasukkan satu collection set lengkap dengan collectible-nya,
// lalu venue contoh yang terhubung ke set tersebut.
func SeedCollections(collectionRepo repository.CollectionRepository, venueRepo repository.VenueRepository) {
	log.Println("🌱 Memulai seeding collection set dan venue...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	setName := "Maskot Kota Tua"

	existingSets, err := collectionRepo.FindAllSets(ctx)
	if err != nil {
		log.Printf("❌ Gagal mengambil daftar collection set: %v\n", err)
		return
	}
	for _, s := range existingSets {
		if s.Name == setName {
			log.Printf("✅ Collection set '%s' sudah ada, seeding collection dilewati.\n", setName)
			return
		}
	}

	newSet := &models.CollectionSet{
		ID:          primitive.NewObjectID(),
		Name:        setName,
		Description: "Koleksi maskot edisi kawasan Kota Tua",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if _, err := collectionRepo.CreateSet(ctx, newSet); err != nil {
		log.Printf("❌ Gagal menyimpan collection set '%s': %v\n", setName, err)
		return
	}
	fmt.Printf("✔ Collection set '%s' berhasil ditambahkan.\n", setName)

	collectiblesData := []struct {
		Name   string
		Rarity string
	}{
		{"Si Jagur", "common"},
		{"Ondel-Ondel Merah", "common"},
		{"Ondel-Ondel Biru", "rare"},
		{"Penjaga Museum", "epic"},
	}

	for _, data := range collectiblesData {
		newCollectible := &models.Collectible{
			ID:        primitive.NewObjectID(),
			SetID:     newSet.ID,
			Name:      data.Name,
			Rarity:    data.Rarity,
			ImageURL:  fmt.Sprintf("https://cdn.example.com/collectibles/%s.png", primitive.NewObjectID().Hex()),
			CreatedAt: time.Now(),
		}
		if _, err := collectionRepo.CreateCollectible(ctx, newCollectible); err != nil {
			log.Printf("❌ Gagal menyimpan collectible '%s': %v\n", data.Name, err)
		} else {
			fmt.Printf("✔ Collectible '%s' (%s) berhasil ditambahkan.\n", data.Name, data.Rarity)
		}
	}

	venuesData := []struct {
		Name        string
		Address     string
		BasePoints  int
		BonusPoints int
		BonusRule   string
	}{
		{"Museum Fatahillah", "Jl. Taman Fatahillah No. 1, Jakarta Barat", 10, 5, "FREQ=WEEKLY;BYDAY=SA,SU"},
		{"Kafe Batavia", "Jl. Pintu Besar Utara No. 14, Jakarta Barat", 5, 0, ""},
	}

	for _, data := range venuesData {
		newVenue := &models.Venue{
			ID:              primitive.NewObjectID(),
			Name:            data.Name,
			Address:         data.Address,
			Status:          models.VenueStatusActive,
			BasePoints:      data.BasePoints,
			BonusPoints:     data.BonusPoints,
			CollectionSetID: &newSet.ID,
			BonusRule:       data.BonusRule,
			BonusRuleStart:  time.Now().Format("2006-01-02"),
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		if _, err := venueRepo.CreateVenue(ctx, newVenue); err != nil {
			log.Printf("❌ Gagal menyimpan venue '%s': %v\n", data.Name, err)
		} else {
			fmt.Printf("✔ Venue '%s' berhasil ditambahkan.\n", data.Name)
		}
	}

	log.Println("✅ Seeding collection set dan venue selesai.")
}
