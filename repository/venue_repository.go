package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"Sistem-Reward-Venue/config"
	"Sistem-Reward-Venue/models"
)

type VenueRepository interface {
	CreateVenue(ctx context.Context, venue *models.Venue) (*mongo.InsertOneResult, error)
	FindVenueByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error)
	FindAllVenues(ctx context.Context) ([]models.Venue, error)
	UpdateVenue(ctx context.Context, id primitive.ObjectID, update bson.M) (*mongo.UpdateResult, error)
	DeleteVenue(ctx context.Context, id primitive.ObjectID) error

	// --- reward.VenueStore ---
	FindCollectiblesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collectible, error)
	FindCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) ([]models.Collectible, error)

	// --- QR venue ---
	CreateQRCode(ctx context.Context, qrCode *models.QRCode) (*mongo.InsertOneResult, error)
}

type venueRepository struct {
	venueCollection       *mongo.Collection
	collectibleCollection *mongo.Collection
	qrCodeCollection      *mongo.Collection
}

func NewVenueRepository() VenueRepository {
	return &venueRepository{
		venueCollection:       config.GetCollection(config.VenueCollection),
		collectibleCollection: config.GetCollection(config.CollectibleCollection),
		qrCodeCollection:      config.GetCollection(config.QRCodeCollection),
	}
}

func (r *venueRepository) CreateVenue(ctx context.Context, venue *models.Venue) (*mongo.InsertOneResult, error) {
	res, err := r.venueCollection.InsertOne(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat venue: %w", err)
	}
	return res, nil
}

func (r *venueRepository) FindVenueByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error) {
	var venue models.Venue
	err := r.venueCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&venue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari venue: %w", err)
	}
	return &venue, nil
}

func (r *venueRepository) FindAllVenues(ctx context.Context) ([]models.Venue, error) {
	cursor, err := r.venueCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil daftar venue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Venue
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode daftar venue: %w", err)
	}

	if len(results) == 0 {
		return []models.Venue{}, nil
	}
	return results, nil
}

func (r *venueRepository) UpdateVenue(ctx context.Context, id primitive.ObjectID, update bson.M) (*mongo.UpdateResult, error) {
	update["updated_at"] = time.Now()

	res, err := r.venueCollection.UpdateByID(ctx, id, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("gagal update venue: %w", err)
	}
	return res, nil
}

func (r *venueRepository) DeleteVenue(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.venueCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("gagal menghapus venue: %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.New("venue tidak ditemukan")
	}
	return nil
}

func (r *venueRepository) FindCollectiblesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collectible, error) {
	if len(ids) == 0 {
		return []models.Collectible{}, nil
	}

	cursor, err := r.collectibleCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("gagal mencari collectible venue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Collectible
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode collectible venue: %w", err)
	}
	return results, nil
}

func (r *venueRepository) FindCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) ([]models.Collectible, error) {
	cursor, err := r.collectibleCollection.Find(ctx, bson.M{"set_id": setID})
	if err != nil {
		return nil, fmt.Errorf("gagal mencari collectible set: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Collectible
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode collectible set: %w", err)
	}
	return results, nil
}

func (r *venueRepository) CreateQRCode(ctx context.Context, qrCode *models.QRCode) (*mongo.InsertOneResult, error) {
	res, err := r.qrCodeCollection.InsertOne(ctx, qrCode)
	if err != nil {
		return nil, fmt.Errorf("gagal menyimpan data QR Code: %w", err)
	}
	return res, nil
}
