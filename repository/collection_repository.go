package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"Sistem-Reward-Venue/config"
	"Sistem-Reward-Venue/models"
)

type CollectionRepository interface {
	CreateSet(ctx context.Context, set *models.CollectionSet) (*mongo.InsertOneResult, error)
	FindSetByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionSet, error)
	FindAllSets(ctx context.Context) ([]models.CollectionSet, error)
	DeleteSet(ctx context.Context, id primitive.ObjectID) error

	CreateCollectible(ctx context.Context, collectible *models.Collectible) (*mongo.InsertOneResult, error)
	FindCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) ([]models.Collectible, error)

	// --- reward.ProgressStore ---
	CountCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) (int64, error)
	CountGrantsByUserAndSet(ctx context.Context, userID, setID primitive.ObjectID) (int64, error)
}

type collectionRepository struct {
	setCollection         *mongo.Collection
	collectibleCollection *mongo.Collection
	grantCollection       *mongo.Collection
}

func NewCollectionRepository() CollectionRepository {
	return &collectionRepository{
		setCollection:         config.GetCollection(config.CollectionSetCollection),
		collectibleCollection: config.GetCollection(config.CollectibleCollection),
		grantCollection:       config.GetCollection(config.CollectibleGrantCollection),
	}
}

func (r *collectionRepository) CreateSet(ctx context.Context, set *models.CollectionSet) (*mongo.InsertOneResult, error) {
	res, err := r.setCollection.InsertOne(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat collection set: %w", err)
	}
	return res, nil
}

func (r *collectionRepository) FindSetByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionSet, error) {
	var set models.CollectionSet
	err := r.setCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari collection set: %w", err)
	}
	return &set, nil
}

func (r *collectionRepository) FindAllSets(ctx context.Context) ([]models.CollectionSet, error) {
	cursor, err := r.setCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil daftar collection set: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.CollectionSet
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode daftar collection set: %w", err)
	}

	if len(results) == 0 {
		return []models.CollectionSet{}, nil
	}
	return results, nil
}

func (r *collectionRepository) DeleteSet(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.setCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("gagal menghapus collection set: %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.New("collection set tidak ditemukan")
	}
	return nil
}

func (r *collectionRepository) CreateCollectible(ctx context.Context, collectible *models.Collectible) (*mongo.InsertOneResult, error) {
	res, err := r.collectibleCollection.InsertOne(ctx, collectible)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat collectible: %w", err)
	}
	return res, nil
}

func (r *collectionRepository) FindCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) ([]models.Collectible, error) {
	cursor, err := r.collectibleCollection.Find(ctx, bson.M{"set_id": setID})
	if err != nil {
		return nil, fmt.Errorf("gagal mencari collectible set: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Collectible
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode collectible set: %w", err)
	}

	if len(results) == 0 {
		return []models.Collectible{}, nil
	}
	return results, nil
}

func (r *collectionRepository) CountCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) (int64, error) {
	total, err := r.collectibleCollection.CountDocuments(ctx, bson.M{"set_id": setID})
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung collectible set: %w", err)
	}
	return total, nil
}

func (r *collectionRepository) CountGrantsByUserAndSet(ctx context.Context, userID, setID primitive.ObjectID) (int64, error) {
	// Grant unik per (user, collectible), jadi count dokumen = count
	// collectible distinct yang dimiliki user di set ini.
	total, err := r.grantCollection.CountDocuments(ctx, bson.M{"user_id": userID, "set_id": setID})
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung grant user: %w", err)
	}
	return total, nil
}
