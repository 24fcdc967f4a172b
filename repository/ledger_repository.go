package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"Sistem-Reward-Venue/config"
	"Sistem-Reward-Venue/models"
	"Sistem-Reward-Venue/reward"
)

type LedgerRepository interface {
	// --- reward.LedgerStore ---
	FindEntryByUserVenueDate(ctx context.Context, userID, venueID primitive.ObjectID, date string) (*models.ScanLedgerEntry, error)
	FindGrantsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CollectibleGrant, error)
	CommitRedemption(ctx context.Context, entry *models.ScanLedgerEntry, grant *models.CollectibleGrant) error

	FindEntriesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ScanLedgerEntry, error)
	GetTodayEntriesWithDetails(ctx context.Context) ([]models.ScanLedgerWithDetails, error)
}

type ledgerRepository struct {
	client           *mongo.Client
	ledgerCollection *mongo.Collection
	grantCollection  *mongo.Collection
	userCollection   *mongo.Collection
}

func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{
		client:           config.MongoConn,
		ledgerCollection: config.GetCollection(config.ScanLedgerCollection),
		grantCollection:  config.GetCollection(config.CollectibleGrantCollection),
		userCollection:   config.GetCollection(config.UserCollection),
	}
}

func (r *ledgerRepository) FindEntryByUserVenueDate(ctx context.Context, userID, venueID primitive.ObjectID, date string) (*models.ScanLedgerEntry, error) {
	var entry models.ScanLedgerEntry
	filter := bson.M{"user_id": userID, "venue_id": venueID, "date": date}
	err := r.ledgerCollection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari ledger entry berdasarkan user dan tanggal: %w", err)
	}
	return &entry, nil
}

func (r *ledgerRepository) FindGrantsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CollectibleGrant, error) {
	cursor, err := r.grantCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("gagal mencari grant user: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.CollectibleGrant
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode grant user: %w", err)
	}

	if len(results) == 0 {
		return []models.CollectibleGrant{}, nil
	}
	return results, nil
}

// CommitRedemption menulis ledger entry, kredit poin user, dan (bila ada)
// collectible grant dalam satu transaksi: semuanya terlihat atau tidak
// sama sekali. Pelanggaran index unik ledger dipetakan ke
// reward.ErrDuplicateEntry; index itulah mutual-exclusion sejati antar
// client/device, bukan lock buatan di application code.
func (r *ledgerRepository) CommitRedemption(ctx context.Context, entry *models.ScanLedgerEntry, grant *models.CollectibleGrant) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("gagal memulai session mongo: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, ierr := r.ledgerCollection.InsertOne(sc, entry); ierr != nil {
			if mongo.IsDuplicateKeyError(ierr) {
				return nil, reward.ErrDuplicateEntry
			}
			return nil, fmt.Errorf("gagal menyimpan ledger entry: %w", ierr)
		}

		update := bson.M{
			"$inc": bson.M{"points": int64(entry.PointsEarned)},
			"$set": bson.M{"updated_at": time.Now()},
		}
		if _, uerr := r.userCollection.UpdateOne(sc, bson.M{"_id": entry.UserID}, update); uerr != nil {
			return nil, fmt.Errorf("gagal menambah poin user: %w", uerr)
		}

		if grant != nil {
			if _, gerr := r.grantCollection.InsertOne(sc, grant); gerr != nil {
				// Grant duplikat berarti user sudah memegang collectible ini
				// (race antar venue di hari yang sama); redemption tetap commit.
				if !mongo.IsDuplicateKeyError(gerr) {
					return nil, fmt.Errorf("gagal menyimpan collectible grant: %w", gerr)
				}
			}
		}

		return nil, nil
	})
	return err
}

func (r *ledgerRepository) FindEntriesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ScanLedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.ledgerCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("gagal mencari riwayat scan user: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.ScanLedgerEntry
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode riwayat scan: %w", err)
	}

	if len(results) == 0 {
		return []models.ScanLedgerEntry{}, nil
	}
	return results, nil
}

func (r *ledgerRepository) GetTodayEntriesWithDetails(ctx context.Context) ([]models.ScanLedgerWithDetails, error) {
	today := time.Now().Format("2006-01-02")

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: today}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.UserCollection},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userDetails"},
		}}},
		{{Key: "$unwind", Value: "$userDetails"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.VenueCollection},
			{Key: "localField", Value: "venue_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "venueDetails"},
		}}},
		{{Key: "$unwind", Value: "$venueDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "user_id", Value: 1},
			{Key: "venue_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "points_earned", Value: 1},
			{Key: "user_name", Value: "$userDetails.name"},
			{Key: "venue_name", Value: "$venueDetails.name"},
			{Key: "venue_address", Value: "$venueDetails.address"},
		}}},
	}

	cursor, err := r.ledgerCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("gagal aggregation untuk redemption hari ini: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.ScanLedgerWithDetails
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode hasil aggregation redemption: %w", err)
	}

	if len(results) == 0 {
		return []models.ScanLedgerWithDetails{}, nil
	}
	return results, nil
}
