package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName string = "reward-venue-db"
var UserCollection string = "users"
var VenueCollection string = "venues"
var CollectionSetCollection string = "collection_sets"
var CollectibleCollection string = "collectibles"
var ScanLedgerCollection string = "scan_ledger"
var CollectibleGrantCollection string = "collectible_grants"
var QRCodeCollection string = "qr_codes"

func MongoConnect() {

	mongoURI := os.Getenv("MONGOSTRING")

	if mongoURI == "" {
		log.Fatal("MONGOSTRING belum di setting di env. coba setting dulu")
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
}

// InitDatabase membuat index unik yang menjadi penegak invariant sistem:
// satu ScanLedgerEntry per (user, venue, tanggal) dan satu CollectibleGrant
// per (user, collectible). Index inilah otoritas anti duplikasi, bukan
// pengecekan cepat di application code.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ledgerIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "venue_id", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_user_venue_date"),
	}
	if _, err := GetCollection(ScanLedgerCollection).Indexes().CreateOne(ctx, ledgerIndex); err != nil {
		log.Fatalf("Gagal membuat index unik scan_ledger: %v", err)
	}

	grantIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "collectible_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_user_collectible"),
	}
	if _, err := GetCollection(CollectibleGrantCollection).Indexes().CreateOne(ctx, grantIndex); err != nil {
		log.Fatalf("Gagal membuat index unik collectible_grants: %v", err)
	}

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}
	if _, err := GetCollection(UserCollection).Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Fatalf("Gagal membuat index unik users: %v", err)
	}

	log.Println("Index database berhasil diinisialisasi")
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB untuk client tidak di inisialisasi. Panggil MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Fatalf("Error disconnecting from MongoDB: %v", err)
		}
		log.Println("Disconnect from MongoDB")
	}
}
