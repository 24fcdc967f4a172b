package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScanLedgerEntry adalah catatan durable satu redemption. Tuple
// (user_id, venue_id, date) unik — ini jaminan correctness inti sistem.
// Entry tidak pernah diubah atau dihapus oleh engine.
type ScanLedgerEntry struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            primitive.ObjectID  `json:"user_id" bson:"user_id"`
	VenueID           primitive.ObjectID  `json:"venue_id" bson:"venue_id"`
	Date              string              `json:"date" bson:"date"`
	PointsEarned      int                 `json:"points_earned" bson:"points_earned"`
	CollectibleGranted *primitive.ObjectID `json:"collectible_granted,omitempty" bson:"collectible_granted,omitempty"`
	CollectionSetID   *primitive.ObjectID `json:"collection_set_id,omitempty" bson:"collection_set_id,omitempty"`
	CreatedAt         time.Time           `json:"created_at" bson:"created_at,omitempty"`
}

// ScanPayload adalah isi terstruktur QR code venue. Teks hasil decode yang
// bukan JSON dengan venue_id dianggap payload tidak valid, bukan dikoersi.
type ScanPayload struct {
	VenueID string `json:"venue_id" validate:"required,len=24"`
	Code    string `json:"code,omitempty"`
}

type ScanSubmitPayload struct {
	Payload string `json:"payload" validate:"required"`
}

type ScanLedgerWithDetails struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	VenueID      primitive.ObjectID `json:"venue_id" bson:"venue_id"`
	Date         string             `json:"date" bson:"date"`
	PointsEarned int                `json:"points_earned" bson:"points_earned"`
	UserName     string             `json:"user_name,omitempty" bson:"user_name,omitempty"`
	VenueName    string             `json:"venue_name" bson:"venue_name"`
	VenueAddress string             `json:"venue_address,omitempty" bson:"venue_address,omitempty"`
}
