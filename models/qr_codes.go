package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QRCode adalah catatan kode yang pernah diterbitkan untuk sebuah venue,
// dipakai untuk audit dan masa berlaku gambar QR yang dicetak.
type QRCode struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	VenueID   primitive.ObjectID `json:"venue_id" bson:"venue_id,omitempty"`
	Code      string             `json:"code" bson:"code,omitempty"`
	Payload   string             `json:"payload" bson:"payload,omitempty"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}
