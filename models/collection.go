package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CollectionSet struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

type Collectible struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SetID     primitive.ObjectID `json:"set_id" bson:"set_id,omitempty"`
	Name      string             `json:"name" bson:"name,omitempty"`
	Rarity    string             `json:"rarity,omitempty" bson:"rarity,omitempty"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

// CollectibleGrant adalah catatan durable kepemilikan pertama sebuah collectible.
// Unik per (user_id, collectible_id) lewat index di InitDatabase.
type CollectibleGrant struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	CollectibleID primitive.ObjectID `json:"collectible_id" bson:"collectible_id"`
	SetID         primitive.ObjectID `json:"set_id" bson:"set_id,omitempty"`
	VenueID       primitive.ObjectID `json:"venue_id" bson:"venue_id,omitempty"`
	GrantedAt     time.Time          `json:"granted_at" bson:"granted_at,omitempty"`
}

type CollectionSetCreatePayload struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type CollectibleCreatePayload struct {
	SetID    string `json:"set_id" validate:"required,len=24"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Rarity   string `json:"rarity" validate:"omitempty,oneof=common rare epic"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}
