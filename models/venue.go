package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VenueStatusActive   = "active"
	VenueStatusInactive = "inactive"
)

type Venue struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name,omitempty"`
	Address         string               `json:"address" bson:"address,omitempty"`
	Status          string               `json:"status" bson:"status,omitempty"`
	BasePoints      int                  `json:"base_points" bson:"base_points,omitempty"`
	BonusPoints     int                  `json:"bonus_points" bson:"bonus_points,omitempty"`
	CollectionSetID *primitive.ObjectID  `json:"collection_set_id,omitempty" bson:"collection_set_id,omitempty"`
	CollectibleIDs  []primitive.ObjectID `json:"collectible_ids,omitempty" bson:"collectible_ids,omitempty"`
	// DropRatePercent meng-override DROP_RATE_PERCENT global bila di-set (0-100).
	DropRatePercent *int `json:"drop_rate_percent,omitempty" bson:"drop_rate_percent,omitempty"`
	// BonusRule adalah RRULE (RFC 5545) yang menentukan hari-hari bonus_points berlaku.
	// Kosong berarti bonus berlaku setiap hari.
	BonusRule      string    `json:"bonus_rule,omitempty" bson:"bonus_rule,omitempty"`
	BonusRuleStart string    `json:"bonus_rule_start,omitempty" bson:"bonus_rule_start,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at,omitempty"`
}

type VenueCreatePayload struct {
	Name            string   `json:"name" validate:"required,min=3,max=100"`
	Address         string   `json:"address" validate:"omitempty,min=5,max=255"`
	Status          string   `json:"status" validate:"required,oneof=active inactive"`
	BasePoints      int      `json:"base_points" validate:"min=0"`
	BonusPoints     int      `json:"bonus_points" validate:"min=0"`
	CollectionSetID string   `json:"collection_set_id" validate:"omitempty,len=24"`
	CollectibleIDs  []string `json:"collectible_ids" validate:"omitempty,dive,len=24"`
	DropRatePercent *int     `json:"drop_rate_percent" validate:"omitempty,min=0,max=100"`
	BonusRule       string   `json:"bonus_rule"`
	BonusRuleStart  string   `json:"bonus_rule_start" validate:"omitempty,datetime=2006-01-02"`
}

type VenueUpdatePayload struct {
	Name            string   `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Address         string   `json:"address,omitempty" validate:"omitempty,min=5,max=255"`
	Status          string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	BasePoints      *int     `json:"base_points,omitempty" validate:"omitempty,min=0"`
	BonusPoints     *int     `json:"bonus_points,omitempty" validate:"omitempty,min=0"`
	CollectionSetID string   `json:"collection_set_id,omitempty" validate:"omitempty,len=24"`
	CollectibleIDs  []string `json:"collectible_ids,omitempty" validate:"omitempty,dive,len=24"`
	DropRatePercent *int     `json:"drop_rate_percent,omitempty" validate:"omitempty,min=0,max=100"`
	BonusRule       string   `json:"bonus_rule,omitempty"`
	BonusRuleStart  string   `json:"bonus_rule_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
