package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
	util "Sistem-Reward-Venue/pkg/utils"
	"Sistem-Reward-Venue/repository"
	"Sistem-Reward-Venue/reward"
)

type VenueHandler struct {
	venueRepo repository.VenueRepository
}

func NewVenueHandler(venueRepo repository.VenueRepository) *VenueHandler {
	return &VenueHandler{
		venueRepo: venueRepo,
	}
}

// CreateVenue godoc
// @Summary Create Venue
// @Description Menambahkan venue baru (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param venue body models.VenueCreatePayload true "Data venue baru"
// @Success 201 {object} object{message=string,id=string} "Venue berhasil ditambahkan"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body atau validation error"
// @Failure 500 {object} models.ErrorResponse "Gagal membuat venue"
// @Router /admin/venues [post]
func (h *VenueHandler) CreateVenue(c *fiber.Ctx) error {
	var payload models.VenueCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	if payload.BonusRule != "" {
		// Validasi rule di pintu masuk; rule rusak yang lolos hanya akan
		// mematikan bonus saat scan, bukan menggagalkan redemption.
		if _, err := reward.BonusActiveOn(payload.BonusRule, payload.BonusRuleStart, time.Now()); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bonus_rule bukan RRULE yang valid", "details": err.Error()})
		}
	}

	venue := &models.Venue{
		ID:              primitive.NewObjectID(),
		Name:            payload.Name,
		Address:         payload.Address,
		Status:          payload.Status,
		BasePoints:      payload.BasePoints,
		BonusPoints:     payload.BonusPoints,
		DropRatePercent: payload.DropRatePercent,
		BonusRule:       payload.BonusRule,
		BonusRuleStart:  payload.BonusRuleStart,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if payload.CollectionSetID != "" {
		setID, err := primitive.ObjectIDFromHex(payload.CollectionSetID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collection_set_id tidak valid"})
		}
		venue.CollectionSetID = &setID
	}

	for _, idHex := range payload.CollectibleIDs {
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collectible_ids memuat id yang tidak valid"})
		}
		venue.CollectibleIDs = append(venue.CollectibleIDs, id)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.venueRepo.CreateVenue(ctx, venue)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal membuat venue: %v", err)})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Venue berhasil ditambahkan",
		"id":      result.InsertedID,
	})
}

// GetAllVenues godoc
// @Summary Get All Venues
// @Description Mendapatkan daftar semua venue
// @Tags Venues
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Venue "Daftar venue"
// @Failure 500 {object} models.ErrorResponse "Gagal mengambil daftar venue"
// @Router /venues [get]
func (h *VenueHandler) GetAllVenues(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	venues, err := h.venueRepo.FindAllVenues(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil daftar venue"})
	}

	return c.Status(fiber.StatusOK).JSON(venues)
}

// GetVenueByID godoc
// @Summary Get Venue By ID
// @Description Mendapatkan detail sebuah venue
// @Tags Venues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {object} models.Venue "Detail venue"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Router /venues/{id} [get]
func (h *VenueHandler) GetVenueByID(c *fiber.Ctx) error {
	venueID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Venue ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	venue, err := h.venueRepo.FindVenueByID(ctx, venueID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mencari venue"})
	}
	if venue == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue tidak ditemukan"})
	}

	return c.Status(fiber.StatusOK).JSON(venue)
}

// UpdateVenue godoc
// @Summary Update Venue
// @Description Mengubah data venue (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Param venue body models.VenueUpdatePayload true "Data venue yang diubah"
// @Success 200 {object} object{message=string} "Venue berhasil diupdate"
// @Failure 400 {object} models.ValidationErrorResponse "Validation error"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Router /admin/venues/{id} [put]
func (h *VenueHandler) UpdateVenue(c *fiber.Ctx) error {
	venueID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Venue ID tidak valid"})
	}

	var payload models.VenueUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	update := bson.M{}
	if payload.Name != "" {
		update["name"] = payload.Name
	}
	if payload.Address != "" {
		update["address"] = payload.Address
	}
	if payload.Status != "" {
		update["status"] = payload.Status
	}
	if payload.BasePoints != nil {
		update["base_points"] = *payload.BasePoints
	}
	if payload.BonusPoints != nil {
		update["bonus_points"] = *payload.BonusPoints
	}
	if payload.DropRatePercent != nil {
		update["drop_rate_percent"] = *payload.DropRatePercent
	}
	if payload.BonusRule != "" {
		if _, err := reward.BonusActiveOn(payload.BonusRule, payload.BonusRuleStart, time.Now()); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bonus_rule bukan RRULE yang valid", "details": err.Error()})
		}
		update["bonus_rule"] = payload.BonusRule
		if payload.BonusRuleStart != "" {
			update["bonus_rule_start"] = payload.BonusRuleStart
		}
	}
	if payload.CollectionSetID != "" {
		setID, err := primitive.ObjectIDFromHex(payload.CollectionSetID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collection_set_id tidak valid"})
		}
		update["collection_set_id"] = setID
	}
	if len(payload.CollectibleIDs) > 0 {
		var ids []primitive.ObjectID
		for _, idHex := range payload.CollectibleIDs {
			id, err := primitive.ObjectIDFromHex(idHex)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collectible_ids memuat id yang tidak valid"})
			}
			ids = append(ids, id)
		}
		update["collectible_ids"] = ids
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.venueRepo.UpdateVenue(ctx, venueID, update)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal update venue: %v", err)})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue tidak ditemukan"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Venue berhasil diupdate"})
}

// DeleteVenue godoc
// @Summary Delete Venue
// @Description Menghapus venue (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {object} object{message=string} "Venue berhasil dihapus"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Router /admin/venues/{id} [delete]
func (h *VenueHandler) DeleteVenue(c *fiber.Ctx) error {
	venueID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Venue ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.venueRepo.DeleteVenue(ctx, venueID); err != nil {
		if err.Error() == "venue tidak ditemukan" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue tidak ditemukan"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal menghapus venue: %v", err)})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Venue berhasil dihapus"})
}

// GetVenueBonusDays godoc
// @Summary Get Venue Bonus Days
// @Description Preview tanggal-tanggal bonus venue dalam 30 hari ke depan berdasarkan bonus_rule
// @Tags Venues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {object} object{bonus_days=array} "Daftar tanggal bonus"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Router /venues/{id}/bonus-days [get]
func (h *VenueHandler) GetVenueBonusDays(c *fiber.Ctx) error {
	venueID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Venue ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	venue, err := h.venueRepo.FindVenueByID(ctx, venueID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mencari venue"})
	}
	if venue == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue tidak ditemukan"})
	}

	now := time.Now()
	days, err := reward.UpcomingBonusDays(venue.BonusRule, venue.BonusRuleStart, now, now.AddDate(0, 0, 30))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "bonus_rule venue tidak bisa di-expand", "details": err.Error()})
	}
	if days == nil {
		days = []string{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bonus_days": days})
}
