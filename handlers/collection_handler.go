package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
	"Sistem-Reward-Venue/pkg/paseto"
	util "Sistem-Reward-Venue/pkg/utils"
	"Sistem-Reward-Venue/repository"
	"Sistem-Reward-Venue/reward"
)

type CollectionHandler struct {
	collectionRepo repository.CollectionRepository
	tracker        *reward.Tracker
}

func NewCollectionHandler(collectionRepo repository.CollectionRepository, tracker *reward.Tracker) *CollectionHandler {
	return &CollectionHandler{
		collectionRepo: collectionRepo,
		tracker:        tracker,
	}
}

// CreateCollectionSet godoc
// @Summary Create Collection Set
// @Description Menambahkan collection set baru (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set body models.CollectionSetCreatePayload true "Data collection set baru"
// @Success 201 {object} object{message=string,id=string} "Collection set berhasil ditambahkan"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body atau validation error"
// @Failure 500 {object} models.ErrorResponse "Gagal membuat collection set"
// @Router /admin/collections [post]
func (h *CollectionHandler) CreateCollectionSet(c *fiber.Ctx) error {
	var payload models.CollectionSetCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	set := &models.CollectionSet{
		ID:          primitive.NewObjectID(),
		Name:        payload.Name,
		Description: payload.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.collectionRepo.CreateSet(ctx, set)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal membuat collection set: %v", err)})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Collection set berhasil ditambahkan",
		"id":      result.InsertedID,
	})
}

// GetAllCollectionSets godoc
// @Summary Get All Collection Sets
// @Description Mendapatkan daftar semua collection set
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CollectionSet "Daftar collection set"
// @Failure 500 {object} models.ErrorResponse "Gagal mengambil daftar collection set"
// @Router /collections [get]
func (h *CollectionHandler) GetAllCollectionSets(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	sets, err := h.collectionRepo.FindAllSets(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil daftar collection set"})
	}

	return c.Status(fiber.StatusOK).JSON(sets)
}

// CreateCollectible godoc
// @Summary Create Collectible
// @Description Menambahkan collectible ke sebuah set (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collectible body models.CollectibleCreatePayload true "Data collectible baru"
// @Success 201 {object} object{message=string,id=string} "Collectible berhasil ditambahkan"
// @Failure 400 {object} models.ValidationErrorResponse "Invalid request body atau validation error"
// @Failure 404 {object} models.NotFoundErrorResponse "Collection set tidak ditemukan"
// @Router /admin/collectibles [post]
func (h *CollectionHandler) CreateCollectible(c *fiber.Ctx) error {
	var payload models.CollectibleCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	setID, err := primitive.ObjectIDFromHex(payload.SetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "set_id tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	set, err := h.collectionRepo.FindSetByID(ctx, setID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal memeriksa collection set"})
	}
	if set == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Collection set tidak ditemukan"})
	}

	collectible := &models.Collectible{
		ID:        primitive.NewObjectID(),
		SetID:     setID,
		Name:      payload.Name,
		Rarity:    payload.Rarity,
		ImageURL:  payload.ImageURL,
		CreatedAt: time.Now(),
	}

	result, err := h.collectionRepo.CreateCollectible(ctx, collectible)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal membuat collectible: %v", err)})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Collectible berhasil ditambahkan",
		"id":      result.InsertedID,
	})
}

// DeleteCollectionSet godoc
// @Summary Delete Collection Set
// @Description Menghapus collection set (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection Set ID"
// @Success 200 {object} object{message=string} "Collection set berhasil dihapus"
// @Failure 404 {object} models.NotFoundErrorResponse "Collection set tidak ditemukan"
// @Router /admin/collections/{id} [delete]
func (h *CollectionHandler) DeleteCollectionSet(c *fiber.Ctx) error {
	setID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Set ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.collectionRepo.DeleteSet(ctx, setID); err != nil {
		if err.Error() == "collection set tidak ditemukan" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Collection set tidak ditemukan"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("Gagal menghapus collection set: %v", err)})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Collection set berhasil dihapus"})
}

// GetCollectiblesBySet godoc
// @Summary Get Collectibles By Set
// @Description Mendapatkan isi sebuah collection set
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection Set ID"
// @Success 200 {array} models.Collectible "Isi collection set"
// @Failure 400 {object} models.ErrorResponse "Set ID tidak valid"
// @Router /collections/{id}/collectibles [get]
func (h *CollectionHandler) GetCollectiblesBySet(c *fiber.Ctx) error {
	setID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Set ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	collectibles, err := h.collectionRepo.FindCollectiblesBySet(ctx, setID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil collectible"})
	}

	return c.Status(fiber.StatusOK).JSON(collectibles)
}

// GetMyProgress godoc
// @Summary Get My Collection Progress
// @Description Progress koleksi user yang sedang login untuk sebuah set
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection Set ID"
// @Success 200 {object} models.ProgressResponse "Progress koleksi"
// @Failure 401 {object} models.UnauthorizedErrorResponse "Tidak terautentikasi"
// @Router /collections/{id}/my-progress [get]
func (h *CollectionHandler) GetMyProgress(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Tidak terautentikasi atau klaim token tidak valid"})
	}

	setID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Set ID tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.tracker.Recompute(ctx, claims.UserID, setID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menghitung progress koleksi"})
	}

	return c.Status(fiber.StatusOK).JSON(progress)
}
