package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
	"Sistem-Reward-Venue/pkg/paseto"
	util "Sistem-Reward-Venue/pkg/utils"
	"Sistem-Reward-Venue/repository"
	"Sistem-Reward-Venue/reward"
)

type ScanHandler struct {
	pipeline   *reward.Pipeline
	venueRepo  repository.VenueRepository
	ledgerRepo repository.LedgerRepository
}

func NewScanHandler(pipeline *reward.Pipeline, venueRepo repository.VenueRepository, ledgerRepo repository.LedgerRepository) *ScanHandler {
	return &ScanHandler{
		pipeline:   pipeline,
		venueRepo:  venueRepo,
		ledgerRepo: ledgerRepo,
	}
}

// SubmitScan godoc
// @Summary Submit Scan
// @Description Memproses payload hasil decode QR venue menjadi redemption: validasi, idempotency guard, komputasi reward, commit ledger, progress koleksi
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ScanSubmitPayload true "Teks hasil decode QR"
// @Success 201 {object} models.ScanSuccessResponse "Scan berhasil"
// @Failure 400 {object} models.ErrorResponse "Payload tidak valid atau venue tidak aktif"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Failure 409 {object} models.ErrorResponse "Sudah scan venue ini hari ini"
// @Failure 500 {object} models.ErrorResponse "Commit ledger gagal"
// @Failure 503 {object} models.ErrorResponse "Gangguan sementara, coba lagi"
// @Router /scan [post]
func (h *ScanHandler) SubmitScan(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.ScanSubmitPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	outcome := h.pipeline.Process(ctx, claims.UserID, payload.Payload)

	switch outcome.Kind {
	case reward.OutcomeSuccess:
		resp := fiber.Map{
			"message":       "Scan berhasil, poin sudah masuk",
			"points_earned": outcome.Points,
			"is_new":        outcome.IsNew,
		}
		if outcome.Collectible != nil {
			resp["collectible"] = outcome.Collectible
		}
		if outcome.Progress != nil {
			resp["progress"] = outcome.Progress
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	case reward.OutcomeAlreadyRedeemed:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": outcome.Message})
	case reward.OutcomeInvalidPayload:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": outcome.Message})
	case reward.OutcomeVenueNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": outcome.Message})
	case reward.OutcomeVenueInactive:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": outcome.Message})
	case reward.OutcomeTransientFailure:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Gangguan sementara, coba beberapa saat lagi"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal memproses scan"})
	}
}

// GenerateVenueQRCode godoc
// @Summary Generate Venue QR Code
// @Description Membuat gambar QR untuk sebuah venue (admin only). Payload QR berisi venue_id dan kode unik
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Success 200 {object} models.GenerateQRSuccessResponse "QR Code venue berhasil dibuat"
// @Failure 404 {object} models.NotFoundErrorResponse "Venue tidak ditemukan"
// @Failure 500 {object} models.ErrorResponse "Gagal membuat gambar QR Code"
// @Router /admin/venues/{id}/qr [get]
func (h *ScanHandler) GenerateVenueQRCode(c *fiber.Ctx) error {
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

	uniqueCode := uuid.New().String()
	payloadBytes, err := json.Marshal(models.ScanPayload{
		VenueID: venue.ID.Hex(),
		Code:    uniqueCode,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyusun payload QR Code"})
	}

	now := time.Now()
	expiresAt := now.AddDate(1, 0, 0)

	newQRCode := &models.QRCode{
		ID:        primitive.NewObjectID(),
		VenueID:   venue.ID,
		Code:      uniqueCode,
		Payload:   string(payloadBytes),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if _, err := h.venueRepo.CreateQRCode(ctx, newQRCode); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyimpan data QR Code."})
	}

	png, err := qrcode.Encode(string(payloadBytes), qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal membuat gambar QR Code."})
	}

	encodedString := base64.StdEncoding.EncodeToString(png)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "QR Code venue berhasil dibuat",
		"qr_code_image": "data:image/png;base64," + encodedString,
		"expires_at":    expiresAt,
	})
}

// GetMyScanHistory godoc
// @Summary Get My Scan History
// @Description Mengambil riwayat redemption user yang sedang login
// @Tags Scan
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ScanLedgerEntry "Riwayat scan"
// @Failure 401 {object} models.UnauthorizedErrorResponse "Tidak terautentikasi"
// @Router /scan/my-history [get]
func (h *ScanHandler) GetMyScanHistory(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	history, err := h.ledgerRepo.FindEntriesByUser(ctx, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil riwayat scan"})
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

// GetTodayRedemptions godoc
// @Summary Get Today Redemptions
// @Description Daftar redemption hari ini beserta detail user dan venue (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ScanLedgerWithDetails "Redemption hari ini"
// @Failure 500 {object} models.ErrorResponse "Gagal mengambil daftar redemption"
// @Router /admin/scan/today [get]
func (h *ScanHandler) GetTodayRedemptions(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.ledgerRepo.GetTodayEntriesWithDetails(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil daftar redemption"})
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}
