package reward

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
	util "Sistem-Reward-Venue/pkg/utils"
)

// ErrDuplicateEntry dikembalikan LedgerStore saat index unik
// (user_id, venue_id, date) menolak commit. Ini pertahanan terakhir
// terhadap race yang lolos dari fast-path guard.
var ErrDuplicateEntry = errors.New("redemption untuk user, venue, dan tanggal ini sudah tercatat")

type VenueStore interface {
	FindVenueByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error)
	FindCollectiblesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Collectible, error)
	FindCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) ([]models.Collectible, error)
}

// LedgerStore adalah boundary persistence. CommitRedemption harus atomik:
// ledger entry, kredit poin, dan grant terlihat semuanya atau tidak sama
// sekali, dan commit kedua untuk tuple hari yang sama ditolak dengan
// ErrDuplicateEntry, bukan diduplikasi diam-diam.
type LedgerStore interface {
	FindEntryByUserVenueDate(ctx context.Context, userID, venueID primitive.ObjectID, date string) (*models.ScanLedgerEntry, error)
	FindGrantsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CollectibleGrant, error)
	CommitRedemption(ctx context.Context, entry *models.ScanLedgerEntry, grant *models.CollectibleGrant) error
}

type Pipeline struct {
	venues  VenueStore
	ledger  LedgerStore
	tracker *Tracker
	rng     Rand
	// dropRate global (persen); venue boleh override.
	dropRate int
	now      func() time.Time
}

func NewPipeline(venues VenueStore, ledger LedgerStore, tracker *Tracker, rng Rand, dropRatePercent int) *Pipeline {
	return &Pipeline{
		venues:   venues,
		ledger:   ledger,
		tracker:  tracker,
		rng:      rng,
		dropRate: dropRatePercent,
		now:      time.Now,
	}
}

// WithNow mengganti sumber waktu; dipakai tes untuk mengunci tanggal.
func (p *Pipeline) WithNow(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Process menjalankan satu decode event sampai outcome terminal:
// validasi payload -> idempotency guard -> komputasi reward -> commit
// ledger -> hitung ulang progress. Begitu jalur ledger dimasuki tidak ada
// retry diam-diam; risiko double submission lebih buruk daripada gagal.
func (p *Pipeline) Process(ctx context.Context, userID primitive.ObjectID, raw string) Outcome {
	request, outcome := p.validate(ctx, raw)
	if request == nil {
		return *outcome
	}

	venue, err := p.venues.FindVenueByID(ctx, request.VenueID)
	if err != nil {
		return transient(err)
	}
	if venue == nil {
		return Outcome{Kind: OutcomeVenueNotFound, Message: "venue tidak ditemukan"}
	}
	if venue.Status != models.VenueStatusActive {
		return Outcome{Kind: OutcomeVenueInactive, Message: "venue sedang tidak aktif"}
	}

	today := p.now().Format(dateLayout)

	// Fast path: short-circuit ke AlreadyRedeemed tanpa komputasi reward.
	// Otoritas sesungguhnya tetap index unik di ledger.
	existing, err := p.ledger.FindEntryByUserVenueDate(ctx, userID, venue.ID, today)
	if err != nil {
		return transient(err)
	}
	if existing != nil {
		return Outcome{Kind: OutcomeAlreadyRedeemed, Message: "kamu sudah scan venue ini hari ini"}
	}

	input, err := p.buildComputeInput(ctx, userID, venue)
	if err != nil {
		return transient(err)
	}

	result := Compute(*input, p.rng)

	entry := &models.ScanLedgerEntry{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		VenueID:         venue.ID,
		Date:            today,
		PointsEarned:    result.Points,
		CollectionSetID: venue.CollectionSetID,
		CreatedAt:       p.now(),
	}

	var grant *models.CollectibleGrant
	if result.Collectible != nil {
		entry.CollectibleGranted = &result.Collectible.ID
		if result.IsNew {
			grant = &models.CollectibleGrant{
				ID:            primitive.NewObjectID(),
				UserID:        userID,
				CollectibleID: result.Collectible.ID,
				SetID:         result.Collectible.SetID,
				VenueID:       venue.ID,
				GrantedAt:     p.now(),
			}
		}
	}

	if err := p.ledger.CommitRedemption(ctx, entry, grant); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return Outcome{Kind: OutcomeAlreadyRedeemed, Message: "kamu sudah scan venue ini hari ini"}
		}
		return Outcome{Kind: OutcomeHardFailure, Err: err}
	}

	success := Outcome{
		Kind:        OutcomeSuccess,
		Points:      result.Points,
		Collectible: result.Collectible,
		IsNew:       result.IsNew,
	}

	// Progress dihitung setelah commit durable supaya grant yang baru saja
	// didapat ikut terbaca. Kalau pembacaan gagal, redemption tetap sukses;
	// progress dilaporkan tidak diketahui, bukan basi.
	if venue.CollectionSetID != nil {
		progress, perr := p.tracker.Recompute(ctx, userID, *venue.CollectionSetID)
		if perr == nil {
			success.Progress = progress
		}
	}

	return success
}

// scanRequest adalah hasil validasi satu payload decode; transient,
// langsung dikonsumsi pipeline.
type scanRequest struct {
	VenueID primitive.ObjectID
	Payload string
}

func (p *Pipeline) validate(_ context.Context, raw string) (*scanRequest, *Outcome) {
	var payload models.ScanPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		out := invalidPayload("payload QR bukan struktur yang dikenal")
		return nil, &out
	}
	if verrs := util.ValidateStruct(&payload); len(verrs) > 0 {
		out := invalidPayload("payload QR tidak memuat venue_id yang valid")
		return nil, &out
	}
	venueID, err := primitive.ObjectIDFromHex(payload.VenueID)
	if err != nil {
		out := invalidPayload("venue_id di payload tidak valid")
		return nil, &out
	}

	return &scanRequest{VenueID: venueID, Payload: raw}, nil
}

func (p *Pipeline) buildComputeInput(ctx context.Context, userID primitive.ObjectID, venue *models.Venue) (*ComputeInput, error) {
	var pool []models.Collectible
	var err error

	if venue.CollectionSetID != nil {
		// Collectible yang ditugaskan langsung ke venue menang; kalau tidak
		// ada, fallback ke seluruh isi collection set.
		if len(venue.CollectibleIDs) > 0 {
			pool, err = p.venues.FindCollectiblesByIDs(ctx, venue.CollectibleIDs)
		} else {
			pool, err = p.venues.FindCollectiblesBySet(ctx, *venue.CollectionSetID)
		}
		if err != nil {
			return nil, err
		}
	}

	owned := make(map[primitive.ObjectID]bool)
	if len(pool) > 0 {
		grants, gerr := p.ledger.FindGrantsByUser(ctx, userID)
		if gerr != nil {
			return nil, gerr
		}
		for _, g := range grants {
			owned[g.CollectibleID] = true
		}
	}

	// Rule bonus yang rusak mematikan bonus, bukan menggagalkan redemption.
	bonusActive, berr := BonusActiveOn(venue.BonusRule, venue.BonusRuleStart, p.now())
	if berr != nil {
		bonusActive = false
	}

	rate := p.dropRate
	if venue.DropRatePercent != nil {
		rate = *venue.DropRatePercent
	}

	return &ComputeInput{
		BasePoints:      venue.BasePoints,
		BonusPoints:     venue.BonusPoints,
		BonusActive:     bonusActive,
		DropRatePercent: rate,
		Pool:            pool,
		Owned:           owned,
	}, nil
}
