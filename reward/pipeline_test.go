package reward

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
)

type fakeVenueStore struct {
	venues       map[primitive.ObjectID]*models.Venue
	collectibles map[primitive.ObjectID]models.Collectible
	findErr      error
}

func (f *fakeVenueStore) FindVenueByID(_ context.Context, id primitive.ObjectID) (*models.Venue, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.venues[id], nil
}

func (f *fakeVenueStore) FindCollectiblesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Collectible, error) {
	var out []models.Collectible
	for _, id := range ids {
		if c, ok := f.collectibles[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeVenueStore) FindCollectiblesBySet(_ context.Context, setID primitive.ObjectID) ([]models.Collectible, error) {
	var out []models.Collectible
	for _, c := range f.collectibles {
		if c.SetID == setID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeLedger meniru jaminan index unik (user_id, venue_id, date): commit
// kedua untuk tuple yang sama ditolak dengan ErrDuplicateEntry.
type fakeLedger struct {
	mu        sync.Mutex
	entries   map[string]*models.ScanLedgerEntry
	grants    []models.CollectibleGrant
	commitErr error
	// skipFastPath menyembunyikan entry dari pembacaan fast-path supaya
	// race dua komputasi paralel bisa dipaksa sampai ke commit.
	skipFastPath bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]*models.ScanLedgerEntry)}
}

func ledgerKey(userID, venueID primitive.ObjectID, date string) string {
	return fmt.Sprintf("%s|%s|%s", userID.Hex(), venueID.Hex(), date)
}

func (f *fakeLedger) FindEntryByUserVenueDate(_ context.Context, userID, venueID primitive.ObjectID, date string) (*models.ScanLedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.skipFastPath {
		return nil, nil
	}
	return f.entries[ledgerKey(userID, venueID, date)], nil
}

func (f *fakeLedger) FindGrantsByUser(_ context.Context, userID primitive.ObjectID) ([]models.CollectibleGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectibleGrant
	for _, g := range f.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeLedger) CommitRedemption(_ context.Context, entry *models.ScanLedgerEntry, grant *models.CollectibleGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	key := ledgerKey(entry.UserID, entry.VenueID, entry.Date)
	if _, exists := f.entries[key]; exists {
		return ErrDuplicateEntry
	}
	f.entries[key] = entry
	if grant != nil {
		f.grants = append(f.grants, *grant)
	}
	return nil
}

// --- ProgressStore di atas fakeLedger ---

type fakeProgressStore struct {
	ledger *fakeLedger
	venues *fakeVenueStore
}

func (f *fakeProgressStore) CountCollectiblesBySet(_ context.Context, setID primitive.ObjectID) (int64, error) {
	var n int64
	for _, c := range f.venues.collectibles {
		if c.SetID == setID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressStore) CountGrantsByUserAndSet(_ context.Context, userID, setID primitive.ObjectID) (int64, error) {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	var n int64
	for _, g := range f.ledger.grants {
		if g.UserID == userID && g.SetID == setID {
			n++
		}
	}
	return n, nil
}

type pipelineFixture struct {
	pipeline *Pipeline
	venues   *fakeVenueStore
	ledger   *fakeLedger
	venue    *models.Venue
	userID   primitive.ObjectID
	setID    primitive.ObjectID
}

func newPipelineFixture(rng Rand, dropRate int) *pipelineFixture {
	setID := primitive.NewObjectID()
	venue := &models.Venue{
		ID:              primitive.NewObjectID(),
		Name:            "Museum Fatahillah",
		Status:          models.VenueStatusActive,
		BasePoints:      10,
		BonusPoints:     5,
		CollectionSetID: &setID,
	}

	venues := &fakeVenueStore{
		venues:       map[primitive.ObjectID]*models.Venue{venue.ID: venue},
		collectibles: make(map[primitive.ObjectID]models.Collectible),
	}
	for i := 0; i < 3; i++ {
		c := models.Collectible{ID: primitive.NewObjectID(), SetID: setID, Name: fmt.Sprintf("Maskot %d", i+1)}
		venues.collectibles[c.ID] = c
	}

	ledger := newFakeLedger()
	tracker := NewTracker(&fakeProgressStore{ledger: ledger, venues: venues})

	pipeline := NewPipeline(venues, ledger, tracker, rng, dropRate).
		WithNow(func() time.Time { return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) })

	return &pipelineFixture{
		pipeline: pipeline,
		venues:   venues,
		ledger:   ledger,
		venue:    venue,
		userID:   primitive.NewObjectID(),
		setID:    setID,
	}
}

func (f *pipelineFixture) payload() string {
	return fmt.Sprintf(`{"venue_id":%q,"code":"abc"}`, f.venue.ID.Hex())
}

func TestPipelineSuccessWithDrop(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: []int{0, 1, 2, 3}}, 100)

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	// Bonus aktif karena venue tidak punya bonus rule.
	assert.Equal(t, 15, outcome.Points)
	require.NotNil(t, outcome.Collectible)
	assert.True(t, outcome.IsNew)

	require.NotNil(t, outcome.Progress)
	assert.Equal(t, 1, outcome.Progress.Current)
	assert.Equal(t, 3, outcome.Progress.Total)
	assert.False(t, outcome.Progress.Complete)

	// Entry ledger tercatat dengan referensi collectible.
	entry := fx.ledger.entries[ledgerKey(fx.userID, fx.venue.ID, "2026-08-26")]
	require.NotNil(t, entry)
	assert.Equal(t, 15, entry.PointsEarned)
	require.NotNil(t, entry.CollectibleGranted)
	assert.Equal(t, outcome.Collectible.ID, *entry.CollectibleGranted)
}

func TestPipelineSuccessWithoutDrop(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 15, outcome.Points)
	assert.Nil(t, outcome.Collectible)
	assert.Empty(t, fx.ledger.grants)
}

func TestPipelineAlreadyRedeemedFastPath(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: []int{0, 0, 0, 0}}, 100)

	first := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	require.Equal(t, OutcomeSuccess, first.Kind)

	second := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	assert.Equal(t, OutcomeAlreadyRedeemed, second.Kind)

	// Hanya satu entry di ledger.
	assert.Len(t, fx.ledger.entries, 1)
}

func TestPipelineDuplicateCommitMapsToAlreadyRedeemed(t *testing.T) {
	// Fast path dimatikan: dua Process untuk tuple yang sama dipaksa
	// sama-sama masuk jalur commit, dan index unik yang memutuskan.
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	fx.ledger.skipFastPath = true

	first := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	require.Equal(t, OutcomeSuccess, first.Kind)

	second := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	assert.Equal(t, OutcomeAlreadyRedeemed, second.Kind)
	assert.Len(t, fx.ledger.entries, 1)
}

func TestPipelineConcurrentScansExactlyOneSuccess(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	fx.ledger.skipFastPath = true

	const n = 16
	outcomes := make([]Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeSuccess:
			successes++
		case OutcomeAlreadyRedeemed:
			duplicates++
		default:
			t.Fatalf("outcome tak terduga: %s", o.Kind)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)
	assert.Len(t, fx.ledger.entries, 1)
}

func TestPipelineInvalidPayload(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)

	cases := []struct {
		name string
		raw  string
	}{
		{"bukan JSON", "https://example.com/menu"},
		{"JSON tanpa venue_id", `{"code":"abc"}`},
		{"venue_id bukan hex", `{"venue_id":"zzzzzzzzzzzzzzzzzzzzzzzz"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := fx.pipeline.Process(context.Background(), fx.userID, tc.raw)
			assert.Equal(t, OutcomeInvalidPayload, outcome.Kind)
			assert.True(t, outcome.InputError())
		})
	}

	assert.Empty(t, fx.ledger.entries)
}

func TestPipelineVenueNotFound(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	raw := fmt.Sprintf(`{"venue_id":%q}`, primitive.NewObjectID().Hex())

	outcome := fx.pipeline.Process(context.Background(), fx.userID, raw)
	assert.Equal(t, OutcomeVenueNotFound, outcome.Kind)
	assert.True(t, outcome.InputError())
}

func TestPipelineVenueInactive(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	fx.venue.Status = models.VenueStatusInactive

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	assert.Equal(t, OutcomeVenueInactive, outcome.Kind)
	assert.Empty(t, fx.ledger.entries)
}

func TestPipelineTransientOnStoreError(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	fx.venues.findErr = errors.New("connection reset")

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	assert.Equal(t, OutcomeTransientFailure, outcome.Kind)
	assert.True(t, outcome.Transient())
	assert.Error(t, outcome.Err)
}

func TestPipelineHardFailureOnCommitError(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: nil}, 0)
	fx.ledger.commitErr = errors.New("write concern timeout")

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())
	assert.Equal(t, OutcomeHardFailure, outcome.Kind)
	assert.Error(t, outcome.Err)
}

func TestPipelineDuplicateDropNotNew(t *testing.T) {
	// Undian kedua memilih collectible yang sudah dimiliki user.
	fx := newPipelineFixture(&seqRand{values: []int{0, 0}}, 100)

	var firstID primitive.ObjectID
	for id := range fx.venues.collectibles {
		firstID = id
		break
	}
	// Paksa pool deterministik: sisakan satu collectible saja.
	for id := range fx.venues.collectibles {
		if id != firstID {
			delete(fx.venues.collectibles, id)
		}
	}
	fx.ledger.grants = append(fx.ledger.grants, models.CollectibleGrant{
		ID:            primitive.NewObjectID(),
		UserID:        fx.userID,
		CollectibleID: firstID,
		SetID:         fx.setID,
	})

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	require.NotNil(t, outcome.Collectible)
	assert.False(t, outcome.IsNew)
	// Tidak ada grant baru yang ditulis untuk duplikat.
	assert.Len(t, fx.ledger.grants, 1)
}

func TestPipelineProgressComplete(t *testing.T) {
	fx := newPipelineFixture(&seqRand{values: []int{0, 0}}, 100)

	// Sisakan satu collectible supaya satu scan melengkapi koleksi.
	var keep primitive.ObjectID
	for id := range fx.venues.collectibles {
		keep = id
		break
	}
	for id := range fx.venues.collectibles {
		if id != keep {
			delete(fx.venues.collectibles, id)
		}
	}

	outcome := fx.pipeline.Process(context.Background(), fx.userID, fx.payload())

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	require.NotNil(t, outcome.Progress)
	assert.Equal(t, 1, outcome.Progress.Current)
	assert.Equal(t, 1, outcome.Progress.Total)
	assert.True(t, outcome.Progress.Complete)
}
