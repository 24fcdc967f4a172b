package reward

import (
	"math/rand"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
)

// MinBasePoints dipakai saat venue belum dikonfigurasi poin dasarnya.
// Redemption tidak boleh gagal hanya karena konfigurasi poin kosong.
const MinBasePoints = 1

// Rand adalah sumber acak lotere. *math/rand.Rand memenuhinya; tes
// memberi sumber deterministik.
type Rand interface {
	Intn(n int) int
}

type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand memakai sumber global math/rand, aman dipakai lintas goroutine.
var DefaultRand Rand = defaultRand{}

type ComputeInput struct {
	BasePoints  int
	BonusPoints int
	// BonusActive: apakah hari ini termasuk jadwal bonus venue.
	BonusActive bool
	// DropRatePercent 0-100. Bukan kebijakan engine; selalu datang dari
	// konfigurasi (global atau override venue).
	DropRatePercent int
	Pool            []models.Collectible
	Owned           map[primitive.ObjectID]bool
}

type ComputeResult struct {
	Points      int
	Collectible *models.Collectible
	IsNew       bool
}

// Compute adalah komputasi murni: tidak menyentuh persistence, sehingga
// bisa diulang dan dites tanpa efek samping. Poin dihitung sebelum lotere
// supaya hasil poin tidak pernah bergantung pada undian.
func Compute(in ComputeInput, rng Rand) ComputeResult {
	base := in.BasePoints
	if base <= 0 {
		base = MinBasePoints
	}
	bonus := 0
	if in.BonusActive && in.BonusPoints > 0 {
		bonus = in.BonusPoints
	}

	result := ComputeResult{Points: base + bonus}

	if len(in.Pool) == 0 {
		// Pool kosong bukan error; redemption jalan tanpa drop.
		return result
	}

	rate := in.DropRatePercent
	if rate > 100 {
		rate = 100
	}
	if rate <= 0 {
		return result
	}
	if rate < 100 && rng.Intn(100) >= rate {
		return result
	}

	picked := in.Pool[rng.Intn(len(in.Pool))]
	result.Collectible = &picked
	result.IsNew = !in.Owned[picked.ID]
	return result
}
