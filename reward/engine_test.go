package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Reward-Venue/models"
)

// seqRand mengembalikan nilai dari urutan tetap; tes jadi deterministik.
type seqRand struct {
	values []int
	pos    int
}

func (r *seqRand) Intn(n int) int {
	if r.pos >= len(r.values) {
		panic("seqRand: urutan nilai habis")
	}
	v := r.values[r.pos] % n
	r.pos++
	return v
}

func makePool(n int) []models.Collectible {
	pool := make([]models.Collectible, n)
	setID := primitive.NewObjectID()
	for i := range pool {
		pool[i] = models.Collectible{ID: primitive.NewObjectID(), SetID: setID}
	}
	return pool
}

func TestComputePoints(t *testing.T) {
	rng := &seqRand{values: []int{0}}

	t.Run("base saja saat bonus tidak aktif", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 10, BonusPoints: 5, BonusActive: false}, rng)
		assert.Equal(t, 10, result.Points)
	})

	t.Run("base plus bonus saat bonus aktif", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 10, BonusPoints: 5, BonusActive: true}, rng)
		assert.Equal(t, 15, result.Points)
	})

	t.Run("base points nol jatuh ke minimum", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 0}, rng)
		assert.Equal(t, MinBasePoints, result.Points)
	})

	t.Run("bonus negatif diabaikan", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 10, BonusPoints: -3, BonusActive: true}, rng)
		assert.Equal(t, 10, result.Points)
	})
}

func TestComputeEmptyPool(t *testing.T) {
	// Tanpa pool tidak boleh ada panggilan RNG sama sekali.
	rng := &seqRand{values: nil}
	result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 100}, rng)

	assert.Equal(t, 5, result.Points)
	assert.Nil(t, result.Collectible)
	assert.False(t, result.IsNew)
}

func TestComputeDropRate(t *testing.T) {
	pool := makePool(4)

	t.Run("rate nol tidak pernah drop", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 0, Pool: pool}, &seqRand{values: nil})
		assert.Nil(t, result.Collectible)
	})

	t.Run("rate seratus selalu drop", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 100, Pool: pool}, &seqRand{values: []int{2}})
		require.NotNil(t, result.Collectible)
		assert.Equal(t, pool[2].ID, result.Collectible.ID)
	})

	t.Run("undian di bawah rate menang", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 50, Pool: pool}, &seqRand{values: []int{49, 1}})
		require.NotNil(t, result.Collectible)
		assert.Equal(t, pool[1].ID, result.Collectible.ID)
	})

	t.Run("undian di atas rate kalah", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 50, Pool: pool}, &seqRand{values: []int{50}})
		assert.Nil(t, result.Collectible)
	})

	t.Run("rate di atas seratus di-clamp", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 150, Pool: pool}, &seqRand{values: []int{0}})
		require.NotNil(t, result.Collectible)
	})
}

func TestComputeNovelty(t *testing.T) {
	pool := makePool(3)

	t.Run("collectible yang belum dimiliki dianggap baru", func(t *testing.T) {
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 100, Pool: pool, Owned: map[primitive.ObjectID]bool{}}, &seqRand{values: []int{1}})
		require.NotNil(t, result.Collectible)
		assert.True(t, result.IsNew)
	})

	t.Run("duplikat tetap drop tapi tidak baru", func(t *testing.T) {
		owned := map[primitive.ObjectID]bool{pool[1].ID: true}
		result := Compute(ComputeInput{BasePoints: 5, DropRatePercent: 100, Pool: pool, Owned: owned}, &seqRand{values: []int{1}})
		require.NotNil(t, result.Collectible)
		assert.False(t, result.IsNew)
	})
}

func TestComputeDeterministic(t *testing.T) {
	pool := makePool(5)
	in := ComputeInput{BasePoints: 7, BonusPoints: 3, BonusActive: true, DropRatePercent: 60, Pool: pool}

	first := Compute(in, &seqRand{values: []int{10, 3}})
	second := Compute(in, &seqRand{values: []int{10, 3}})

	assert.Equal(t, first.Points, second.Points)
	require.NotNil(t, first.Collectible)
	require.NotNil(t, second.Collectible)
	assert.Equal(t, first.Collectible.ID, second.Collectible.ID)
}
