package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonusActiveOn(t *testing.T) {
	// 2026-08-29 adalah Sabtu, 2026-08-26 adalah Rabu.
	saturday := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	wednesday := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)

	t.Run("rule kosong selalu aktif", func(t *testing.T) {
		active, err := BonusActiveOn("", "", wednesday)
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("rule weekend aktif di Sabtu", func(t *testing.T) {
		active, err := BonusActiveOn("FREQ=WEEKLY;BYDAY=SA,SU", "2026-01-01", saturday)
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("rule weekend tidak aktif di Rabu", func(t *testing.T) {
		active, err := BonusActiveOn("FREQ=WEEKLY;BYDAY=SA,SU", "2026-01-01", wednesday)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("rule rusak mengembalikan error", func(t *testing.T) {
		_, err := BonusActiveOn("FREQ=BUKANFREQ", "", saturday)
		assert.Error(t, err)
	})
}

func TestUpcomingBonusDays(t *testing.T) {
	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // Senin
	until := from.AddDate(0, 0, 13)                      // dua minggu

	days, err := UpcomingBonusDays("FREQ=WEEKLY;BYDAY=SA", "2026-01-03", from, until)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-29", "2026-09-05"}, days)

	days, err = UpcomingBonusDays("", "", from, until)
	require.NoError(t, err)
	assert.Nil(t, days)
}
