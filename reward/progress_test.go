package reward

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubProgressStore struct {
	total    int64
	current  int64
	totalErr error
	grantErr error
}

func (s *stubProgressStore) CountCollectiblesBySet(context.Context, primitive.ObjectID) (int64, error) {
	return s.total, s.totalErr
}

func (s *stubProgressStore) CountGrantsByUserAndSet(context.Context, primitive.ObjectID, primitive.ObjectID) (int64, error) {
	return s.current, s.grantErr
}

func TestTrackerRecompute(t *testing.T) {
	userID := primitive.NewObjectID()
	setID := primitive.NewObjectID()

	t.Run("progress sebagian", func(t *testing.T) {
		tracker := NewTracker(&stubProgressStore{total: 5, current: 2})
		progress, err := tracker.Recompute(context.Background(), userID, setID)
		require.NoError(t, err)
		assert.Equal(t, 2, progress.Current)
		assert.Equal(t, 5, progress.Total)
		assert.False(t, progress.Complete)
	})

	t.Run("koleksi lengkap", func(t *testing.T) {
		tracker := NewTracker(&stubProgressStore{total: 5, current: 5})
		progress, err := tracker.Recompute(context.Background(), userID, setID)
		require.NoError(t, err)
		assert.True(t, progress.Complete)
	})

	t.Run("set kosong tidak pernah lengkap", func(t *testing.T) {
		tracker := NewTracker(&stubProgressStore{total: 0, current: 0})
		progress, err := tracker.Recompute(context.Background(), userID, setID)
		require.NoError(t, err)
		assert.False(t, progress.Complete)
	})

	t.Run("error store di-propagate", func(t *testing.T) {
		tracker := NewTracker(&stubProgressStore{grantErr: errors.New("timeout")})
		_, err := tracker.Recompute(context.Background(), userID, setID)
		assert.Error(t, err)
	})
}
