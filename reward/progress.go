package reward

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressStore interface {
	CountCollectiblesBySet(ctx context.Context, setID primitive.ObjectID) (int64, error)
	CountGrantsByUserAndSet(ctx context.Context, userID, setID primitive.ObjectID) (int64, error)
}

type Tracker struct {
	store ProgressStore
}

func NewTracker(store ProgressStore) *Tracker {
	return &Tracker{store: store}
}

// Recompute menghitung ulang progress koleksi user. Harus dipanggil
// SETELAH grant baru durable di ledger; pembacaan yang melewatkan
// collectible yang baru saja didapat adalah bug correctness, karena
// keputusan "koleksi lengkap" di UI bergantung padanya.
func (t *Tracker) Recompute(ctx context.Context, userID, setID primitive.ObjectID) (*Progress, error) {
	total, err := t.store.CountCollectiblesBySet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("gagal menghitung isi collection set: %w", err)
	}

	current, err := t.store.CountGrantsByUserAndSet(ctx, userID, setID)
	if err != nil {
		return nil, fmt.Errorf("gagal menghitung grant user: %w", err)
	}

	return &Progress{
		Current:  int(current),
		Total:    int(total),
		Complete: total > 0 && current == total,
	}, nil
}
