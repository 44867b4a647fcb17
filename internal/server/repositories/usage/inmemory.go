package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avelkov/draftforge/internal/server/models"
)

// InMemoryRepository keeps the ledger in a mutex-guarded append slice.
// Reads copy a snapshot, so they never observe a partial append.
type InMemoryRepository struct {
	mu      sync.Mutex
	records []*models.UsageRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, rec *models.UsageRecord) error {
	c := *rec
	r.mu.Lock()
	r.records = append(r.records, &c)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) SelectRange(ctx context.Context, since, until time.Time) ([]*models.UsageRecord, error) {
	all, err := r.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.UsageRecord, 0, len(all))
	for _, rec := range all {
		if rec.Timestamp.Before(since) || rec.Timestamp.After(until) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *InMemoryRepository) SelectAll(ctx context.Context) ([]*models.UsageRecord, error) {
	r.mu.Lock()
	snapshot := make([]*models.UsageRecord, len(r.records))
	copy(snapshot, r.records)
	r.mu.Unlock()

	// Insertion order already breaks timestamp ties; a stable sort keeps it.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Timestamp.Before(snapshot[j].Timestamp)
	})
	return snapshot, nil
}
