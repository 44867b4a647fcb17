// Package usage persists the append-only ledger of provider calls.
package usage

import (
	"context"
	"time"

	"github.com/avelkov/draftforge/internal/server/models"
)

// Repository is the usage ledger. Append is the only mutation and must be
// safe under arbitrary concurrent interleaving; records are never updated
// or deleted. Reads return records ordered by timestamp, ties broken by
// insertion order.
type Repository interface {
	Append(ctx context.Context, rec *models.UsageRecord) error
	SelectRange(ctx context.Context, since, until time.Time) ([]*models.UsageRecord, error)
	SelectAll(ctx context.Context) ([]*models.UsageRecord, error)
}
