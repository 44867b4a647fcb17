// Package drafts persists drafts and their append-only version chains.
package drafts

import (
	"context"

	"github.com/avelkov/draftforge/internal/server/models"
)

// Repository owns the Draft/Version lifecycle. Create and AppendVersion are
// atomic: draft and version rows are never observable in an inconsistent
// state. AppendVersion assigns the next contiguous version number itself and
// returns common.ErrVersionConflict when a concurrent writer won the race.
type Repository interface {
	// Create inserts the draft together with its version 1 snapshot.
	Create(ctx context.Context, draft *models.Draft, first *models.Version) error

	// Get returns the draft or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Draft, error)

	// List returns drafts ordered by creation time descending. An empty
	// status means no filter; unknown statuses simply match nothing.
	// limit <= 0 means no limit.
	List(ctx context.Context, status string, limit int) ([]*models.Draft, error)

	// AppendVersion inserts v with number currentVersion+1 and updates the
	// draft's content, updatedAt, and currentVersion in the same atomic
	// step. v.VersionNumber is filled in. Returns the updated draft.
	AppendVersion(ctx context.Context, draftID string, v *models.Version) (*models.Draft, error)

	// Versions returns the draft's versions ordered by number ascending, or
	// common.ErrorNotFound when the draft does not exist.
	Versions(ctx context.Context, draftID string) ([]*models.Version, error)
}
