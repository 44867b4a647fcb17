package drafts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/server/models"
)

// InMemoryRepository keeps drafts and versions in maps behind a single
// mutex. Every returned entity is a copy, so callers cannot mutate stored
// state.
type InMemoryRepository struct {
	mu       sync.Mutex
	drafts   map[string]*models.Draft
	versions map[string][]*models.Version
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		drafts:   make(map[string]*models.Draft),
		versions: make(map[string][]*models.Version),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, draft *models.Draft, first *models.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := *draft
	v := *first
	r.drafts[d.ID] = &d
	r.versions[d.ID] = []*models.Version{&v}
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *InMemoryRepository) getLocked(id string) (*models.Draft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *d
	return &c, nil
}

func (r *InMemoryRepository) List(ctx context.Context, status string, limit int) ([]*models.Draft, error) {
	r.mu.Lock()
	out := make([]*models.Draft, 0, len(r.drafts))
	for _, d := range r.drafts {
		if status != "" && d.Status != status {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) AppendVersion(ctx context.Context, draftID string, v *models.Version) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[draftID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	c := *v
	c.DraftID = draftID
	c.VersionNumber = d.CurrentVersion + 1

	d.CurrentVersion = c.VersionNumber
	d.Content = c.Content
	d.UpdatedAt = time.Now().UTC()
	r.versions[draftID] = append(r.versions[draftID], &c)

	v.DraftID = draftID
	v.VersionNumber = c.VersionNumber
	updated := *d
	return &updated, nil
}

func (r *InMemoryRepository) Versions(ctx context.Context, draftID string) ([]*models.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[draftID]; !ok {
		return nil, common.ErrorNotFound
	}

	vs := r.versions[draftID]
	out := make([]*models.Version, 0, len(vs))
	for _, v := range vs {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber < out[j].VersionNumber
	})
	return out, nil
}
