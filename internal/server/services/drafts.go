package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/models"
	"github.com/avelkov/draftforge/internal/server/repositories/drafts"
	"github.com/google/uuid"
)

// DefaultListLimit caps draft listings when the caller gives no limit.
const DefaultListLimit = 20

// DraftService owns the draft lifecycle. Version creation is serialized
// per draft id, so concurrent saves on the same draft always produce a
// contiguous version chain; saves on different drafts run in parallel.
//
// No-op saves (content identical to the current head) are accepted and
// produce a new version: the history records the save, deduplication is a
// presentation concern.
type DraftService struct {
	repo   drafts.Repository
	locks  *keyMutex
	logger logging.Logger
}

func NewDraftService(repo drafts.Repository, logger logging.Logger) *DraftService {
	return &DraftService{
		repo:   repo,
		locks:  newKeyMutex(),
		logger: logger.With("module", "drafts"),
	}
}

// Create persists a new draft with its version 1 snapshot in one atomic
// step.
func (s *DraftService) Create(ctx context.Context, content, title, modelUsed string) (*models.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: draft content must not be empty", common.ErrorValidation)
	}

	now := time.Now().UTC()
	draft := &models.Draft{
		ID:             uuid.NewString(),
		Title:          title,
		Content:        content,
		Status:         models.StatusDraft,
		ModelUsed:      modelUsed,
		CreatedAt:      now,
		UpdatedAt:      now,
		CurrentVersion: 1,
	}
	first := &models.Version{
		ID:            uuid.NewString(),
		DraftID:       draft.ID,
		VersionNumber: 1,
		Content:       content,
		CreatedAt:     now,
	}

	if err := s.repo.Create(ctx, draft, first); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	s.logger.Info(ctx, "draft created", "draft_id", draft.ID, "model", modelUsed)
	return draft, nil
}

func (s *DraftService) Get(ctx context.Context, id string) (*models.Draft, error) {
	return s.repo.Get(ctx, id)
}

// List returns drafts newest-first, optionally filtered by exact status.
// Unknown statuses yield an empty result, not an error.
func (s *DraftService) List(ctx context.Context, status string, limit int) ([]*models.Draft, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, status, limit)
}

// AppendVersion adds the next version to a draft. Calls targeting the same
// draft are serialized; a version-number conflict from the store gets one
// internal retry before being surfaced.
func (s *DraftService) AppendVersion(ctx context.Context, draftID, content, changesSummary string) (*models.Version, *models.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%w: version content must not be empty", common.ErrorValidation)
	}

	s.locks.Lock(draftID)
	defer s.locks.Unlock(draftID)

	v, d, err := s.appendOnce(ctx, draftID, content, changesSummary)
	if errors.Is(err, common.ErrVersionConflict) {
		v, d, err = s.appendOnce(ctx, draftID, content, changesSummary)
	}
	return v, d, err
}

func (s *DraftService) appendOnce(ctx context.Context, draftID, content, changesSummary string) (*models.Version, *models.Draft, error) {
	v := &models.Version{
		ID:             uuid.NewString(),
		Content:        content,
		ChangesSummary: changesSummary,
		CreatedAt:      time.Now().UTC(),
	}
	d, err := s.repo.AppendVersion(ctx, draftID, v)
	if err != nil {
		return nil, nil, err
	}
	return v, d, nil
}

// Versions returns a draft's full history, oldest first.
func (s *DraftService) Versions(ctx context.Context, draftID string) ([]*models.Version, error) {
	return s.repo.Versions(ctx, draftID)
}
