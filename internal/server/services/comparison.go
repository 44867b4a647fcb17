package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/models"
	"github.com/avelkov/draftforge/internal/server/providers"
)

// Comparison bounds.
const (
	MinCompareModels = 2
	MaxCompareModels = 5

	DefaultCompareTimeout = 30 * time.Second
)

// ComparisonEntry is the outcome of one comparison member. Exactly one of
// Result and Err is set.
type ComparisonEntry struct {
	Model    string
	Provider string
	Result   *GenerationResult
	Err      error
}

// ErrorKind returns the stable error kind string for a failed entry.
func (e *ComparisonEntry) ErrorKind() string {
	if e.Err == nil {
		return ""
	}
	if pe := providers.Classify(e.Provider, e.Err); pe != nil {
		return string(pe.Kind)
	}
	return string(providers.KindUnknown)
}

// ComparisonService fans a prompt out to several models concurrently and
// fans the results back in, isolating each member's failure to its own
// entry.
type ComparisonService struct {
	gen         *GenerationService
	registry    *catalog.Registry
	taskTimeout time.Duration
	logger      logging.Logger
}

func NewComparisonService(gen *GenerationService, reg *catalog.Registry, taskTimeout time.Duration, logger logging.Logger) *ComparisonService {
	if taskTimeout <= 0 {
		taskTimeout = DefaultCompareTimeout
	}
	return &ComparisonService{
		gen:         gen,
		registry:    reg,
		taskTimeout: taskTimeout,
		logger:      logger.With("module", "comparison"),
	}
}

// Compare runs one generation task per model id and returns entries in the
// same order as modelIDs, once every task has reached a terminal state.
// Precondition violations fail the whole call before any provider is
// contacted; a member's failure or slowness only ever affects its own
// entry.
func (s *ComparisonService) Compare(ctx context.Context, modelIDs []string, prompt string, opts GenerateOptions) ([]ComparisonEntry, error) {
	if err := s.validate(modelIDs, prompt); err != nil {
		return nil, err
	}

	entries := make([]ComparisonEntry, len(modelIDs))

	var wg sync.WaitGroup
	for i, id := range modelIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			entries[i] = s.runMember(ctx, id, prompt, opts)
		}(i, id)
	}
	wg.Wait()

	return entries, nil
}

func (s *ComparisonService) validate(modelIDs []string, prompt string) error {
	if len(modelIDs) < MinCompareModels {
		return fmt.Errorf("%w: at least %d models required for comparison", common.ErrorValidation, MinCompareModels)
	}
	if len(modelIDs) > MaxCompareModels {
		return fmt.Errorf("%w: at most %d models for comparison", common.ErrorValidation, MaxCompareModels)
	}
	seen := make(map[string]struct{}, len(modelIDs))
	for _, id := range modelIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate model id %s", common.ErrorValidation, id)
		}
		seen[id] = struct{}{}
	}
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("%w: prompt must not be empty", common.ErrorValidation)
	}
	return nil
}

// runMember executes one comparison task under its own deadline. When the
// deadline fires the entry becomes a timeout immediately; the underlying
// call is abandoned and finishes in the background, still writing its
// ledger record.
func (s *ComparisonService) runMember(ctx context.Context, modelID, prompt string, opts GenerateOptions) ComparisonEntry {
	entry := ComparisonEntry{Model: modelID}
	if m, err := s.registry.Get(modelID); err == nil {
		entry.Provider = m.Provider
	}

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.taskTimeout)

	done := make(chan ComparisonEntry, 1)
	go func() {
		defer cancel()
		e := entry
		res, err := s.gen.generate(taskCtx, modelID, prompt, opts, models.OpCompareMember)
		if err != nil {
			e.Err = err
		} else {
			e.Result = res
		}
		done <- e
	}()

	select {
	case e := <-done:
		return e
	case <-taskCtx.Done():
		s.logger.Warn(ctx, "comparison member timed out", "model", modelID)
		entry.Err = &providers.Error{
			Provider: entry.Provider,
			Kind:     providers.KindTimeout,
			Err:      taskCtx.Err(),
		}
		return entry
	}
}
