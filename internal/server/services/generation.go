// Package services contains the orchestration layer: single-model
// generation, concurrent multi-model comparison, draft lifecycle, and
// analytics rollups over the usage ledger.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/costs"
	"github.com/avelkov/draftforge/internal/server/models"
	"github.com/avelkov/draftforge/internal/server/providers"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// Retry schedule for rate-limited calls: up to 2 extra attempts with
// jittered exponential backoff.
const (
	retryBase       = 500 * time.Millisecond
	retryJitter     = 250 * time.Millisecond
	retryMaxRetries = 2
)

// GenerateOptions carries the optional knobs of a generation call.
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// GenerationResult is the outcome of one successful provider call, with
// the metered cost attached.
type GenerationResult struct {
	Content      string
	Model        string
	Provider     string
	InputTokens  int
	OutputTokens int
	Cost         float64
	FinishReason string
}

// ProbeResult reports provider reachability for the connectivity test
// endpoint.
type ProbeResult struct {
	Provider   string
	Model      string
	Accessible bool
}

// GenerationService dispatches a generation request to the provider that
// owns the requested model, meters cost, and records every attempt that
// reaches a provider in the usage ledger.
type GenerationService struct {
	registry  *catalog.Registry
	providers providers.Table
	ledger    usage.Repository
	limiters  map[string]*rate.Limiter
	logger    logging.Logger
	backoff   func() retry.Backoff
}

func NewGenerationService(reg *catalog.Registry, table providers.Table, ledger usage.Repository, limiters map[string]*rate.Limiter, logger logging.Logger) *GenerationService {
	return &GenerationService{
		registry:  reg,
		providers: table,
		ledger:    ledger,
		limiters:  limiters,
		logger:    logger.With("module", "generation"),
		backoff: func() retry.Backoff {
			return retry.WithJitter(retryJitter, retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBase)))
		},
	}
}

// Generate resolves the model, invokes its provider, and returns the result
// with cost attached. Only rate-limited failures are retried; every attempt
// that reaches the provider appends its own ledger record. An unknown model
// fails before any provider contact and leaves no ledger trace.
func (s *GenerationService) Generate(ctx context.Context, modelID, prompt string, opts GenerateOptions) (*GenerationResult, error) {
	return s.generate(ctx, modelID, prompt, opts, models.OpGenerate)
}

func (s *GenerationService) generate(ctx context.Context, modelID, prompt string, opts GenerateOptions, operation string) (*GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", common.ErrorValidation)
	}

	m, err := s.registry.Get(modelID)
	if err != nil {
		return nil, err
	}

	prov, err := s.providers.For(m.Provider)
	if err != nil {
		return nil, &providers.Error{Provider: m.Provider, Kind: providers.KindUnavailable, Err: err}
	}

	var result *GenerationResult
	err = retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		r, attemptErr := s.attempt(ctx, m, prov, prompt, opts, operation)
		if attemptErr != nil {
			var pe *providers.Error
			if errors.As(attemptErr, &pe) && pe.Kind == providers.KindRateLimited {
				return retry.RetryableError(attemptErr)
			}
			return attemptErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, providers.Classify(m.Provider, err)
	}
	return result, nil
}

// attempt performs one provider call and appends exactly one ledger record,
// success or not.
func (s *GenerationService) attempt(ctx context.Context, m models.ModelInfo, prov providers.Provider, prompt string, opts GenerateOptions, operation string) (*GenerationResult, error) {
	if lim := s.limiters[m.Provider]; lim != nil {
		if err := lim.Wait(ctx); err != nil {
			classified := providers.Classify(m.Provider, err)
			s.record(ctx, m, operation, nil, classified)
			return nil, classified
		}
	}

	resp, err := prov.Generate(ctx, providers.Request{
		Model:        m.Name,
		Prompt:       prompt,
		SystemPrompt: opts.SystemPrompt,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
	})
	if err != nil {
		classified := providers.Classify(m.Provider, err)
		s.logger.Warn(ctx, "provider call failed", "model", m.ID, "provider", m.Provider, "kind", classified.Kind)
		s.record(ctx, m, operation, nil, classified)
		return nil, classified
	}

	cost := costs.Cost(m, resp.InputTokens, resp.OutputTokens)
	s.record(ctx, m, operation, resp, nil)

	return &GenerationResult{
		Content:      resp.Content,
		Model:        m.ID,
		Provider:     m.Provider,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Cost:         cost,
		FinishReason: resp.FinishReason,
	}, nil
}

// record appends a ledger entry. The write is detached from the caller's
// cancellation so abandoned comparison members still leave their trace.
func (s *GenerationService) record(ctx context.Context, m models.ModelInfo, operation string, resp *providers.Response, provErr *providers.Error) {
	rec := &models.UsageRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Provider:  m.Provider,
		Model:     m.ID,
		Operation: operation,
	}
	if provErr != nil {
		rec.Success = false
		rec.Cost = 0
		rec.ErrorKind = string(provErr.Kind)
	} else {
		rec.Success = true
		rec.InputTokens = resp.InputTokens
		rec.OutputTokens = resp.OutputTokens
		rec.Cost = costs.Cost(m, resp.InputTokens, resp.OutputTokens)
	}

	if err := s.ledger.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error(ctx, "usage ledger append failed", "err", err.Error())
	}
}

// Probe checks provider reachability with a minimal generation call. Either
// a provider name or a model id may be given; a model id resolves to its
// provider first.
func (s *GenerationService) Probe(ctx context.Context, providerName, modelID string) (*ProbeResult, error) {
	if providerName == "" && modelID == "" {
		return nil, fmt.Errorf("%w: either model or provider must be specified", common.ErrorValidation)
	}

	if modelID != "" {
		m, err := s.registry.Get(modelID)
		if err != nil {
			return nil, err
		}
		providerName = m.Provider
	}

	target, err := s.probeModel(providerName)
	if err != nil {
		return nil, err
	}

	_, genErr := s.generate(ctx, target.ID, "Test", GenerateOptions{MaxTokens: 5}, models.OpTest)
	return &ProbeResult{
		Provider:   providerName,
		Model:      target.ID,
		Accessible: genErr == nil,
	}, nil
}

// probeModel picks the cheapest available model of a provider for the
// connectivity check.
func (s *GenerationService) probeModel(providerName string) (models.ModelInfo, error) {
	var best models.ModelInfo
	found := false
	for _, m := range s.registry.List() {
		if m.Provider != providerName || !m.Available {
			continue
		}
		if !found || m.CostPer1kOutput < best.CostPer1kOutput {
			best = m
			found = true
		}
	}
	if !found {
		return models.ModelInfo{}, fmt.Errorf("%w: no models for provider %s", common.ErrorValidation, providerName)
	}
	return best, nil
}
