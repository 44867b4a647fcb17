package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/costs"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
)

// DefaultUsagePeriodDays is the usage window when the caller gives none.
const DefaultUsagePeriodDays = 30

// UsageStats is the windowed usage rollup. Failed calls count toward
// request and token totals; their cost is zero.
type UsageStats struct {
	TotalRequests     int64                     `json:"total_requests"`
	TotalInputTokens  int64                     `json:"total_input_tokens"`
	TotalOutputTokens int64                     `json:"total_output_tokens"`
	TotalTokens       int64                     `json:"total_tokens"`
	TotalCost         float64                   `json:"total_cost"`
	ByProvider        map[string]ProviderUsage  `json:"by_provider"`
	ByOperation       map[string]OperationUsage `json:"by_operation"`
	PeriodDays        int                       `json:"period_days"`
}

type ProviderUsage struct {
	Cost     float64 `json:"cost"`
	Requests int64   `json:"requests"`
	Tokens   int64   `json:"tokens"`
}

type OperationUsage struct {
	Cost     float64 `json:"cost"`
	Requests int64   `json:"requests"`
}

// CostBreakdown is the all-time cost rollup. Model keys are
// "provider:model" so identical model ids from different providers stay
// distinct.
type CostBreakdown struct {
	TotalCost     float64              `json:"total_cost"`
	ByProvider    map[string]CostGroup `json:"by_provider"`
	ByModel       map[string]CostGroup `json:"by_model"`
	Period        string               `json:"period"`
	TotalRequests int64                `json:"total_requests"`
}

type CostGroup struct {
	Total         float64 `json:"total"`
	Count         int64   `json:"count"`
	AvgPerRequest float64 `json:"avg_per_request,omitempty"`
}

// AnalyticsService derives usage and cost rollups from the ledger. It holds
// no state of its own; every call recomputes from the stored records, so
// totals always reconcile with the ledger exactly.
type AnalyticsService struct {
	ledger usage.Repository
	logger logging.Logger
}

func NewAnalyticsService(ledger usage.Repository, logger logging.Logger) *AnalyticsService {
	return &AnalyticsService{
		ledger: ledger,
		logger: logger.With("module", "analytics"),
	}
}

// Usage aggregates the last `days` days of ledger records, optionally
// filtered by provider. days <= 0 falls back to the default window.
func (s *AnalyticsService) Usage(ctx context.Context, provider string, days int) (*UsageStats, error) {
	if days <= 0 {
		days = DefaultUsagePeriodDays
	}
	until := time.Now().UTC()
	since := until.AddDate(0, 0, -days)

	recs, err := s.ledger.SelectRange(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("select usage range: %w", err)
	}

	stats := &UsageStats{
		ByProvider:  map[string]ProviderUsage{},
		ByOperation: map[string]OperationUsage{},
		PeriodDays:  days,
	}
	var total costs.Accumulator
	providerCost := map[string]*costs.Accumulator{}
	operationCost := map[string]*costs.Accumulator{}

	for _, r := range recs {
		if provider != "" && r.Provider != provider {
			continue
		}
		tokens := int64(r.InputTokens) + int64(r.OutputTokens)
		stats.TotalRequests++
		stats.TotalInputTokens += int64(r.InputTokens)
		stats.TotalOutputTokens += int64(r.OutputTokens)
		stats.TotalTokens += tokens
		total.Add(r.Cost)

		pc := providerCost[r.Provider]
		if pc == nil {
			pc = &costs.Accumulator{}
			providerCost[r.Provider] = pc
		}
		pc.Add(r.Cost)
		p := stats.ByProvider[r.Provider]
		p.Requests++
		p.Tokens += tokens
		stats.ByProvider[r.Provider] = p

		oc := operationCost[r.Operation]
		if oc == nil {
			oc = &costs.Accumulator{}
			operationCost[r.Operation] = oc
		}
		oc.Add(r.Cost)
		o := stats.ByOperation[r.Operation]
		o.Requests++
		stats.ByOperation[r.Operation] = o
	}

	stats.TotalCost = roundCost(total.Total())
	for name, acc := range providerCost {
		p := stats.ByProvider[name]
		p.Cost = roundCost(acc.Total())
		stats.ByProvider[name] = p
	}
	for name, acc := range operationCost {
		o := stats.ByOperation[name]
		o.Cost = roundCost(acc.Total())
		stats.ByOperation[name] = o
	}
	return stats, nil
}

// Costs aggregates the full ledger into an all-time breakdown by provider
// and by provider:model pair.
func (s *AnalyticsService) Costs(ctx context.Context) (*CostBreakdown, error) {
	recs, err := s.ledger.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("select usage: %w", err)
	}

	var total costs.Accumulator
	byProvider := map[string]*costs.Accumulator{}
	byModel := map[string]*costs.Accumulator{}

	for _, r := range recs {
		total.Add(r.Cost)

		pc := byProvider[r.Provider]
		if pc == nil {
			pc = &costs.Accumulator{}
			byProvider[r.Provider] = pc
		}
		pc.Add(r.Cost)

		key := r.Provider + ":" + r.Model
		mc := byModel[key]
		if mc == nil {
			mc = &costs.Accumulator{}
			byModel[key] = mc
		}
		mc.Add(r.Cost)
	}

	out := &CostBreakdown{
		TotalCost:     roundCost(total.Total()),
		ByProvider:    make(map[string]CostGroup, len(byProvider)),
		ByModel:       make(map[string]CostGroup, len(byModel)),
		Period:        "all_time",
		TotalRequests: total.Count(),
	}
	for name, acc := range byProvider {
		out.ByProvider[name] = CostGroup{
			Total:         roundCost(acc.Total()),
			Count:         acc.Count(),
			AvgPerRequest: roundCost(acc.Avg()),
		}
	}
	for key, acc := range byModel {
		out.ByModel[key] = CostGroup{
			Total: roundCost(acc.Total()),
			Count: acc.Count(),
		}
	}
	return out, nil
}

// roundCost trims aggregated dollar values to 6 decimal places, enough for
// fractional-cent per-call costs without exposing float noise.
func roundCost(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
