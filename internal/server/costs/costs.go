// Package costs meters token usage into dollar cost. Per-call cost uses
// float64; aggregation goes through Accumulator, which sums exactly with
// big.Rat so thousands of fractional-cent values never drift.
package costs

import (
	"math/big"

	"github.com/avelkov/draftforge/internal/server/models"
)

// Epsilon is the relative tolerance for comparing aggregated costs.
const Epsilon = 1e-9

// Cost computes the dollar cost of a call against a model's per-1k-token
// rates.
func Cost(m models.ModelInfo, inputTokens, outputTokens int) float64 {
	return Rate(m.CostPer1kInput, m.CostPer1kOutput, inputTokens, outputTokens)
}

// Rate computes cost from raw per-1k prices.
func Rate(per1kInput, per1kOutput float64, inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*per1kInput + float64(outputTokens)/1000*per1kOutput
}

// Accumulator sums costs without compounding float rounding error. The zero
// value is ready to use. Not safe for concurrent use.
type Accumulator struct {
	total big.Rat
	count int64
}

func (a *Accumulator) Add(cost float64) {
	r := new(big.Rat)
	r.SetFloat64(cost)
	a.total.Add(&a.total, r)
	a.count++
}

// Total returns the accumulated sum as float64.
func (a *Accumulator) Total() float64 {
	f, _ := a.total.Float64()
	return f
}

// Count returns the number of values added.
func (a *Accumulator) Count() int64 {
	return a.count
}

// Avg returns Total/Count, or 0 when nothing was added.
func (a *Accumulator) Avg() float64 {
	if a.count == 0 {
		return 0
	}
	avg := new(big.Rat).Quo(&a.total, new(big.Rat).SetInt64(a.count))
	f, _ := avg.Float64()
	return f
}
