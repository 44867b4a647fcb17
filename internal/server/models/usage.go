package models

import "time"

// Ledger operation kinds.
const (
	OpGenerate      = "generate"
	OpCompareMember = "compare-member"
	OpTest          = "test"
)

// UsageRecord is one billable-or-attempted provider call. Records are
// append-only and never mutated; failed calls carry Cost 0 and an ErrorKind.
type UsageRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Operation    string    `json:"operation"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	Success      bool      `json:"success"`
	ErrorKind    string    `json:"error_kind,omitempty"`
}
