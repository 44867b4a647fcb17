package models

// ModelInfo describes a priced, addressable generation target within a
// provider. Entries are immutable after registration; the catalog is the
// single source of truth for pricing.
type ModelInfo struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DisplayName     string  `json:"display_name"`
	Provider        string  `json:"provider"`
	CostPer1kInput  float64 `json:"cost_per_1k_input"`
	CostPer1kOutput float64 `json:"cost_per_1k_output"`
	Available       bool    `json:"available"`
	Description     string  `json:"description,omitempty"`
}
