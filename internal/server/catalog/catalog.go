// Package catalog holds the model registry: the catalog of generation
// targets with their providers and per-1k-token prices. The registry is
// read-only at request time; Reload swaps the whole catalog atomically.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/server/models"
)

//go:embed models.json
var defaultModels []byte

type catalogFile struct {
	Models []models.ModelInfo `json:"models"`
}

// Registry is the in-memory model catalog, keyed by model id.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]models.ModelInfo
	sorted []models.ModelInfo
}

// New builds a registry from the embedded default catalog.
func New() (*Registry, error) {
	r := &Registry{}
	if err := r.load(defaultModels); err != nil {
		return nil, err
	}
	return r, nil
}

// NewFromFile builds a registry from an operator-supplied JSON file.
func NewFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	r := &Registry{}
	if err := r.load(data); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load(data []byte) error {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse model catalog: %w", err)
	}
	if len(f.Models) == 0 {
		return fmt.Errorf("model catalog is empty")
	}

	byID := make(map[string]models.ModelInfo, len(f.Models))
	for _, m := range f.Models {
		if m.ID == "" || m.Provider == "" {
			return fmt.Errorf("model entry missing id or provider: %+v", m)
		}
		if _, dup := byID[m.ID]; dup {
			return fmt.Errorf("duplicate model id %q in catalog", m.ID)
		}
		byID[m.ID] = m
	}

	sorted := make([]models.ModelInfo, 0, len(byID))
	for _, m := range byID {
		sorted = append(sorted, m)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Provider != sorted[j].Provider {
			return sorted[i].Provider < sorted[j].Provider
		}
		return sorted[i].ID < sorted[j].ID
	})

	r.mu.Lock()
	r.byID = byID
	r.sorted = sorted
	r.mu.Unlock()
	return nil
}

// Reload replaces the catalog from a JSON file.
func (r *Registry) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model catalog: %w", err)
	}
	return r.load(data)
}

// List returns all models ordered by provider then id.
func (r *Registry) List() []models.ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ModelInfo, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Get returns the model with the given id or common.ErrUnknownModel.
func (r *Registry) Get(id string) (models.ModelInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return models.ModelInfo{}, fmt.Errorf("%w: %s", common.ErrUnknownModel, id)
	}
	return m, nil
}

// CostRates returns the per-1k-token input/output prices for a model.
func (r *Registry) CostRates(id string) (float64, float64, error) {
	m, err := r.Get(id)
	if err != nil {
		return 0, 0, err
	}
	return m.CostPer1kInput, m.CostPer1kOutput, nil
}
