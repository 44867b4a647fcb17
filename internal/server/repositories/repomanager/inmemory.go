package repomanager

import (
	"github.com/avelkov/draftforge/internal/server/repositories/drafts"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
)

// InMemoryRepositoryManager backs the server with process-local storage.
// Used when no database DSN is configured, and throughout the test suite.
type InMemoryRepositoryManager struct {
	drafts *drafts.InMemoryRepository
	usage  *usage.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		drafts: drafts.NewInMemoryRepository(),
		usage:  usage.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Drafts() drafts.Repository {
	return m.drafts
}

func (m *InMemoryRepositoryManager) Usage() usage.Repository {
	return m.usage
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
