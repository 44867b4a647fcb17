// Package repomanager wires concrete repository implementations together
// behind one factory, selected at startup from the configured DSN.
package repomanager

import (
	"github.com/avelkov/draftforge/internal/server/repositories/drafts"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
)

type RepositoryManager interface {
	Drafts() drafts.Repository
	Usage() usage.Repository
	Close() error
}
