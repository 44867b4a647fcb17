// Package providers wraps upstream AI text-generation services behind a
// single capability interface. One implementation exists per provider;
// callers select one through a Table keyed by the model's provider string.
package providers

import (
	"context"
	"fmt"

	"github.com/avelkov/draftforge/internal/common"
)

// Request is a single generation call. Model is the provider-side model
// name; Temperature and MaxTokens are optional (zero means provider
// default).
type Request struct {
	Model        string
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Response is the normalized result of a generation call.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	FinishReason string
}

// Provider is the opaque upstream capability: generate text for a prompt,
// returning content plus token counts, or a classifiable error.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Table maps provider names to implementations. Dispatch is a lookup, not
// type inspection.
type Table map[string]Provider

// For returns the provider registered under name, or
// common.ErrUnknownProvider.
func (t Table) For(name string) (Provider, error) {
	p, ok := t[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	return names
}
