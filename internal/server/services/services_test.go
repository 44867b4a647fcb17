package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/providers"
	"github.com/stretchr/testify/require"
)

// testCatalog covers two providers with distinct rates plus an unavailable
// model, enough to exercise dispatch, cost metering, and probe selection.
const testCatalog = `{
  "models": [
    {"id": "gpt-test", "name": "gpt-test-1", "display_name": "GPT Test", "provider": "openai",
     "cost_per_1k_input": 0.001, "cost_per_1k_output": 0.002, "available": true},
    {"id": "gpt-cheap", "name": "gpt-cheap-1", "display_name": "GPT Cheap", "provider": "openai",
     "cost_per_1k_input": 0.0005, "cost_per_1k_output": 0.001, "available": true},
    {"id": "claude-test", "name": "claude-test-1", "display_name": "Claude Test", "provider": "anthropic",
     "cost_per_1k_input": 0.003, "cost_per_1k_output": 0.015, "available": true},
    {"id": "offline-model", "name": "offline-1", "display_name": "Offline", "provider": "offline",
     "cost_per_1k_input": 0.01, "cost_per_1k_output": 0.03, "available": false}
  ]
}`

func newTestRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	reg, err := catalog.NewFromFile(path)
	require.NoError(t, err)
	return reg
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeProvider delegates Generate to a test-supplied function.
type fakeProvider struct {
	name string
	fn   func(ctx context.Context, req providers.Request) (*providers.Response, error)
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(ctx context.Context, req providers.Request) (*providers.Response, error) {
	return p.fn(ctx, req)
}

func okResponse(in, out int) func(context.Context, providers.Request) (*providers.Response, error) {
	return func(ctx context.Context, req providers.Request) (*providers.Response, error) {
		return &providers.Response{
			Content:      "generated text",
			InputTokens:  in,
			OutputTokens: out,
			FinishReason: "stop",
		}, nil
	}
}
