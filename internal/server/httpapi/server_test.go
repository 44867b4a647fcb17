package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelkov/draftforge/internal/logging"
	"github.com/avelkov/draftforge/internal/server/catalog"
	"github.com/avelkov/draftforge/internal/server/providers"
	"github.com/avelkov/draftforge/internal/server/repositories/drafts"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
	"github.com/avelkov/draftforge/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
  "models": [
    {"id": "gpt-test", "name": "gpt-test-1", "display_name": "GPT Test", "provider": "openai",
     "cost_per_1k_input": 0.001, "cost_per_1k_output": 0.002, "available": true},
    {"id": "claude-test", "name": "claude-test-1", "display_name": "Claude Test", "provider": "anthropic",
     "cost_per_1k_input": 0.003, "cost_per_1k_output": 0.015, "available": true}
  ]
}`

type stubProvider struct {
	name string
	fn   func(ctx context.Context, req providers.Request) (*providers.Response, error)
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(ctx context.Context, req providers.Request) (*providers.Response, error) {
	return p.fn(ctx, req)
}

func okStub(name string) *stubProvider {
	return &stubProvider{name: name, fn: func(ctx context.Context, req providers.Request) (*providers.Response, error) {
		return &providers.Response{Content: "generated text", InputTokens: 100, OutputTokens: 50, FinishReason: "stop"}, nil
	}}
}

func newTestHandler(t *testing.T, table providers.Table) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	reg, err := catalog.NewFromFile(path)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ledger := usage.NewInMemoryRepository()
	gen := services.NewGenerationService(reg, table, ledger, nil, logger)
	cmp := services.NewComparisonService(gen, reg, 0, logger)
	ds := services.NewDraftService(drafts.NewInMemoryRepository(), logger)
	an := services.NewAnalyticsService(ledger, logger)

	return NewServer(":0", reg, gen, cmp, ds, an, logger).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRootAndHealth(t *testing.T) {
	h := newTestHandler(t, providers.Table{})

	rec, body := doJSON(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DraftForge API", body["message"])

	rec, body = doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestModelList(t *testing.T) {
	h := newTestHandler(t, providers.Table{})

	rec, body := doJSON(t, h, http.MethodGet, "/api/models/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])
	assert.Len(t, body["models"], 2)
}

func TestModelCosts(t *testing.T) {
	h := newTestHandler(t, providers.Table{})

	rec, body := doJSON(t, h, http.MethodGet, "/api/models/costs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	entries := body["costs"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	// catalog is sorted by provider: anthropic first
	assert.Equal(t, "claude-test", first["model_id"])
	assert.InDelta(t, 0.018, first["cost_per_2k_tokens"].(float64), 1e-9)
}

func TestModelGenerate(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	rec, body := doJSON(t, h, http.MethodPost, "/api/models/generate", map[string]any{
		"model":  "gpt-test",
		"prompt": "write something",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "generated text", body["content"])
	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, "openai", body["provider"])

	tokens := body["tokens"].(map[string]any)
	assert.EqualValues(t, 100, tokens["input"])
	assert.EqualValues(t, 50, tokens["output"])
	assert.EqualValues(t, 150, tokens["total"])
	assert.InDelta(t, 0.0002, body["estimated_cost"].(float64), 1e-9)
}

func TestModelGenerateErrors(t *testing.T) {
	h := newTestHandler(t, providers.Table{
		"openai": &stubProvider{name: "openai", fn: func(ctx context.Context, req providers.Request) (*providers.Response, error) {
			return nil, &providers.Error{Provider: "openai", Kind: providers.KindUnavailable, Err: errors.New("down")}
		}},
	})

	rec, body := doJSON(t, h, http.MethodPost, "/api/models/generate", map[string]any{
		"model": "no-such-model", "prompt": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_model", body["error"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/models/generate", map[string]any{
		"model": "gpt-test", "prompt": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/models/generate", map[string]any{
		"model": "gpt-test", "prompt": "hi",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, string(providers.KindUnavailable), body["error"])
}

func TestModelTest(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	rec, body := doJSON(t, h, http.MethodPost, "/api/models/test", map[string]any{"provider": "openai"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", body["provider"])
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, true, body["accessible"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/models/test", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"])
}

func TestDraftGenerateAndSave(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	rec, body := doJSON(t, h, http.MethodPost, "/api/drafts/generate", map[string]any{
		"model":   "gpt-test",
		"context": "this week in Go",
		"title":   "Issue #1",
		"save":    true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	draft := body["draft"].(map[string]any)
	assert.Equal(t, "generated text", draft["content"])
	assert.Equal(t, "Issue #1", draft["title"])
	assert.NotEmpty(t, draft["id"])
	assert.EqualValues(t, 1, draft["version"])

	meta := body["metadata"].(map[string]any)
	assert.InDelta(t, 0.0002, meta["estimated_cost"].(float64), 1e-9)

	// the saved draft is retrievable
	rec, body = doJSON(t, h, http.MethodGet, "/api/drafts/"+draft["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saved := body["draft"].(map[string]any)
	assert.Equal(t, "generated text", saved["content"])
	assert.Equal(t, "gpt-test", saved["model_used"])
}

func TestDraftCompare(t *testing.T) {
	h := newTestHandler(t, providers.Table{
		"openai": okStub("openai"),
		"anthropic": &stubProvider{name: "anthropic", fn: func(ctx context.Context, req providers.Request) (*providers.Response, error) {
			return nil, &providers.Error{Provider: "anthropic", Kind: providers.KindUnavailable, Err: errors.New("down")}
		}},
	})

	rec, body := doJSON(t, h, http.MethodPost, "/api/drafts/compare", map[string]any{
		"models": []string{"gpt-test", "claude-test"},
		"prompt": "compare this",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	results := body["comparison"].([]any)
	require.Len(t, results, 2)

	ok := results[0].(map[string]any)
	assert.Equal(t, "gpt-test", ok["model"])
	assert.Equal(t, "generated text", ok["content"])

	failed := results[1].(map[string]any)
	assert.Equal(t, "claude-test", failed["model"])
	assert.Equal(t, "failed", failed["status"])
	assert.Equal(t, string(providers.KindUnavailable), failed["error"])
}

func TestDraftCompareValidation(t *testing.T) {
	h := newTestHandler(t, providers.Table{})

	rec, body := doJSON(t, h, http.MethodPost, "/api/drafts/compare", map[string]any{
		"models": []string{"gpt-test"},
		"prompt": "too few",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"])
}

func TestDraftVersionFlow(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	_, body := doJSON(t, h, http.MethodPost, "/api/drafts/generate", map[string]any{
		"model": "gpt-test", "context": "seed", "save": true,
	})
	id := body["draft"].(map[string]any)["id"].(string)

	rec, body := doJSON(t, h, http.MethodPost, "/api/drafts/"+id+"/versions", map[string]any{
		"content":         "revised text",
		"changes_summary": "tightened intro",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	v := body["version"].(map[string]any)
	assert.EqualValues(t, 2, v["version_number"])
	assert.Equal(t, id, v["draft_id"])
	assert.EqualValues(t, 2, body["draft"].(map[string]any)["version"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/drafts/"+id+"/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	rec, body = doJSON(t, h, http.MethodPost, "/api/drafts/missing/versions", map[string]any{"content": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])
}

func TestDraftList(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	for i := 0; i < 3; i++ {
		doJSON(t, h, http.MethodPost, "/api/drafts/generate", map[string]any{
			"model": "gpt-test", "context": "seed", "save": true,
		})
	}

	rec, body := doJSON(t, h, http.MethodGet, "/api/drafts/list?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["count"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/drafts/list?status=published", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/drafts/list?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"])
}

func TestAnalyticsEndpoints(t *testing.T) {
	h := newTestHandler(t, providers.Table{"openai": okStub("openai")})

	doJSON(t, h, http.MethodPost, "/api/models/generate", map[string]any{
		"model": "gpt-test", "prompt": "hello",
	})

	rec, body := doJSON(t, h, http.MethodGet, "/api/analytics/usage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["total_requests"])
	assert.EqualValues(t, 150, body["total_tokens"])
	assert.EqualValues(t, 30, body["period_days"])

	rec, body = doJSON(t, h, http.MethodGet, "/api/analytics/costs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all_time", body["period"])
	assert.EqualValues(t, 1, body["total_requests"])
	byModel := body["by_model"].(map[string]any)
	assert.Contains(t, byModel, "openai:gpt-test")

	rec, body = doJSON(t, h, http.MethodGet, "/api/analytics/usage?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"])
}

func TestInvalidJSONBody(t *testing.T) {
	h := newTestHandler(t, providers.Table{})

	req := httptest.NewRequest(http.MethodPost, "/api/models/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body["error"])
}
