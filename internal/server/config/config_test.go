package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "", c.ModelCatalogPath)
	assert.Equal(t, 30*time.Second, c.CompareTaskTimeout)
	assert.Equal(t, 60, c.RequestsPerMinute)
	assert.Equal(t, 10, c.RateBurst)
	assert.Equal(t, "https://openrouter.ai/api/v1", c.OpenRouterBaseURL)
	assert.Empty(t, c.OpenAIAPIKey)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Second, c.CompareTaskTimeout)
	assert.Equal(t, 60, c.RequestsPerMinute)
}

func TestParseEnv(t *testing.T) {
	// clear ambient credentials so the test is hermetic
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("DATABASE_DSN", "postgres://localhost/draftforge")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "sk-test", c.OpenAIAPIKey)
	assert.Equal(t, "http://localhost:9999/v1", c.OpenRouterBaseURL)
	assert.Equal(t, "postgres://localhost/draftforge", c.DatabaseDSN)
	assert.Empty(t, c.AnthropicAPIKey)
}
