// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the DraftForge server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public REST endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - ModelCatalogPath: JSON model catalog override. Empty uses the embedded catalog.
//   - CompareTaskTimeout: per-member deadline for comparison fan-out.
//   - RequestsPerMinute / RateBurst: per-provider rate limit.
//   - OpenAIAPIKey / AnthropicAPIKey / GeminiAPIKey / OpenRouterAPIKey:
//     provider credentials; a provider without a key is left unconfigured.
//   - OpenRouterBaseURL: OpenRouter-compatible endpoint.
type Config struct {
	EndpointAddrHTTP   string
	DatabaseDSN        string
	ModelCatalogPath   string
	CompareTaskTimeout time.Duration
	RequestsPerMinute  int
	RateBurst          int
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	GeminiAPIKey       string
	OpenRouterAPIKey   string
	OpenRouterBaseURL  string
}

// LoadDefaults populates Config with development defaults. Provider keys
// have no default and must come from the environment.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.ModelCatalogPath = ""
	c.CompareTaskTimeout = 30 * time.Second
	c.RequestsPerMinute = 60
	c.RateBurst = 10
	c.OpenRouterBaseURL = "https://openrouter.ai/api/v1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
