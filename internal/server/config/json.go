package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avelkov/draftforge/internal/flagx"
	"github.com/avelkov/draftforge/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30s" and integer nanoseconds. Provider keys are
// deliberately absent: credentials come from the environment only.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	ModelCatalogPath   string         `json:"model_catalog_path"`
	CompareTaskTimeout timex.Duration `json:"compare_task_timeout"`
	RequestsPerMinute  int            `json:"requests_per_minute"`
	RateBurst          int            `json:"rate_burst"`
	OpenRouterBaseURL  string         `json:"openrouter_base_url"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Absent flag means nothing is loaded; unset fields keep
// their current values. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.ModelCatalogPath != "" {
		config.ModelCatalogPath = c.ModelCatalogPath
	}
	if c.CompareTaskTimeout.Duration != 0 {
		config.CompareTaskTimeout = time.Duration(c.CompareTaskTimeout.Duration)
	}
	if c.RequestsPerMinute != 0 {
		config.RequestsPerMinute = c.RequestsPerMinute
	}
	if c.RateBurst != 0 {
		config.RateBurst = c.RateBurst
	}
	if c.OpenRouterBaseURL != "" {
		config.OpenRouterBaseURL = c.OpenRouterBaseURL
	}
}
