package config

import "os"

// parseEnv overlays provider credentials and the OpenRouter endpoint from
// the environment. Keys never travel through JSON files or flags.
func parseEnv(config *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.AnthropicAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		config.OpenRouterAPIKey = v
	}
	if v := os.Getenv("OPENROUTER_BASE_URL"); v != "" {
		config.OpenRouterBaseURL = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
}
