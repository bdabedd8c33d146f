package config

import (
	"os"
	"strings"
)

// AIConfig selects and configures the language model behind the analysis
// endpoint
type AIConfig struct {
	// "openai", "gemini" or "mock". Empty picks the first provider with a key.
	Provider string `json:"provider"`

	OpenAIKey     string `json:"-"` // Never serialize
	OpenAIBaseURL string `json:"openaiBaseUrl,omitempty"`
	OpenAIModel   string `json:"openaiModel"`

	GeminiKey   string `json:"-"`
	GeminiModel string `json:"geminiModel"`

	TimeoutMS   int     `json:"timeoutMs"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	cfg := &AIConfig{
		Provider:      strings.ToLower(os.Getenv("LLM_PROVIDER")),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		TimeoutMS:     getInt("LLM_TIMEOUT_MS", 30000),
		MaxTokens:     800,
		Temperature:   0.7,
	}
	if cfg.Provider == "" {
		switch {
		case cfg.OpenAIKey != "":
			cfg.Provider = "openai"
		case cfg.GeminiKey != "":
			cfg.Provider = "gemini"
		}
	}
	return cfg
}

// IsEnabled returns true if a provider is selected
func (c *AIConfig) IsEnabled() bool {
	return c.Provider != ""
}

// Model returns the model of the selected provider
func (c *AIConfig) Model() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIModel
	case "gemini":
		return c.GeminiModel
	}
	return c.Provider
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
