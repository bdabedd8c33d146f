package llm

import (
	"context"
	"fmt"
	"log"

	"goodtime-diagnostic/internal/config"
)

// NewProvider builds the configured provider wrapped with retry and
// logging. It returns nil when no provider is configured or the mock
// provider is selected.
func NewProvider(ctx context.Context, cfg *config.AIConfig) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
	case "mock":
		log.Println("LLM provider is mock: analyses use the fallback texts")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base), DefaultRetryConfig()), nil
}
