package llm

import (
	"context"
	"fmt"

	"github.com/bidwriter/backend/config"
	"github.com/bidwriter/backend/internal/domain"
)

// NewGenerator builds the rate-limited generator for the configured provider.
// A missing API key yields domain.ErrLLMNotConfigured.
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (domain.TextGenerator, error) {
	var (
		generator domain.TextGenerator
		err       error
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		generator, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
	case config.ProviderOpenAI:
		generator, err = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxTokens)
	case config.ProviderAnthropic:
		generator, err = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewRateLimited(generator, cfg.RequestsPerMinute), nil
}
