package prediction

import (
	"context"
	"fmt"

	"github.com/Skufu/strokerisk/internal/config"
)

// NewGenerator builds the generator selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AI) (Generator, error) {
	switch cfg.Provider {
	case "", config.ProviderGemini:
		return NewGeminiGenerator(ctx, GeminiConfig{APIKey: cfg.GeminiAPIKey})
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewGatewayFromConfig wires the configured provider and model.
func NewGatewayFromConfig(ctx context.Context, cfg config.AI) (*Gateway, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewGateway(gen, cfg.Model()), nil
}
