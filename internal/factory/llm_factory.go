package factory

import (
	"context"
	"fmt"

	"github.com/mikey/moodiary/internal/adapters/bedrock"
	"github.com/mikey/moodiary/internal/adapters/gemini"
	"github.com/mikey/moodiary/internal/adapters/openai"
	"github.com/mikey/moodiary/internal/config"
	"go.uber.org/zap"
)

// LLMFactory creates the provider registry
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRegistry registers every OpenAI-compatible preset, Gemini, and Bedrock
// when it is enabled
func (f *LLMFactory) CreateRegistry() (*ProviderRegistry, error) {
	registry := NewProviderRegistry()

	compatible, err := openai.NewFactory(f.cfg, f.logger).CreateProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI-compatible providers: %w", err)
	}
	for _, p := range compatible {
		registry.Register(p)
	}

	geminiProvider, err := gemini.NewFactory(f.cfg, f.logger).CreateProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
	}
	registry.Register(geminiProvider)

	bedrockFactory := bedrock.NewFactory(f.cfg, f.logger)
	if bedrockFactory.Enabled() {
		bedrockProvider, err := bedrockFactory.CreateProvider(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock provider: %w", err)
		}
		registry.Register(bedrockProvider)
	}

	f.logger.Debug("LLM providers registered", zap.Strings("providers", registry.Names()))
	return registry, nil
}
