package openai

import (
	"sort"

	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// Factory creates a Provider for every OpenAI-compatible preset
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAI-compatible providers
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProviders creates one provider per preset, in name order
func (f *Factory) CreateProviders() ([]core.LLMProvider, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	providers := make([]core.LLMProvider, 0, len(names))
	for _, name := range names {
		preset := Presets[name]
		compat := f.cfg.GetCompatibleProvider(name)
		providers = append(providers, NewProvider(
			preset,
			compat.BaseURL,
			llmCfg.MaxTokens,
			llmCfg.Timeout,
			f.logger,
		))
	}

	return providers, nil
}
