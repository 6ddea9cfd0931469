package gemini

import (
	"github.com/mikey/moodiary/internal/config"
	"go.uber.org/zap"
)

// Factory creates new instances of the Gemini provider
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini providers
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProvider creates a new Gemini provider
func (f *Factory) CreateProvider() (*Provider, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}
	gemini := f.cfg.GetGemini()

	return NewProvider(
		gemini.ModelName,
		llmCfg.MaxTokens,
		gemini.TopP,
		llmCfg.Timeout,
		f.logger,
	), nil
}
