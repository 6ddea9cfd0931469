package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/moodiary/internal/config"
	"go.uber.org/zap"
)

// Factory creates Bedrock providers
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether Bedrock should be registered
func (f *Factory) Enabled() bool {
	return f.cfg.GetBedrock().Enabled
}

// CreateProvider creates a new Bedrock provider
func (f *Factory) CreateProvider(ctx context.Context) (*Provider, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewProvider(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		llmCfg.MaxTokens,
		bedrockCfg.TopP,
		llmCfg.Timeout,
		f.logger,
	), nil
}
