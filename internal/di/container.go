package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/factory"
	"github.com/mikey/moodiary/internal/logging"
	"github.com/mikey/moodiary/internal/strategy"
	"github.com/mikey/moodiary/internal/tags"
	"github.com/mikey/moodiary/internal/utils"
)

// Options controls how the container loads configuration and logs
type Options struct {
	// ConfigFile is an explicit configuration file; empty searches the default locations
	ConfigFile string
	// Verbose forces debug logging
	Verbose bool
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(opts.ConfigFile)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config) core.SettingsProvider {
		return cfg
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		return logging.InitConsoleLogger(cfg, opts.Verbose)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStrategyFactory); err != nil {
		return nil, err
	}

	// Register LLM providers
	if err := container.Provide(func(f *factory.LLMFactory) (*factory.ProviderRegistry, error) {
		return f.CreateRegistry()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *factory.ProviderRegistry) core.ProviderResolver {
		return r
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register entry repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.EntryRepository, error) {
		return f.CreateEntryRepository()
	}); err != nil {
		return nil, err
	}

	// Register tag extractor
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *tags.Extractor {
		return tags.NewExtractor(cfg.GetInt("tags.cache_size"), logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(e *tags.Extractor) core.TagExtractor {
		return e
	}); err != nil {
		return nil, err
	}

	// Register strategies
	if err := container.Provide(func(f *factory.StrategyFactory) *strategy.RuleStrategy {
		return f.CreateRuleStrategy()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StrategyFactory) (*strategy.LLMStrategy, error) {
		return f.CreateLLMStrategy()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		f *factory.StrategyFactory,
		rule *strategy.RuleStrategy,
		llm *strategy.LLMStrategy,
	) (*strategy.Selector, error) {
		return f.CreateSelector(rule, llm)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *strategy.Selector) core.StrategySelector {
		return s
	}); err != nil {
		return nil, err
	}

	// Register journal service
	if err := container.Provide(core.NewJournalService); err != nil {
		return nil, err
	}

	return container, nil
}
