package factory

import (
	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/lexicon"
	"github.com/mikey/moodiary/internal/strategy"
	"github.com/mikey/moodiary/internal/utils"
	"go.uber.org/zap"
)

// StrategyFactory creates the analysis strategies and their selector
type StrategyFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	registry      *ProviderRegistry
	textProcessor *utils.TextProcessor
}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory(
	cfg *config.Config,
	logger *zap.Logger,
	registry *ProviderRegistry,
	textProcessor *utils.TextProcessor,
) *StrategyFactory {
	return &StrategyFactory{
		cfg:           cfg,
		logger:        logger,
		registry:      registry,
		textProcessor: textProcessor,
	}
}

// CreateRuleStrategy creates the rule-based strategy with the configured extra words
func (f *StrategyFactory) CreateRuleStrategy() *strategy.RuleStrategy {
	lex := f.cfg.GetLexicon()
	return strategy.NewRuleStrategy(
		lexicon.NewScorer(lexicon.New(lex.PositiveWords, lex.NegativeWords, f.logger)),
		f.logger,
	)
}

// CreateLLMStrategy creates the LLM strategy. Settings are read from the live configuration.
func (f *StrategyFactory) CreateLLMStrategy() (*strategy.LLMStrategy, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}
	return strategy.NewLLMStrategy(f.cfg, f.registry, f.textProcessor, llmCfg.MaxContentSize, f.logger), nil
}

// CreateSelector creates the selector for the configured analysis mode
func (f *StrategyFactory) CreateSelector(rule *strategy.RuleStrategy, llm *strategy.LLMStrategy) (*strategy.Selector, error) {
	return strategy.NewSelector(
		f.cfg.GetAnalysis().Strategy,
		rule,
		llm,
		strategy.NewLocalStrategy(),
		f.logger,
	)
}
