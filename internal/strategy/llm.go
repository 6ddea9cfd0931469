package strategy

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/prompt"
	"github.com/mikey/moodiary/internal/utils"
	"go.uber.org/zap"
)

const (
	llmTemperature = 0.3
	llmConfidence  = 0.8
)

// LLMStrategy analyzes entries with the configured remote provider
type LLMStrategy struct {
	settings       core.SettingsProvider
	providers      core.ProviderResolver
	textProcessor  *utils.TextProcessor
	maxContentSize int
	logger         *zap.Logger
	now            func() time.Time

	unknownMoods atomic.Int64
}

// NewLLMStrategy creates a new LLM strategy. Content longer than maxContentSize
// bytes is truncated before prompting; 0 disables truncation.
func NewLLMStrategy(
	settings core.SettingsProvider,
	providers core.ProviderResolver,
	textProcessor *utils.TextProcessor,
	maxContentSize int,
	logger *zap.Logger,
) *LLMStrategy {
	return &LLMStrategy{
		settings:       settings,
		providers:      providers,
		textProcessor:  textProcessor,
		maxContentSize: maxContentSize,
		logger:         logger,
		now:            time.Now,
	}
}

// Analyze runs a single-entry analysis. Every failure after input validation is
// returned as a *core.AnalysisError wrapping its cause.
func (s *LLMStrategy) Analyze(ctx context.Context, content string) (*core.AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", core.ErrInvalidInput)
	}

	provider, settings, err := s.resolve()
	if err != nil {
		return nil, &core.AnalysisError{Err: err}
	}

	raw, err := s.generate(ctx, provider, settings, prompt.BuildSingle(s.prepare(content)))
	if err != nil {
		return nil, &core.AnalysisError{Err: err}
	}

	analysis, err := prompt.ParseSingle(raw)
	if err != nil {
		s.logger.Warn("LLM response failed validation",
			zap.String("provider", provider.Name()),
			zap.Error(err))
		return nil, &core.AnalysisError{Err: err}
	}

	return s.toResult(analysis, core.MaxSingleTags, core.MaxSingleReasoning), nil
}

// AnalyzeBatch analyzes several entries with one combined request, falling back
// to one request per entry when the combined request fails. Failed entries are
// skipped; an empty slice means every entry failed.
func (s *LLMStrategy) AnalyzeBatch(ctx context.Context, contents []string) []core.BatchResult {
	switch len(contents) {
	case 0:
		return []core.BatchResult{}
	case 1:
		return s.analyzeSequentially(ctx, contents)
	}

	results, err := s.tryBatch(ctx, contents)
	if err == nil {
		return results
	}

	s.logger.Warn("Batch analysis failed, falling back to per-entry analysis",
		zap.Int("entries", len(contents)),
		zap.Error(err))

	return s.analyzeSequentially(ctx, contents)
}

func (s *LLMStrategy) tryBatch(ctx context.Context, contents []string) ([]core.BatchResult, error) {
	prepared := make([]string, len(contents))
	for i, content := range contents {
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("%w: entry %d is empty", core.ErrInvalidInput, i+1)
		}
		prepared[i] = s.prepare(content)
	}

	provider, settings, err := s.resolve()
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, provider, settings, prompt.BuildBatch(prepared))
	if err != nil {
		return nil, err
	}

	items, err := prompt.ParseBatch(raw, len(contents))
	if err != nil {
		return nil, err
	}

	results := make([]core.BatchResult, len(items))
	for i := range items {
		results[i] = core.BatchResult{
			Index:  i,
			Result: s.toResult(&items[i], core.MaxBatchTags, core.MaxBatchReasoning),
		}
	}
	return results, nil
}

func (s *LLMStrategy) analyzeSequentially(ctx context.Context, contents []string) []core.BatchResult {
	results := make([]core.BatchResult, 0, len(contents))
	for i, content := range contents {
		if ctx.Err() != nil {
			s.logger.Warn("Per-entry analysis cancelled",
				zap.Int("completed", len(results)),
				zap.Int("remaining", len(contents)-i))
			break
		}

		result, err := s.Analyze(ctx, content)
		if err != nil {
			s.logger.Warn("Skipping entry that failed analysis",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		results = append(results, core.BatchResult{Index: i, Result: result})
	}
	return results
}

func (s *LLMStrategy) resolve() (core.LLMProvider, core.Settings, error) {
	settings := s.settings.CurrentSettings()
	if settings.LLMProvider == "" {
		return nil, settings, fmt.Errorf("%w: LLM provider is not set", core.ErrConfiguration)
	}

	provider, ok := s.providers.Provider(settings.LLMProvider)
	if !ok {
		return nil, settings, fmt.Errorf("%w: unknown LLM provider %q", core.ErrConfiguration, settings.LLMProvider)
	}
	if provider.RequiresAPIKey() && settings.LLMAPIKey == "" {
		return nil, settings, fmt.Errorf("%w: API key for %s is not set", core.ErrConfiguration, settings.LLMProvider)
	}

	return provider, settings, nil
}

func (s *LLMStrategy) generate(ctx context.Context, provider core.LLMProvider, settings core.Settings, promptText string) (string, error) {
	s.logger.Debug("Sending analysis prompt",
		zap.String("provider", provider.Name()),
		zap.Int("prompt_size", len(promptText)))

	return provider.GenerateText(ctx, promptText, core.GenerateOptions{
		Model:  settings.LLMModel,
		APIKey: settings.LLMAPIKey,
		Parameters: map[string]any{
			"temperature": llmTemperature,
		},
	})
}

func (s *LLMStrategy) prepare(content string) string {
	return s.textProcessor.PrepareContent(content, s.maxContentSize)
}

func (s *LLMStrategy) toResult(a *prompt.Analysis, maxTags, maxReasoning int) *core.AnalysisResult {
	mood, ok := core.ParseMoodType(a.MoodType)
	if !ok {
		s.unknownMoods.Add(1)
		s.logger.Warn("Unrecognized mood type, defaulting to neutral",
			zap.String("mood", a.MoodType))
	}

	return &core.AnalysisResult{
		MoodType:       mood,
		EmotionScore:   clampScore(a.EmotionScore),
		ExtractedTags:  utils.UniqueLimited(a.ExtractedTags, maxTags),
		Reasoning:      utils.LimitRunes(a.Reasoning, maxReasoning),
		AnalysisMethod: core.MethodLLM,
		Confidence:     a.Confidence,
		Timestamp:      s.now(),
	}
}

// UnknownMoodCount reports how many model responses had their mood defaulted to neutral
func (s *LLMStrategy) UnknownMoodCount() int64 {
	return s.unknownMoods.Load()
}

func (s *LLMStrategy) Name() string {
	return "llm"
}

func (s *LLMStrategy) Description() string {
	return "调用大语言模型分析情绪，需要网络和 API Key"
}

func (s *LLMStrategy) Method() core.AnalysisMethod {
	return core.MethodLLM
}

func (s *LLMStrategy) RequiresNetwork() bool {
	return true
}

// IsAvailable reports whether a provider is configured and has the credentials it needs
func (s *LLMStrategy) IsAvailable(ctx context.Context) bool {
	_, _, err := s.resolve()
	return err == nil
}

func (s *LLMStrategy) RequiredConfigs() []string {
	return []string{"llm.provider", "llm.api_key"}
}

// ValidateConfig probes the configured provider with a minimal request
func (s *LLMStrategy) ValidateConfig(ctx context.Context) bool {
	provider, settings, err := s.resolve()
	if err != nil {
		s.logger.Debug("LLM configuration incomplete", zap.Error(err))
		return false
	}
	return provider.TestConnection(ctx, settings.LLMAPIKey)
}

func (s *LLMStrategy) EstimatedDuration() time.Duration {
	return 3 * time.Second
}

func (s *LLMStrategy) ConfidenceBaseline() float64 {
	return llmConfidence
}
