package strategy

import (
	"context"
	"time"

	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/lexicon"
	"go.uber.org/zap"
)

const ruleConfidence = 0.7

// RuleStrategy scores entries offline with the keyword lexicon
type RuleStrategy struct {
	scorer *lexicon.Scorer
	logger *zap.Logger
	now    func() time.Time
}

// NewRuleStrategy creates a new rule-based strategy
func NewRuleStrategy(scorer *lexicon.Scorer, logger *zap.Logger) *RuleStrategy {
	return &RuleStrategy{
		scorer: scorer,
		logger: logger,
		now:    time.Now,
	}
}

// Analyze never fails; empty content is neutral with a score of 0
func (s *RuleStrategy) Analyze(ctx context.Context, content string) (*core.AnalysisResult, error) {
	score := s.scorer.Score(content)

	s.logger.Debug("Rule-based analysis completed",
		zap.String("mood", string(score.Mood)),
		zap.Int("score", score.Intensity))

	return &core.AnalysisResult{
		MoodType:       score.Mood,
		EmotionScore:   clampScore(score.Intensity),
		ExtractedTags:  []string{},
		AnalysisMethod: core.MethodRule,
		Confidence:     ruleConfidence,
		Timestamp:      s.now(),
	}, nil
}

// AnalyzeBatch scores every item; the rule scorer cannot fail
func (s *RuleStrategy) AnalyzeBatch(ctx context.Context, contents []string) []core.BatchResult {
	results := make([]core.BatchResult, 0, len(contents))
	for i, content := range contents {
		result, _ := s.Analyze(ctx, content)
		results = append(results, core.BatchResult{Index: i, Result: result})
	}
	return results
}

func (s *RuleStrategy) Name() string {
	return "rule_based"
}

func (s *RuleStrategy) Description() string {
	return "基于情绪词典的本地分析，离线可用"
}

func (s *RuleStrategy) Method() core.AnalysisMethod {
	return core.MethodRule
}

func (s *RuleStrategy) RequiresNetwork() bool {
	return false
}

func (s *RuleStrategy) IsAvailable(ctx context.Context) bool {
	return true
}

func (s *RuleStrategy) RequiredConfigs() []string {
	return []string{}
}

func (s *RuleStrategy) ValidateConfig(ctx context.Context) bool {
	return true
}

func (s *RuleStrategy) EstimatedDuration() time.Duration {
	return 10 * time.Millisecond
}

func (s *RuleStrategy) ConfidenceBaseline() float64 {
	return ruleConfidence
}

func clampScore(score int) int {
	if score < core.MinEmotionScore {
		return core.MinEmotionScore
	}
	if score > core.MaxEmotionScore {
		return core.MaxEmotionScore
	}
	return score
}
