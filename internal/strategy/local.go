package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

// LocalStrategy reserves a slot for on-device model inference. No local model
// ships with the application, so it is never available.
type LocalStrategy struct{}

// NewLocalStrategy creates the reserved local strategy
func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{}
}

func (s *LocalStrategy) Analyze(ctx context.Context, content string) (*core.AnalysisResult, error) {
	return nil, fmt.Errorf("%w: local model analysis is not available", core.ErrConfiguration)
}

func (s *LocalStrategy) Name() string {
	return "local_model"
}

func (s *LocalStrategy) Description() string {
	return "本地模型分析（预留）"
}

func (s *LocalStrategy) Method() core.AnalysisMethod {
	return core.MethodLocal
}

func (s *LocalStrategy) RequiresNetwork() bool {
	return false
}

func (s *LocalStrategy) IsAvailable(ctx context.Context) bool {
	return false
}

func (s *LocalStrategy) RequiredConfigs() []string {
	return []string{}
}

func (s *LocalStrategy) ValidateConfig(ctx context.Context) bool {
	return false
}

func (s *LocalStrategy) EstimatedDuration() time.Duration {
	return 500 * time.Millisecond
}

func (s *LocalStrategy) ConfidenceBaseline() float64 {
	return 0.75
}
