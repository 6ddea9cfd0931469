package strategy

import (
	"context"
	"fmt"

	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// Mode names an analysis strategy selection policy
type Mode string

const (
	// ModeAuto uses the LLM when it is available and the rule scorer otherwise
	ModeAuto  Mode = "auto"
	ModeRule  Mode = "rule"
	ModeLLM   Mode = "llm"
	ModeLocal Mode = "local"
)

// Selector picks the strategy for each analysis
type Selector struct {
	mode   Mode
	rule   core.AnalysisStrategy
	llm    core.AnalysisStrategy
	local  core.AnalysisStrategy
	logger *zap.Logger
}

// NewSelector creates a selector for mode. rule must always be available.
func NewSelector(
	mode string,
	rule core.AnalysisStrategy,
	llm core.AnalysisStrategy,
	local core.AnalysisStrategy,
	logger *zap.Logger,
) (*Selector, error) {
	m := Mode(mode)
	switch m {
	case ModeAuto, ModeRule, ModeLLM, ModeLocal:
	case "":
		m = ModeAuto
	default:
		return nil, fmt.Errorf("%w: unsupported analysis strategy: %s", core.ErrConfiguration, mode)
	}

	return &Selector{
		mode:   m,
		rule:   rule,
		llm:    llm,
		local:  local,
		logger: logger,
	}, nil
}

// Select returns the strategy to use now. Unavailable choices degrade to the rule strategy.
func (s *Selector) Select(ctx context.Context) core.AnalysisStrategy {
	var preferred core.AnalysisStrategy
	switch s.mode {
	case ModeRule:
		return s.rule
	case ModeLLM, ModeAuto:
		preferred = s.llm
	case ModeLocal:
		preferred = s.local
	}

	if preferred != nil && preferred.IsAvailable(ctx) {
		return preferred
	}

	if s.mode != ModeAuto {
		s.logger.Warn("Selected strategy unavailable, using rule-based analysis",
			zap.String("mode", string(s.mode)))
	}
	return s.rule
}

// Fallback returns the always-available strategy
func (s *Selector) Fallback() core.AnalysisStrategy {
	return s.rule
}

// Strategies returns every known strategy
func (s *Selector) Strategies() []core.AnalysisStrategy {
	out := []core.AnalysisStrategy{s.rule}
	if s.llm != nil {
		out = append(out, s.llm)
	}
	if s.local != nil {
		out = append(out, s.local)
	}
	return out
}

// Mode returns the configured selection policy
func (s *Selector) Mode() Mode {
	return s.mode
}
