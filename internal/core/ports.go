package core

import (
	"context"
	"time"
)

// AnalysisStrategy turns entry text into an AnalysisResult
type AnalysisStrategy interface {
	// Analyze scores a single piece of content
	Analyze(ctx context.Context, content string) (*AnalysisResult, error)

	Name() string
	Description() string
	Method() AnalysisMethod

	// RequiresNetwork reports whether Analyze performs remote calls
	RequiresNetwork() bool

	// IsAvailable reports whether the strategy can be used right now. It never fails.
	IsAvailable(ctx context.Context) bool

	// RequiredConfigs lists the configuration keys the strategy depends on
	RequiredConfigs() []string

	// ValidateConfig checks that the required configuration is present and usable. It never fails.
	ValidateConfig(ctx context.Context) bool

	EstimatedDuration() time.Duration
	ConfidenceBaseline() float64
}

// BatchAnalyzer is implemented by strategies that can score several entries at once
type BatchAnalyzer interface {
	// AnalyzeBatch returns the successful results in input order. An empty slice means every item failed.
	AnalyzeBatch(ctx context.Context, contents []string) []BatchResult
}

// GenerateOptions overrides the provider defaults for a single call
type GenerateOptions struct {
	Model      string
	APIKey     string
	Parameters map[string]any
}

// LLMProvider is a remote text-generation backend
type LLMProvider interface {
	Name() string

	// RequiresAPIKey reports whether GenerateText needs an API key
	RequiresAPIKey() bool

	// GenerateText sends prompt as a single user message and returns the first completion
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// TestConnection performs a minimal real call and reports whether it succeeded
	TestConnection(ctx context.Context, apiKey string) bool

	// AvailableModels returns the static model catalog of the provider
	AvailableModels(ctx context.Context, apiKey string) []LLMModelInfo

	// EstimateCost returns the estimated USD cost of a call, or false when unknown
	EstimateCost(model string, inputTokens, outputTokens int) (float64, bool)
}

// ProviderResolver looks up a provider by its configured name
type ProviderResolver interface {
	Provider(name string) (LLMProvider, bool)
}

// Settings is the LLM configuration as seen by the analysis core
type Settings struct {
	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
}

// IsLLMConfigured reports whether both a provider and an API key are set
func (s Settings) IsLLMConfigured() bool {
	return s.LLMProvider != "" && s.LLMAPIKey != ""
}

// SettingsProvider exposes the current settings
type SettingsProvider interface {
	CurrentSettings() Settings
}

// EntryRepository persists entries together with their analysis
type EntryRepository interface {
	// Save inserts or replaces an entry
	Save(ctx context.Context, entry *Entry) error

	// Get retrieves an entry by ID
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns every entry, newest first
	List(ctx context.Context) ([]*Entry, error)

	// Delete removes an entry
	Delete(ctx context.Context, id string) error
}

// TagExtractor derives tags and display text from entry content
type TagExtractor interface {
	Extract(content string) []string
	DisplayContent(content string) string
	Clear()
}

// StrategySelector chooses the analysis strategy for each call
type StrategySelector interface {
	// Select returns the strategy to use now
	Select(ctx context.Context) AnalysisStrategy

	// Fallback returns the always-available strategy
	Fallback() AnalysisStrategy
}
