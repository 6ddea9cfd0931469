package config

import (
	"fmt"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

// LLMConfig represents the configuration shared by every LLM provider
type LLMConfig struct {
	Provider       string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxTokens      int
	MaxContentSize int
}

// CompatibleProviderConfig represents an OpenAI-compatible chat-completion service
type CompatibleProviderConfig struct {
	BaseURL string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	ModelName string
	TopP      float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Enabled bool
	Region  string
	ModelID string
	TopP    float32
}

// AnalysisConfig selects the analysis strategy
type AnalysisConfig struct {
	Strategy string
}

// LexiconConfig holds extra words for the rule-based scorer
type LexiconConfig struct {
	PositiveWords []string
	NegativeWords []string
}

// StoreConfig selects the entry store backend
type StoreConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, fmt.Errorf("invalid llm timeout: %w", err)
	}
	return LLMConfig{
		Provider:       c.GetString("llm.provider"),
		APIKey:         c.GetString("llm.api_key"),
		Model:          c.GetString("llm.model"),
		Timeout:        timeout,
		MaxTokens:      c.GetInt("llm.max_tokens"),
		MaxContentSize: c.GetInt("llm.max_content_size"),
	}, nil
}

// GetCompatibleProvider returns the configuration of an OpenAI-compatible service
func (c *Config) GetCompatibleProvider(name string) CompatibleProviderConfig {
	return CompatibleProviderConfig{
		BaseURL: c.GetString("providers." + name + ".base_url"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		ModelName: c.GetString("gemini.model_name"),
		TopP:      float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Enabled: c.GetBool("bedrock.enabled"),
		Region:  c.GetString("bedrock.region"),
		ModelID: c.GetString("bedrock.model_id"),
		TopP:    float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetAnalysis returns the analysis configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Strategy: c.GetString("analysis.strategy"),
	}
}

// GetLexicon returns the lexicon configuration
func (c *Config) GetLexicon() LexiconConfig {
	return LexiconConfig{
		PositiveWords: c.GetStringSlice("lexicon.positive_words"),
		NegativeWords: c.GetStringSlice("lexicon.negative_words"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}

// CurrentSettings returns the LLM settings as currently configured.
// Values are read on every call so runtime changes are picked up.
func (c *Config) CurrentSettings() core.Settings {
	return core.Settings{
		LLMProvider: c.GetString("llm.provider"),
		LLMAPIKey:   c.GetString("llm.api_key"),
		LLMModel:    c.GetString("llm.model"),
	}
}
