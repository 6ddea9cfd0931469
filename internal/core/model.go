package core

import (
	"time"
)

// MoodType is the emotional classification of an entry
type MoodType string

const (
	MoodPositive MoodType = "positive"
	MoodNegative MoodType = "negative"
	MoodNeutral  MoodType = "neutral"
)

// ParseMoodType returns the MoodType for s and whether s was one of the three known values
func ParseMoodType(s string) (MoodType, bool) {
	switch MoodType(s) {
	case MoodPositive, MoodNegative, MoodNeutral:
		return MoodType(s), true
	default:
		return MoodNeutral, false
	}
}

// AnalysisMethod identifies which strategy produced a result
type AnalysisMethod string

const (
	MethodRule  AnalysisMethod = "rule"
	MethodLLM   AnalysisMethod = "llm"
	MethodLocal AnalysisMethod = "local"
)

// Score bounds shared by every strategy
const (
	MinEmotionScore = 0
	MaxEmotionScore = 100
)

// Tag and reasoning ceilings for single and per-item batch analysis
const (
	MaxSingleTags      = 5
	MaxBatchTags       = 3
	MaxSingleReasoning = 100
	MaxBatchReasoning  = 50
)

// AnalysisResult is the canonical output of every analysis strategy.
// A result is created once per analysis and never modified afterwards.
type AnalysisResult struct {
	MoodType       MoodType       `json:"moodType"`
	EmotionScore   int            `json:"emotionScore"`
	ExtractedTags  []string       `json:"extractedTags"`
	Reasoning      string         `json:"reasoning,omitempty"`
	AnalysisMethod AnalysisMethod `json:"analysisMethod"`
	Confidence     float64        `json:"confidence"`
	Timestamp      time.Time      `json:"timestamp"`
}

// BatchResult is a successful batch item tagged with its position in the input
type BatchResult struct {
	Index  int
	Result *AnalysisResult
}

// LLMModelInfo describes a remote model offered by a provider
type LLMModelInfo struct {
	Name               string   `json:"name"`
	DisplayName        string   `json:"displayName"`
	ContextLength      int      `json:"contextLength"`
	SupportedLanguages []string `json:"supportedLanguages"`
	Available          bool     `json:"available"`
}

// MediaCategory classifies the attachments of an entry
type MediaCategory string

const (
	MediaText  MediaCategory = "text"
	MediaImage MediaCategory = "image"
)

// Entry is a journal entry with its optional analysis
type Entry struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	Tags       []string        `json:"tags"`
	ImagePaths []string        `json:"imagePaths,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Analysis   *AnalysisResult `json:"analysis,omitempty"`
}

// MediaCategory derives the media category from the entry attachments
func (e *Entry) MediaCategory() MediaCategory {
	if len(e.ImagePaths) > 0 {
		return MediaImage
	}
	return MediaText
}
