package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikey/moodiary/internal/core"
)

// Field names of the response schema
const (
	FieldIndex         = "index"
	FieldMoodType      = "moodType"
	FieldEmotionScore  = "emotionScore"
	FieldExtractedTags = "extractedTags"
	FieldReasoning     = "reasoning"
	FieldConfidence    = "confidence"
)

var requiredFields = []string{FieldMoodType, FieldEmotionScore, FieldExtractedTags, FieldReasoning, FieldConfidence}

// Analysis is a model response that passed schema validation
type Analysis struct {
	Index         int
	MoodType      string
	EmotionScore  int
	ExtractedTags []string
	Reasoning     string
	Confidence    float64
}

// ParseSingle validates a single-analysis response
func ParseSingle(raw string) (*Analysis, error) {
	value, err := decode(raw)
	if err != nil {
		return nil, err
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, formatErrorf("expected a JSON object, got %s", kindOf(value))
	}

	return validateObject(obj)
}

// ParseBatch validates a batch response holding exactly expected items indexed from 1
func ParseBatch(raw string, expected int) ([]Analysis, error) {
	value, err := decode(raw)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]any)
	if !ok {
		return nil, formatErrorf("expected a JSON array, got %s", kindOf(value))
	}
	if len(items) != expected {
		return nil, formatErrorf("expected %d items, got %d", expected, len(items))
	}

	results := make([]Analysis, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, formatErrorf("item %d: expected a JSON object, got %s", i+1, kindOf(item))
		}

		index, err := integerField(obj, FieldIndex)
		if err != nil {
			return nil, formatErrorf("item %d: %v", i+1, err)
		}
		if index != int64(i+1) {
			return nil, formatErrorf("item %d: index %d does not match position", i+1, index)
		}

		analysis, err := validateObject(obj)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		analysis.Index = int(index)
		results = append(results, *analysis)
	}

	return results, nil
}

// StripCodeFence removes optional surrounding code-fence markers and whitespace
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decode(raw string) (any, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, formatErrorf("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, formatErrorf("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, formatErrorf("unexpected content after JSON value")
	}

	return value, nil
}

func validateObject(obj map[string]any) (*Analysis, error) {
	for _, field := range requiredFields {
		if _, ok := obj[field]; !ok {
			return nil, formatErrorf("missing field %q", field)
		}
	}

	mood, ok := obj[FieldMoodType].(string)
	if !ok {
		return nil, formatErrorf("%s must be a string", FieldMoodType)
	}
	if _, known := core.ParseMoodType(mood); !known {
		return nil, formatErrorf("%s %q is not one of positive, negative, neutral", FieldMoodType, mood)
	}

	score, err := integerField(obj, FieldEmotionScore)
	if err != nil {
		return nil, formatErrorf("%v", err)
	}
	if score < core.MinEmotionScore || score > core.MaxEmotionScore {
		return nil, formatErrorf("%s %d out of range [0,100]", FieldEmotionScore, score)
	}

	rawTags, ok := obj[FieldExtractedTags].([]any)
	if !ok {
		return nil, formatErrorf("%s must be an array", FieldExtractedTags)
	}
	tags := make([]string, 0, len(rawTags))
	for i, t := range rawTags {
		tag, ok := t.(string)
		if !ok {
			return nil, formatErrorf("%s[%d] must be a string", FieldExtractedTags, i)
		}
		tags = append(tags, tag)
	}

	var reasoning string
	switch r := obj[FieldReasoning].(type) {
	case string:
		reasoning = r
	case nil:
	default:
		return nil, formatErrorf("%s must be a string", FieldReasoning)
	}

	num, ok := obj[FieldConfidence].(json.Number)
	if !ok {
		return nil, formatErrorf("%s must be a number", FieldConfidence)
	}
	confidence, err := num.Float64()
	if err != nil {
		return nil, formatErrorf("%s is not a valid number: %v", FieldConfidence, err)
	}
	if confidence < 0 || confidence > 1 {
		return nil, formatErrorf("%s %v out of range [0,1]", FieldConfidence, confidence)
	}

	return &Analysis{
		MoodType:      mood,
		EmotionScore:  int(score),
		ExtractedTags: tags,
		Reasoning:     reasoning,
		Confidence:    confidence,
	}, nil
}

func integerField(obj map[string]any, field string) (int64, error) {
	value, ok := obj[field]
	if !ok {
		return 0, fmt.Errorf("missing field %q", field)
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %s", field, num.String())
	}
	return n, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrFormat, fmt.Sprintf(format, args...))
}
