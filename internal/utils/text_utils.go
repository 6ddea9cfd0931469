package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const truncationMarker = "\n[...内容过长，已截断...]"

// TextProcessor prepares entry text before it is sent to a model
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateContent cuts text to at most maxBytes bytes on a rune boundary
// and appends a marker when anything was dropped
func (tp *TextProcessor) TruncateContent(text string, maxBytes int) string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text
	}

	truncated := text[:maxBytes]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Entry content truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxBytes))

	return truncated + truncationMarker
}

// SanitizeUTF8 drops invalid UTF-8 bytes
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Entry content sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// PrepareContent sanitizes and truncates entry text in one operation
func (tp *TextProcessor) PrepareContent(text string, maxBytes int) string {
	return tp.TruncateContent(tp.SanitizeUTF8(text), maxBytes)
}

// LimitRunes shortens text to at most max runes. It does not add a marker.
func LimitRunes(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}

// UniqueLimited returns the first max distinct non-empty values, trimmed, in order
func UniqueLimited(values []string, max int) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		if max > 0 && len(out) >= max {
			break
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
