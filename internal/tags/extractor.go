package tags

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	tagPattern        = regexp.MustCompile(`#([\p{Han}\w]+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Extractor finds #tags in entry content and derives the text shown without them.
// Results are memoized per exact content string until Clear is called.
type Extractor struct {
	tags    *Cache[[]string]
	display *Cache[string]
	logger  *zap.Logger
}

// NewExtractor creates an extractor whose caches hold at most cacheSize entries each (0 = unbounded)
func NewExtractor(cacheSize int, logger *zap.Logger) *Extractor {
	return &Extractor{
		tags:    NewCache[[]string](cacheSize),
		display: NewCache[string](cacheSize),
		logger:  logger,
	}
}

// Extract returns the unique tags of content in first-seen order
func (e *Extractor) Extract(content string) []string {
	if cached, ok := e.tags.Get(content); ok {
		return clone(cached)
	}

	matches := tagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := m[1]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	e.tags.Set(content, result)
	return clone(result)
}

// DisplayContent returns content with its tags removed and whitespace collapsed
func (e *Extractor) DisplayContent(content string) string {
	if cached, ok := e.display.Get(content); ok {
		return cached
	}

	stripped := tagPattern.ReplaceAllString(content, "")
	display := strings.TrimSpace(whitespacePattern.ReplaceAllString(stripped, " "))

	e.display.Set(content, display)
	return display
}

// Clear drops both caches. Call it whenever the underlying entries change.
func (e *Extractor) Clear() {
	e.logger.Debug("Clearing tag caches",
		zap.Int("tag_entries", e.tags.Len()),
		zap.Int("display_entries", e.display.Len()))
	e.tags.Clear()
	e.display.Clear()
}

// CacheSizes returns the number of memoized tag and display entries
func (e *Extractor) CacheSizes() (int, int) {
	return e.tags.Len(), e.display.Len()
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
