package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/moodiary/internal/core"
	"golang.org/x/text/cases"
)

// TimeRange limits entries by creation time relative to now
type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ParseTimeRange parses a time range name. The empty string means all.
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeAll, RangeToday, RangeWeek, RangeMonth:
		return r, nil
	case "":
		return RangeAll, nil
	default:
		return "", fmt.Errorf("%w: unknown time range %q", core.ErrInvalidInput, s)
	}
}

// Criteria is a conjunction of optional predicates. Zero values mean no constraint.
type Criteria struct {
	// Query matches content or tags, ignoring case
	Query string
	Mood  core.MoodType
	Range TimeRange
	// MinScore and MaxScore bound the emotion score inclusively
	MinScore *int
	MaxScore *int
	Media    core.MediaCategory
}

// Filter returns the entries matching c, in input order
func Filter(entries []*core.Entry, c Criteria) []*core.Entry {
	return FilterAt(entries, c, time.Now())
}

// FilterAt is Filter evaluated against a fixed now
func FilterAt(entries []*core.Entry, c Criteria, now time.Time) []*core.Entry {
	// cases.Caser is not safe for concurrent use
	caser := cases.Fold()
	query := caser.String(strings.TrimSpace(c.Query))

	out := make([]*core.Entry, 0, len(entries))
	for _, e := range entries {
		if query != "" && !matchesQuery(caser, e, query) {
			continue
		}
		if c.Mood != "" && (e.Analysis == nil || e.Analysis.MoodType != c.Mood) {
			continue
		}
		if !inRange(e.CreatedAt, c.Range, now) {
			continue
		}
		if !scoreInRange(e, c.MinScore, c.MaxScore) {
			continue
		}
		if c.Media != "" && e.MediaCategory() != c.Media {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(caser cases.Caser, e *core.Entry, query string) bool {
	if strings.Contains(caser.String(e.Content), query) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(caser.String(tag), query) {
			return true
		}
	}
	return false
}

func inRange(created time.Time, r TimeRange, now time.Time) bool {
	switch r {
	case RangeToday:
		cy, cm, cd := created.In(now.Location()).Date()
		ny, nm, nd := now.Date()
		return cy == ny && cm == nm && cd == nd
	case RangeWeek:
		return !created.Before(now.AddDate(0, 0, -7))
	case RangeMonth:
		return !created.Before(now.AddDate(0, 0, -30))
	default:
		return true
	}
}

func scoreInRange(e *core.Entry, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	if e.Analysis == nil {
		return false
	}
	score := e.Analysis.EmotionScore
	if min != nil && score < *min {
		return false
	}
	if max != nil && score > *max {
		return false
	}
	return true
}
