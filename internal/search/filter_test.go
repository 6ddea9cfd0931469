package search

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

func intPtr(v int) *int { return &v }

func fixture(now time.Time) []*core.Entry {
	analysis := func(m core.MoodType, score int) *core.AnalysisResult {
		return &core.AnalysisResult{MoodType: m, EmotionScore: score}
	}
	return []*core.Entry{
		{ID: "today-happy", Content: "今天很开心 #工作", Tags: []string{"工作"}, CreatedAt: now.Add(-time.Minute), Analysis: analysis(core.MoodPositive, 80)},
		{ID: "yesterday-sad", Content: "Feeling SAD about the rain", Tags: []string{"Weather"}, CreatedAt: now.AddDate(0, 0, -1), Analysis: analysis(core.MoodNegative, 60)},
		{ID: "photo", Content: "", ImagePaths: []string{"a.jpg"}, CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "old-neutral", Content: "普通的一天", CreatedAt: now.AddDate(0, 0, -20), Analysis: analysis(core.MoodNeutral, 10)},
		{ID: "ancient", Content: "很久以前 #回忆", Tags: []string{"回忆"}, CreatedAt: now.AddDate(0, -3, 0), Analysis: analysis(core.MoodPositive, 95)},
	}
}

func ids(entries []*core.Entry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	entries := fixture(now)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "no constraints", criteria: Criteria{}, want: []string{"today-happy", "yesterday-sad", "photo", "old-neutral", "ancient"}},
		{name: "query content case-insensitive", criteria: Criteria{Query: "sad"}, want: []string{"yesterday-sad"}},
		{name: "query tag", criteria: Criteria{Query: "weather"}, want: []string{"yesterday-sad"}},
		{name: "query han", criteria: Criteria{Query: "工作"}, want: []string{"today-happy"}},
		{name: "mood", criteria: Criteria{Mood: core.MoodPositive}, want: []string{"today-happy", "ancient"}},
		{name: "today", criteria: Criteria{Range: RangeToday}, want: []string{"today-happy"}},
		{name: "week", criteria: Criteria{Range: RangeWeek}, want: []string{"today-happy", "yesterday-sad", "photo"}},
		{name: "month", criteria: Criteria{Range: RangeMonth}, want: []string{"today-happy", "yesterday-sad", "photo", "old-neutral"}},
		{name: "score range inclusive", criteria: Criteria{MinScore: intPtr(60), MaxScore: intPtr(80)}, want: []string{"today-happy", "yesterday-sad"}},
		{name: "min score only", criteria: Criteria{MinScore: intPtr(90)}, want: []string{"ancient"}},
		{name: "media image", criteria: Criteria{Media: core.MediaImage}, want: []string{"photo"}},
		{name: "conjunction", criteria: Criteria{Mood: core.MoodPositive, Range: RangeMonth}, want: []string{"today-happy"}},
		{name: "no match", criteria: Criteria{Query: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		got := ids(FilterAt(entries, tt.criteria, now))
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilterTodayUsesCalendarDay(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 30, 0, 0, time.Local)
	entries := []*core.Entry{
		{ID: "late-yesterday", CreatedAt: now.Add(-time.Hour)},
		{ID: "early-today", CreatedAt: now.Add(-10 * time.Minute)},
	}

	got := ids(FilterAt(entries, Criteria{Range: RangeToday}, now))
	if !reflect.DeepEqual(got, []string{"early-today"}) {
		t.Fatalf("got %v", got)
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	now := time.Now()
	entries := fixture(now)
	before := ids(entries)

	_ = Filter(entries, Criteria{Mood: core.MoodNegative})
	if !reflect.DeepEqual(ids(entries), before) {
		t.Fatal("input was modified")
	}
}

func TestParseTimeRange(t *testing.T) {
	for in, want := range map[string]TimeRange{"": RangeAll, "all": RangeAll, "Today": RangeToday, "week": RangeWeek, "month": RangeMonth} {
		got, err := ParseTimeRange(in)
		if err != nil || got != want {
			t.Fatalf("ParseTimeRange(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTimeRange("year"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
