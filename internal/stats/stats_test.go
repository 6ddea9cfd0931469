package stats

import (
	"testing"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

func TestSummarize(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)

	entries := []*core.Entry{
		{ID: "1", Tags: []string{"工作", "happy"}, CreatedAt: day1, Analysis: &core.AnalysisResult{MoodType: core.MoodPositive, EmotionScore: 80}},
		{ID: "2", Tags: []string{"工作"}, CreatedAt: day1.Add(time.Hour), Analysis: &core.AnalysisResult{MoodType: core.MoodPositive, EmotionScore: 60}},
		{ID: "3", CreatedAt: day2, Analysis: &core.AnalysisResult{MoodType: core.MoodNegative, EmotionScore: 40}},
		{ID: "4", Tags: []string{"旅行"}, CreatedAt: day2},
	}

	s := Summarize(entries)

	if s.Total != 4 || s.Analyzed != 3 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.MoodCounts[core.MoodPositive] != 2 || s.MoodCounts[core.MoodNegative] != 1 || s.MoodCounts[core.MoodNeutral] != 0 {
		t.Fatalf("unexpected mood counts: %v", s.MoodCounts)
	}
	if s.AverageScore != 60 {
		t.Fatalf("unexpected average: %v", s.AverageScore)
	}

	if len(s.Tags) != 3 || s.Tags[0] != (TagCount{Tag: "工作", Count: 2}) {
		t.Fatalf("unexpected tags: %+v", s.Tags)
	}
	if s.Tags[1].Tag != "happy" || s.Tags[2].Tag != "旅行" {
		t.Fatalf("expected ties ordered by tag, got %+v", s.Tags)
	}

	if len(s.Daily) != 2 {
		t.Fatalf("unexpected daily trend: %+v", s.Daily)
	}
	if s.Daily[0].Date != "2024-06-01" || s.Daily[0].Count != 2 || s.Daily[0].AverageScore != 70 || s.Daily[0].Dominant != core.MoodPositive {
		t.Fatalf("unexpected first day: %+v", s.Daily[0])
	}
	if s.Daily[1].Dominant != core.MoodNegative || s.Daily[1].Count != 1 {
		t.Fatalf("unexpected second day: %+v", s.Daily[1])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.AverageScore != 0 || len(s.Tags) != 0 || len(s.Daily) != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDominantTieIsNeutral(t *testing.T) {
	got := dominant(map[core.MoodType]int{core.MoodPositive: 1, core.MoodNegative: 1, core.MoodNeutral: 1})
	if got != core.MoodNeutral {
		t.Fatalf("expected neutral on tie, got %s", got)
	}
	got = dominant(map[core.MoodType]int{core.MoodPositive: 1, core.MoodNegative: 1})
	if got != core.MoodPositive {
		t.Fatalf("expected positive over negative on tie, got %s", got)
	}
}

func TestSince(t *testing.T) {
	now := time.Now()
	entries := []*core.Entry{
		{ID: "new", CreatedAt: now},
		{ID: "old", CreatedAt: now.AddDate(0, 0, -10)},
	}
	got := Since(entries, now.AddDate(0, 0, -7))
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
