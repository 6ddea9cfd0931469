package stats

import (
	"sort"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

const dayLayout = "2006-01-02"

// TagCount is the number of entries carrying a tag
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// DailyMood aggregates the analyzed entries of one local calendar day
type DailyMood struct {
	Date         string        `json:"date"`
	Count        int           `json:"count"`
	AverageScore float64       `json:"averageScore"`
	Dominant     core.MoodType `json:"dominant"`
}

// Summary is an overview of a set of entries
type Summary struct {
	Total        int                   `json:"total"`
	Analyzed     int                   `json:"analyzed"`
	MoodCounts   map[core.MoodType]int `json:"moodCounts"`
	AverageScore float64               `json:"averageScore"`
	Tags         []TagCount            `json:"tags"`
	Daily        []DailyMood           `json:"daily"`
}

// Summarize computes mood counts, the average score, tag frequencies and a
// per-day trend. Entries without analysis only count towards Total and Tags.
func Summarize(entries []*core.Entry) Summary {
	s := Summary{
		Total: len(entries),
		MoodCounts: map[core.MoodType]int{
			core.MoodPositive: 0,
			core.MoodNegative: 0,
			core.MoodNeutral:  0,
		},
		Tags:  []TagCount{},
		Daily: []DailyMood{},
	}

	type day struct {
		count int
		total int
		moods map[core.MoodType]int
	}
	days := make(map[string]*day)
	tags := make(map[string]int)
	scoreTotal := 0

	for _, e := range entries {
		for _, tag := range e.Tags {
			tags[tag]++
		}

		if e.Analysis == nil {
			continue
		}
		s.Analyzed++
		s.MoodCounts[e.Analysis.MoodType]++
		scoreTotal += e.Analysis.EmotionScore

		key := e.CreatedAt.Local().Format(dayLayout)
		d, ok := days[key]
		if !ok {
			d = &day{moods: make(map[core.MoodType]int)}
			days[key] = d
		}
		d.count++
		d.total += e.Analysis.EmotionScore
		d.moods[e.Analysis.MoodType]++
	}

	if s.Analyzed > 0 {
		s.AverageScore = float64(scoreTotal) / float64(s.Analyzed)
	}

	for tag, count := range tags {
		s.Tags = append(s.Tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(s.Tags, func(i, j int) bool {
		if s.Tags[i].Count != s.Tags[j].Count {
			return s.Tags[i].Count > s.Tags[j].Count
		}
		return s.Tags[i].Tag < s.Tags[j].Tag
	})

	for key, d := range days {
		s.Daily = append(s.Daily, DailyMood{
			Date:         key,
			Count:        d.count,
			AverageScore: float64(d.total) / float64(d.count),
			Dominant:     dominant(d.moods),
		})
	}
	sort.Slice(s.Daily, func(i, j int) bool {
		return s.Daily[i].Date < s.Daily[j].Date
	})

	return s
}

// dominant picks the most frequent mood; ties resolve to neutral, then positive
func dominant(moods map[core.MoodType]int) core.MoodType {
	best := core.MoodNeutral
	for _, m := range []core.MoodType{core.MoodPositive, core.MoodNegative} {
		if moods[m] > moods[best] {
			best = m
		}
	}
	return best
}

// Since returns the entries created at or after t
func Since(entries []*core.Entry, t time.Time) []*core.Entry {
	out := make([]*core.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.CreatedAt.Before(t) {
			out = append(out, e)
		}
	}
	return out
}
