package lexicon

import (
	"testing"

	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	return NewScorer(New(nil, nil, zap.NewNop()))
}

func TestScoreClassifiesMood(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		name    string
		content string
		want    core.MoodType
	}{
		{name: "chinese positive", content: "今天很开心", want: core.MoodPositive},
		{name: "chinese negative", content: "工作压力好大，很焦虑", want: core.MoodNegative},
		{name: "negated positive", content: "今天不开心", want: core.MoodNegative},
		{name: "compound positive word", content: "今天天气不错", want: core.MoodPositive},
		{name: "english positive", content: "Had a really great day with friends", want: core.MoodPositive},
		{name: "english negated", content: "I am not happy about this", want: core.MoodNegative},
		{name: "no signal", content: "去超市买了牛奶", want: core.MoodNeutral},
		{name: "mixed", content: "开心又难过", want: core.MoodNeutral},
	}

	for _, tt := range tests {
		got := scorer.Score(tt.content)
		if got.Mood != tt.want {
			t.Fatalf("%s: Score(%q).Mood = %s, want %s", tt.name, tt.content, got.Mood, tt.want)
		}
		if got.Intensity < core.MinEmotionScore || got.Intensity > core.MaxEmotionScore {
			t.Fatalf("%s: intensity %d out of range", tt.name, got.Intensity)
		}
	}
}

func TestScoreEmptyContentIsNeutralZero(t *testing.T) {
	scorer := newTestScorer(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		got := scorer.Score(content)
		if got.Mood != core.MoodNeutral || got.Intensity != 0 {
			t.Fatalf("Score(%q) = %+v, want neutral/0", content, got)
		}
	}
}

func TestScoreDegreeAdverbRaisesIntensity(t *testing.T) {
	scorer := newTestScorer(t)

	plain := scorer.Score("开心")
	strong := scorer.Score("非常开心")
	if strong.Intensity <= plain.Intensity {
		t.Fatalf("expected degree adverb to raise intensity, plain=%d strong=%d", plain.Intensity, strong.Intensity)
	}
}

func TestScoreIntensityIsCapped(t *testing.T) {
	scorer := newTestScorer(t)

	got := scorer.Score("非常开心非常快乐非常幸福非常满足非常感动!!!!!")
	if got.Intensity != core.MaxEmotionScore {
		t.Fatalf("expected intensity capped at %d, got %d", core.MaxEmotionScore, got.Intensity)
	}
}

func TestCustomWordsExtendLexicon(t *testing.T) {
	scorer := NewScorer(New([]string{"Yay"}, []string{"emo"}, zap.NewNop()))

	if got := scorer.Score("yay").Mood; got != core.MoodPositive {
		t.Fatalf("expected custom positive word to score positive, got %s", got)
	}
	if got := scorer.Score("有点emo").Mood; got != core.MoodNegative {
		t.Fatalf("expected custom negative word to score negative, got %s", got)
	}
}
