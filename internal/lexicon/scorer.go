package lexicon

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/moodiary/internal/core"
)

var tokenPattern = regexp.MustCompile(`\p{Han}+|[\p{Latin}\p{N}']+|[!！]`)

const (
	// points per unit of weighted sentiment
	intensityScale = 25.0
	exclaimBonus   = 5.0
	maxExclaims    = 3
	// a modifier expires after this many unrelated terms
	modifierWindow = 2
	// weight kept by a negated sentiment word
	negationDamping = 0.8
	// nets below this are treated as mixed feelings
	mixedThreshold = 0.5
)

// Score is the output of the rule-based scorer
type Score struct {
	Mood      core.MoodType
	Intensity int
}

// Scorer computes a mood and intensity from keyword hits
type Scorer struct {
	lexicon *Lexicon
}

// NewScorer creates a scorer over the given lexicon
func NewScorer(lexicon *Lexicon) *Scorer {
	return &Scorer{lexicon: lexicon}
}

// Score classifies content. Empty content yields a neutral score of 0.
func (s *Scorer) Score(content string) Score {
	terms := s.terms(content)

	var positive, negative float64
	exclaims := 0
	negated := false
	degree := 1.0
	gap := 0

	reset := func() {
		negated = false
		degree = 1.0
		gap = 0
	}

	for i, t := range terms {
		if t == "!" || t == "！" {
			exclaims++
			continue
		}
		if s.lexicon.IsNegation(t) {
			negated = !negated
			gap = 0
			continue
		}
		if m, ok := s.lexicon.Degree(t); ok {
			_, isSentiment := s.lexicon.Sentiment(t)
			if !isSentiment || (i+1 < len(terms) && s.lexicon.Contains(terms[i+1])) {
				degree *= m
				gap = 0
				continue
			}
		}
		if p, ok := s.lexicon.Sentiment(t); ok {
			weight := degree
			if negated {
				p = -p
				weight *= negationDamping
			}
			if p == Positive {
				positive += weight
			} else {
				negative += weight
			}
			reset()
			continue
		}
		gap++
		if gap > modifierWindow {
			reset()
		}
	}

	intensity := positive + negative
	if intensity == 0 {
		return Score{Mood: core.MoodNeutral, Intensity: 0}
	}

	if exclaims > maxExclaims {
		exclaims = maxExclaims
	}
	points := int(math.Round(intensity*intensityScale + float64(exclaims)*exclaimBonus))
	if points > core.MaxEmotionScore {
		points = core.MaxEmotionScore
	}

	net := positive - negative
	mood := core.MoodNeutral
	switch {
	case net >= mixedThreshold:
		mood = core.MoodPositive
	case net <= -mixedThreshold:
		mood = core.MoodNegative
	}

	return Score{Mood: mood, Intensity: points}
}

// terms splits content into lexicon-sized terms. Latin words are kept whole, Han runs are
// segmented by forward maximum matching against the lexicon.
func (s *Scorer) terms(content string) []string {
	var out []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(content), -1) {
		r := []rune(tok)
		if len(r) == 0 || !unicode.Is(unicode.Han, r[0]) {
			out = append(out, tok)
			continue
		}
		out = append(out, s.segment(r)...)
	}
	return out
}

func (s *Scorer) segment(run []rune) []string {
	var out []string
	for i := 0; i < len(run); {
		matched := 1
		for n := s.lexicon.maxRunes; n > 1; n-- {
			if i+n > len(run) {
				continue
			}
			if s.lexicon.Contains(string(run[i : i+n])) {
				matched = n
				break
			}
		}
		out = append(out, string(run[i:i+matched]))
		i += matched
	}
	return out
}
