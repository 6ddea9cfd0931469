package lexicon

import (
	"strings"

	"go.uber.org/zap"
)

// Polarity of a sentiment word
type Polarity int

const (
	Negative Polarity = -1
	Positive Polarity = 1
)

var defaultPositive = []string{
	"开心", "高兴", "快乐", "幸福", "愉快", "满足", "满意", "兴奋", "喜欢", "爱", "感动", "感激", "感谢",
	"温暖", "轻松", "放松", "舒服", "美好", "成功", "顺利", "期待", "惊喜", "欣慰", "骄傲", "自豪",
	"棒", "好", "赞", "哈哈", "不错", "充实", "平静", "希望", "甜",
	"happy", "glad", "joy", "joyful", "great", "good", "love", "loved", "excited", "wonderful",
	"amazing", "awesome", "grateful", "thankful", "relaxed", "calm", "proud", "fun", "nice", "hope",
	"success", "successful", "enjoy", "enjoyed", "smile", "laugh", "peaceful", "fantastic",
}

var defaultNegative = []string{
	"难过", "伤心", "悲伤", "痛苦", "生气", "愤怒", "烦", "烦躁", "焦虑", "紧张", "害怕", "恐惧", "担心",
	"失望", "沮丧", "孤独", "寂寞", "累", "疲惫", "无聊", "压力", "崩溃", "讨厌", "后悔", "委屈",
	"郁闷", "糟糕", "失败", "哭", "头疼", "难受", "绝望", "心累",
	"sad", "angry", "upset", "anxious", "worried", "afraid", "scared", "tired", "exhausted",
	"lonely", "bored", "stress", "stressed", "depressed", "terrible", "awful", "bad", "hate",
	"cry", "cried", "fail", "failed", "failure", "disappointed", "frustrated", "annoyed", "miserable",
}

var defaultNegations = []string{
	"不", "没", "没有", "别", "未", "无", "不太", "并不",
	"not", "no", "never", "don't", "didn't", "isn't", "wasn't", "can't", "won't", "nothing",
}

var defaultDegrees = map[string]float64{
	"很": 1.5, "非常": 2.0, "特别": 2.0, "超级": 2.0, "太": 1.8, "十分": 1.8, "真": 1.5, "好": 1.3,
	"有点": 0.6, "有些": 0.7, "稍微": 0.5, "挺": 1.3, "极其": 2.2, "最": 2.0,
	"very": 1.5, "so": 1.5, "really": 1.5, "extremely": 2.2, "super": 2.0, "too": 1.8,
	"quite": 1.3, "slightly": 0.5, "somewhat": 0.7, "bit": 0.6, "incredibly": 2.2,
}

// Lexicon holds the vocabularies used by the rule-based scorer
type Lexicon struct {
	sentiment map[string]Polarity
	negations map[string]struct{}
	degrees   map[string]float64
	maxRunes  int
	logger    *zap.Logger
}

// New creates a lexicon from the built-in vocabularies plus the extra words
func New(extraPositive, extraNegative []string, logger *zap.Logger) *Lexicon {
	l := &Lexicon{
		sentiment: make(map[string]Polarity),
		negations: make(map[string]struct{}),
		degrees:   make(map[string]float64),
		logger:    logger,
	}

	for _, w := range defaultPositive {
		l.addSentiment(w, Positive)
	}
	for _, w := range defaultNegative {
		l.addSentiment(w, Negative)
	}
	for _, w := range defaultNegations {
		w = normalize(w)
		l.negations[w] = struct{}{}
		l.track(w)
	}
	for w, m := range defaultDegrees {
		w = normalize(w)
		l.degrees[w] = m
		l.track(w)
	}

	for _, w := range extraPositive {
		l.addSentiment(w, Positive)
	}
	for _, w := range extraNegative {
		l.addSentiment(w, Negative)
	}

	if (len(extraPositive) > 0 || len(extraNegative) > 0) && logger != nil {
		logger.Info("Loaded custom lexicon words",
			zap.Strings("positive", extraPositive),
			zap.Strings("negative", extraNegative))
	}

	return l
}

func (l *Lexicon) addSentiment(word string, p Polarity) {
	word = normalize(word)
	if word == "" {
		return
	}
	l.sentiment[word] = p
	l.track(word)
}

func (l *Lexicon) track(word string) {
	if n := len([]rune(word)); n > l.maxRunes {
		l.maxRunes = n
	}
}

// Sentiment returns the polarity of word, if it is a sentiment word
func (l *Lexicon) Sentiment(word string) (Polarity, bool) {
	p, ok := l.sentiment[word]
	return p, ok
}

// IsNegation reports whether word flips the polarity of the following sentiment word
func (l *Lexicon) IsNegation(word string) bool {
	_, ok := l.negations[word]
	return ok
}

// Degree returns the intensity multiplier of a degree adverb
func (l *Lexicon) Degree(word string) (float64, bool) {
	m, ok := l.degrees[word]
	return m, ok
}

// Contains reports whether word is known to the lexicon in any role
func (l *Lexicon) Contains(word string) bool {
	if _, ok := l.sentiment[word]; ok {
		return true
	}
	if _, ok := l.negations[word]; ok {
		return true
	}
	_, ok := l.degrees[word]
	return ok
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
