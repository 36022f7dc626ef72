// Package sentiment scores review text against fixed positive and negative
// word lists.
package sentiment

import (
	"regexp"
	"strings"
)

type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Score thresholds for a non-neutral label.
const (
	PositiveThreshold = 2
	NegativeThreshold = -2
)

var emojis = map[Label]string{
	Positive: "😊",
	Neutral:  "😐",
	Negative: "😞",
}

var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "love", "loved", "like", "liked", "awesome",
	"fantastic", "wonderful", "perfect", "nice", "enjoy", "enjoyed", "best", "cool",
	"happy", "pleased", "satisfied", "recommend", "brilliant", "superb",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "hate", "hated", "dislike", "disliked", "poor",
	"worse", "worst", "boring", "buggy", "slow", "trash", "horrible", "sad",
	"angry", "disappointed", "issue", "problem", "refund", "waste", "broken",
)

var nonWord = regexp.MustCompile(`[^a-z0-9\s]+`)

// Result is the outcome of scoring a piece of text.
type Result struct {
	Label Label  `json:"label"`
	Emoji string `json:"emoji"`
	Score int    `json:"score"`
}

// Analyze scores text: +1 per positive word, -1 per negative word.
// Matching is case and punctuation insensitive.
func Analyze(text string) Result {
	score := 0
	for _, token := range tokenize(text) {
		if _, ok := positiveWords[token]; ok {
			score++
		}
		if _, ok := negativeWords[token]; ok {
			score--
		}
	}

	label := Neutral
	switch {
	case score >= PositiveThreshold:
		label = Positive
	case score <= NegativeThreshold:
		label = Negative
	}

	return Result{Label: label, Emoji: label.Emoji(), Score: score}
}

// Emoji returns the display glyph for the label.
func (l Label) Emoji() string {
	return emojis[l]
}

func tokenize(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
