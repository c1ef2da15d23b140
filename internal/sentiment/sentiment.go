// Package sentiment labels text as positive, negative, or neutral using
// VADER polarity scoring.
package sentiment

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Classify scores the polarity of text and maps it to a label. A compound
// score above zero is positive, below zero negative; zero (including
// empty input) is neutral.
func Classify(text string) Label {
	text = strings.TrimSpace(text)
	if text == "" {
		return Neutral
	}
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)
	switch {
	case score.Compound > 0:
		return Positive
	case score.Compound < 0:
		return Negative
	default:
		return Neutral
	}
}
