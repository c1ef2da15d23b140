package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyTextIsNeutral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Neutral, Classify(""))
	assert.Equal(t, Neutral, Classify("   \t\n"))
}

func TestClassifyPolarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Label
	}{
		{name: "positive", text: "I love this, it is wonderful and amazing", want: Positive},
		{name: "negative", text: "I hate this, it is terrible and awful", want: Negative},
		{name: "neutral", text: "the report is on the table", want: Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyAlwaysReturnsKnownLabel(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "ok", "great!", "worst day ever", "42", "það er gott",
		"mixed feelings: great product, horrible support",
	}
	for _, text := range inputs {
		label := Classify(text)
		if label != Positive && label != Negative && label != Neutral {
			t.Fatalf("unexpected label %q for %q", label, text)
		}
	}
}
