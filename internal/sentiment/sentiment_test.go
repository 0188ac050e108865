package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pricofy/query-translator/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected domain.Sentiment
	}{
		{
			name:     "thank and great",
			text:     "Thank you, the support was great",
			expected: domain.SentimentPositive,
		},
		{
			name:     "problem and error",
			text:     "There is a problem, the app shows an error",
			expected: domain.SentimentNegative,
		},
		{
			name:     "no cues",
			text:     "What time do you open tomorrow?",
			expected: domain.SentimentNeutral,
		},
		{
			name:     "case insensitive",
			text:     "THANK YOU",
			expected: domain.SentimentPositive,
		},
		{
			name:     "substring match inside longer word",
			text:     "I am thankful",
			expected: domain.SentimentPositive,
		},
		{
			name:     "cues cancel out",
			text:     "Thanks, but the product is broken",
			expected: domain.SentimentNeutral,
		},
		{
			name:     "empty",
			text:     "",
			expected: domain.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

func TestScore_CountsEachCueOnce(t *testing.T) {
	assert.Equal(t, 1, Score("great great great"))
	assert.Equal(t, -2, Score("error error problem"))
}

func TestClassify_Deterministic(t *testing.T) {
	text := "My order never arrived and I want a refund"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text))
	}
	assert.Equal(t, domain.SentimentNegative, first)
}
