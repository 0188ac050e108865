package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pricofy/query-translator/internal/domain"
)

func TestSynthesize(t *testing.T) {
	const text = "Where is my package?"

	positive := Synthesize(text, domain.SentimentPositive)
	neutral := Synthesize(text, domain.SentimentNeutral)
	negative := Synthesize(text, domain.SentimentNegative)

	for _, got := range []string{positive, neutral, negative} {
		assert.Contains(t, got, text)
	}

	assert.Equal(t, positive, neutral, "positive and neutral share the acknowledgment template")
	assert.NotEqual(t, neutral, negative)
	assert.Contains(t, negative, "sorry")
}
