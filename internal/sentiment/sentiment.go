// Package sentiment provides a keyword heuristic for the tone of English text.
package sentiment

import (
	"strings"

	"github.com/pricofy/query-translator/internal/domain"
)

// Cue lists are matched as plain substrings of the lower-cased text, so
// "thank" also matches "thanks" and "thankful".
var (
	positiveCues = []string{
		"thank", "great", "good", "love", "excellent", "happy", "appreciate",
		"awesome", "wonderful", "perfect", "pleased", "helpful", "amazing",
	}

	negativeCues = []string{
		"problem", "error", "bad", "issue", "broken", "fail", "angry",
		"terrible", "refund", "wrong", "not working", "disappoint",
		"complain", "worst", "hate", "cancel", "never arrived", "delay",
	}
)

// Classify scores text +1 for every positive cue it contains and -1 for
// every negative cue. Each cue counts at most once.
func Classify(text string) domain.Sentiment {
	switch s := Score(text); {
	case s > 0:
		return domain.SentimentPositive
	case s < 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Score returns the raw cue balance behind Classify.
func Score(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, cue := range positiveCues {
		if strings.Contains(lower, cue) {
			score++
		}
	}
	for _, cue := range negativeCues {
		if strings.Contains(lower, cue) {
			score--
		}
	}
	return score
}
