// Package reply builds template replies to translated customer messages.
package reply

import (
	"fmt"

	"github.com/pricofy/query-translator/internal/domain"
)

const (
	acknowledgeTemplate = "Thank you for reaching out! We received your message: %q. " +
		"A member of our team will follow up with you shortly."

	apologyTemplate = "We're sorry for the trouble. Regarding your message %q, " +
		"could you share a few more details (order number, screenshots or the steps that led to the issue) " +
		"so we can resolve it as quickly as possible?"
)

// Synthesize returns a suggested English reply quoting translated.
// Negative messages get an apology asking for details, everything else an
// acknowledgment.
func Synthesize(translated string, s domain.Sentiment) string {
	if s == domain.SentimentNegative {
		return fmt.Sprintf(apologyTemplate, translated)
	}
	return fmt.Sprintf(acknowledgeTemplate, translated)
}
