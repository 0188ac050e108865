// Package provider contains one adapter per external translation service.
//
// Adapters report only what their upstream actually returned. Filling gaps
// (sentiment, reply, language names) and sanitizing suspicious output is the
// normalize package's job.
package provider

import (
	"context"

	"github.com/pricofy/query-translator/internal/domain"
)

// Provider translates a message into English.
// A non-nil *Partial is a success; an error is a failure.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string) (*Partial, error)
}

// Partial is a provider's possibly incomplete answer.
type Partial struct {
	TranslatedText string
	// DetectedLanguage is either a friendly name or a raw ISO code.
	DetectedLanguage string
	// Sentiment is empty when the provider does not classify tone.
	Sentiment domain.Sentiment
	// SuggestedResponse is nil when the provider did not supply one.
	// A pointer to "" means the provider deliberately left it empty.
	SuggestedResponse *string
	// Alternates are other candidate translations, best first.
	Alternates []string
}
