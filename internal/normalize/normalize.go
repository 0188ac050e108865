// Package normalize turns a provider's partial answer into a complete
// domain.TranslationResult.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pricofy/query-translator/internal/domain"
	"github.com/pricofy/query-translator/internal/provider"
	"github.com/pricofy/query-translator/internal/reply"
	"github.com/pricofy/query-translator/internal/sentiment"
)

// ReplyPolicy decides what happens when a provider supplied no reply.
type ReplyPolicy int

const (
	// ReplySynthesize fills a missing reply from the template synthesizer.
	ReplySynthesize ReplyPolicy = iota
	// ReplyOmit leaves a missing reply empty. Used for translation-only
	// providers.
	ReplyOmit
)

func (p ReplyPolicy) String() string {
	if p == ReplyOmit {
		return "omit"
	}
	return "synthesize"
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
}

// LanguageName maps an ISO-639-1 code (optionally with a region suffix such
// as "pt-BR") to a friendly name. Unknown codes and names that are already
// friendly pass through unchanged; blank input yields domain.UnknownLanguage.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.UnknownLanguage
	}
	base := strings.ToLower(code)
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	if name, ok := languageNames[base]; ok {
		return name
	}
	return code
}

// suspectMinLength is the length above which all-caps output is treated as
// a diagnostic. Legitimately shouted translations can trip this.
const suspectMinLength = 40

// IsSuspect reports whether s looks like a provider diagnostic rather than
// a translation.
func IsSuspect(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "langpair") || strings.Contains(lower, "invalid source") {
		return true
	}
	return utf8.RuneCountInString(s) > suspectMinLength && isAllUpper(s)
}

// isAllUpper reports whether s has at least one letter and no lower-case
// letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// firstClean returns the first non-blank, non-suspect alternate, or "".
func firstClean(alternates []string) string {
	for _, alt := range alternates {
		if strings.TrimSpace(alt) != "" && !IsSuspect(alt) {
			return alt
		}
	}
	return ""
}

// Normalize completes p for the original query. A blank or diagnostic
// translation is replaced by the first clean alternate, then by query.
//
// When the translation is a diagnostic and no clean alternate exists, the
// returned result falls back to query and the error is a
// provider.KindResponseSuspect, so callers may try another provider.
func Normalize(providerName, query string, p *provider.Partial, policy ReplyPolicy) (domain.TranslationResult, error) {
	if p == nil {
		p = &provider.Partial{}
	}

	var suspectErr error
	translated := p.TranslatedText
	suspect := IsSuspect(translated)
	if suspect || strings.TrimSpace(translated) == "" {
		translated = firstClean(p.Alternates)
		if translated == "" && suspect {
			suspectErr = provider.NewError(provider.KindResponseSuspect, providerName, "translation looks like a diagnostic message")
		}
	}
	if translated == "" {
		translated = query
	}

	s := p.Sentiment
	if !s.Valid() {
		s = sentiment.Classify(translated)
	}

	var suggested string
	switch {
	case p.SuggestedResponse != nil:
		suggested = *p.SuggestedResponse
	case policy == ReplySynthesize:
		suggested = reply.Synthesize(translated, s)
	}

	return domain.TranslationResult{
		TranslatedText:    translated,
		DetectedLanguage:  LanguageName(p.DetectedLanguage),
		Sentiment:         s,
		SuggestedResponse: suggested,
	}, suspectErr
}
