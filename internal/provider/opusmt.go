package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/pricofy/query-translator/internal/chunker"
	"github.com/pricofy/query-translator/internal/router"
)

// OpusMT translates through the self-hosted Opus-MT translator Lambdas.
// Those models need an explicit source language, which is guessed locally.
type OpusMT struct {
	router    *router.Router
	maxTokens int
}

// NewOpusMT creates the adapter. A nil router yields an adapter that always
// reports KindUnavailable.
func NewOpusMT(r *router.Router) *OpusMT {
	return &OpusMT{router: r, maxTokens: chunker.DefaultMaxTokens}
}

func (o *OpusMT) Name() string { return "opus-mt" }

// Translate splits text into sentences, batches them by estimated tokens
// and sends every batch in one Lambda invocation.
func (o *OpusMT) Translate(ctx context.Context, text string) (*Partial, error) {
	if o.router == nil {
		return nil, NewError(KindUnavailable, o.Name(), "translator Lambdas not configured")
	}

	source := detectCode(text)
	if source == "" {
		return nil, NewError(KindRequestFailed, o.Name(), "source language not reliably detected")
	}
	if source == "en" {
		return &Partial{TranslatedText: text, DetectedLanguage: source}, nil
	}
	if !o.router.CanTranslate(source) {
		return nil, NewError(KindRequestFailed, o.Name(), fmt.Sprintf("no translator for %s→en", source))
	}

	chunks := chunker.ChunkByTokens(chunker.SplitSentences(text), o.maxTokens)
	results, err := o.router.TranslateChunks(ctx, source, chunks)
	if err != nil {
		return nil, Wrap(KindRequestFailed, o.Name(), "translate chunks", err)
	}

	var sentences []string
	for _, chunk := range results {
		sentences = append(sentences, chunk...)
	}
	translated := strings.Join(sentences, " ")
	if strings.TrimSpace(translated) == "" {
		return nil, NewError(KindResponseMalformed, o.Name(), "empty translation")
	}

	return &Partial{TranslatedText: translated, DetectedLanguage: source}, nil
}

// minDetectConfidence is the lowest whatlanggo confidence accepted as a
// source guess. Confidence is only compared among routableLangs, and the
// Romance languages share one model, so a close es/pt call is harmless.
const minDetectConfidence = 0.1

// routableLangs are the Latin-script languages whatlanggo can tell apart
// that the translator Lambdas accept, plus English as a pass-through.
var routableLangs = map[whatlanggo.Lang]bool{
	whatlanggo.Spa: true,
	whatlanggo.Por: true,
	whatlanggo.Fra: true,
	whatlanggo.Ita: true,
	whatlanggo.Ron: true,
	whatlanggo.Deu: true,
	whatlanggo.Eng: true,
}

// detectCode returns the ISO-639-1 code of text, or "" when no routable
// language is a confident enough match.
func detectCode(text string) string {
	info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Whitelist: routableLangs})
	if info.Lang < 0 || info.Confidence < minDetectConfidence {
		return ""
	}
	return info.Lang.Iso6391()
}
