package provider

import (
	"context"
	"net/http"
	"strings"
)

// DefaultLibreURL is the public LibreTranslate instance.
const DefaultLibreURL = "https://libretranslate.de"

// autoSource asks LibreTranslate to detect the language itself.
const autoSource = "auto"

// Libre is the free detect+translate provider. It makes two round trips:
// /detect for the source language, then /translate with that hint.
type Libre struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewLibre creates a LibreTranslate adapter. apiKey is optional; public
// instances accept anonymous requests.
func NewLibre(baseURL, apiKey string, client *http.Client) *Libre {
	if baseURL == "" {
		baseURL = DefaultLibreURL
	}
	return &Libre{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  defaultClient(client),
	}
}

func (l *Libre) Name() string { return "libretranslate" }

type libreDetectRequest struct {
	Q      string `json:"q"`
	APIKey string `json:"api_key,omitempty"`
}

type libreDetection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText   string          `json:"translatedText"`
	Translated       string          `json:"translated"`
	DetectedLanguage *libreDetection `json:"detectedLanguage"`
	Error            string          `json:"error"`
}

// Translate detects the source language, then translates to English.
// A failed detection degrades to source "auto"; a failed translation fails
// the whole call.
func (l *Libre) Translate(ctx context.Context, text string) (*Partial, error) {
	source := l.detect(ctx, text)

	var resp libreTranslateResponse
	err := postJSON(ctx, l.client, l.Name(), l.baseURL+"/translate", libreTranslateRequest{
		Q:      text,
		Source: orDefault(source, autoSource),
		Target: "en",
		Format: "text",
		APIKey: l.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, NewError(KindRequestFailed, l.Name(), "upstream reported an error")
	}

	translated := resp.TranslatedText
	if translated == "" {
		translated = resp.Translated
	}
	if strings.TrimSpace(translated) == "" {
		return nil, NewError(KindResponseMalformed, l.Name(), "no translated text in response")
	}

	if source == "" && resp.DetectedLanguage != nil {
		source = resp.DetectedLanguage.Language
	}

	return &Partial{
		TranslatedText:   translated,
		DetectedLanguage: source,
	}, nil
}

// detect returns the best language guess, or "" when there is none.
func (l *Libre) detect(ctx context.Context, text string) string {
	var guesses []libreDetection
	err := postJSON(ctx, l.client, l.Name(), l.baseURL+"/detect", libreDetectRequest{
		Q:      text,
		APIKey: l.apiKey,
	}, &guesses)
	if err != nil || len(guesses) == 0 {
		return ""
	}
	return guesses[0].Language
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
