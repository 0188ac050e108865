package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pricofy/query-translator/internal/domain"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

const geminiSystemInstruction = "You are a professional multilingual support agent. " +
	"Detect the input language, translate it accurately to English, analyze the sentiment " +
	"and draft a helpful, concise English response. Return ONLY valid JSON with keys: " +
	"translatedText, detectedLanguage, sentiment, suggestedResponse."

// generator is the subset of *genai.Models used by Gemini.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is the keyed, high-quality provider. It returns all four fields in
// one round trip using a strict response schema.
type Gemini struct {
	gen   generator
	model string
}

// NewGemini creates the Gemini adapter. An empty apiKey yields an adapter
// that reports KindUnavailable on every call without touching the network.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if apiKey == "" {
		return &Gemini{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{gen: client.Models, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Translate asks the model for the canonical JSON object.
func (g *Gemini) Translate(ctx context.Context, text string) (*Partial, error) {
	if g.gen == nil {
		return nil, NewError(KindUnavailable, g.Name(), "no API key configured")
	}

	prompt := fmt.Sprintf("Translate the following customer support query into English and provide "+
		"a professional suggested response.\n\nQuery: %q", text)

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(geminiSystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    translationSchema(),
	})
	if err != nil {
		return nil, Wrap(KindRequestFailed, g.Name(), "generate content", err)
	}
	if resp == nil {
		return nil, NewError(KindResponseMalformed, g.Name(), "nil response")
	}

	return parseGeminiPayload(resp.Text())
}

// translationSchema mirrors domain.TranslationResult with every field required.
func translationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translatedText": {
				Type:        genai.TypeString,
				Description: "The English translation of the customer query.",
			},
			"detectedLanguage": {
				Type:        genai.TypeString,
				Description: "The name of the detected source language (e.g., Spanish, Japanese).",
			},
			"sentiment": {
				Type:        genai.TypeString,
				Description: "One of: positive, neutral, negative.",
				Enum: []string{
					string(domain.SentimentPositive),
					string(domain.SentimentNeutral),
					string(domain.SentimentNegative),
				},
			},
			"suggestedResponse": {
				Type:        genai.TypeString,
				Description: "A professional response in English.",
			},
		},
		Required: []string{"translatedText", "detectedLanguage", "sentiment", "suggestedResponse"},
	}
}

type geminiPayload struct {
	TranslatedText    *string `json:"translatedText"`
	DetectedLanguage  *string `json:"detectedLanguage"`
	Sentiment         *string `json:"sentiment"`
	SuggestedResponse *string `json:"suggestedResponse"`
}

func parseGeminiPayload(raw string) (*Partial, error) {
	raw = trimCodeFence(raw)
	if raw == "" {
		return nil, NewError(KindResponseMalformed, "gemini", "empty response")
	}

	var p geminiPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, Wrap(KindResponseMalformed, "gemini", "response is not JSON", err)
	}

	var missing []string
	if p.TranslatedText == nil {
		missing = append(missing, "translatedText")
	}
	if p.DetectedLanguage == nil {
		missing = append(missing, "detectedLanguage")
	}
	if p.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if p.SuggestedResponse == nil {
		missing = append(missing, "suggestedResponse")
	}
	if len(missing) > 0 {
		return nil, NewError(KindResponseMalformed, "gemini", "missing fields: "+strings.Join(missing, ", "))
	}

	s := domain.Sentiment(strings.ToLower(strings.TrimSpace(*p.Sentiment)))
	if !s.Valid() {
		return nil, NewError(KindResponseMalformed, "gemini", fmt.Sprintf("sentiment %q outside schema", *p.Sentiment))
	}

	return &Partial{
		TranslatedText:    *p.TranslatedText,
		DetectedLanguage:  *p.DetectedLanguage,
		Sentiment:         s,
		SuggestedResponse: p.SuggestedResponse,
	}, nil
}

// trimCodeFence strips whitespace and a surrounding ``` / ```json fence.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
