// Package domain contains the core domain types for the query translator.
package domain

import "time"

// UnknownLanguage is reported when no provider could name the source language.
const UnknownLanguage = "Unknown"

// Sentiment is the coarse tone of a customer message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the three known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// TranslationRequest is a single message to translate.
type TranslationRequest struct {
	Text string `json:"text"`
}

// TranslationResult is the canonical output returned to every caller.
// All four fields are always populated once it leaves the pipeline.
type TranslationResult struct {
	TranslatedText    string    `json:"translatedText"`
	DetectedLanguage  string    `json:"detectedLanguage"`
	Sentiment         Sentiment `json:"sentiment"`
	SuggestedResponse string    `json:"suggestedResponse"`
}

// Identity returns the degraded result used when no provider could help.
func Identity(text string) TranslationResult {
	return TranslationResult{
		TranslatedText:    text,
		DetectedLanguage:  UnknownLanguage,
		Sentiment:         SentimentNeutral,
		SuggestedResponse: "",
	}
}

// Status is the lifecycle state of a QueryRecord.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// QueryRecord tracks one submitted query from submission to completion.
type QueryRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	OriginalText string    `json:"originalText"`
	TranslationResult
	Status Status `json:"status"`
}
