// Package chunker splits customer messages into sentence batches sized for
// the Opus-MT translator Lambdas.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxTokens is the default maximum tokens per chunk.
// Marian models truncate inputs past 512 tokens, so stay well below.
const DefaultMaxTokens = 400

// EstimateTokens estimates the token count for a text.
// Uses a simple heuristic: ~4 characters per token for Latin languages.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}

// SplitSentences breaks text into sentences on '.', '!', '?', '…' and the
// CJK full stops, and on line breaks. Terminators stay with their sentence;
// blank pieces are dropped.
func SplitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		current.WriteRune(r)
		if !isTerminator(r) {
			continue
		}
		// Keep runs like "?!" or "..." together.
		if i+1 < len(runes) && isTerminator(runes[i+1]) {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) || isCJKTerminator(r) {
			flush()
		}
	}
	flush()

	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return isCJKTerminator(r)
}

func isCJKTerminator(r rune) bool {
	switch r {
	case '。', '！', '？':
		return true
	}
	return false
}

// ChunkByTokens splits texts into chunks that don't exceed maxTokens.
// Each text is kept whole - never split mid-text.
// Returns a slice of chunks, where each chunk is a slice of texts.
func ChunkByTokens(texts []string, maxTokens int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var chunks [][]string
	var currentChunk []string
	currentTokens := 0

	for _, text := range texts {
		textTokens := EstimateTokens(text)

		// An oversized text gets its own chunk
		if textTokens > maxTokens {
			if len(currentChunk) > 0 {
				chunks = append(chunks, currentChunk)
				currentChunk = nil
				currentTokens = 0
			}
			chunks = append(chunks, []string{text})
			continue
		}

		if currentTokens+textTokens > maxTokens && len(currentChunk) > 0 {
			chunks = append(chunks, currentChunk)
			currentChunk = nil
			currentTokens = 0
		}

		currentChunk = append(currentChunk, text)
		currentTokens += textTokens
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, currentChunk)
	}

	return chunks
}
