package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultMyMemoryURL is the public MyMemory API.
const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

// MyMemory is the free single-call provider. It does not separate detection
// from translation and sometimes reports problems as the translated text
// itself, which the normalizer has to catch.
type MyMemory struct {
	baseURL string
	email   string
	client  *http.Client
}

// NewMyMemory creates a MyMemory adapter. email is optional and raises the
// anonymous daily quota when set.
func NewMyMemory(baseURL, email string, client *http.Client) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemory{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		client:  defaultClient(client),
	}
}

func (m *MyMemory) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage string `json:"detectedLanguage"`
	} `json:"responseData"`
	// ResponseStatus arrives as a number on success and sometimes as a
	// string on errors.
	ResponseStatus any             `json:"responseStatus"`
	Matches        []myMemoryMatch `json:"matches"`
}

type myMemoryMatch struct {
	Translation string `json:"translation"`
	Source      string `json:"source"`
}

// Translate performs one GET against /get with an autodetected source.
func (m *MyMemory) Translate(ctx context.Context, text string) (*Partial, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "autodetect|en")
	if m.email != "" {
		q.Set("de", m.email)
	}

	var resp myMemoryResponse
	if err := getJSON(ctx, m.client, m.Name(), m.baseURL+"/get?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	if status := responseStatus(resp.ResponseStatus); status != http.StatusOK {
		return nil, NewError(KindRequestFailed, m.Name(), fmt.Sprintf("response status %d", status))
	}

	detected := resp.ResponseData.DetectedLanguage
	alternates := make([]string, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if detected == "" {
			detected = match.Source
		}
		if match.Translation == "" || match.Translation == resp.ResponseData.TranslatedText {
			continue
		}
		alternates = append(alternates, match.Translation)
	}

	if strings.TrimSpace(resp.ResponseData.TranslatedText) == "" && len(alternates) == 0 {
		return nil, NewError(KindResponseMalformed, m.Name(), "no translated text in response")
	}

	return &Partial{
		TranslatedText:   resp.ResponseData.TranslatedText,
		DetectedLanguage: detected,
		Alternates:       alternates,
	}, nil
}

// responseStatus converts MyMemory's loosely typed status to an int. A
// missing status is treated as success since the HTTP layer already passed.
func responseStatus(v any) int {
	switch s := v.(type) {
	case nil:
		return http.StatusOK
	case float64:
		return int(s)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
