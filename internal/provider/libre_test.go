package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type libreServer struct {
	detectStatus int
	detectBody   string
	translate    func(req libreTranslateRequest) (int, string)

	detectCalls    atomic.Int32
	translateCalls atomic.Int32

	mu   sync.Mutex
	last libreTranslateRequest
}

func (s *libreServer) lastTranslate() libreTranslateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *libreServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/detect":
			s.detectCalls.Add(1)
			w.WriteHeader(s.detectStatus)
			_, _ = w.Write([]byte(s.detectBody))
		case "/translate":
			s.translateCalls.Add(1)
			var req libreTranslateRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			s.mu.Lock()
			s.last = req
			s.mu.Unlock()
			status, body := s.translate(req)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLibre_DetectThenTranslate(t *testing.T) {
	s := &libreServer{
		detectStatus: http.StatusOK,
		detectBody:   `[{"language":"es","confidence":92.0},{"language":"pt","confidence":8.0}]`,
		translate: func(req libreTranslateRequest) (int, string) {
			return http.StatusOK, `{"translatedText":"Where is my order?"}`
		},
	}
	srv := s.start(t)

	p, err := NewLibre(srv.URL+"/", "", srv.Client()).Translate(context.Background(), "¿Dónde está mi pedido?")
	require.NoError(t, err)

	assert.Equal(t, "Where is my order?", p.TranslatedText)
	assert.Equal(t, "es", p.DetectedLanguage)
	assert.Empty(t, p.Sentiment, "adapters never invent sentiment")
	assert.Nil(t, p.SuggestedResponse, "adapters never invent replies")

	assert.Equal(t, "es", s.lastTranslate().Source)
	assert.Equal(t, "en", s.lastTranslate().Target)
	assert.Equal(t, "text", s.lastTranslate().Format)
	assert.Equal(t, "¿Dónde está mi pedido?", s.lastTranslate().Q)
}

func TestLibre_DetectFailureFallsBackToAuto(t *testing.T) {
	tests := []struct {
		name         string
		detectStatus int
		detectBody   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"empty list", http.StatusOK, `[]`},
		{"malformed", http.StatusOK, `{"language":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &libreServer{
				detectStatus: tt.detectStatus,
				detectBody:   tt.detectBody,
				translate: func(req libreTranslateRequest) (int, string) {
					return http.StatusOK, `{"translated":"Good morning","detectedLanguage":{"language":"it","confidence":80}}`
				},
			}
			srv := s.start(t)

			p, err := NewLibre(srv.URL, "", srv.Client()).Translate(context.Background(), "Buongiorno")
			require.NoError(t, err)

			assert.Equal(t, autoSource, s.lastTranslate().Source)
			assert.Equal(t, "Good morning", p.TranslatedText, "alternate field spelling accepted")
			assert.Equal(t, "it", p.DetectedLanguage)
			assert.EqualValues(t, 1, s.translateCalls.Load())
		})
	}
}

func TestLibre_TranslateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"non-2xx", http.StatusTooManyRequests, `{"error":"slow down"}`, KindRequestFailed},
		{"error field", http.StatusOK, `{"error":"Invalid request"}`, KindRequestFailed},
		{"malformed json", http.StatusOK, `<html>`, KindResponseMalformed},
		{"no translation", http.StatusOK, `{}`, KindResponseMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &libreServer{
				detectStatus: http.StatusOK,
				detectBody:   `[{"language":"fr","confidence":99}]`,
				translate: func(libreTranslateRequest) (int, string) {
					return tt.status, tt.body
				},
			}
			srv := s.start(t)

			p, err := NewLibre(srv.URL, "", srv.Client()).Translate(context.Background(), "Bonjour")
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestLibre_SendsAPIKey(t *testing.T) {
	s := &libreServer{
		detectStatus: http.StatusOK,
		detectBody:   `[{"language":"de","confidence":99}]`,
		translate: func(libreTranslateRequest) (int, string) {
			return http.StatusOK, `{"translatedText":"Hello"}`
		},
	}
	srv := s.start(t)

	_, err := NewLibre(srv.URL, "secret-key", srv.Client()).Translate(context.Background(), "Hallo")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", s.lastTranslate().APIKey)
}
