// Package handler provides the Lambda handlers for the query translator.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/pricofy/query-translator/internal/domain"
	"github.com/pricofy/query-translator/internal/ledger"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid JSON body"
	msgMissingText      = "Missing required field: text"
	msgProcessingFailed = "Failed to process the query. Please try again."
	msgQueryNotFound    = "Query not found"
)

// Translator runs the provider chain for one message.
type Translator interface {
	Translate(ctx context.Context, text string) (domain.TranslationResult, error)
}

// Request is the input for direct invocations and Function URL bodies.
// Query is accepted as an alias of Text. Direct invocations without a
// message may instead look up history by ID or ask for the Recent n queries.
type Request struct {
	Text   string `json:"text,omitempty"`
	Query  string `json:"query,omitempty"`
	ID     string `json:"id,omitempty"`
	Recent int    `json:"recent,omitempty"`
}

// isLookup reports whether req asks for history rather than a translation.
func (r Request) isLookup() bool {
	return strings.TrimSpace(r.message()) == "" && (r.ID != "" || r.Recent > 0)
}

// message returns the text to translate, preferring Text over Query.
func (r Request) message() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.Query
}

// Response is the output for direct invocations.
type Response struct {
	domain.TranslationResult
	ID      string               `json:"id,omitempty"`
	History []domain.QueryRecord `json:"history,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler serves translation requests and records each accepted query.
type Handler struct {
	translator Translator
	ledger     *ledger.Ledger
	logger     *zap.Logger
}

// New creates a Handler. A nil ledger keeps an unbounded one; a nil logger
// discards output.
func New(t Translator, l *ledger.Ledger, logger *zap.Logger) *Handler {
	if l == nil {
		l = ledger.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{translator: t, ledger: l, logger: logger}
}

// Handle processes a direct Lambda invocation. Failures are reported in
// Response.Error rather than as a Lambda error.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if req.isLookup() {
		return h.lookup(req), nil
	}
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}, nil
	}

	rec, res, err := h.process(ctx, req.message())
	if err != nil {
		return &Response{ID: rec.ID, Error: msgProcessingFailed}, nil
	}
	return &Response{TranslationResult: res, ID: rec.ID}, nil
}

// lookup serves a history request: one record by ID, or the most recent.
func (h *Handler) lookup(req Request) *Response {
	if req.ID != "" {
		rec, err := h.ledger.Get(req.ID)
		if err != nil {
			return &Response{ID: req.ID, Error: msgQueryNotFound}
		}
		return &Response{ID: rec.ID, History: []domain.QueryRecord{rec}}
	}
	return &Response{History: h.ledger.Recent(req.Recent)}
}

// HandleURL processes a Lambda Function URL request.
func (h *Handler) HandleURL(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	switch strings.ToUpper(req.RequestContext.HTTP.Method) {
	case http.MethodOptions:
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusNoContent}, nil
	case http.MethodPost:
	default:
		return jsonResponse(http.StatusMethodNotAllowed, errorBody{Error: msgMethodNotAllowed}), nil
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, errorBody{Error: msgInvalidBody}), nil
		}
		body = string(decoded)
	}

	var in Request
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: msgInvalidBody}), nil
	}
	if err := validateRequest(in); err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: err.Error()}), nil
	}

	_, res, err := h.process(ctx, in.message())
	if err != nil {
		return jsonResponse(http.StatusInternalServerError, errorBody{Error: msgProcessingFailed}), nil
	}
	return jsonResponse(http.StatusOK, res), nil
}

// process runs the translator and keeps the ledger in step with the outcome.
func (h *Handler) process(ctx context.Context, text string) (domain.QueryRecord, domain.TranslationResult, error) {
	rec := h.ledger.Submit(text)

	res, err := h.translator.Translate(ctx, text)
	if err != nil {
		h.logger.Error("Query failed", zap.String("id", rec.ID), zap.Error(err))
		if _, lerr := h.ledger.Fail(rec.ID); lerr != nil {
			h.logger.Warn("Ledger update failed", zap.String("id", rec.ID), zap.Error(lerr))
		}
		return rec, domain.TranslationResult{}, err
	}

	if _, lerr := h.ledger.Complete(rec.ID, res); lerr != nil {
		h.logger.Warn("Ledger update failed", zap.String("id", rec.ID), zap.Error(lerr))
	}
	h.logger.Info("Query translated",
		zap.String("id", rec.ID),
		zap.Int("history", h.ledger.Len()),
		zap.String("language", res.DetectedLanguage),
		zap.String("sentiment", string(res.Sentiment)),
	)
	return rec, res, nil
}

// validateRequest checks the request carries a non-blank message.
func validateRequest(req Request) error {
	if strings.TrimSpace(req.message()) == "" {
		return errors.New(msgMissingText)
	}
	return nil
}

func jsonResponse(status int, v any) events.LambdaFunctionURLResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + msgProcessingFailed + `"}`)
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
