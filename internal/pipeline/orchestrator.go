// Package pipeline implements the provider fallback chain.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/query-translator/internal/domain"
	"github.com/pricofy/query-translator/internal/logging"
	"github.com/pricofy/query-translator/internal/normalize"
	"github.com/pricofy/query-translator/internal/provider"
)

// DefaultTimeout bounds a single provider attempt.
const DefaultTimeout = 10 * time.Second

// ErrAllProvidersFailed is returned only when every strategy failed and the
// identity fallback is disabled.
var ErrAllProvidersFailed = errors.New("all translation providers failed")

// Strategy is one ordered attempt in the chain.
type Strategy struct {
	Provider provider.Provider
	Reply    normalize.ReplyPolicy
}

// Orchestrator tries strategies strictly in order and returns the first
// normalized success. It holds no per-request state and is safe for
// concurrent use.
type Orchestrator struct {
	strategies []Strategy
	timeout    time.Duration
	identity   bool
	secrets    []string
	logger     *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed attempts.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSecrets registers credential values scrubbed from logged causes.
func WithSecrets(secrets ...string) Option {
	return func(o *Orchestrator) { o.secrets = append(o.secrets, secrets...) }
}

// WithoutIdentityFallback makes Translate return ErrAllProvidersFailed
// instead of echoing the input when every strategy fails.
func WithoutIdentityFallback() Option {
	return func(o *Orchestrator) { o.identity = false }
}

// New creates an Orchestrator over strategies, tried in the given order.
func New(strategies []Strategy, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		strategies: append([]Strategy(nil), strategies...),
		timeout:    DefaultTimeout,
		identity:   true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Translate returns the English translation, language, sentiment and
// suggested reply for text. With the identity fallback enabled it never
// fails.
func (o *Orchestrator) Translate(ctx context.Context, text string) (domain.TranslationResult, error) {
	for _, s := range o.strategies {
		res, err := o.attempt(ctx, s, text)
		if err == nil {
			o.logger.Debug("Translation succeeded", zap.String("provider", s.Provider.Name()))
			return res, nil
		}
		o.logFailure(s.Provider.Name(), err)
	}

	if !o.identity {
		return domain.TranslationResult{}, ErrAllProvidersFailed
	}
	o.logger.Info("All providers failed, returning identity result")
	return domain.Identity(text), nil
}

// attempt runs one strategy under its own deadline.
func (o *Orchestrator) attempt(ctx context.Context, s Strategy, text string) (domain.TranslationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	partial, err := s.Provider.Translate(ctx, text)
	if err != nil {
		return domain.TranslationResult{}, err
	}
	return normalize.Normalize(s.Provider.Name(), text, partial, s.Reply)
}

func (o *Orchestrator) logFailure(name string, err error) {
	kind := provider.KindOf(err)
	fields := []zap.Field{
		zap.String("provider", name),
		zap.String("kind", string(kind)),
		zap.String("cause", logging.Redact(err.Error(), o.secrets...)),
	}
	if kind == provider.KindUnavailable {
		o.logger.Debug("Provider skipped", fields...)
		return
	}
	o.logger.Warn("Provider attempt failed", fields...)
}
