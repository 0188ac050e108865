package pipeline

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/pricofy/query-translator/internal/config"
	"github.com/pricofy/query-translator/internal/normalize"
	"github.com/pricofy/query-translator/internal/provider"
	"github.com/pricofy/query-translator/internal/router"
)

// Deps are the process-wide collaborators shared by every request.
type Deps struct {
	// HTTPClient is used by the free-tier providers; nil uses a default.
	HTTPClient *http.Client
	// Lambda invokes the Opus-MT translators; nil disables that strategy.
	Lambda router.Invoker
	Logger *zap.Logger
}

// Default builds the production chain:
//
//	gemini -> libretranslate -> mymemory -> opus-mt -> identity
//
// Gemini and Opus-MT replies are synthesized when missing; the free
// translation-only services always leave the reply empty.
func Default(ctx context.Context, cfg *config.Config, deps Deps) (*Orchestrator, error) {
	gemini, err := provider.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	var opusRouter *router.Router
	if cfg.OpusMT.Enabled && deps.Lambda != nil {
		opusRouter = router.New(deps.Lambda, cfg.Environment)
	}

	strategies := []Strategy{
		{Provider: gemini, Reply: normalize.ReplySynthesize},
		{Provider: provider.NewLibre(cfg.Libre.URL, cfg.Libre.APIKey, deps.HTTPClient), Reply: normalize.ReplyOmit},
		{Provider: provider.NewMyMemory(cfg.MyMemory.URL, cfg.MyMemory.Email, deps.HTTPClient), Reply: normalize.ReplyOmit},
		{Provider: provider.NewOpusMT(opusRouter), Reply: normalize.ReplySynthesize},
	}

	opts := []Option{
		WithTimeout(cfg.Pipeline.ProviderTimeout),
		WithLogger(deps.Logger),
		WithSecrets(cfg.Secrets()...),
	}
	if !cfg.Pipeline.IdentityFallback {
		opts = append(opts, WithoutIdentityFallback())
	}

	return New(strategies, opts...), nil
}

// Names lists the provider names in attempt order.
func (o *Orchestrator) Names() []string {
	names := make([]string, len(o.strategies))
	for i, s := range o.strategies {
		names[i] = s.Provider.Name()
	}
	return names
}
