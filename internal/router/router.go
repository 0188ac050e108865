// Package router routes English-bound translations to the self-hosted
// Opus-MT translator Lambdas.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// Translator Lambda base names. Non-production environments append
// "-<environment>".
const (
	RomanceToEnglish = "pricofy-translator-romance-en"
	GermanToEnglish  = "pricofy-translator-de-en"
)

// Romance languages supported by opus-mt-ROMANCE-en. Regional variants are
// reduced to their base code before lookup.
var romanceLanguages = map[string]bool{
	"es": true, "fr": true, "it": true, "pt": true, "ro": true,
	"ca":  true, // Catalan
	"gl":  true, // Galician
	"oc":  true, // Occitan
	"wa":  true, // Walloon
	"co":  true, // Corsican
	"an":  true, // Aragonese
	"la":  true, // Latin
	"rm":  true, // Romansh
	"sc":  true, // Sardinian
	"lad": true, // Ladino
	"fur": true, // Friulian
	"lij": true, // Ligurian
	"lmo": true, // Lombard
	"nap": true, // Neapolitan
	"scn": true, // Sicilian
	"vec": true, // Venetian
}

// Invoker is the subset of *lambda.Client used by Router.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Router routes translation requests to the appropriate Lambda function.
type Router struct {
	invoker     Invoker
	environment string
}

// TranslatorRequest is the request format for translator Lambdas (chunked mode).
type TranslatorRequest struct {
	Chunks [][]string `json:"chunks"`
}

// TranslatorResponse is the response format from translator Lambdas (chunked mode).
type TranslatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// New creates a Router. environment selects the function name suffix;
// "" and "prod" use the bare names.
func New(invoker Invoker, environment string) *Router {
	return &Router{invoker: invoker, environment: environment}
}

// baseCode reduces "pt_BR" / "pt-BR" to "pt".
func baseCode(code string) string {
	code = strings.ToLower(code)
	if i := strings.IndexAny(code, "_-"); i > 0 {
		return code[:i]
	}
	return code
}

// CanTranslate reports whether source can be translated to English.
func (r *Router) CanTranslate(source string) bool {
	return r.functionFor(source) != ""
}

// functionFor returns the Lambda name that translates source to English,
// or "" when no translator covers it.
func (r *Router) functionFor(source string) string {
	var name string
	switch base := baseCode(source); {
	case romanceLanguages[base]:
		name = RomanceToEnglish
	case base == "de":
		name = GermanToEnglish
	default:
		return ""
	}
	if r.environment != "" && r.environment != "prod" {
		name += "-" + r.environment
	}
	return name
}

// TranslateChunks translates all chunks from source to English in a single
// Lambda invocation. The translator processes chunks sequentially.
func (r *Router) TranslateChunks(ctx context.Context, source string, chunks [][]string) ([][]string, error) {
	if len(chunks) == 0 {
		return [][]string{}, nil
	}

	functionName := r.functionFor(source)
	if functionName == "" {
		return nil, fmt.Errorf("unsupported language pair: %s-en", source)
	}

	result, err := r.invokeLambda(ctx, functionName, chunks)
	if err != nil {
		return nil, err
	}
	if len(result) != len(chunks) {
		return nil, fmt.Errorf("%s returned %d chunks, want %d", functionName, len(result), len(chunks))
	}
	return result, nil
}

// invokeLambda calls a translator Lambda with the given chunks.
func (r *Router) invokeLambda(ctx context.Context, functionName string, chunks [][]string) ([][]string, error) {
	payload, err := json.Marshal(TranslatorRequest{Chunks: chunks})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := r.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}

	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp TranslatorResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}

	return resp.Translations, nil
}
