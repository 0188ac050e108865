// Package main is the entry point for the query translator Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/query-translator/internal/config"
	"github.com/pricofy/query-translator/internal/handler"
	"github.com/pricofy/query-translator/internal/ledger"
	"github.com/pricofy/query-translator/internal/logging"
	"github.com/pricofy/query-translator/internal/pipeline"
	"github.com/pricofy/query-translator/internal/router"
)

// app holds everything built once per cold start.
type app struct {
	handler *handler.Handler
	warmer  *warmer
	logger  *zap.Logger
}

func main() {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer func() { _ = a.logger.Sync() }()

	lambda.Start(a.handleRequest)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var invoker router.Invoker
	if cfg.OpusMT.Enabled {
		if invoker, err = newLambdaClient(ctx); err != nil {
			return nil, err
		}
	}

	orch, err := pipeline.Default(ctx, cfg, pipeline.Deps{Lambda: invoker, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	logger.Info("Query translator ready",
		zap.String("environment", cfg.Environment),
		zap.Strings("providers", orch.Names()),
		zap.Bool("gemini", cfg.GeminiEnabled()),
	)

	return &app{
		handler: handler.New(orch, ledger.New(cfg.Ledger.MaxEntries), logger),
		warmer: &warmer{
			functionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			logger:       logger,
			invoker:      invoker,
			load:         newLambdaClient,
		},
		logger: logger,
	}, nil
}

func newLambdaClient(ctx context.Context) (router.Invoker, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return lambdasdk.NewFromConfig(awsCfg), nil
}

// urlProbe detects Function URL events by their HTTP request context.
type urlProbe struct {
	RequestContext struct {
		HTTP struct {
			Method string `json:"method"`
		} `json:"http"`
	} `json:"requestContext"`
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.HandleWarmup(ctx, warmup)
	}

	var probe urlProbe
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, err
	}
	if probe.RequestContext.HTTP.Method != "" {
		var req events.LambdaFunctionURLRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return nil, err
		}
		return a.handler.HandleURL(ctx, req)
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}
	return a.handler.Handle(ctx, req)
}
