// Package main contains the Lambda warmup handler for preventing cold starts.
// CloudWatch Events trigger this handler periodically to keep Lambda instances warm.
package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricofy/query-translator/internal/router"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond

	// maxWarmupConcurrency caps self-invocations per warmup event
	maxWarmupConcurrency = 50
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var eventMap map[string]interface{}
	if err := json.Unmarshal(event, &eventMap); err != nil {
		return nil, false
	}

	source, ok := eventMap["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: source}
	if concurrency, ok := eventMap["concurrency"].(float64); ok && concurrency > 0 {
		warmup.Concurrency = min(int(concurrency), maxWarmupConcurrency)
	}
	return warmup, true
}

// warmer self-invokes this function to keep extra instances warm. The
// Lambda client is resolved on first use when it was not built at startup.
type warmer struct {
	functionName string
	logger       *zap.Logger

	mu      sync.Mutex
	invoker router.Invoker
	load    func(ctx context.Context) (router.Invoker, error)
}

func (w *warmer) client(ctx context.Context) (router.Invoker, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.invoker != nil {
		return w.invoker, nil
	}
	inv, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	w.invoker = inv
	return inv, nil
}

// HandleWarmup processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *warmer) HandleWarmup(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.logger.Warn("Warmup self-invoke failed", zap.Error(err))
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	time.Sleep(WarmupDelay)

	return map[string]interface{}{
		"statusCode": 200,
		"body": WarmupResponse{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}, nil
}

// selfInvoke fires count asynchronous invocations of this function.
func (w *warmer) selfInvoke(ctx context.Context, count int) error {
	client, err := w.client(ctx)
	if err != nil {
		return err
	}

	// Children get concurrency 0 so they never fan out again.
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := client.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
