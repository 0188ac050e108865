package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pricofy/query-translator/internal/domain"
	"github.com/pricofy/query-translator/internal/handler"
	"github.com/pricofy/query-translator/internal/router"
)

type countingInvoker struct {
	mu    sync.Mutex
	calls []*lambdasdk.InvokeInput
	err   error
}

func (c *countingInvoker) Invoke(_ context.Context, in *lambdasdk.InvokeInput, _ ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, in)
	return &lambdasdk.InvokeOutput{}, c.err
}

type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text string) (domain.TranslationResult, error) {
	return domain.Identity(text), nil
}

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           string
		wantOK          bool
		wantConcurrency int
	}{
		{name: "warmup", event: `{"source":"warmup"}`, wantOK: true},
		{name: "with concurrency", event: `{"source":"warmup","concurrency":3}`, wantOK: true, wantConcurrency: 3},
		{name: "capped concurrency", event: `{"source":"warmup","concurrency":500}`, wantOK: true, wantConcurrency: maxWarmupConcurrency},
		{name: "negative concurrency", event: `{"source":"warmup","concurrency":-2}`, wantOK: true},
		{name: "other source", event: `{"source":"aws.events"}`},
		{name: "query", event: `{"text":"Hola"}`},
		{name: "not an object", event: `"warmup"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := IsWarmupEvent(json.RawMessage(tt.event))
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantConcurrency, w.Concurrency)
			}
		})
	}
}

func TestHandleWarmup(t *testing.T) {
	t.Run("self invokes asynchronously", func(t *testing.T) {
		inv := &countingInvoker{}
		w := &warmer{functionName: "query-translator", logger: zap.NewNop(), invoker: inv}

		out, err := w.HandleWarmup(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 3})
		require.NoError(t, err)

		body := out.(map[string]interface{})["body"].(WarmupResponse)
		assert.Equal(t, 4, body.InstancesWarmed)
		require.Len(t, inv.calls, 3)
		for _, call := range inv.calls {
			assert.Equal(t, "query-translator", *call.FunctionName)
			assert.Equal(t, types.InvocationTypeEvent, call.InvocationType)
			assert.JSONEq(t, `{"source":"warmup","concurrency":0}`, string(call.Payload))
		}
	})

	t.Run("invoke failure still warm", func(t *testing.T) {
		inv := &countingInvoker{err: errors.New("throttled")}
		w := &warmer{logger: zap.NewNop(), invoker: inv}

		out, err := w.HandleWarmup(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, out.(map[string]interface{})["body"].(WarmupResponse).InstancesWarmed)
	})

	t.Run("client loaded lazily", func(t *testing.T) {
		inv := &countingInvoker{}
		loads := 0
		w := &warmer{logger: zap.NewNop(), load: func(context.Context) (router.Invoker, error) {
			loads++
			return inv, nil
		}}

		for i := 0; i < 2; i++ {
			_, err := w.HandleWarmup(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 1})
			require.NoError(t, err)
		}
		assert.Equal(t, 1, loads)
		assert.Len(t, inv.calls, 2)
	})
}

func TestHandleRequest_Dispatch(t *testing.T) {
	a := &app{
		handler: handler.New(echoTranslator{}, nil, nil),
		warmer:  &warmer{logger: zap.NewNop()},
		logger:  zap.NewNop(),
	}
	ctx := context.Background()

	t.Run("warmup", func(t *testing.T) {
		out, err := a.handleRequest(ctx, json.RawMessage(`{"source":"warmup"}`))
		require.NoError(t, err)
		assert.Equal(t, 200, out.(map[string]interface{})["statusCode"])
	})

	t.Run("function url", func(t *testing.T) {
		event := `{"requestContext":{"http":{"method":"POST"}},"body":"{\"text\":\"Hola\"}"}`
		out, err := a.handleRequest(ctx, json.RawMessage(event))
		require.NoError(t, err)

		resp, ok := out.(events.LambdaFunctionURLResponse)
		require.True(t, ok)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"translatedText":"Hola","detectedLanguage":"Unknown","sentiment":"neutral","suggestedResponse":""}`, resp.Body)
	})

	t.Run("direct invocation", func(t *testing.T) {
		out, err := a.handleRequest(ctx, json.RawMessage(`{"query":"Bonjour"}`))
		require.NoError(t, err)

		resp, ok := out.(*handler.Response)
		require.True(t, ok)
		assert.Equal(t, "Bonjour", resp.TranslatedText)
		assert.Empty(t, resp.Error)
	})

	t.Run("history lookup", func(t *testing.T) {
		out, err := a.handleRequest(ctx, json.RawMessage(`{"recent":1}`))
		require.NoError(t, err)

		resp, ok := out.(*handler.Response)
		require.True(t, ok)
		require.Len(t, resp.History, 1)
		assert.Equal(t, "Bonjour", resp.History[0].OriginalText)
	})

	t.Run("malformed event", func(t *testing.T) {
		_, err := a.handleRequest(ctx, json.RawMessage(`[1,2]`))
		assert.Error(t, err)
	})
}
