package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func responseError(status int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      errors.New("bedrock failure"),
		},
		RequestID: "req-1",
	}
}

func TestGenerateTextAnthropicPayload(t *testing.T) {
	inv := &fakeInvoker{body: `{"content":[{"type":"text","text":"{\"moodType\":\"positive\"}"}]}`}
	p := NewProvider(inv, "anthropic.claude-3-haiku-20240307-v1:0", 1000, 0.9, time.Second, zap.NewNop())

	got, err := p.GenerateText(context.Background(), "今天很开心", core.GenerateOptions{
		Parameters: map[string]any{"temperature": 0.3, "max_tokens": 200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"moodType":"positive"}` {
		t.Fatalf("unexpected text: %q", got)
	}

	if *inv.input.ModelId != "anthropic.claude-3-haiku-20240307-v1:0" {
		t.Fatalf("unexpected model id: %s", *inv.input.ModelId)
	}
	var payload map[string]any
	if err := json.Unmarshal(inv.input.Body, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload["anthropic_version"] != anthropicVersion {
		t.Fatalf("unexpected anthropic_version: %v", payload["anthropic_version"])
	}
	if payload["max_tokens"] != float64(200) {
		t.Fatalf("unexpected max_tokens: %v", payload["max_tokens"])
	}
	messages := payload["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	if content[0].(map[string]any)["text"] != "今天很开心" {
		t.Fatalf("unexpected message content: %v", content)
	}
}

func TestGenerateTextTitanAndGeneric(t *testing.T) {
	titan := &fakeInvoker{body: `{"results":[{"outputText":"titan says"}]}`}
	p := NewProvider(titan, "amazon.titan-text-express-v1", 100, 0, time.Second, zap.NewNop())
	got, err := p.GenerateText(context.Background(), "hi", core.GenerateOptions{})
	if err != nil || got != "titan says" {
		t.Fatalf("unexpected titan result: %q %v", got, err)
	}
	var payload map[string]any
	_ = json.Unmarshal(titan.input.Body, &payload)
	if payload["inputText"] != "hi" {
		t.Fatalf("unexpected titan payload: %v", payload)
	}

	generic := &fakeInvoker{body: `{"generation":"llama says"}`}
	p = NewProvider(generic, "meta.llama3-8b-instruct-v1:0", 100, 0, time.Second, zap.NewNop())
	got, err = p.GenerateText(context.Background(), "hi", core.GenerateOptions{})
	if err != nil || got != "llama says" {
		t.Fatalf("unexpected generic result: %q %v", got, err)
	}
}

func TestGenerateTextModelOverride(t *testing.T) {
	inv := &fakeInvoker{body: `{"results":[{"outputText":"ok"}]}`}
	p := NewProvider(inv, "anthropic.claude-3-haiku-20240307-v1:0", 100, 0, time.Second, zap.NewNop())

	if _, err := p.GenerateText(context.Background(), "hi", core.GenerateOptions{Model: "amazon.titan-text-express-v1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *inv.input.ModelId != "amazon.titan-text-express-v1" {
		t.Fatalf("expected model override, got %s", *inv.input.ModelId)
	}
}

func TestGenerateTextEmptyResponse(t *testing.T) {
	inv := &fakeInvoker{body: `{"results":[]}`}
	p := NewProvider(inv, "amazon.titan-text-express-v1", 100, 0, time.Second, zap.NewNop())

	_, err := p.GenerateText(context.Background(), "hi", core.GenerateOptions{})
	if !errors.Is(err, core.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestGenerateTextMapsErrors(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{err: responseError(http.StatusForbidden), want: core.ErrAuth},
		{err: responseError(http.StatusTooManyRequests), want: core.ErrRateLimit},
		{err: responseError(http.StatusInternalServerError), want: core.ErrUpstreamUnavailable},
		{err: responseError(http.StatusBadRequest), want: core.ErrProvider},
		{err: errors.New("dial tcp: connection refused"), want: core.ErrProvider},
	}

	for _, tt := range tests {
		p := NewProvider(&fakeInvoker{err: tt.err}, "anthropic.claude-3-haiku-20240307-v1:0", 100, 0, time.Second, zap.NewNop())
		_, err := p.GenerateText(context.Background(), "hi", core.GenerateOptions{})
		if !errors.Is(err, tt.want) {
			t.Fatalf("expected %v, got %v", tt.want, err)
		}
	}
}

func TestConnectionWithoutAPIKey(t *testing.T) {
	p := NewProvider(&fakeInvoker{body: `{"content":[{"type":"text","text":"你好"}]}`}, "anthropic.claude-3-haiku-20240307-v1:0", 100, 0, time.Second, zap.NewNop())

	if p.RequiresAPIKey() {
		t.Fatal("bedrock should not require an API key")
	}
	if !p.TestConnection(context.Background(), "") {
		t.Fatal("expected connection test to succeed")
	}

	failing := NewProvider(&fakeInvoker{err: responseError(http.StatusForbidden)}, "anthropic.claude-3-haiku-20240307-v1:0", 100, 0, time.Second, zap.NewNop())
	if failing.TestConnection(context.Background(), "") {
		t.Fatal("expected connection test to fail")
	}
}
