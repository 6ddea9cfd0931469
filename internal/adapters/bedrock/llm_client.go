package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/moodiary/internal/adapters/llm"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// ProviderName is the configuration name of the Bedrock provider
const ProviderName = "bedrock"

const anthropicVersion = "bedrock-2023-05-31"

var statusMessages = map[int]string{
	http.StatusUnauthorized:       "AWS credentials rejected",
	http.StatusTooManyRequests:    "request throttled",
	http.StatusServiceUnavailable: "model not ready",
}

var models = []core.LLMModelInfo{
	{Name: "anthropic.claude-3-haiku-20240307-v1:0", DisplayName: "Claude 3 Haiku", ContextLength: 200000, SupportedLanguages: []string{"zh", "en"}, Available: true},
	{Name: "anthropic.claude-3-5-sonnet-20240620-v1:0", DisplayName: "Claude 3.5 Sonnet", ContextLength: 200000, SupportedLanguages: []string{"zh", "en"}, Available: true},
	{Name: "amazon.titan-text-express-v1", DisplayName: "Titan Text Express", ContextLength: 8192, SupportedLanguages: []string{"en"}, Available: true},
}

// invoker is the subset of the Bedrock runtime client used by Provider
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Provider is an implementation of the LLMProvider interface using Amazon Bedrock.
// Credentials come from the AWS default chain, so no API key is needed.
type Provider struct {
	client   invoker
	defaults llm.Generation
	timeout  time.Duration
	logger   *zap.Logger
}

// NewProvider creates a new Bedrock provider
func NewProvider(
	client invoker,
	modelID string,
	maxTokens int,
	topP float32,
	timeout time.Duration,
	logger *zap.Logger,
) *Provider {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Provider{
		client: client,
		defaults: llm.Generation{
			Model:       modelID,
			MaxTokens:   maxTokens,
			Temperature: 0.7,
			TopP:        topP,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return ProviderName
}

// RequiresAPIKey is false; the AWS credential chain is used instead
func (p *Provider) RequiresAPIKey() bool {
	return false
}

// GenerateText invokes the configured model and returns its text output
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	gen := p.defaults
	if opts.Model != "" {
		gen.Model = opts.Model
	}
	gen, ignored, err := llm.Merge(gen, opts.Parameters)
	if err != nil {
		return "", err
	}
	if len(ignored) > 0 {
		p.logger.Debug("Ignoring unsupported generation parameters",
			zap.String("provider", ProviderName),
			zap.Strings("parameters", ignored))
	}

	payload, err := requestPayload(gen, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request payload: %w", core.ErrProvider, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(gen.Model),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", mapError(err)
	}

	text, err := responseText(gen.Model, resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrProvider, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.EmptyResponseError(ProviderName)
	}

	p.logger.Debug("Bedrock model invoked",
		zap.String("model", gen.Model),
		zap.Int("response_size", len(resp.Body)))

	return text, nil
}

// TestConnection performs a minimal invocation and reports whether it succeeded
func (p *Provider) TestConnection(ctx context.Context, apiKey string) bool {
	_, err := p.GenerateText(ctx, "你好", core.GenerateOptions{
		Parameters: map[string]any{"max_tokens": 5},
	})
	if err != nil {
		p.logger.Warn("Connection test failed",
			zap.String("provider", ProviderName),
			zap.Error(err))
		return false
	}
	return true
}

// AvailableModels returns the static Bedrock catalog
func (p *Provider) AvailableModels(ctx context.Context, apiKey string) []core.LLMModelInfo {
	out := make([]core.LLMModelInfo, len(models))
	copy(out, models)
	return out
}

// EstimateCost is not tracked for Bedrock
func (p *Provider) EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	return 0, false
}

func isAnthropicModel(modelID string) bool {
	return strings.HasPrefix(modelID, "anthropic.claude")
}

func isAmazonTitanModel(modelID string) bool {
	return strings.HasPrefix(modelID, "amazon.titan")
}

func requestPayload(gen llm.Generation, prompt string) ([]byte, error) {
	switch {
	case isAnthropicModel(gen.Model):
		body := map[string]any{
			"anthropic_version": anthropicVersion,
			"max_tokens":        gen.MaxTokens,
			"temperature":       gen.Temperature,
			"messages": []map[string]any{
				{
					"role":    "user",
					"content": []map[string]any{{"type": "text", "text": prompt}},
				},
			},
		}
		if gen.TopP > 0 {
			body["top_p"] = gen.TopP
		}
		if len(gen.Stop) > 0 {
			body["stop_sequences"] = gen.Stop
		}
		return json.Marshal(body)
	case isAmazonTitanModel(gen.Model):
		cfg := map[string]any{
			"maxTokenCount": gen.MaxTokens,
			"temperature":   gen.Temperature,
		}
		if gen.TopP > 0 {
			cfg["topP"] = gen.TopP
		}
		if len(gen.Stop) > 0 {
			cfg["stopSequences"] = gen.Stop
		}
		return json.Marshal(map[string]any{
			"inputText":            prompt,
			"textGenerationConfig": cfg,
		})
	default:
		body := map[string]any{
			"prompt":      prompt,
			"max_tokens":  gen.MaxTokens,
			"temperature": gen.Temperature,
		}
		if gen.TopP > 0 {
			body["top_p"] = gen.TopP
		}
		return json.Marshal(body)
	}
}

func responseText(modelID string, body []byte) (string, error) {
	switch {
	case isAnthropicModel(modelID):
		var resp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	case isAmazonTitanModel(modelID):
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", nil
		}
		return resp.Results[0].OutputText, nil
	default:
		var resp struct {
			Output     string `json:"output"`
			Text       string `json:"text"`
			Response   string `json:"response"`
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		for _, s := range []string{resp.Output, resp.Text, resp.Response, resp.Generation} {
			if s != "" {
				return s, nil
			}
		}
		return string(body), nil
	}
}

func mapError(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		code := respErr.HTTPStatusCode()
		if code == http.StatusForbidden {
			code = http.StatusUnauthorized
		}
		return llm.StatusError(ProviderName, code, statusMessages, err)
	}
	return llm.TransportError(ProviderName, err)
}
