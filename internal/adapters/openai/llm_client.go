package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/moodiary/internal/adapters/llm"
	"github.com/mikey/moodiary/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const connectionTestPrompt = "你好"

// Provider is an implementation of the LLMProvider interface for OpenAI-compatible
// chat-completion services
type Provider struct {
	preset     Preset
	baseURL    string
	defaults   llm.Generation
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProvider creates a provider for preset. An empty baseURL uses the preset default.
func NewProvider(
	preset Preset,
	baseURL string,
	maxTokens int,
	timeout time.Duration,
	logger *zap.Logger,
) *Provider {
	if baseURL == "" {
		baseURL = preset.BaseURL
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}

	return &Provider{
		preset:  preset,
		baseURL: baseURL,
		defaults: llm.Generation{
			Model:       preset.DefaultModel,
			MaxTokens:   maxTokens,
			Temperature: 0.7,
		},
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.preset.Name
}

// RequiresAPIKey is always true for chat-completion services
func (p *Provider) RequiresAPIKey() bool {
	return true
}

// GenerateText sends prompt as a single user message and returns the first completion
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	if opts.APIKey == "" {
		return "", llm.MissingKeyError(p.preset.Name)
	}

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
			zap.String("provider", p.preset.Name),
			zap.Strings("parameters", ignored))
	}

	req := openai.ChatCompletionRequest{
		Model: gen.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:        gen.MaxTokens,
		Temperature:      gen.Temperature,
		TopP:             gen.TopP,
		PresencePenalty:  gen.PresencePenalty,
		FrequencyPenalty: gen.FrequencyPenalty,
		Stop:             gen.Stop,
		Seed:             gen.Seed,
		Stream:           false,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client(opts.APIKey).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.EmptyResponseError(p.preset.Name)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", llm.EmptyResponseError(p.preset.Name)
	}

	p.logger.Debug("Chat completion received",
		zap.String("provider", p.preset.Name),
		zap.String("model", gen.Model),
		zap.String("id", resp.ID),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return content, nil
}

// TestConnection performs a minimal completion and reports whether it succeeded
func (p *Provider) TestConnection(ctx context.Context, apiKey string) bool {
	_, err := p.GenerateText(ctx, connectionTestPrompt, core.GenerateOptions{
		APIKey:     apiKey,
		Parameters: map[string]any{"max_tokens": 5},
	})
	if err != nil {
		p.logger.Warn("Connection test failed",
			zap.String("provider", p.preset.Name),
			zap.Error(err))
		return false
	}
	return true
}

// AvailableModels returns the static catalog of the preset
func (p *Provider) AvailableModels(ctx context.Context, apiKey string) []core.LLMModelInfo {
	models := make([]core.LLMModelInfo, len(p.preset.Models))
	copy(models, p.preset.Models)
	return models
}

// EstimateCost is not tracked for chat-completion services
func (p *Provider) EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	return 0, false
}

func (p *Provider) client(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = p.baseURL
	cfg.HTTPClient = p.httpClient
	return openai.NewClientWithConfig(cfg)
}

func (p *Provider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return llm.StatusError(p.preset.Name, apiErr.HTTPStatusCode, p.preset.StatusMessages, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return llm.StatusError(p.preset.Name, reqErr.HTTPStatusCode, p.preset.StatusMessages, err)
	}

	return llm.TransportError(p.preset.Name, err)
}
