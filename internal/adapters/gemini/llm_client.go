package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/mikey/moodiary/internal/adapters/llm"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProviderName is the configuration name of the Gemini provider
const ProviderName = "gemini"

const invalidKeyReason = "API_KEY_INVALID"

var statusMessages = map[int]string{
	http.StatusUnauthorized:       "API key invalid",
	http.StatusForbidden:          "API key lacks permission",
	http.StatusTooManyRequests:    "quota exceeded",
	http.StatusServiceUnavailable: "service unavailable",
}

var models = []core.LLMModelInfo{
	{Name: "gemini-1.5-flash", DisplayName: "Gemini 1.5 Flash", ContextLength: 1048576, SupportedLanguages: []string{"zh", "en"}, Available: true},
	{Name: "gemini-1.5-pro", DisplayName: "Gemini 1.5 Pro", ContextLength: 2097152, SupportedLanguages: []string{"zh", "en"}, Available: true},
	{Name: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", ContextLength: 1048576, SupportedLanguages: []string{"zh", "en"}, Available: true},
}

// USD per million tokens, input then output
var pricing = map[string][2]float64{
	"gemini-1.5-flash": {0.075, 0.30},
	"gemini-1.5-pro":   {1.25, 5.00},
	"gemini-2.0-flash": {0.10, 0.40},
}

// Provider is an implementation of the LLMProvider interface using Google Gemini
type Provider struct {
	defaults   llm.Generation
	timeout    time.Duration
	clientOpts []option.ClientOption
	logger     *zap.Logger
}

// NewProvider creates a new Gemini provider. Extra client options are appended
// after the API key on every call.
func NewProvider(
	modelName string,
	maxTokens int,
	topP float32,
	timeout time.Duration,
	logger *zap.Logger,
	clientOpts ...option.ClientOption,
) *Provider {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Provider{
		defaults: llm.Generation{
			Model:       modelName,
			MaxTokens:   maxTokens,
			Temperature: 0.7,
			TopP:        topP,
		},
		timeout:    timeout,
		clientOpts: clientOpts,
		logger:     logger,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return ProviderName
}

// RequiresAPIKey is always true for Gemini
func (p *Provider) RequiresAPIKey() bool {
	return true
}

// GenerateText sends prompt to Gemini and returns the text of the first candidate
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	if opts.APIKey == "" {
		return "", llm.MissingKeyError(ProviderName)
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
			zap.String("provider", ProviderName),
			zap.Strings("parameters", ignored))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	clientOpts := append([]option.ClientOption{option.WithAPIKey(opts.APIKey)}, p.clientOpts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create Gemini client: %w", core.ErrConfiguration, err)
	}
	defer client.Close()

	model := client.GenerativeModel(gen.Model)
	model.SetTemperature(gen.Temperature)
	if gen.TopP > 0 {
		model.SetTopP(gen.TopP)
	}
	if gen.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(gen.MaxTokens))
	}
	if len(gen.Stop) > 0 {
		model.StopSequences = gen.Stop
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapError(err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", llm.EmptyResponseError(ProviderName)
	}

	if resp.UsageMetadata != nil {
		p.logger.Debug("Gemini content generated",
			zap.String("model", gen.Model),
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("candidate_tokens", resp.UsageMetadata.CandidatesTokenCount))
	}

	return text, nil
}

// TestConnection performs a minimal generation and reports whether it succeeded
func (p *Provider) TestConnection(ctx context.Context, apiKey string) bool {
	_, err := p.GenerateText(ctx, "你好", core.GenerateOptions{
		APIKey:     apiKey,
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

// AvailableModels returns the static Gemini catalog
func (p *Provider) AvailableModels(ctx context.Context, apiKey string) []core.LLMModelInfo {
	out := make([]core.LLMModelInfo, len(models))
	copy(out, models)
	return out
}

// EstimateCost returns the list-price cost of a call in USD
func (p *Provider) EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	price, ok := pricing[model]
	if !ok {
		return 0, false
	}
	return (float64(inputTokens)*price[0] + float64(outputTokens)*price[1]) / 1e6, true
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func mapError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Reason() == invalidKeyReason {
			return llm.StatusError(ProviderName, http.StatusUnauthorized, statusMessages, err)
		}
		if code := apiErr.HTTPCode(); code > 0 {
			return llm.StatusError(ProviderName, code, statusMessages, err)
		}
		if st := apiErr.GRPCStatus(); st != nil {
			if code, ok := grpcStatusCode(st.Code()); ok {
				return llm.StatusError(ProviderName, code, statusMessages, err)
			}
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code > 0 {
		return llm.StatusError(ProviderName, gErr.Code, statusMessages, err)
	}

	if st, ok := status.FromError(err); ok {
		if code, ok := grpcStatusCode(st.Code()); ok {
			return llm.StatusError(ProviderName, code, statusMessages, err)
		}
	}

	return llm.TransportError(ProviderName, err)
}

// grpcStatusCode translates the gRPC codes that have an HTTP equivalent in the error taxonomy
func grpcStatusCode(c codes.Code) (int, bool) {
	switch c {
	case codes.Unauthenticated, codes.PermissionDenied:
		return http.StatusUnauthorized, true
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests, true
	case codes.Unavailable, codes.Internal:
		return http.StatusServiceUnavailable, true
	default:
		return 0, false
	}
}
