package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/blueprint/internal/utils"
	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/observability"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	// DefaultModel is used when a request does not name one.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTitle is sent as X-Title.
	DefaultTitle = "Multi-Agent Planning System"

	chatCompletionsEndpoint = "/chat/completions"
	providerName            = "openai"
)

// ErrMissingAPIKey is returned by SendMessage when no key is configured.
var ErrMissingAPIKey = errors.New("openai: API key is not set (OPENAI_API_KEY or GEMINI_API_KEY)")

// OpenAIProvider talks to /chat/completions.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	referer string
	title   string
}

var _ ai.Provider = (*OpenAIProvider)(nil)

// New builds a provider from the environment.
func New() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		referer: appURL(),
		title:   DefaultTitle,
	}
}

func (p *OpenAIProvider) Name() string { return providerName }

func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// WithAttribution sets the HTTP-Referer and X-Title headers. Empty values
// are not sent.
func (p *OpenAIProvider) WithAttribution(referer, title string) *OpenAIProvider {
	p.referer = referer
	p.title = title
	return p
}

func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}
	url := p.baseURL + chatCompletionsEndpoint

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, url),
			observability.String(observability.AttrLLMModel, model),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "openai provider preparing request",
			observability.String(observability.AttrLLMEndpoint, url),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, url, p.apiKey,
		requestFromGeneric(request, model),
		utils.HeaderOption{Key: "HTTP-Referer", Value: p.referer},
		utils.HeaderOption{Key: "X-Title", Value: p.title},
	)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	result := responseToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
		)
	}

	return result, nil
}

func (p *OpenAIProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return ai.IsStopFinish(message)
}

// appURL is the HTTP-Referer value: APP_URL, or the local dev server.
func appURL() string {
	if u := os.Getenv("APP_URL"); u != "" {
		return u
	}
	return "http://localhost:3000"
}
