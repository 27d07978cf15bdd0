package anthropic

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
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultModel     = "claude-sonnet-4-5"
	messagesEndpoint = "/messages"

	// anthropicVersion pins the wire format independently of the URL.
	anthropicVersion = "2023-06-01"

	providerName = "anthropic"
)

// ErrMissingAPIKey is returned by SendMessage when ANTHROPIC_API_KEY is unset.
var ErrMissingAPIKey = errors.New("anthropic: ANTHROPIC_API_KEY is not set")

// AnthropicProvider implements [ai.Provider] for the Messages API.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*AnthropicProvider)(nil)

// New returns an [AnthropicProvider] initialized from ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL (default https://api.anthropic.com/v1).
func New() *AnthropicProvider {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &AnthropicProvider{
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *AnthropicProvider) Name() string { return providerName }

func (p *AnthropicProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

func (p *AnthropicProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *AnthropicProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// buildHeaders returns the headers every request needs. x-api-key carries
// the credential; Anthropic does not use bearer tokens.
func (p *AnthropicProvider) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: p.apiKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}
}

func (p *AnthropicProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = defaultModel
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "anthropic provider preparing request",
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	_, resp, err := utils.DoPostSync[anthropicResponse](ctx, p.client, p.baseURL+messagesEndpoint,
		"",
		requestFromGeneric(request, model),
		p.buildHeaders()...,
	)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	result := responseToGeneric(*resp)

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
		)
	}

	return result, nil
}

func (p *AnthropicProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return ai.IsStopFinish(message)
}
