// Package genai is an [ai.Provider] backed by the official Google Gen AI SDK
// (google.golang.org/genai) against the Gemini API backend.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/observability"
)

const (
	defaultModel = "gemini-2.5-flash"
	providerName = "genai"
)

// ErrMissingAPIKey is returned when neither GEMINI_API_KEY nor
// GOOGLE_API_KEY is set.
var ErrMissingAPIKey = errors.New("genai: GEMINI_API_KEY is not set")

type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

var _ ai.Provider = (*Provider)(nil)

// New reads GEMINI_API_KEY (or GOOGLE_API_KEY). The SDK client is created on
// first use so configuration setters can still be applied.
func New() *Provider {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	return &Provider{apiKey: apiKey}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) WithAPIKey(apiKey string) ai.Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apiKey = apiKey
	p.client = nil
	return p
}

func (p *Provider) WithBaseURL(baseURL string) ai.Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.baseURL = strings.TrimRight(baseURL, "/")
	p.client = nil
	return p
}

func (p *Provider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.httpClient = httpClient
	p.client = nil
	return p
}

func (p *Provider) sdkClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	p.client = cli
	return cli, nil
}

func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)

	model := request.Model
	if model == "" {
		model = defaultModel
	}
	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMModel, model),
		)
	}

	cli, err := p.sdkClient(ctx)
	if err != nil {
		return nil, err
	}

	contents, config := buildRequest(request)
	resp, err := cli.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("genai: %w", err)
	}

	result := convertResponse(resp)
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

func (p *Provider) IsStopMessage(message *ai.ChatResponse) bool {
	return ai.IsStopFinish(message)
}

func buildRequest(request ai.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}

	var system []*genai.Part
	if request.SystemPrompt != "" {
		system = append(system, &genai.Part{Text: request.SystemPrompt})
	}

	var contents []*genai.Content
	for _, m := range request.Messages {
		switch m.Role {
		case ai.RoleSystem:
			system = append(system, &genai.Part{Text: m.Content})
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}

	if gc := request.GenerationConfig; gc != nil {
		temperature := gc.Temperature
		config.Temperature = &temperature
		if gc.TopP > 0 {
			topP := gc.TopP
			config.TopP = &topP
		}
		if gc.MaxTokens > 0 {
			config.MaxOutputTokens = int32(gc.MaxTokens)
		}
	}
	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSON.Type {
		config.ResponseMIMEType = "application/json"
	}

	return contents, config
}

func convertResponse(resp *genai.GenerateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{}
	if resp == nil {
		return result
	}

	result.Id = resp.ResponseID
	result.Model = resp.ModelVersion
	if result.Id == "" {
		result.Id = fmt.Sprintf("genai-%d", time.Now().UnixNano())
	}

	if u := resp.UsageMetadata; u != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount + u.ThoughtsTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = ai.FinishContentFilter
			result.Refusal = string(resp.PromptFeedback.BlockReason)
		}
		return result
	}

	candidate := resp.Candidates[0]
	switch string(candidate.FinishReason) {
	case "MAX_TOKENS":
		result.FinishReason = ai.FinishLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		result.FinishReason = ai.FinishContentFilter
	default:
		result.FinishReason = ai.FinishStop
	}

	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}
		result.Content = text.String()
	}

	return result
}
