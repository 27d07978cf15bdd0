package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/observability"
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// Sampling holds the per-call generation parameters.
type Sampling struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32

	// JSONMode asks the backend for a JSON object where it supports that.
	JSONMode bool
}

// Client performs single upstream completions. It is immutable after New
// and safe for concurrent use.
type Client struct {
	provider     ai.Provider
	send         SendFunc
	observer     observability.Provider
	defaultModel string
}

type options struct {
	observer     observability.Provider
	middlewares  []MiddlewareConfig
	defaultModel string
}

// Option configures a Client.
type Option func(*options)

// WithObserver installs the observability middleware as the outermost
// wrapper. A nil observer is ignored.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMiddleware appends middlewares to the chain, outermost first.
func WithMiddleware(middlewares ...MiddlewareConfig) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithDefaultModel sets the model used when Sampling.Model is empty.
func WithDefaultModel(model string) Option {
	return func(o *options) {
		o.defaultModel = model
	}
}

// New builds a Client around provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, errors.New("client: provider is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	for i, m := range o.middlewares {
		if m.Send == nil {
			return nil, fmt.Errorf("client: middleware %d has a nil Send function", i)
		}
	}

	chain := o.middlewares
	if o.observer != nil {
		chain = append([]MiddlewareConfig{NewObservabilityMiddleware(o.observer, o.defaultModel)}, chain...)
	}

	return &Client{
		provider:     provider,
		send:         buildSendChain(provider, chain),
		observer:     o.observer,
		defaultModel: o.defaultModel,
	}, nil
}

// ProviderName returns the name of the wrapped provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Complete sends one system instruction and one user message and returns the
// model's answer. A response whose content is blank yields ErrEmptyResponse;
// the response is still returned so callers can inspect usage and finish
// reason.
func (c *Client) Complete(ctx context.Context, system, user string, sampling Sampling) (*ai.ChatResponse, error) {
	model := sampling.Model
	if model == "" {
		model = c.defaultModel
	}

	request := ai.NewRequest(model, system, user, &ai.GenerationConfig{
		MaxTokens:   sampling.MaxTokens,
		Temperature: sampling.Temperature,
		TopP:        sampling.TopP,
	})
	if sampling.JSONMode {
		request.ResponseFormat = ai.ResponseFormatJSON
	}

	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		switch {
		case response == nil:
			return nil, ErrEmptyResponse
		case response.Refusal != "":
			return response, fmt.Errorf("%w (refused: %s)", ErrEmptyResponse, response.Refusal)
		case response.FinishReason != "":
			return response, fmt.Errorf("%w (finish reason %s)", ErrEmptyResponse, response.FinishReason)
		}
		return response, ErrEmptyResponse
	}

	return response, nil
}
