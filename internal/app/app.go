// Package app assembles the planning service from a config.Config: provider,
// client middleware, recovery pipeline, orchestrator and observability.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/leofalp/blueprint/core/client"
	"github.com/leofalp/blueprint/core/client/middleware"
	"github.com/leofalp/blueprint/core/cost"
	"github.com/leofalp/blueprint/core/generate"
	"github.com/leofalp/blueprint/core/parse"
	"github.com/leofalp/blueprint/core/planning"
	"github.com/leofalp/blueprint/internal/config"
	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/ai/anthropic"
	"github.com/leofalp/blueprint/providers/ai/gemini"
	"github.com/leofalp/blueprint/providers/ai/genai"
	"github.com/leofalp/blueprint/providers/ai/openai"
	"github.com/leofalp/blueprint/providers/observability"
	"github.com/leofalp/blueprint/providers/observability/promobs"
	"github.com/leofalp/blueprint/providers/observability/slogobs"
)

// App holds the wired components. Build one per process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Observer observability.Provider
	// Registry holds the Prometheus collectors exposed on /metrics.
	Registry     *prometheus.Registry
	Pipeline     *parse.Pipeline
	Orchestrator *generate.Orchestrator
	Service      *planning.Service
}

type options struct {
	provider  ai.Provider
	logOutput io.Writer
}

// Option customizes New.
type Option func(*options)

// WithProvider bypasses the provider named in the config.
func WithProvider(provider ai.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLogOutput redirects logs, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// New wires an App from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	logOpts := []slogobs.Option{slogobs.WithOutput(o.logOutput)}
	if cfg.Log.Level != "" {
		logOpts = append(logOpts, slogobs.WithLevel(slogobs.ParseLogLevel(cfg.Log.Level)))
	}
	if cfg.Log.Format != "" {
		logOpts = append(logOpts, slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)))
	}
	logs := slogobs.New(logOpts...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := observability.Tee(logs, promobs.New(registry))

	provider := o.provider
	if provider == nil {
		var err error
		if provider, err = NewProvider(cfg.Provider); err != nil {
			return nil, err
		}
	}

	middlewares := []client.MiddlewareConfig{middleware.NewTimeoutMiddleware(cfg.Provider.Timeout)}
	if cfg.Log.Middleware != "" {
		middlewares = append(middlewares, middleware.NewLoggingMiddleware(logs.Logger(), middleware.ParseLogLevel(cfg.Log.Middleware)))
	}

	llm, err := client.New(provider,
		client.WithObserver(observer),
		client.WithDefaultModel(cfg.Provider.Model),
		client.WithMiddleware(middlewares...),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	system, err := cfg.SystemPrompt()
	if err != nil {
		return nil, err
	}

	pipeline := NewPipeline(cfg.Recovery)
	orchestrator := generate.New(llm, pipeline, GenerateConfig(cfg),
		generate.WithPrompt(planning.Prompt(system)),
		generate.WithPricing(cost.DefaultTable().Merge(cfg.Pricing)),
	)

	return &App{
		Config:       cfg,
		Logger:       logs.Logger(),
		Observer:     observer,
		Registry:     registry,
		Pipeline:     pipeline,
		Orchestrator: orchestrator,
		Service:      planning.NewService(orchestrator),
	}, nil
}

// Context attaches the App's observer to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return observability.ContextWithObserver(ctx, a.Observer)
}

// NewProvider builds the backend named by cfg.Name. Empty APIKey and BaseURL
// leave the provider's own environment defaults in place.
func NewProvider(cfg config.ProviderConfig) (ai.Provider, error) {
	var provider ai.Provider
	switch cfg.Name {
	case "openai":
		provider = openai.New()
	case "gemini":
		provider = gemini.New()
	case "genai":
		provider = genai.New()
	case "anthropic":
		provider = anthropic.New()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}

	if cfg.APIKey != "" {
		provider = provider.WithAPIKey(cfg.APIKey)
	}
	if cfg.BaseURL != "" {
		provider = provider.WithBaseURL(cfg.BaseURL)
	}
	return provider, nil
}

// NewPipeline builds the recovery pipeline for cfg.
func NewPipeline(cfg config.RecoveryConfig) *parse.Pipeline {
	opts := []parse.Option{parse.WithStrictIntegrity(cfg.StrictIntegrity)}
	if !cfg.LibraryRepair {
		opts = append(opts, parse.WithoutLibraryRepair())
	}
	return parse.NewPipeline(opts...)
}

// GenerateConfig maps cfg onto orchestrator settings.
func GenerateConfig(cfg *config.Config) generate.Config {
	return generate.Config{
		MaxRetries: cfg.Generation.MaxRetries,
		RetryDelay: cfg.Generation.RetryDelay,
		Sampling: client.Sampling{
			Model:       cfg.Provider.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			JSONMode:    cfg.Generation.JSONMode,
		},
	}
}
