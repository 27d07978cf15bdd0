package generate

import (
	"context"
	"errors"
	"time"

	"github.com/leofalp/blueprint/core/blueprint"
	"github.com/leofalp/blueprint/core/client"
	"github.com/leofalp/blueprint/core/cost"
	"github.com/leofalp/blueprint/core/parse"
	"github.com/leofalp/blueprint/internal/retry"
	"github.com/leofalp/blueprint/internal/utils"
	"github.com/leofalp/blueprint/providers/ai"
	"github.com/leofalp/blueprint/providers/observability"
)

const (
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1500 * time.Millisecond
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 16000
)

// Failure kinds, used as the status label of attempt metrics.
const (
	FailureTransport = "transport"
	FailureEmpty     = "empty"
	FailureRecovery  = "recovery"
)

// Completer performs one upstream completion. *client.Client implements it.
type Completer interface {
	Complete(ctx context.Context, system, user string, sampling client.Sampling) (*ai.ChatResponse, error)
}

// Recoverer turns raw model output into a blueprint. *parse.Pipeline
// implements it.
type Recoverer interface {
	Recover(ctx context.Context, raw string) (*parse.Recovery, error)
}

// Config tunes the orchestrator.
type Config struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
	Sampling   client.Sampling
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
		Sampling: client.Sampling{
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			JSONMode:    true,
		},
	}
}

// PromptFunc builds the system instruction and user text for requirements.
type PromptFunc func(requirements string) (system, user string)

// Result is a successful generation.
type Result struct {
	Blueprint *blueprint.Blueprint
	// RawOutput is the model text the blueprint was recovered from.
	RawOutput string
	// Attempts is the 1-based attempt that succeeded.
	Attempts int
	// Strategy names the recovery strategy that was accepted.
	Strategy string
	// Usage sums token usage over all attempts, failed ones included.
	Usage *ai.Usage
	// Cost prices Usage for the sampling model; nil when the model is unpriced.
	Cost   *cost.Summary
	Issues []blueprint.Issue
}

// Orchestrator runs generation attempts. It is safe for concurrent use.
type Orchestrator struct {
	completer Completer
	recoverer Recoverer
	prompt    PromptFunc
	prices    cost.Table
	cfg       Config
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPrompt sets how requirements become prompts. Without it the
// requirements are sent as the user text with no system instruction.
func WithPrompt(prompt PromptFunc) Option {
	return func(o *Orchestrator) {
		if prompt != nil {
			o.prompt = prompt
		}
	}
}

// WithPricing replaces cost.DefaultTable for cost estimates.
func WithPricing(prices cost.Table) Option {
	return func(o *Orchestrator) {
		if prices != nil {
			o.prices = prices
		}
	}
}

// New returns an Orchestrator. A nil recoverer means parse.NewPipeline().
// Negative MaxRetries and RetryDelay are treated as zero.
func New(completer Completer, recoverer Recoverer, cfg Config, opts ...Option) *Orchestrator {
	if recoverer == nil {
		recoverer = parse.NewPipeline()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}

	o := &Orchestrator{
		completer: completer,
		recoverer: recoverer,
		cfg:       cfg,
		prices:    cost.DefaultTable(),
		prompt: func(requirements string) (string, string) {
			return "", requirements
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Generate asks the model for a blueprint until one is recovered or the
// attempts run out. On exhaustion the error wraps retry.ErrExhausted and the
// last failure, and reads "failed after N attempts: <reason>".
func (o *Orchestrator) Generate(ctx context.Context, requirements string) (*Result, error) {
	observer := observability.ObserverFromContext(ctx)
	system, user := o.prompt(requirements)

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanGenerate,
			observability.Int(observability.AttrGenerationMaxAttempts, o.cfg.MaxRetries+1),
			observability.Int(observability.AttrRequestRequirementsLength, len(requirements)),
		)
		ctx = observability.ContextWithSpan(ctx, span)
		defer span.End()
	}

	timer := utils.NewTimer()
	var result *Result
	var usage *ai.Usage

	policy := retry.Policy{
		MaxRetries: o.cfg.MaxRetries,
		Delay:      o.cfg.RetryDelay,
		OnRetry: func(attempt int, err error) {
			if observer == nil {
				return
			}
			observer.Warn(ctx, "generation attempt failed, retrying",
				observability.Int(observability.AttrGenerationAttempt, attempt),
				observability.String(observability.AttrGenerationFailure, FailureKind(err)),
				observability.Duration("retry.delay", o.cfg.RetryDelay),
				observability.Error(err),
			)
			span.AddEvent(observability.EventRetryScheduled,
				observability.Int(observability.AttrGenerationAttempt, attempt),
			)
		},
	}

	attempts, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		raw, attemptUsage, err := o.attempt(ctx, system, user)
		usage = usage.Add(attemptUsage)
		if err != nil {
			o.recordAttempt(ctx, observer, span, attempt, FailureKind(err), err)
			return err
		}

		rec, err := o.recoverer.Recover(ctx, raw)
		if err != nil {
			o.recordAttempt(ctx, observer, span, attempt, FailureRecovery, err)
			return err
		}

		o.recordAttempt(ctx, observer, span, attempt, "success", nil)
		result = &Result{
			Blueprint: rec.Blueprint,
			RawOutput: raw,
			Attempts:  attempt,
			Strategy:  rec.Strategy,
			Issues:    rec.Issues,
		}
		return nil
	})
	timer.Stop()

	if err != nil {
		if observer != nil {
			observer.Histogram(observability.MetricGenerationDuration).Record(ctx, timer.GetDuration().Seconds(),
				observability.String(observability.AttrStatus, "failure"),
			)
			observer.Error(ctx, "blueprint generation failed",
				observability.Int(observability.AttrGenerationAttempt, attempts),
				observability.Duration(observability.AttrDuration, timer.GetDuration()),
				observability.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "generation failed")
		}
		return nil, err
	}

	result.Usage = usage
	result.Cost = o.prices.Estimate(o.cfg.Sampling.Model, usage)

	if observer != nil {
		observer.Histogram(observability.MetricGenerationDuration).Record(ctx, timer.GetDuration().Seconds(),
			observability.String(observability.AttrStatus, "success"),
		)
		observer.Info(ctx, "blueprint generated",
			observability.String(observability.AttrBlueprintProject, result.Blueprint.ProjectName),
			observability.Int(observability.AttrBlueprintNodes, len(result.Blueprint.Workflow.Nodes)),
			observability.Int(observability.AttrBlueprintEdges, len(result.Blueprint.Workflow.Edges)),
			observability.Int(observability.AttrGenerationAttempt, result.Attempts),
			observability.String(observability.AttrRecoveryStrategy, result.Strategy),
			observability.Duration(observability.AttrDuration, timer.GetDuration()),
		)
		span.SetAttributes(
			observability.Int(observability.AttrRecoveryAttempts, result.Attempts),
			observability.String(observability.AttrRecoveryStrategy, result.Strategy),
		)
		span.SetStatus(observability.StatusOK, "success")
	}

	return result, nil
}

// attempt performs one upstream call and returns its text.
func (o *Orchestrator) attempt(ctx context.Context, system, user string) (string, *ai.Usage, error) {
	resp, err := o.completer.Complete(ctx, system, user, o.cfg.Sampling)
	var usage *ai.Usage
	if resp != nil {
		usage = resp.Usage
	}
	if err != nil {
		return "", usage, err
	}
	return resp.Content, usage, nil
}

func (o *Orchestrator) recordAttempt(ctx context.Context, observer observability.Provider, span observability.Span, attempt int, status string, err error) {
	if observer == nil {
		return
	}
	observer.Counter(observability.MetricGenerationAttempts).Add(ctx, 1,
		observability.String(observability.AttrStatus, status),
	)
	if err != nil {
		span.AddEvent(observability.EventAttemptFailed,
			observability.Int(observability.AttrGenerationAttempt, attempt),
			observability.String(observability.AttrGenerationFailure, status),
			observability.Error(err),
		)
	}
}

// FailureKind classifies an attempt error as transport, empty or recovery.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, client.ErrEmptyResponse):
		return FailureEmpty
	case errors.Is(err, parse.ErrNoValidBlueprint):
		return FailureRecovery
	default:
		return FailureTransport
	}
}
