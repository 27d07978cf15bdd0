package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/blueprint/core/blueprint"
	"github.com/leofalp/blueprint/providers/observability"
)

// ErrNoValidBlueprint is returned by Recover when every strategy failed.
var ErrNoValidBlueprint = errors.New("no recovery strategy produced a valid blueprint")

// Stage is the step at which a strategy's candidate was rejected.
type Stage string

const (
	StageParse     Stage = "parse"
	StageValidate  Stage = "validate"
	StageIntegrity Stage = "integrity"
)

// Attempt records why one strategy's candidate was rejected.
type Attempt struct {
	Strategy string
	Stage    Stage
	Err      error
}

// RecoveryError lists the rejected attempts of a failed recovery. It wraps
// ErrNoValidBlueprint.
type RecoveryError struct {
	Attempts []Attempt
}

func (e *RecoveryError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrNoValidBlueprint.Error()
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("%s (%d strategies tried, last %s failed at %s: %v)",
		ErrNoValidBlueprint, len(e.Attempts), last.Strategy, last.Stage, last.Err)
}

func (e *RecoveryError) Unwrap() error { return ErrNoValidBlueprint }

// Recovery is a successful pipeline result.
type Recovery struct {
	Blueprint *blueprint.Blueprint
	// Strategy is the name of the strategy whose candidate was accepted.
	Strategy string
	// Rejected holds the attempts that failed before the accepted one.
	Rejected []Attempt
	// Issues are the advisory integrity findings for the accepted blueprint.
	Issues []blueprint.Issue
}

// Pipeline runs strategies in order over raw model output. It holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	strategies      []Strategy
	strictIntegrity bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStrategies replaces the default strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(p *Pipeline) {
		p.strategies = strategies
	}
}

// WithoutLibraryRepair drops the jsonrepair strategy, leaving only the
// regex-based transforms.
func WithoutLibraryRepair() Option {
	return func(p *Pipeline) {
		kept := make([]Strategy, 0, len(p.strategies))
		for _, s := range p.strategies {
			if s.Name != StrategyJSONRepair {
				kept = append(kept, s)
			}
		}
		p.strategies = kept
	}
}

// WithStrictIntegrity makes integrity issues found by blueprint.Inspect
// reject a candidate, so the next strategy is tried.
func WithStrictIntegrity(strict bool) Option {
	return func(p *Pipeline) {
		p.strictIntegrity = strict
	}
}

// NewPipeline returns a pipeline using DefaultStrategies unless overridden.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strategies returns the names of the configured strategies in order.
func (p *Pipeline) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name
	}
	return names
}

// Recover returns the blueprint from the first strategy whose candidate
// parses and validates. Strategies are never combined. When all of them
// fail, the error is a *RecoveryError wrapping ErrNoValidBlueprint.
func (p *Pipeline) Recover(ctx context.Context, raw string) (*Recovery, error) {
	observer := observability.ObserverFromContext(ctx)

	var rejected []Attempt
	for _, strategy := range p.strategies {
		candidate := strategy.Transform(raw)

		bp, attempt := p.try(strategy.Name, candidate)
		if attempt != nil {
			rejected = append(rejected, *attempt)
			if observer != nil {
				observer.Debug(ctx, "recovery strategy rejected",
					observability.String(observability.AttrRecoveryStrategy, strategy.Name),
					observability.String(observability.AttrRecoveryStage, string(attempt.Stage)),
					observability.Error(attempt.Err),
				)
				observer.Counter(observability.MetricRecoveryStrategy).Add(ctx, 1,
					observability.String(observability.AttrRecoveryStrategy, strategy.Name),
					observability.String(observability.AttrRecoveryOutcome, string(attempt.Stage)),
				)
			}
			continue
		}

		if observer != nil {
			observer.Debug(ctx, "recovery strategy accepted",
				observability.String(observability.AttrRecoveryStrategy, strategy.Name),
				observability.Int(observability.AttrBlueprintNodes, len(bp.Workflow.Nodes)),
				observability.Int(observability.AttrBlueprintEdges, len(bp.Workflow.Edges)),
			)
			observer.Counter(observability.MetricRecoveryStrategy).Add(ctx, 1,
				observability.String(observability.AttrRecoveryStrategy, strategy.Name),
				observability.String(observability.AttrRecoveryOutcome, "accepted"),
			)
		}

		return &Recovery{
			Blueprint: bp,
			Strategy:  strategy.Name,
			Rejected:  rejected,
			Issues:    blueprint.Inspect(bp),
		}, nil
	}

	if observer != nil {
		observer.Warn(ctx, "all recovery strategies failed",
			observability.Int(observability.AttrRecoveryAttempts, len(rejected)),
		)
	}
	return nil, &RecoveryError{Attempts: rejected}
}

func (p *Pipeline) try(name, candidate string) (*blueprint.Blueprint, *Attempt) {
	if strings.TrimSpace(candidate) == "" {
		return nil, &Attempt{Strategy: name, Stage: StageParse, Err: errors.New("empty candidate")}
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, &Attempt{Strategy: name, Stage: StageParse, Err: err}
	}

	normalized, err := blueprint.Validate(value)
	if err != nil {
		return nil, &Attempt{Strategy: name, Stage: StageValidate, Err: err}
	}

	bp := blueprint.FromMap(normalized)
	if p.strictIntegrity {
		if issues := blueprint.Inspect(bp); len(issues) > 0 {
			return nil, &Attempt{Strategy: name, Stage: StageIntegrity,
				Err: fmt.Errorf("%d integrity issues, first: %s", len(issues), issues[0])}
		}
	}

	return bp, nil
}
