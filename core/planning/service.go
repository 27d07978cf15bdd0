package planning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leofalp/blueprint/core/generate"
	"github.com/leofalp/blueprint/internal/reqdoc"
	"github.com/leofalp/blueprint/providers/observability"
)

// InternalErrorMessage is the error text of an envelope produced from a
// recovered panic.
const InternalErrorMessage = "Internal server error"

// Generator produces a blueprint from requirements. *generate.Orchestrator
// implements it.
type Generator interface {
	Generate(ctx context.Context, requirements string) (*generate.Result, error)
}

// Prompt returns the orchestrator prompt function. A non-empty system
// replaces the built-in system instruction.
func Prompt(system string) generate.PromptFunc {
	if system == "" {
		system = SystemPrompt()
	}
	return func(requirements string) (string, string) {
		return system, UserPrompt(requirements)
	}
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id used in logs and the envelope.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Service is the boundary between callers (HTTP, CLI) and generation.
type Service struct {
	generator Generator
	normalize func(string) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithNormalizer replaces reqdoc.Normalize as the requirements preprocessor.
func WithNormalizer(normalize func(string) (string, error)) Option {
	return func(s *Service) {
		if normalize != nil {
			s.normalize = normalize
		}
	}
}

// NewService returns a Service backed by generator.
func NewService(generator Generator, opts ...Option) *Service {
	s := &Service{
		generator: generator,
		normalize: reqdoc.Normalize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs one blueprint generation and always returns an envelope. A
// panic anywhere below is recovered into a failure envelope.
func (s *Service) Generate(ctx context.Context, requirements string) (resp Response) {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = ContextWithRequestID(ctx, requestID)
	}

	observer := observability.ObserverFromContext(ctx)
	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanPlanningRequest,
			observability.String(observability.AttrRequestID, requestID),
		)
		ctx = observability.ContextWithSpan(ctx, span)
		defer span.End()
	}

	defer func() {
		if r := recover(); r != nil {
			if observer != nil {
				observer.Error(ctx, "panic during blueprint generation",
					observability.String(observability.AttrRequestID, requestID),
					observability.String(observability.AttrError, fmt.Sprint(r)),
				)
				span.SetStatus(observability.StatusError, "panic")
			}
			resp = Failure(InternalErrorMessage)
			resp.Meta = &Meta{RequestID: requestID}
		}
	}()

	text, err := s.normalize(requirements)
	if err != nil {
		return s.fail(ctx, observer, span, requestID, err)
	}

	result, err := s.generator.Generate(ctx, text)
	if err != nil {
		return s.fail(ctx, observer, span, requestID, err)
	}

	resp = Response{
		Success: true,
		Data: &Data{
			Blueprint: result.Blueprint,
			RawOutput: result.RawOutput,
		},
		Meta: &Meta{
			RequestID: requestID,
			Attempts:  result.Attempts,
			Strategy:  result.Strategy,
			Usage:     result.Usage,
			Cost:      result.Cost,
		},
	}
	for _, issue := range result.Issues {
		resp.Warnings = append(resp.Warnings, issue.String())
	}

	if observer != nil {
		observer.Info(ctx, "blueprint request completed",
			observability.String(observability.AttrRequestID, requestID),
			observability.Int(observability.AttrBlueprintNodes, len(result.Blueprint.Workflow.Nodes)),
			observability.Int(observability.AttrBlueprintEdges, len(result.Blueprint.Workflow.Edges)),
			observability.Int(observability.AttrBlueprintIssues, len(result.Issues)),
		)
		span.SetStatus(observability.StatusOK, "success")
	}

	return resp
}

func (s *Service) fail(ctx context.Context, observer observability.Provider, span observability.Span, requestID string, err error) Response {
	if observer != nil {
		observer.Error(ctx, "blueprint request failed",
			observability.String(observability.AttrRequestID, requestID),
			observability.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "failed")
	}
	resp := Failure(err.Error())
	resp.Meta = &Meta{RequestID: requestID}
	return resp
}
