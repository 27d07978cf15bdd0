// Package observability defines the tracing, metrics and logging interfaces
// used across the blueprint service, plus the attribute, span and metric names
// they share.
//
// [Provider] composes [Tracer], [Metrics] and [Logger]. It travels through a
// [context.Context] via [ContextWithObserver] and [ObserverFromContext]; the
// active [Span] via [ContextWithSpan] and [SpanFromContext]. A missing
// observer is not an error: instrumented code simply skips reporting.
//
// Implementations live in the slogobs (log/slog) and promobs (Prometheus)
// subpackages and can be combined with [Tee].
package observability
