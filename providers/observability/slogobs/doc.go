// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metrics are rendered as debug log records; counters also keep a
// running total that can be read back with [Observer.CounterValue]. Output
// format and level come from BLUEPRINT_LOG_FORMAT and BLUEPRINT_LOG_LEVEL
// (falling back to LOG_FORMAT and LOG_LEVEL) unless set with [WithFormat] and
// [WithLevel].
package slogobs
