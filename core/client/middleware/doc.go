// Package middleware provides built-in middleware for the blueprint client.
// Each constructor returns a [client.MiddlewareConfig] ready for
// [client.WithMiddleware].
//
//   - [NewTimeoutMiddleware] bounds a single upstream call with
//     context.WithTimeout so a stalled provider cannot eat the whole retry
//     budget.
//   - [NewLoggingMiddleware] writes slog entries before and after every call,
//     at Minimal, Standard or Verbose detail.
//
// Middlewares execute outermost-first:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(90*time.Second),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Retrying is deliberately absent; see package generate.
package middleware
