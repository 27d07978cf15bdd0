package middleware

import (
	"context"
	"time"

	"github.com/leofalp/blueprint/core/client"
	"github.com/leofalp/blueprint/providers/ai"
)

// NewTimeoutMiddleware creates a MiddlewareConfig that enforces a deadline on
// each provider call. A non-positive timeout disables the middleware. If the
// caller's context already has a shorter deadline, that one wins.
func NewTimeoutMiddleware(timeout time.Duration) client.MiddlewareConfig {
	return client.MiddlewareConfig{Send: buildSendTimeout(timeout)}
}

func buildSendTimeout(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
