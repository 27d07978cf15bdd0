package client

import (
	"context"

	"github.com/leofalp/blueprint/providers/ai"
)

// SendFunc sends a chat request to the provider and returns the completed
// response. It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc in the chain.
type Middleware func(next SendFunc) SendFunc

// MiddlewareConfig is what middleware constructors return. Send is required;
// a nil Send makes [New] fail.
type MiddlewareConfig struct {
	Send Middleware
}

// buildSendChain wraps the provider call with middlewares. Middlewares are
// applied in reverse so that middlewares[0] is the outermost wrapper.
func buildSendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}

	return chain
}
