package ai

import (
	"context"
	"net/http"
)

// Provider is a chat-completion backend.
type Provider interface {
	// SendMessage performs one completion. It returns an error when the call
	// fails, the context ends or the answer cannot be decoded. An empty
	// Content is not an error at this level.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name identifies the backend in logs and metrics, e.g. "openai".
	Name() string

	// IsStopMessage reports whether the model ended its answer on its own.
	// A false result on a non-empty answer usually means truncation.
	IsStopMessage(message *ChatResponse) bool

	WithAPIKey(apiKey string) Provider
	WithBaseURL(baseURL string) Provider
	WithHttpClient(httpClient *http.Client) Provider
}
