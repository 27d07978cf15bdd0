// Package ai defines the provider-agnostic chat types shared by every model
// backend (openai, gemini, genai, anthropic). A backend maps [ChatRequest] to
// its own wire format and its answer back to [ChatResponse], keeping the
// client and generation layers free of provider details.
package ai
