// Package openai is an [ai.Provider] for OpenAI-compatible chat completion
// APIs.
//
// The default endpoint is Gemini's OpenAI-compatible surface, so the same
// client works against Gemini, OpenAI, OpenRouter or a local server by
// changing the base URL. [New] reads OPENAI_API_KEY (falling back to
// GEMINI_API_KEY) and OPENAI_API_BASE_URL. APP_URL, defaulting to
// http://localhost:3000, is sent as the HTTP-Referer attribution header.
package openai
