// Package anthropic is an [ai.Provider] for Anthropic's Messages API.
//
// Only the text surface the blueprint service needs is covered: a system
// prompt, user and assistant turns, and sampling parameters. Anthropic has no
// JSON response mode, so a JSON response format is ignored and the recovery
// pipeline handles whatever text comes back.
//
// Environment: ANTHROPIC_API_KEY and ANTHROPIC_API_BASE_URL.
package anthropic
