// Package client sits between the generation orchestrator and a raw
// [ai.Provider]. It performs one upstream completion per call, threading the
// request through a middleware chain (observability, timeout, logging) and
// turning empty model output into [ErrEmptyResponse].
//
// The client does not retry. Retrying is the orchestrator's job, because a
// transport failure and a response that cannot be recovered into a
// blueprint consume the same attempt budget.
package client
