package planning

import (
	"github.com/leofalp/blueprint/core/blueprint"
	"github.com/leofalp/blueprint/core/cost"
	"github.com/leofalp/blueprint/providers/ai"
)

// Response is the envelope returned to callers. It always carries Success;
// Data is set on success and Error on failure.
type Response struct {
	Success  bool     `json:"success"`
	Data     *Data    `json:"data,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Meta     *Meta    `json:"meta,omitempty"`
}

// Data holds the validated blueprint and the model text it came from.
type Data struct {
	Blueprint *blueprint.Blueprint `json:"blueprint"`
	RawOutput string               `json:"rawOutput"`
}

// Meta describes how a response was produced.
type Meta struct {
	RequestID string    `json:"requestId,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Strategy  string    `json:"strategy,omitempty"`
	Usage     *ai.Usage `json:"usage,omitempty"`
	// Cost is an estimate from list prices, absent for unpriced models.
	Cost *cost.Summary `json:"cost,omitempty"`
}

// Failure builds an error envelope.
func Failure(message string) Response {
	return Response{Success: false, Error: message}
}
