package blueprint

import (
	"errors"
	"fmt"
	"maps"
)

// ErrInvalidBlueprint is wrapped by every error returned from Validate.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// ValidationError describes the first structural violation found in a value.
type ValidationError struct {
	Path   string // JSON path of the offending field, e.g. "workflow.nodes[2].category"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidBlueprint, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidBlueprint, e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidBlueprint }

func invalid(path, reason string) error {
	return &ValidationError{Path: path, Reason: reason}
}

// requiredNodeFields must be non-empty strings on every node.
var requiredNodeFields = []string{"id", "type", "label", "category"}

// Validate checks that v, a value decoded from JSON into any, has the shape of
// a blueprint. On success it returns a shallow copy of the top-level object in
// which detailedContext is guaranteed to be an object: when the input lacks
// it, or carries a non-object, the copy holds DefaultDetailedContext(). The
// input is never modified.
//
// A single bad node rejects the whole value.
func Validate(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return nil, invalid("", "not an object")
	}

	if name, _ := obj["projectName"].(string); name == "" {
		return nil, invalid("projectName", "missing or empty")
	}

	workflow, ok := obj["workflow"].(map[string]any)
	if !ok {
		return nil, invalid("workflow", "missing or not an object")
	}

	nodes, ok := workflow["nodes"].([]any)
	if !ok {
		return nil, invalid("workflow.nodes", "missing or not an array")
	}
	if len(nodes) == 0 {
		return nil, invalid("workflow.nodes", "empty")
	}

	if _, ok := workflow["edges"].([]any); !ok {
		return nil, invalid("workflow.edges", "missing or not an array")
	}

	for i, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			return nil, invalid(fmt.Sprintf("workflow.nodes[%d]", i), "not an object")
		}
		for _, field := range requiredNodeFields {
			if s, _ := node[field].(string); s == "" {
				return nil, invalid(fmt.Sprintf("workflow.nodes[%d].%s", i, field), "missing or empty")
			}
		}
	}

	out := maps.Clone(obj)
	if _, ok := obj["detailedContext"].(map[string]any); !ok {
		out["detailedContext"] = map[string]any(DefaultDetailedContext())
	}

	return out, nil
}

// IsValid reports whether Validate accepts v.
func IsValid(v any) bool {
	_, err := Validate(v)
	return err == nil
}
