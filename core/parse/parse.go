package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs parses model or client text into T.
//
// Primitive kinds (string, bool, int, uint, float) are converted directly,
// falling back to unwrapping a {"type": ..., "value": ...} envelope that
// models sometimes emit instead of the bare value. Every other kind is decoded
// as JSON, trying in turn: the raw text, the fence-stripped text, the
// brace-bounded text, the jsonrepair output and finally the repaired text with
// schema envelopes unwrapped.
//
// Example usage:
//
//	type Request struct {
//	    Requirements string `json:"requirements"`
//	}
//
//	req, err := ParseStringAs[Request]("```json\n{requirements: 'a shop'}\n```")
//	n, err := ParseStringAs[int](`{"type": "integer", "value": 42}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if len(content) > 0 && content[0] == '{' {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setPrimitive(target, content)
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
			if err := setPrimitive(target, unwrapped); err == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("failed to parse content as %s: %w", target.Kind(), err)

	default:
		return parseJSONAs[T](content)
	}
}

func setPrimitive(target reflect.Value, content string) error {
	switch target.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(content)
		if err != nil {
			return err
		}
		target.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(content, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetFloat(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(content, 10, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetInt(v)
	default:
		v, err := strconv.ParseUint(content, 10, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetUint(v)
	}
	return nil
}

func parseJSONAs[T any](content string) (T, error) {
	var result T

	candidates := []string{content, StripFences(content), ExtractBoundary(StripFences(content))}
	var firstErr error
	for _, candidate := range candidates {
		var v T
		err := json.Unmarshal([]byte(candidate), &v)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidates[2])
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, firstErr, repairErr)
	}

	err := json.Unmarshal([]byte(repaired), &result)
	if err == nil {
		return result, nil
	}

	// Models sometimes confuse a JSON schema with the data it describes.
	if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
		var v T
		if json.Unmarshal([]byte(unwrapped), &v) == nil {
			return v, nil
		}
	}

	return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (repaired: %s)", result, err, repaired)
}

var errNotWrapped = errors.New("not a schema-wrapped value")

// tryUnwrapPrimitive returns the string form of the value inside a
// {"type": ..., "value": ...} envelope.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	value, ok := schemaValue(data)
	if !ok {
		return "", errNotWrapped
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// unwrapSchemaValues replaces every {"type": ..., "value": ...} envelope in
// jsonStr with its value.
//
// Example input:
//
//	{"name": {"type": "string", "value": "John"}, "age": {"type": "integer", "value": 30}}
//
// Example output:
//
//	{"age":30,"name":"John"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	encoded, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := schemaValue(v); ok {
			return recursiveUnwrap(value)
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = recursiveUnwrap(val)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = recursiveUnwrap(val)
		}
		return out

	default:
		return data
	}
}

// schemaValue reports whether m is exactly a {"type", "value"} pair.
func schemaValue(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, hasType := m["type"]; !hasType {
		return nil, false
	}
	value, hasValue := m["value"]
	return value, hasValue
}
