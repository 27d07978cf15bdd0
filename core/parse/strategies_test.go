package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json tag", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "no tag", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", input: "  \n```json {\"a\":1}```  ", want: `{"a":1}`},
		{name: "no fences", input: `  {"a":1} `, want: `{"a":1}`},
		{name: "prose kept", input: "Here:\n```json\n{}\n```", want: "Here:\n{}"},
		{name: "fence after prose on the same line", input: "Here: ```json\n{}\n```", want: "Here: \n{}"},
		{name: "backticks inside a value", input: "{\"a\":\"``` x\"}", want: "{\"a\":\"``` x\"}"},
		{name: "fenced value inside fences", input: "```json\n{\"a\":\"``` x\"}\n```", want: "{\"a\":\"``` x\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestExtractBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "prose both sides", input: `Sure! {"a":{"b":1}} Enjoy.`, want: `{"a":{"b":1}}`},
		{name: "no braces", input: "nothing here", want: "nothing here"},
		{name: "only opening", input: `{"a":1`, want: `{"a":1`},
		{name: "closing before opening", input: `} and {`, want: `} and {`},
		{name: "two objects spans both", input: `{"a":1} {"b":2}`, want: `{"a":1} {"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBoundary(tt.input))
		})
	}
}

func TestAggressiveClean(t *testing.T) {
	in := "{\n  // owner\n  name: 'x',\n  /* list */ items: [1, 2,],\n}"
	got := AggressiveClean(in)

	assert.Equal(t, `{ "name": 'x', "items": [1, 2] }`, got)
}

func TestAggressiveClean_QuotesBareKeys(t *testing.T) {
	got := AggressiveClean(`{projectName: "Shop", workflow: {nodes: [], edges: []}}`)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &v))
	assert.Equal(t, "Shop", v["projectName"])
}

func TestFixCommonErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single quotes", input: `{'a': 'b'}`, want: `{"a": "b"}`},
		{name: "trailing comma in object", input: `{"a": 1, }`, want: `{"a": 1 }`},
		{name: "trailing comma in array", input: `[1, 2,]`, want: `[1, 2]`},
		{name: "adjacent objects", input: `[{"a":1} {"b":2}]`, want: `[{"a":1},{"b":2}]`},
		{name: "adjacent arrays", input: `[[1] [2]]`, want: `[[1],[2]]`},
		{name: "control characters", input: "{\"a\":\x01 1}\x7f", want: `{"a": 1}`},
		{name: "line comment", input: "{\"a\": 1 // one\n}", want: `{"a": 1 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixCommonErrors(tt.input))
		})
	}
}

func TestRepairStructure_ClosesMissingBrace(t *testing.T) {
	in := `{"projectName":"X","workflow":{"nodes":[{"id":"a","type":"page","label":"A","category":"Frontend"}],"edges":[]}`

	got := RepairStructure(in)
	assert.Equal(t, in+"}", got)

	var v any
	assert.NoError(t, json.Unmarshal([]byte(got), &v))
}

func TestRepairStructure_ClosesInnermostFirst(t *testing.T) {
	got := RepairStructure(`{"a":[{"b":1}`)
	assert.Equal(t, `{"a":[{"b":1}]}`, got)
}

func TestRepairStructure_IgnoresBracketsInStrings(t *testing.T) {
	got := RepairStructure(`{"label":"{[not structure","x":{"y":1}`)
	assert.Equal(t, `{"label":"{[not structure","x":{"y":1}}`, got)
}

func TestCloserSequence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `{}`, want: ""},
		{input: `{"a":[`, want: "]}"},
		{input: `{"a":"unterminated`, want: `"}`},
		{input: `{"a":"esc \" quote`, want: `"}`},
		{input: `[{"a":1}]]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, closers(tt.input))
		})
	}
}

func TestLibraryRepair(t *testing.T) {
	got := LibraryRepair("```json\n{name: 'x', tags: ['a', 'b',],}\n```")

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &v))
	assert.Equal(t, "x", v["name"])
	assert.Equal(t, []any{"a", "b"}, v["tags"])
}

func TestLibraryRepair_KeepsTruncatedTail(t *testing.T) {
	got := LibraryRepair(`Sure: {"workflow":{"nodes":[{"id":"a"}],"edges":[{"id":"e1","source":"a"`)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &v), got)
	workflow, ok := v["workflow"].(map[string]any)
	require.True(t, ok, got)
	edges, ok := workflow["edges"].([]any)
	require.True(t, ok, got)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].(map[string]any)["source"])
}

func TestDefaultStrategies_Order(t *testing.T) {
	var names []string
	for _, s := range DefaultStrategies() {
		names = append(names, s.Name)
	}

	assert.Equal(t, []string{
		StrategyFences,
		StrategyBoundary,
		StrategyAggressive,
		StrategyCommonErrors,
		StrategyStructural,
		StrategyJSONRepair,
	}, names)
}
