package blueprint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

const minimalBlueprint = `{
	"projectName": "Shop",
	"workflow": {
		"nodes": [
			{"id": "home", "type": "page", "label": "Home", "category": "Frontend"},
			{"id": "orders-db", "type": "database", "label": "Orders", "category": "Database"}
		],
		"edges": [
			{"id": "e1", "source": "home", "target": "orders-db", "label": "load orders"}
		]
	}
}`

func TestValidate_AcceptsMinimalBlueprint(t *testing.T) {
	out, err := Validate(decode(t, minimalBlueprint))
	require.NoError(t, err)
	assert.Equal(t, "Shop", out["projectName"])
}

func TestValidate_InjectsDefaultDetailedContext(t *testing.T) {
	in := decode(t, minimalBlueprint)

	out, err := Validate(in)
	require.NoError(t, err)

	dc, ok := out["detailedContext"].(map[string]any)
	require.True(t, ok, "detailedContext should be an object")

	nodeDetails, ok := dc[KeyNodeDetails].(map[string]any)
	require.True(t, ok, "nodeDetails should be an object")
	assert.NotNil(t, nodeDetails)
	assert.Empty(t, nodeDetails)

	assert.Equal(t, []any{}, dc[KeyIntegrations])
	assert.Equal(t, "", dc[KeyProjectOverview])
	assert.Len(t, dc, 11)

	_, mutated := in.(map[string]any)["detailedContext"]
	assert.False(t, mutated, "input must not be modified")
}

func TestValidate_ReplacesNonObjectDetailedContext(t *testing.T) {
	in := decode(t, minimalBlueprint).(map[string]any)
	in["detailedContext"] = "see attached"

	out, err := Validate(in)
	require.NoError(t, err)

	assert.IsType(t, map[string]any{}, out["detailedContext"])
	assert.Equal(t, "see attached", in["detailedContext"])
}

func TestValidate_KeepsExistingDetailedContext(t *testing.T) {
	in := decode(t, minimalBlueprint).(map[string]any)
	in["detailedContext"] = map[string]any{"projectOverview": "An online shop"}

	out, err := Validate(in)
	require.NoError(t, err)

	dc := out["detailedContext"].(map[string]any)
	assert.Equal(t, "An online shop", dc["projectOverview"])
	assert.Len(t, dc, 1, "existing context is passed through untouched")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{name: "null", input: `null`, wantPath: ""},
		{name: "array", input: `[1,2]`, wantPath: ""},
		{name: "string", input: `"blueprint"`, wantPath: ""},
		{
			name:     "missing projectName",
			input:    `{"workflow":{"nodes":[{"id":"a","type":"page","label":"A","category":"Frontend"}],"edges":[]}}`,
			wantPath: "projectName",
		},
		{
			name:     "empty projectName",
			input:    `{"projectName":"","workflow":{"nodes":[{"id":"a","type":"page","label":"A","category":"Frontend"}],"edges":[]}}`,
			wantPath: "projectName",
		},
		{
			name:     "workflow not object",
			input:    `{"projectName":"X","workflow":[]}`,
			wantPath: "workflow",
		},
		{
			name:     "nodes missing",
			input:    `{"projectName":"X","workflow":{"edges":[]}}`,
			wantPath: "workflow.nodes",
		},
		{
			name:     "nodes empty",
			input:    `{"projectName":"X","workflow":{"nodes":[],"edges":[]},"detailedContext":{}}`,
			wantPath: "workflow.nodes",
		},
		{
			name:     "edges missing",
			input:    `{"projectName":"X","workflow":{"nodes":[{"id":"a","type":"page","label":"A","category":"Frontend"}]}}`,
			wantPath: "workflow.edges",
		},
		{
			name:     "edges not array",
			input:    `{"projectName":"X","workflow":{"nodes":[{"id":"a","type":"page","label":"A","category":"Frontend"}],"edges":{}}}`,
			wantPath: "workflow.edges",
		},
		{
			name: "one node missing category",
			input: `{"projectName":"X","workflow":{"nodes":[
				{"id":"a","type":"page","label":"A","category":"Frontend"},
				{"id":"b","type":"api","label":"B"}
			],"edges":[]}}`,
			wantPath: "workflow.nodes[1].category",
		},
		{
			name:     "node not object",
			input:    `{"projectName":"X","workflow":{"nodes":["a"],"edges":[]}}`,
			wantPath: "workflow.nodes[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Validate(decode(t, tt.input))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrInvalidBlueprint))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantPath, verr.Path)
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(decode(t, minimalBlueprint)))
	assert.False(t, IsValid(nil))
}
