package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// wellFormedJSON draws compact JSON objects whose strings are alphanumeric,
// so no strategy has quotes, comments or colons inside values to trip over.
func wellFormedJSON(t *rapid.T) string {
	word := rapid.StringMatching(`[A-Za-z0-9]{1,12}`)
	obj := map[string]any{}
	for i, n := 0, rapid.IntRange(1, 5).Draw(t, "fields"); i < n; i++ {
		key := word.Draw(t, "key")
		switch rapid.IntRange(0, 3).Draw(t, "kind") {
		case 0:
			obj[key] = word.Draw(t, "str")
		case 1:
			obj[key] = rapid.IntRange(-1000, 1000).Draw(t, "num")
		case 2:
			obj[key] = rapid.SliceOfN(word, 0, 4).Draw(t, "list")
		default:
			obj[key] = map[string]any{word.Draw(t, "inner"): word.Draw(t, "innerValue")}
		}
	}
	encoded, err := json.Marshal(obj)
	require.NoError(t, err)
	return string(encoded)
}

func TestStrategies_IdempotentOnWellFormedJSON(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc := wellFormedJSON(rt)
		for _, s := range DefaultStrategies() {
			once := s.Transform(doc)
			require.Equal(rt, once, s.Transform(once), "strategy %s", s.Name)

			var v any
			require.NoError(rt, json.Unmarshal([]byte(once), &v), "strategy %s output %q", s.Name, once)
		}
	})
}

func TestRepairStructure_AnyTruncationOfAnObjectClosesIt(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc := wellFormedJSON(rt)
		// Cut right after a closing brace or bracket so no token is split.
		var cuts []int
		for i := 1; i <= len(doc); i++ {
			if doc[i-1] == '}' || doc[i-1] == ']' {
				cuts = append(cuts, i)
			}
		}
		cut := rapid.SampledFrom(cuts).Draw(rt, "cut")

		var v any
		require.NoError(rt, json.Unmarshal([]byte(RepairStructure(doc[:cut])), &v))
	})
}
