package blueprint

import (
	"strconv"
)

// FromMap converts a value accepted by Validate into a typed Blueprint.
//
// Conversion is lenient: numbers and booleans found in string fields are
// formatted, optional fields of the wrong shape are dropped, and unknown keys
// are ignored. String lists are never nil, so absent lists serialize as [].
// It never fails, so callers must validate first.
func FromMap(m map[string]any) *Blueprint {
	bp := &Blueprint{
		ProjectName: stringOf(m["projectName"]),
		Description: stringOf(m["description"]),
		Features:    stringsOf(m["features"]),
	}

	ts, _ := m["techStack"].(map[string]any)
	bp.TechStack = TechStack{
		Frontend: stringsOf(ts["frontend"]),
		Backend:  stringsOf(ts["backend"]),
		Database: stringsOf(ts["database"]),
		External: stringsOf(ts["external"]),
	}

	if wf, ok := m["workflow"].(map[string]any); ok {
		nodes, _ := wf["nodes"].([]any)
		bp.Workflow.Nodes = make([]Node, 0, len(nodes))
		for _, raw := range nodes {
			n, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			bp.Workflow.Nodes = append(bp.Workflow.Nodes, Node{
				ID:       stringOf(n["id"]),
				Type:     NodeType(stringOf(n["type"])),
				Label:    stringOf(n["label"]),
				Category: Category(stringOf(n["category"])),
			})
		}

		edges, _ := wf["edges"].([]any)
		bp.Workflow.Edges = make([]Edge, 0, len(edges))
		for _, raw := range edges {
			e, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			bp.Workflow.Edges = append(bp.Workflow.Edges, Edge{
				ID:     stringOf(e["id"]),
				Source: stringOf(e["source"]),
				Target: stringOf(e["target"]),
				Label:  stringOf(e["label"]),
				Type:   EdgeType(stringOf(e["type"])),
			})
		}
	}

	if dc, ok := m["detailedContext"].(map[string]any); ok {
		bp.DetailedContext = DetailedContext(dc)
	} else {
		bp.DetailedContext = DefaultDetailedContext()
	}

	if phases, ok := m["phases"].([]any); ok {
		for _, raw := range phases {
			p, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			bp.Phases = append(bp.Phases, Phase{
				Phase:        stringOf(p["phase"]),
				Tasks:        stringsOf(p["tasks"]),
				Reasoning:    stringOf(p["reasoning"]),
				Dependencies: stringsOf(p["dependencies"]),
				Duration:     stringOf(p["duration"]),
			})
		}
	}

	return bp
}

func stringOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func stringsOf(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringOf(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
