package blueprint

import "fmt"

// IssueCode identifies a kind of integrity problem reported by Inspect.
type IssueCode string

const (
	IssueDuplicateNodeID IssueCode = "duplicate_node_id"
	IssueDuplicateEdgeID IssueCode = "duplicate_edge_id"
	IssueDanglingEdge    IssueCode = "dangling_edge"
	IssueUnknownNodeType IssueCode = "unknown_node_type"
	IssueUnknownCategory IssueCode = "unknown_category"
	IssueUnknownEdgeType IssueCode = "unknown_edge_type"
)

// Issue is an advisory finding about a structurally valid blueprint.
type Issue struct {
	Code    IssueCode `json:"code"`
	Element string    `json:"element,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// Inspect reports integrity problems that Validate does not check: duplicate
// node or edge ids, edges whose source or target is not a node, and values
// outside the known enumerations. The result is nil for a clean blueprint.
func Inspect(bp *Blueprint) []Issue {
	if bp == nil {
		return nil
	}

	var issues []Issue
	nodeIDs := make(map[string]struct{}, len(bp.Workflow.Nodes))

	for _, n := range bp.Workflow.Nodes {
		if _, seen := nodeIDs[n.ID]; seen {
			issues = append(issues, Issue{Code: IssueDuplicateNodeID, Element: n.ID,
				Message: fmt.Sprintf("node id %q is used more than once", n.ID)})
		}
		nodeIDs[n.ID] = struct{}{}

		if !n.Type.Valid() {
			issues = append(issues, Issue{Code: IssueUnknownNodeType, Element: n.ID,
				Message: fmt.Sprintf("node %q has unknown type %q", n.ID, n.Type)})
		}
		if !n.Category.Valid() {
			issues = append(issues, Issue{Code: IssueUnknownCategory, Element: n.ID,
				Message: fmt.Sprintf("node %q has unknown category %q", n.ID, n.Category)})
		}
	}

	edgeIDs := make(map[string]struct{}, len(bp.Workflow.Edges))
	for _, e := range bp.Workflow.Edges {
		if e.ID != "" {
			if _, seen := edgeIDs[e.ID]; seen {
				issues = append(issues, Issue{Code: IssueDuplicateEdgeID, Element: e.ID,
					Message: fmt.Sprintf("edge id %q is used more than once", e.ID)})
			}
			edgeIDs[e.ID] = struct{}{}
		}

		if _, ok := nodeIDs[e.Source]; !ok {
			issues = append(issues, Issue{Code: IssueDanglingEdge, Element: e.ID,
				Message: fmt.Sprintf("edge %q source %q is not a node", e.ID, e.Source)})
		}
		if _, ok := nodeIDs[e.Target]; !ok {
			issues = append(issues, Issue{Code: IssueDanglingEdge, Element: e.ID,
				Message: fmt.Sprintf("edge %q target %q is not a node", e.ID, e.Target)})
		}
		if !e.Type.Valid() {
			issues = append(issues, Issue{Code: IssueUnknownEdgeType, Element: e.ID,
				Message: fmt.Sprintf("edge %q has unknown type %q", e.ID, e.Type)})
		}
	}

	return issues
}
