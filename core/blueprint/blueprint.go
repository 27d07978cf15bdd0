package blueprint

// Blueprint is the validated architecture description returned to callers.
type Blueprint struct {
	ProjectName     string          `json:"projectName"`
	Description     string          `json:"description"`
	TechStack       TechStack       `json:"techStack"`
	Features        []string        `json:"features"`
	Workflow        Workflow        `json:"workflow"`
	DetailedContext DetailedContext `json:"detailedContext"`
	Phases          []Phase         `json:"phases,omitempty"`
}

// Workflow is the node/edge graph of a blueprint. Nodes is never empty in a
// validated blueprint; Edges may be.
type Workflow struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a single component of the architecture graph.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Edge connects two nodes by id. Source and Target are not checked against
// the node list during validation.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  string   `json:"label"`
	Type   EdgeType `json:"type,omitempty"`
}

// TechStack lists the technologies suggested for each layer. Every list is
// serialized, empty or not.
type TechStack struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Database []string `json:"database"`
	External []string `json:"external"`
}

// Phase is an optional delivery phase suggested by the model.
type Phase struct {
	Phase        string   `json:"phase"`
	Tasks        []string `json:"tasks,omitempty"`
	Reasoning    string   `json:"reasoning,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Duration     string   `json:"duration,omitempty"`
}

// NodeType is the kind of a workflow node.
type NodeType string

const (
	NodeClient      NodeType = "client"
	NodeServer      NodeType = "server"
	NodeDatabase    NodeType = "database"
	NodeAPI         NodeType = "api"
	NodeService     NodeType = "service"
	NodeIntegration NodeType = "integration"
	NodeAuth        NodeType = "auth"
	NodePage        NodeType = "page"
	NodeComponent   NodeType = "component"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeClient, NodeServer, NodeDatabase, NodeAPI, NodeService,
		NodeIntegration, NodeAuth, NodePage, NodeComponent:
		return true
	}
	return false
}

// Category groups nodes by architectural layer.
type Category string

const (
	CategoryFrontend    Category = "Frontend"
	CategoryBackend     Category = "Backend"
	CategoryDatabase    Category = "Database"
	CategoryIntegration Category = "Integration"
	CategoryAuth        Category = "Auth"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryIntegration, CategoryAuth:
		return true
	}
	return false
}

// EdgeType is the optional transport of an edge.
type EdgeType string

const (
	EdgeHTTP      EdgeType = "http"
	EdgeWebSocket EdgeType = "websocket"
	EdgeDatabase  EdgeType = "database"
	EdgeEvent     EdgeType = "event"
)

// Valid reports whether t is empty or one of the known edge types.
func (t EdgeType) Valid() bool {
	switch t {
	case "", EdgeHTTP, EdgeWebSocket, EdgeDatabase, EdgeEvent:
		return true
	}
	return false
}
