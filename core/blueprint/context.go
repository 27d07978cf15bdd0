package blueprint

// Canonical detailedContext keys.
const (
	KeyProjectOverview         = "projectOverview"
	KeyArchitectureExplanation = "architectureExplanation"
	KeyNodeDetails             = "nodeDetails"
	KeyEdgeDetails             = "edgeDetails"
	KeyFileStructure           = "fileStructure"
	KeyDatabaseSchema          = "databaseSchema"
	KeyAPISpecification        = "apiSpecification"
	KeyComponentSpecification  = "componentSpecification"
	KeyIntegrations            = "integrations"
	KeyAuthentication          = "authentication"
	KeyDeployment              = "deployment"
)

// DetailedContext holds the free-form implementation notes of a blueprint.
// Its sub-documents are passed through untouched; only the top level is
// guaranteed to be an object.
type DetailedContext map[string]any

// DefaultDetailedContext returns a fresh context with every canonical key set
// to an empty value of the expected shape.
func DefaultDetailedContext() DetailedContext {
	return DetailedContext{
		KeyProjectOverview:         "",
		KeyArchitectureExplanation: "",
		KeyNodeDetails:             map[string]any{},
		KeyEdgeDetails:             map[string]any{},
		KeyFileStructure:           map[string]any{},
		KeyDatabaseSchema:          map[string]any{},
		KeyAPISpecification:        map[string]any{},
		KeyComponentSpecification:  map[string]any{},
		KeyIntegrations:            []any{},
		KeyAuthentication:          map[string]any{},
		KeyDeployment:              map[string]any{},
	}
}

// NodeDetails returns the nodeDetails object, or nil when it is absent or not an object.
func (c DetailedContext) NodeDetails() map[string]any {
	m, _ := c[KeyNodeDetails].(map[string]any)
	return m
}

// EdgeDetails returns the edgeDetails object, or nil when it is absent or not an object.
func (c DetailedContext) EdgeDetails() map[string]any {
	m, _ := c[KeyEdgeDetails].(map[string]any)
	return m
}

// ProjectOverview returns the overview text, or "" when it is not a string.
func (c DetailedContext) ProjectOverview() string {
	s, _ := c[KeyProjectOverview].(string)
	return s
}
