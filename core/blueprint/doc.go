// Package blueprint defines the project blueprint document produced from model
// output, together with the structural checks that decide whether a parsed
// JSON value is acceptable.
//
// Validation is deliberately shallow: [Validate] checks presence and shape of
// the required fields (projectName, workflow.nodes, workflow.edges and the four
// node fields) and fills in an empty [DetailedContext] when the model omitted
// it. It does not enforce enumerations, node id uniqueness or edge
// referential integrity; [Inspect] reports those as advisory [Issue] values.
//
// The main entry points are [Validate] for generic JSON values and [FromMap]
// for converting an accepted value into a typed [Blueprint].
package blueprint
