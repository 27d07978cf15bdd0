// Package planning is the blueprint service: it normalizes requirements,
// runs generation, and flattens the outcome into the
// {success, data, error, warnings} envelope shared by the HTTP API and the
// CLI.
package planning
