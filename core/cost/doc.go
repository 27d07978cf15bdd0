// Package cost estimates the monetary cost of model calls from token usage.
//
// [ModelCost] holds per-million-token prices, [Table] maps model names to
// prices and [Summary] is the estimate attached to a generation result.
package cost
