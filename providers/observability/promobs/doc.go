// Package promobs exports the service's counters and histograms to
// Prometheus. It implements only the metrics half of observability.Provider
// meaningfully; spans and log calls are dropped, so it is meant to be paired
// with slogobs through observability.Tee.
package promobs
