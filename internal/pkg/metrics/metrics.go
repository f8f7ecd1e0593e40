// Package metrics holds constants and utilities for instrumenting the
// adapter with Prometheus metrics.
package metrics

// Namespace is the Prometheus metrics namespace for this module.
const Namespace = "esadapter"

// Label names shared by the adapter metrics.
const (
	// LabelStatus is "ok" or "error".
	LabelStatus = "status"

	// LabelOperation is the adapter operation name, e.g. "find".
	LabelOperation = "operation"
)
