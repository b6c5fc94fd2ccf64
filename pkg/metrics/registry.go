// Package metrics defines metric-recording interfaces and no-op-safe helper
// functions, grounded on the teacher's pkg/metrics (cache.go, s3.go):
// pkg/metrics/prometheus registers constructors into this package via
// RegisterXConstructor functions so pkg/metrics itself never imports
// pkg/metrics/prometheus, avoiding an import cycle between the two packages.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry enables metrics collection and creates the process registry.
// Must be called before any NewXMetrics constructor for those constructors
// to return a non-nil implementation.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return enabled
}

// GetRegistry returns the process registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}
