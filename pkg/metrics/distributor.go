package metrics

import "time"

// DistributorMetrics records agent-side game-sync throughput (spec.md §5
// "distributor").
type DistributorMetrics interface {
	ObserveFileDownload(gameID string, bytes int64, duration time.Duration)
	ObserveInstallOutcome(gameID, outcome string)
}

// NewDistributorMetrics creates a Prometheus-backed DistributorMetrics, or
// nil if metrics are disabled.
func NewDistributorMetrics() DistributorMetrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusDistributorMetrics()
}

var newPrometheusDistributorMetrics func() DistributorMetrics

// RegisterDistributorMetricsConstructor is called by
// pkg/metrics/prometheus during package initialization.
func RegisterDistributorMetricsConstructor(constructor func() DistributorMetrics) {
	newPrometheusDistributorMetrics = constructor
}

// ObserveFileDownload records a single manifest file download.
func ObserveFileDownload(m DistributorMetrics, gameID string, bytes int64, duration time.Duration) {
	if m != nil {
		m.ObserveFileDownload(gameID, bytes, duration)
	}
}

// ObserveInstallOutcome records the terminal outcome of an Install call.
// outcome is one of "installed", "up_to_date", "failed".
func ObserveInstallOutcome(m DistributorMetrics, gameID, outcome string) {
	if m != nil {
		m.ObserveInstallOutcome(gameID, outcome)
	}
}
