package metrics

// SessionMetrics records connection-orchestrator activity (spec.md §4.3).
// A nil SessionMetrics is valid everywhere below; every method call is a
// no-op in that case, matching the teacher's CacheMetrics nil-safety.
type SessionMetrics interface {
	RecordConnect(macAddress string)
	RecordDisconnect(macAddress, reason string)
	SetActiveSessions(count int)
}

// NewSessionMetrics creates a Prometheus-backed SessionMetrics, or nil if
// metrics are disabled.
func NewSessionMetrics() SessionMetrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusSessionMetrics()
}

var newPrometheusSessionMetrics func() SessionMetrics

// RegisterSessionMetricsConstructor is called by pkg/metrics/prometheus
// during package initialization.
func RegisterSessionMetricsConstructor(constructor func() SessionMetrics) {
	newPrometheusSessionMetrics = constructor
}

// RecordConnect records a device connecting, tolerating a nil receiver.
func RecordConnect(m SessionMetrics, macAddress string) {
	if m != nil {
		m.RecordConnect(macAddress)
	}
}

// RecordDisconnect records a device disconnecting, tolerating a nil receiver.
func RecordDisconnect(m SessionMetrics, macAddress, reason string) {
	if m != nil {
		m.RecordDisconnect(macAddress, reason)
	}
}

// SetActiveSessions records the current session count, tolerating a nil
// receiver.
func SetActiveSessions(m SessionMetrics, count int) {
	if m != nil {
		m.SetActiveSessions(count)
	}
}
