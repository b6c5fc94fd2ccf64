package metrics

import "time"

// CommandMetrics records fan-out command outcomes (spec.md §4.5
// "orchestrator fan-out"): launch/close/volume commands dispatched to one
// or more devices and the per-device responses that follow.
type CommandMetrics interface {
	ObserveFanOut(opcode string, targetCount int)
	ObserveOutcome(opcode, outcome string, duration time.Duration)
}

// NewCommandMetrics creates a Prometheus-backed CommandMetrics, or nil if
// metrics are disabled.
func NewCommandMetrics() CommandMetrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusCommandMetrics()
}

var newPrometheusCommandMetrics func() CommandMetrics

// RegisterCommandMetricsConstructor is called by pkg/metrics/prometheus
// during package initialization.
func RegisterCommandMetricsConstructor(constructor func() CommandMetrics) {
	newPrometheusCommandMetrics = constructor
}

// ObserveFanOut records a command being dispatched to targetCount devices.
func ObserveFanOut(m CommandMetrics, opcode string, targetCount int) {
	if m != nil {
		m.ObserveFanOut(opcode, targetCount)
	}
}

// ObserveOutcome records a single device's response to a dispatched command.
// outcome is one of "ack", "nack", "timeout".
func ObserveOutcome(m CommandMetrics, opcode, outcome string, duration time.Duration) {
	if m != nil {
		m.ObserveOutcome(opcode, outcome, duration)
	}
}
