package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arcadefleet/hub/pkg/metrics"
)

func init() {
	metrics.RegisterCommandMetricsConstructor(newCommandMetrics)
}

type commandMetrics struct {
	fanOutTargets *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	outcomeTime   *prometheus.HistogramVec
}

func newCommandMetrics() metrics.CommandMetrics {
	reg := metrics.GetRegistry()
	return &commandMetrics{
		fanOutTargets: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_hub_command_fanout_targets",
			Help:    "Number of devices a dispatched command fanned out to.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}, []string{"opcode"}),
		outcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_hub_command_outcomes_total",
			Help: "Total command responses by opcode and outcome.",
		}, []string{"opcode", "outcome"}),
		outcomeTime: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_hub_command_outcome_duration_seconds",
			Help:    "Time from dispatch to observed outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"opcode", "outcome"}),
	}
}

func (m *commandMetrics) ObserveFanOut(opcode string, targetCount int) {
	m.fanOutTargets.WithLabelValues(opcode).Observe(float64(targetCount))
}

func (m *commandMetrics) ObserveOutcome(opcode, outcome string, duration time.Duration) {
	m.outcomes.WithLabelValues(opcode, outcome).Inc()
	m.outcomeTime.WithLabelValues(opcode, outcome).Observe(duration.Seconds())
}
