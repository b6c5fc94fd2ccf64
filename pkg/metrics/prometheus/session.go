package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arcadefleet/hub/pkg/metrics"
)

func init() {
	metrics.RegisterSessionMetricsConstructor(newSessionMetrics)
}

type sessionMetrics struct {
	connects    *prometheus.CounterVec
	disconnects *prometheus.CounterVec
	active      prometheus.Gauge
}

func newSessionMetrics() metrics.SessionMetrics {
	reg := metrics.GetRegistry()
	return &sessionMetrics{
		connects: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_hub_session_connects_total",
			Help: "Total device session connects by MAC address.",
		}, []string{"mac_address"}),
		disconnects: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_hub_session_disconnects_total",
			Help: "Total device session disconnects by MAC address and reason.",
		}, []string{"mac_address", "reason"}),
		active: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "arcade_hub_sessions_active",
			Help: "Current number of connected device sessions.",
		}),
	}
}

func (m *sessionMetrics) RecordConnect(macAddress string) {
	m.connects.WithLabelValues(macAddress).Inc()
}

func (m *sessionMetrics) RecordDisconnect(macAddress, reason string) {
	m.disconnects.WithLabelValues(macAddress, reason).Inc()
}

func (m *sessionMetrics) SetActiveSessions(count int) {
	m.active.Set(float64(count))
}
