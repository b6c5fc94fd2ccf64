package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arcadefleet/hub/pkg/metrics"
)

func init() {
	metrics.RegisterDistributorMetricsConstructor(newDistributorMetrics)
}

type distributorMetrics struct {
	downloadBytes    *prometheus.CounterVec
	downloadDuration *prometheus.HistogramVec
	installOutcomes  *prometheus.CounterVec
}

func newDistributorMetrics() metrics.DistributorMetrics {
	reg := metrics.GetRegistry()
	return &distributorMetrics{
		downloadBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_agent_download_bytes_total",
			Help: "Total bytes downloaded per game during install/sync.",
		}, []string{"game_id"}),
		downloadDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_agent_download_duration_seconds",
			Help:    "Per-file download duration during install/sync.",
			Buckets: prometheus.DefBuckets,
		}, []string{"game_id"}),
		installOutcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_agent_install_outcomes_total",
			Help: "Total Install() outcomes by game and result.",
		}, []string{"game_id", "outcome"}),
	}
}

func (m *distributorMetrics) ObserveFileDownload(gameID string, bytes int64, duration time.Duration) {
	m.downloadBytes.WithLabelValues(gameID).Add(float64(bytes))
	m.downloadDuration.WithLabelValues(gameID).Observe(duration.Seconds())
}

func (m *distributorMetrics) ObserveInstallOutcome(gameID, outcome string) {
	m.installOutcomes.WithLabelValues(gameID, outcome).Inc()
}
