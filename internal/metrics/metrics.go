package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// VerificationsTotal counts completed verifications by internal status and source.
	VerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medverify",
		Subsystem: "engine",
		Name:      "verifications_total",
		Help:      "Total number of completed verifications, labeled by status and source.",
	}, []string{"status", "source"})

	// VerificationErrorsTotal counts verifications aborted by a storage failure.
	VerificationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medverify",
		Subsystem: "engine",
		Name:      "verification_errors_total",
		Help:      "Total number of verifications aborted by a registry failure.",
	})

	// StageDurationSeconds is the time spent in each pipeline stage.
	StageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medverify",
		Subsystem: "engine",
		Name:      "stage_duration_seconds",
		Help:      "Time spent per verification pipeline stage.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"stage"})

	// ClassifierOutcomesTotal counts classifier calls by outcome.
	ClassifierOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medverify",
		Subsystem: "classifier",
		Name:      "outcomes_total",
		Help:      "Total number of classifier consultations, labeled by outcome.",
	}, []string{"outcome"})

	// SinkWritesTotal counts verification log writes by sink and result.
	SinkWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medverify",
		Subsystem: "logsink",
		Name:      "writes_total",
		Help:      "Total number of verification log writes, labeled by sink and result.",
	}, []string{"sink", "result"})

	// StreamClients is the number of connected websocket subscribers.
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "medverify",
		Subsystem: "api",
		Name:      "stream_clients",
		Help:      "Current number of websocket clients subscribed to the verification feed.",
	})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			VerificationsTotal,
			VerificationErrorsTotal,
			StageDurationSeconds,
			ClassifierOutcomesTotal,
			SinkWritesTotal,
			StreamClients,
		)
	})
}
