package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ViewMetrics holds all Prometheus metrics for the directory service.
type ViewMetrics struct {
	LoadsTotal       *prometheus.CounterVec
	LoadDuration     *prometheus.HistogramVec
	StaleDiscarded   *prometheus.CounterVec
	AuthAttempts     *prometheus.CounterVec
	MutationsTotal   *prometheus.CounterVec
	SessionsActive   prometheus.Gauge
	SubscriberCount  prometheus.Gauge
}

// NewViewMetrics initializes and registers the Prometheus metrics.
func NewViewMetrics() *ViewMetrics {
	return &ViewMetrics{
		LoadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goonline",
			Subsystem: "views",
			Name:      "loads_total",
			Help:      "Total number of view loads by view and outcome.",
		}, []string{"view", "outcome"}), // outcome: success, error
		LoadDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goonline",
			Subsystem: "views",
			Name:      "load_duration_seconds",
			Help:      "Duration of view loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		StaleDiscarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goonline",
			Subsystem: "views",
			Name:      "stale_results_discarded_total",
			Help:      "Results discarded because a newer load superseded them.",
		}, []string{"view"}),
		AuthAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goonline",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Total number of auth operations by kind and outcome.",
		}, []string{"kind", "outcome"}), // kind: signup, signin, signout
		MutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goonline",
			Subsystem: "listings",
			Name:      "mutations_total",
			Help:      "Total number of listing mutations by operation and outcome.",
		}, []string{"op", "outcome"}), // op: create, update, delete
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "goonline",
			Subsystem: "auth",
			Name:      "session_active_gauge",
			Help:      "Whether a session is currently authenticated (1) or not (0).",
		}),
		SubscriberCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "goonline",
			Subsystem: "auth",
			Name:      "session_subscribers",
			Help:      "Number of live session-state subscribers.",
		}),
	}
}
