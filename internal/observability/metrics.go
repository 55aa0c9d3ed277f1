package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the ingest and broadcast paths.
type Metrics struct {
	PointsIngested prometheus.Counter
	IngestFailures prometheus.Counter

	BroadcastEvents     prometheus.Counter
	BroadcastDeliveries *prometheus.CounterVec // labels: outcome={delivered,dropped}
	Subscribers         prometheus.Gauge

	KafkaEventsPublished prometheus.Counter
	AlertsFired          prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PointsIngested,
		m.IngestFailures,
		m.BroadcastEvents,
		m.BroadcastDeliveries,
		m.Subscribers,
		m.KafkaEventsPublished,
		m.AlertsFired,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so parallel tests do not
// panic with "already registered".
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PointsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "points_ingested_total",
			Help:      "Environmental points successfully persisted.",
		}),
		IngestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "ingest_failures_total",
			Help:      "Ingestion attempts rejected by the point store.",
		}),
		BroadcastEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "broadcast_events_total",
			Help:      "Events handed to the broadcast fan-out.",
		}),
		BroadcastDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "broadcast_deliveries_total",
			Help:      "Per-subscriber delivery attempts by outcome.",
		}, []string{"outcome"}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cosmic_health",
			Name:      "ws_subscribers",
			Help:      "Currently connected WebSocket subscribers.",
		}),
		KafkaEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "kafka_events_published_total",
			Help:      "Broadcast events published to the Kafka sink.",
		}),
		AlertsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic_health",
			Name:      "alerts_fired_total",
			Help:      "Alert rules that fired on ingested risk zones.",
		}),
	}
}
