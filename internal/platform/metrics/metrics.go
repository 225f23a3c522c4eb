package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Components that
// receive a nil *Metrics simply skip instrumentation, which keeps unit tests
// free of registry wiring.
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec

	EventsConsumed  *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medrec_events_published_total",
			Help: "Patient events successfully delivered to the event log, by topic.",
		}, []string{"topic"}),
		PublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medrec_event_publish_failures_total",
			Help: "Patient event deliveries that failed after transport retries, by topic.",
		}, []string{"topic"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medrec_events_consumed_total",
			Help: "Patient events processed and acknowledged, by consumer group and topic.",
		}, []string{"group", "topic"}),
		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medrec_event_handler_failures_total",
			Help: "Handler errors that left a message unacknowledged, by consumer group and topic.",
		}, []string{"group", "topic"}),
	}
}
