// README: Prometheus collectors shared by the HTTP layer and the quote pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var QuotesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "logit_quotes_total",
		Help: "Counter for quote requests by outcome (ok, invalid, predictor_error, rules_error, error).",
	},
	[]string{"outcome"})

var VehicleMinimumApplied = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "logit_vehicle_minimum_applied_total",
		Help: "Counter for quotes where the vehicle minimum raised the rate.",
	})

var EventPublishFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "logit_event_publish_failures_total",
		Help: "Counter for domain events that could not be published.",
	},
	[]string{"type"})

var TollCatalogGates = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "logit_toll_catalog_gates",
		Help: "Number of toll gates in the active catalog.",
	})

// httpDurationBuckets span fast rule lookups up to slow predictor round-trips.
var httpDurationBuckets = []float64{0.005, 0.025, 0.1, 0.25, 1, 2.5}

var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "logit_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by method, route and status.",
		Buckets: httpDurationBuckets,
	},
	[]string{"method", "route", "status"})

func init() {
	prometheus.MustRegister(QuotesTotal)
	prometheus.MustRegister(VehicleMinimumApplied)
	prometheus.MustRegister(EventPublishFailures)
	prometheus.MustRegister(TollCatalogGates)
	prometheus.MustRegister(HTTPRequestDuration)
}
