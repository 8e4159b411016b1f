package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Door metrics

	UnlockRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "doorgw",
		Name:      "unlock_requests_total",
		Help:      "Total unlock requests, by outcome.",
	}, []string{"outcome"})

	UnlockPublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "doorgw",
		Name:      "unlock_publish_duration_seconds",
		Help:      "Duration of the MQTT unlock publish.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	// Auth metrics

	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "doorgw",
		Name:      "login_attempts_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	// Broker metrics

	BrokerConnected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "doorgw",
		Name:      "broker_connected",
		Help:      "Whether an MQTT client is connected. 1 = connected, 0 = not.",
	}, []string{"client"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "doorgw",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "doorgw",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		UnlockRequestsTotal,
		UnlockPublishDuration,
		LoginAttemptsTotal,
		BrokerConnected,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
