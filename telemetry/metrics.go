// Package telemetry holds the Prometheus collectors and OpenTelemetry tracing
// setup shared by the HTTP layer and the order workflow.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is private to the service so tests can build routers repeatedly
// without tripping duplicate registration.
var Registry = prometheus.NewRegistry()

var (
	// Counter for every HTTP request, by route and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginRequestsByStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_requests_by_status_total",
		Help: "Total number of login requests by outcome",
	},
		[]string{"status"})

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of orders withdrawn by their owner",
	})

	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status changes by target status",
	},
		[]string{"to", "forced"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestCount,
		RequestDuration,
		LoginRequestsByStatus,
		OrdersPlaced,
		OrdersCancelled,
		StatusTransitions,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
