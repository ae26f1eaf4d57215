package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	transfersTotal  *prometheus.CounterVec
}

// newMetrics registers the collectors on a dedicated registry, so that several servers may coexist.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ejection",
				Name:      "request_duration_seconds",
				Help:      "Time spent processing request",
			},
			[]string{"route"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ejection",
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"route", "code"},
		),
		transfersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ejection",
				Name:      "transfers_total",
				Help:      "Total number of transfer computations",
			},
			[]string{"outcome"}, // ok, not_found, invalid, degenerate
		),
	}
	m.registry.MustRegister(m.requestDuration, m.requestsTotal, m.transfersTotal)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

func (m *metrics) recordRequest(route string, code int, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// trackClients exports the number of client buckets held by the rate limiter.
func (m *metrics) trackClients(l *ipRateLimiter) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "ejection",
			Name:      "rate_limited_clients",
			Help:      "Number of clients with a rate limit bucket",
		},
		func() float64 { return float64(l.size()) },
	))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
