package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics collects request counters on a private registry so several
// servers can coexist in one process.
type metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	rateLimited     prometheus.Counter
	streamClients   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "almanac",
				Name:      "request_duration_seconds",
				Help:      "Time spent processing request",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "almanac",
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"route", "code"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "almanac",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client limiter",
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "almanac",
			Name:      "stream_clients",
			Help:      "Connected websocket stream clients",
		}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.rateLimited,
		m.streamClients,
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *metrics) recordRequest(route string, code int, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
