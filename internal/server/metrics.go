package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry       *prometheus.Registry
	advanceSeconds prometheus.Histogram
	bodies         prometheus.Gauge
	clients        prometheus.Gauge
	commandsTotal  *prometheus.CounterVec
}

// NewMetricsCollector registers the server's metrics on a registry of its
// own, so several servers can live in one process.
func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		advanceSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "planets_advance_seconds",
				Help:    "Wall time spent advancing the universe per frame",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
		),
		bodies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "planets_bodies",
				Help: "Number of bodies in the universe",
			},
		),
		clients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "planets_clients",
				Help: "Number of connected websocket clients",
			},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planets_commands_total",
				Help: "Client commands by operation and result",
			},
			[]string{"op", "result"},
		),
	}

	m.registry.MustRegister(m.advanceSeconds, m.bodies, m.clients, m.commandsTotal)
	return m
}

func (m *MetricsCollector) RecordAdvance(d time.Duration, bodies int) {
	m.advanceSeconds.Observe(d.Seconds())
	m.bodies.Set(float64(bodies))
}

func (m *MetricsCollector) RecordCommand(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commandsTotal.WithLabelValues(opLabel(op), result).Inc()
}

func (m *MetricsCollector) ClientConnected()    { m.clients.Inc() }
func (m *MetricsCollector) ClientDisconnected() { m.clients.Dec() }

func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
