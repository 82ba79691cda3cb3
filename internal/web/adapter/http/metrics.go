package http

import (
	"strconv"

	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "firebase_web"

var _ usecase.Metrics = (*Metrics)(nil)

// Metrics exposes request and mirroring counters in the Prometheus format.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	records       *prometheus.CounterVec
	queryEntities prometheus.Counter
	subscriptions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them in a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "subscription",
			Name:      "records_written_total",
			Help:      "Subscription records written to the database by kind",
		}, []string{"kind"}),
		queryEntities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "query",
			Name:      "entities_mirrored_total",
			Help:      "Entities mirrored to the database by queries",
		}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "subscription",
			Name:      "active",
			Help:      "Subscriptions currently active",
		}),
	}
	m.registry.MustRegister(m.requests, m.records, m.queryEntities, m.subscriptions)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts every request by route and final status.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.requests.WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler serves the registry on GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) RecordsWritten(kind model.RecordKind, n int) {
	if n > 0 {
		m.records.WithLabelValues(string(kind)).Add(float64(n))
	}
}

func (m *Metrics) QueryMirrored(entities int) {
	m.queryEntities.Add(float64(entities))
}

func (m *Metrics) SubscriptionsActive(delta int) {
	m.subscriptions.Add(float64(delta))
}
