package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics is the service's private registry, exposed on /metrics.
type metrics struct {
	registry *prometheus.Registry
	saves    *prometheus.CounterVec
	renders  *prometheus.CounterVec
	objects  prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planta",
			Name:      "project_saves_total",
			Help:      "Project writes by result (ok, rejected, error).",
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planta",
			Name:      "project_renders_total",
			Help:      "SVG previews by result (ok, invalid).",
		}, []string{"result"}),
		objects: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planta",
			Name:      "project_objects",
			Help:      "Objects per saved project.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
	m.registry.MustRegister(m.saves, m.renders, m.objects)
	return m
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
