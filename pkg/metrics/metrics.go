package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors recorded by the HTTP layer and the services.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration      *prometheus.HistogramVec
	RequestTotal         *prometheus.CounterVec
	ExtractionTotal      *prometheus.CounterVec
	ExtractedPages       prometheus.Histogram
	SummarizationTotal   *prometheus.CounterVec
	SummarizationLatency *prometheus.HistogramVec
}

// New builds the collectors on a private registry along with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patshala_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"method", "route"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patshala_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		ExtractionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patshala_pdf_extractions_total",
				Help: "Total number of PDF extractions by outcome",
			},
			[]string{"engine", "status"},
		),
		ExtractedPages: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "patshala_pdf_pages",
				Help:    "Page count of successfully extracted PDFs",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
			},
		),
		SummarizationTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patshala_summarizations_total",
				Help: "Total number of summarization calls by provider and outcome",
			},
			[]string{"platform", "status"},
		),
		SummarizationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patshala_summarization_duration_seconds",
				Help:    "Upstream LLM call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
			},
			[]string{"platform"},
		),
	}

	reg.MustRegister(
		m.RequestDuration,
		m.RequestTotal,
		m.ExtractionTotal,
		m.ExtractedPages,
		m.SummarizationTotal,
		m.SummarizationLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	m.RequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveExtraction(engine string, pages int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExtractionTotal.WithLabelValues(engine, "error").Inc()
		return
	}
	m.ExtractionTotal.WithLabelValues(engine, "ok").Inc()
	m.ExtractedPages.Observe(float64(pages))
}

func (m *Metrics) ObserveSummarization(platform string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SummarizationTotal.WithLabelValues(platform, status).Inc()
	m.SummarizationLatency.WithLabelValues(platform).Observe(elapsed.Seconds())
}
