package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics tracks the query pipeline per routed branch.
type PipelineMetrics struct {
	registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	tokensTotal   *prometheus.CounterVec
	tokensPerReq  *prometheus.HistogramVec
	duration      *prometheus.HistogramVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopassist",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total answered queries by routed branch.",
		},
		[]string{"service", "route"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopassist",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Total queries that failed outright.",
		},
		[]string{"service"},
	)
	tokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopassist",
			Subsystem: "pipeline",
			Name:      "preparation_tokens_total",
			Help:      "Total tokens spent on internal preparation calls.",
		},
		[]string{"service", "route"},
	)
	tokensPerReq := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopassist",
			Subsystem: "pipeline",
			Name:      "preparation_tokens",
			Help:      "Distribution of preparation tokens per query.",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2000},
		},
		[]string{"service", "route"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopassist",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Query preparation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "route"},
	)

	registry.MustRegister(requestsTotal, errorsTotal, tokensTotal, tokensPerReq, duration)

	return &PipelineMetrics{
		registry:      registry,
		requestsTotal: requestsTotal,
		errorsTotal:   errorsTotal,
		tokensTotal:   tokensTotal,
		tokensPerReq:  tokensPerReq,
		duration:      duration,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) ObserveQuery(service, route string, tokens int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(service, route).Inc()
	m.tokensTotal.WithLabelValues(service, route).Add(float64(tokens))
	m.tokensPerReq.WithLabelValues(service, route).Observe(float64(tokens))
	m.duration.WithLabelValues(service, route).Observe(elapsed.Seconds())
}

func (m *PipelineMetrics) ObserveFailure(service string) {
	m.errorsTotal.WithLabelValues(service).Inc()
}
