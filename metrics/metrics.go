package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace       = "picsearch"
	SubsystemEngine = "engine"
	SubsystemAPI    = "api"

	OutcomeSuccess = "success"
)

type Metrics interface {
	Handler() http.Handler

	// ObserveSearch records one engine call. outcome is OutcomeSuccess or an
	// error kind.
	ObserveSearch(engine, input, outcome string, elapsed float64, results int)

	ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64)
}

type metrics struct {
	registry *prometheus.Registry

	searchTime    *prometheus.HistogramVec
	searchesTotal *prometheus.CounterVec
	resultsTotal  *prometheus.CounterVec

	apiTime *prometheus.HistogramVec
}

func New() Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.searchTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "search_duration_seconds",
			Help:      "Time taken by one engine search.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"engine", "input"},
	)
	m.registry.MustRegister(m.searchTime)

	m.searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemEngine,
		Name:      "searches_total",
		Help:      "The total number of engine searches by outcome.",
	}, []string{"engine", "input", "outcome"})
	m.registry.MustRegister(m.searchesTotal)

	m.resultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemEngine,
		Name:      "results_total",
		Help:      "The total number of results returned by engines after filtering.",
	}, []string{"engine"})
	m.registry.MustRegister(m.resultsTotal)

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemAPI,
			Name:      "time_seconds",
			Help:      "Time to execute the api handler",
		},
		[]string{"handler", "method", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) ObserveSearch(engine, input, outcome string, elapsed float64, results int) {
	if m == nil {
		return
	}
	m.searchTime.With(prometheus.Labels{"engine": engine, "input": input}).Observe(elapsed)
	m.searchesTotal.With(prometheus.Labels{"engine": engine, "input": input, "outcome": outcome}).Inc()
	if results > 0 {
		m.resultsTotal.With(prometheus.Labels{"engine": engine}).Add(float64(results))
	}
}

func (m *metrics) ObserveAPIEndpointDuration(handler, method, statusCode string, elapsed float64) {
	if m != nil {
		m.apiTime.With(prometheus.Labels{"handler": handler, "method": method, "status_code": statusCode}).Observe(elapsed)
	}
}
