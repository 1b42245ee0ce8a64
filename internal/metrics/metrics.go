// Package metrics exposes Prometheus collectors for the data-access layer.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpRetries  prometheus.Counter
	cacheHits    prometheus.Counter
	dataSource   *prometheus.CounterVec
	aiRequests   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "innersee",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of API request attempts.",
			},
			[]string{"method", "outcome"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "innersee",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of API calls including retries.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"method"},
		),
		httpRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "innersee",
				Subsystem: "http",
				Name:      "retries_total",
				Help:      "Total number of retried API attempts.",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "innersee",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "API calls answered from the response cache.",
			},
		),
		dataSource: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "innersee",
				Name:      "data_source_total",
				Help:      "Domain service results by the source that served them.",
			},
			[]string{"operation", "source"},
		),
		aiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "innersee",
				Subsystem: "ai",
				Name:      "requests_total",
				Help:      "AI analysis requests by outcome.",
			},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.httpRequests, m.httpDuration, m.httpRetries, m.cacheHits, m.dataSource, m.aiRequests)
	}
	return m
}

func (m *Metrics) ObserveRequest(method, outcome string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) ObserveCall(method string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.httpRetries.Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveSource records which source served a domain service operation.
func (m *Metrics) ObserveSource(operation, source string) {
	if m == nil {
		return
	}
	m.dataSource.WithLabelValues(operation, source).Inc()
}

func (m *Metrics) ObserveAI(outcome string) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(outcome).Inc()
}

// DataSource exposes the data source counter for inspection.
func (m *Metrics) DataSource() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.dataSource
}

// Retries exposes the retry counter for inspection.
func (m *Metrics) Retries() prometheus.Counter {
	if m == nil {
		return nil
	}
	return m.httpRetries
}

// WriteText writes everything g has collected in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
