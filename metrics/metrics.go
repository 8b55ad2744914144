// Package metrics defines the Prometheus collectors for the landing server
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Business counters mirror the
// durable counters for this process lifetime only; the files remain the
// source of truth.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	PageViewsTotal         *prometheus.CounterVec
	UniqueVisitorsTotal    *prometheus.CounterVec
	InterestClicksTotal    prometheus.Counter
	LeadsCapturedTotal     prometheus.Counter
	SurveyResponsesTotal   prometheus.Counter
	StorageReadFaultsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		PageViewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landing_page_views_total",
				Help: "Page views registered since process start, by page.",
			},
			[]string{"page"},
		),
		UniqueVisitorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landing_unique_visitors_total",
				Help: "First-time visitors registered since process start, by page.",
			},
			[]string{"page"},
		),
		InterestClicksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "landing_interest_clicks_total",
				Help: "Interest counter increments since process start.",
			},
		),
		LeadsCapturedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "landing_leads_captured_total",
				Help: "Early-access leads captured since process start.",
			},
		),
		SurveyResponsesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "landing_survey_responses_total",
				Help: "Survey responses stored since process start.",
			},
		),
		StorageReadFaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landing_storage_read_faults_total",
				Help: "Storage reads that fell back to a default, by fault kind.",
			},
			[]string{"kind"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PageViewsTotal,
		m.UniqueVisitorsTotal,
		m.InterestClicksTotal,
		m.LeadsCapturedTotal,
		m.SurveyResponsesTotal,
		m.StorageReadFaultsTotal,
	)

	return m
}

// Handler returns the scrape handler for the registry m was built on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) PageViewed(page string, unique bool) {
	m.PageViewsTotal.WithLabelValues(page).Inc()
	if unique {
		m.UniqueVisitorsTotal.WithLabelValues(page).Inc()
	}
}

func (m *Metrics) InterestClicked() {
	m.InterestClicksTotal.Inc()
}

func (m *Metrics) LeadCaptured() {
	m.LeadsCapturedTotal.Inc()
}

func (m *Metrics) SurveySubmitted() {
	m.SurveyResponsesTotal.Inc()
}

func (m *Metrics) ReadFault(kind string) {
	m.StorageReadFaultsTotal.WithLabelValues(kind).Inc()
}
