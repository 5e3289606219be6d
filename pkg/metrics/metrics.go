package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the API.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	JobsServedTotal       *prometheus.CounterVec
	SkillsDecodeFallbacks prometheus.Counter
	CacheRequestsTotal    *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		JobsServedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_served_total",
				Help: "Total number of job records written to responses.",
			},
			[]string{"endpoint"}, // list, recent
		),
		SkillsDecodeFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jobs_skills_decode_fallbacks_total",
				Help: "Stored skills strings that were not a JSON list and were served as an empty list.",
			},
		),
		CacheRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_cache_requests_total",
				Help: "Recent-jobs cache lookups by result.",
			},
			[]string{"result"}, // hit, miss, error
		),
	}
}
