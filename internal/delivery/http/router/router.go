package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/crawlweb-api/internal/delivery/http/handler"
	"github.com/user/crawlweb-api/internal/delivery/http/middleware"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

// Options carries what the router needs besides the handler.
type Options struct {
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

func New(h *handler.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(opts.Logger))
	// Metrics wraps Recoverer so requests that panic are counted as 500s.
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/jobs", h.HandleListJobs)
	})
	r.Get("/jobs/recent", h.HandleRecentJobs)

	return r
}
