package handler

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/crawlweb-api/internal/delivery/http/response"
	"github.com/user/crawlweb-api/internal/entity"
	"github.com/user/crawlweb-api/internal/usecase"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var recentJobsTemplate = template.Must(template.ParseFS(templateFS, "templates/recent_jobs.html"))

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc lets a plain function act as a Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	catalog     usecase.JobCatalog
	recentLimit int
	deps        map[string]Pinger
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewHandler(catalog usecase.JobCatalog, recentLimit int, deps map[string]Pinger, m *metrics.Metrics, l *zap.Logger) *Handler {
	return &Handler{
		catalog:     catalog,
		recentLimit: recentLimit,
		deps:        deps,
		metrics:     m,
		logger:      l,
	}
}

// HandleListJobs returns every stored job as a JSON array, newest first.
func (h *Handler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp, fallbacks := response.NewJobDetails(jobs)
	h.recordServed("list", len(resp), fallbacks)
	h.writeJSON(w, http.StatusOK, resp)
}

type recentJobsPage struct {
	Jobs []recentJob
}

type recentJob struct {
	*entity.JobDetail
	SkillList []string
}

// HandleRecentJobs renders the most recently collected jobs as HTML.
func (h *Handler) HandleRecentJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.catalog.Recent(r.Context(), h.recentLimit)
	if err != nil {
		h.logger.Error("Failed to load recent jobs", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := recentJobsPage{Jobs: make([]recentJob, 0, len(jobs))}
	fallbacks := 0
	for _, job := range jobs {
		skills, ok := response.NormalizeSkills(job.Skills)
		if !ok {
			fallbacks++
		}
		page.Jobs = append(page.Jobs, recentJob{JobDetail: job, SkillList: skills})
	}
	h.recordServed("recent", len(page.Jobs), fallbacks)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := recentJobsTemplate.Execute(w, page); err != nil {
		h.logger.Error("Failed to render recent jobs", zap.Error(err))
	}
}

// HandleHealthCheck pings every dependency and reports 503 if any is down.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status := response.HealthResponse{}
	healthy := true
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			status[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		status[name] = "healthy"
	}

	if !healthy {
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) recordServed(endpoint string, n, fallbacks int) {
	h.metrics.JobsServedTotal.WithLabelValues(endpoint).Add(float64(n))
	if fallbacks > 0 {
		h.metrics.SkillsDecodeFallbacks.Add(float64(fallbacks))
		h.logger.Warn("Served empty skills for undecodable values", zap.String("endpoint", endpoint), zap.Int("count", fallbacks))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
