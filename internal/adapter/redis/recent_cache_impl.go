package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/crawlweb-api/internal/entity"
	"github.com/user/crawlweb-api/internal/repository"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

const recentJobsKey = "jobs:recent"

// cachedJob is the Redis representation of an entity.JobDetail.
type cachedJob struct {
	ID           int64          `json:"id"`
	URL          string         `json:"url"`
	Thumbnail    *string        `json:"thumbnail"`
	JobTitle     string         `json:"job_title"`
	CompanyURL   *string        `json:"company_url"`
	CompanyName  *string        `json:"company_name"`
	Province     string         `json:"province"`
	Salary       *string        `json:"salary"`
	Skills       entity.Skills  `json:"skills"`
	Descriptions map[string]any `json:"descriptions"`
	JobInfo      map[string]any `json:"job_info"`
	CollectedAt  time.Time      `json:"collected_at"`
}

// CachedJobDetailRepo wraps a JobDetailRepository and serves FindRecent from
// a Redis hash (one field per limit). Create drops the hash. Every other call
// goes straight to the wrapped repository.
type CachedJobDetailRepo struct {
	repository.JobDetailRepository
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCachedJobDetailRepo creates a new instance of CachedJobDetailRepo.
func NewCachedJobDetailRepo(next repository.JobDetailRepository, client *redis.Client, ttl time.Duration, m *metrics.Metrics, l *zap.Logger) *CachedJobDetailRepo {
	return &CachedJobDetailRepo{
		JobDetailRepository: next,
		client:              client,
		ttl:                 ttl,
		metrics:             m,
		logger:              l,
	}
}

func (r *CachedJobDetailRepo) Create(ctx context.Context, job *entity.JobDetail) error {
	if err := r.JobDetailRepository.Create(ctx, job); err != nil {
		return err
	}
	if err := r.client.Del(ctx, recentJobsKey).Err(); err != nil {
		r.logger.Warn("failed to invalidate recent jobs cache", zap.Error(err))
	}
	return nil
}

// FindRecent returns cached records when present. Redis failures are logged
// and fall through to the wrapped repository.
func (r *CachedJobDetailRepo) FindRecent(ctx context.Context, limit int) ([]*entity.JobDetail, error) {
	field := strconv.Itoa(limit)

	raw, err := r.client.HGet(ctx, recentJobsKey, field).Bytes()
	switch {
	case err == nil:
		jobs, decodeErr := decodeJobs(raw)
		if decodeErr == nil {
			r.metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
			return jobs, nil
		}
		r.metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		r.logger.Warn("discarding undecodable recent jobs cache entry", zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
		r.metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	default:
		r.metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		r.logger.Warn("failed to read recent jobs cache", zap.Error(err))
	}

	jobs, err := r.JobDetailRepository.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	r.store(ctx, field, jobs)
	return jobs, nil
}

// Ping checks both the wrapped repository and Redis.
func (r *CachedJobDetailRepo) Ping(ctx context.Context) error {
	if err := r.JobDetailRepository.Ping(ctx); err != nil {
		return err
	}
	return r.client.Ping(ctx).Err()
}

func (r *CachedJobDetailRepo) store(ctx context.Context, field string, jobs []*entity.JobDetail) {
	payload, err := encodeJobs(jobs)
	if err != nil {
		r.logger.Warn("failed to encode recent jobs for cache", zap.Error(err))
		return
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recentJobsKey, field, payload)
		pipe.Expire(ctx, recentJobsKey, r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to write recent jobs cache", zap.Error(err))
	}
}

func encodeJobs(jobs []*entity.JobDetail) ([]byte, error) {
	out := make([]cachedJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, cachedJob{
			ID:           j.ID,
			URL:          j.URL,
			Thumbnail:    j.Thumbnail,
			JobTitle:     j.JobTitle,
			CompanyURL:   j.CompanyURL,
			CompanyName:  j.CompanyName,
			Province:     j.Province,
			Salary:       j.Salary,
			Skills:       j.Skills,
			Descriptions: j.Descriptions,
			JobInfo:      j.JobInfo,
			CollectedAt:  j.CollectedAt,
		})
	}
	return json.Marshal(out)
}

func decodeJobs(raw []byte) ([]*entity.JobDetail, error) {
	var in []cachedJob
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	jobs := make([]*entity.JobDetail, 0, len(in))
	for _, c := range in {
		jobs = append(jobs, &entity.JobDetail{
			ID:           c.ID,
			URL:          c.URL,
			Thumbnail:    c.Thumbnail,
			JobTitle:     c.JobTitle,
			CompanyURL:   c.CompanyURL,
			CompanyName:  c.CompanyName,
			Province:     c.Province,
			Salary:       c.Salary,
			Skills:       c.Skills,
			Descriptions: c.Descriptions,
			JobInfo:      c.JobInfo,
			CollectedAt:  c.CollectedAt,
		})
	}
	return jobs, nil
}
