package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/user/crawlweb-api/internal/entity"
	"github.com/user/crawlweb-api/internal/repository"
)

// JobDetailRepoImpl keeps job records in process memory. It backs
// STORAGE_DRIVER=memory and the handler tests.
type JobDetailRepoImpl struct {
	mu    sync.RWMutex
	jobs  []*entity.JobDetail
	byURL map[string]*entity.JobDetail
	now   func() time.Time
}

// Option configures a JobDetailRepoImpl.
type Option func(*JobDetailRepoImpl)

// WithClock replaces the clock used to stamp collected_at.
func WithClock(now func() time.Time) Option {
	return func(r *JobDetailRepoImpl) { r.now = now }
}

func NewJobDetailRepo(opts ...Option) *JobDetailRepoImpl {
	r := &JobDetailRepoImpl{
		byURL: make(map[string]*entity.JobDetail),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ repository.JobDetailRepository = (*JobDetailRepoImpl)(nil)

func (r *JobDetailRepoImpl) Create(ctx context.Context, job *entity.JobDetail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byURL[job.URL]; ok {
		return entity.ErrDuplicateURL
	}

	job.ID = int64(len(r.jobs) + 1)
	job.CollectedAt = r.now().UTC()

	// Records are deep-copied in and out so callers never share the
	// skills list or document maps with the store.
	stored := job.Clone()
	if stored.Skills.Kind() == entity.SkillsAbsent {
		stored.Skills = entity.DecodedSkills([]string{})
	}
	r.jobs = append(r.jobs, stored)
	r.byURL[job.URL] = stored
	return nil
}

func (r *JobDetailRepoImpl) FindAll(ctx context.Context) ([]*entity.JobDetail, error) {
	return r.FindRecent(ctx, -1)
}

// FindRecent returns at most limit records newest first; a negative limit
// returns all of them.
func (r *JobDetailRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.JobDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]*entity.JobDetail, len(r.jobs))
	copy(sorted, r.jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CollectedAt.Equal(sorted[j].CollectedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CollectedAt.After(sorted[j].CollectedAt)
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	out := make([]*entity.JobDetail, 0, len(sorted))
	for _, job := range sorted {
		out = append(out, job.Clone())
	}
	return out, nil
}

func (r *JobDetailRepoImpl) FindByURL(ctx context.Context, url string) (*entity.JobDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.byURL[url]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return job.Clone(), nil
}

func (r *JobDetailRepoImpl) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.jobs)), nil
}

func (r *JobDetailRepoImpl) Ping(ctx context.Context) error {
	return ctx.Err()
}
