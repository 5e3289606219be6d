package repository

import (
	"context"
	"errors"

	"github.com/user/crawlweb-api/internal/entity"
)

var ErrJobNotFound = errors.New("job not found")

// JobDetailRepository defines the storage contract for crawled job records.
// Records are insert-only: there is no update or delete.
type JobDetailRepository interface {
	// Create inserts a record and sets its ID and CollectedAt.
	// It returns entity.ErrDuplicateURL if the url is already stored.
	Create(ctx context.Context, job *entity.JobDetail) error
	// FindAll returns every record, newest first.
	FindAll(ctx context.Context) ([]*entity.JobDetail, error)
	// FindRecent returns at most limit records, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.JobDetail, error)
	// FindByURL returns ErrJobNotFound when no record has the url.
	FindByURL(ctx context.Context, url string) (*entity.JobDetail, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
