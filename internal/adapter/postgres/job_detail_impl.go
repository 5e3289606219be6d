package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/crawlweb-api/internal/entity"
	"github.com/user/crawlweb-api/internal/repository"
)

const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS job_details (
		id           BIGSERIAL PRIMARY KEY,
		url          VARCHAR(500) NOT NULL UNIQUE,
		thumbnail    VARCHAR(500),
		job_title    VARCHAR(255) NOT NULL,
		company_url  VARCHAR(500),
		company_name VARCHAR(255),
		province     VARCHAR(100) NOT NULL,
		salary       VARCHAR(100),
		skills       JSONB NOT NULL DEFAULT '[]'::jsonb,
		descriptions JSONB,
		job_info     JSONB,
		collected_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS job_details_collected_at_idx ON job_details (collected_at DESC);
`

const selectColumns = `id, url, thumbnail, job_title, company_url, company_name, province, salary, skills, descriptions, job_info, collected_at`

// JobDetailRepoImpl stores job records in PostgreSQL, keeping the free-form
// fields (skills, descriptions, job_info) as JSONB documents.
type JobDetailRepoImpl struct {
	db *pgxpool.Pool
}

// NewJobDetailRepo creates a new instance of JobDetailRepoImpl.
func NewJobDetailRepo(db *pgxpool.Pool) *JobDetailRepoImpl {
	return &JobDetailRepoImpl{db: db}
}

var _ repository.JobDetailRepository = (*JobDetailRepoImpl)(nil)

// EnsureSchema creates the job_details table and its indexes if missing.
func (r *JobDetailRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create job_details schema: %w", err)
	}
	return nil
}

// Create inserts a record. collected_at is assigned by the database.
func (r *JobDetailRepoImpl) Create(ctx context.Context, job *entity.JobDetail) error {
	skillsJSON, descriptionsJSON, jobInfoJSON, err := encodeDocuments(job)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO job_details (url, thumbnail, job_title, company_url, company_name, province, salary, skills, descriptions, job_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, collected_at;
	`
	err = r.db.QueryRow(ctx, query,
		job.URL,
		job.Thumbnail,
		job.JobTitle,
		job.CompanyURL,
		job.CompanyName,
		job.Province,
		job.Salary,
		skillsJSON,
		descriptionsJSON,
		jobInfoJSON,
	).Scan(&job.ID, &job.CollectedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateURL
		}
		return fmt.Errorf("failed to insert job %s: %w", job.URL, err)
	}
	return nil
}

// FindAll retrieves every record, newest first.
func (r *JobDetailRepoImpl) FindAll(ctx context.Context) ([]*entity.JobDetail, error) {
	query := `SELECT ` + selectColumns + ` FROM job_details ORDER BY collected_at DESC, id DESC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	return collectJobs(rows)
}

// FindRecent retrieves at most limit records, newest first.
func (r *JobDetailRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.JobDetail, error) {
	query := `SELECT ` + selectColumns + ` FROM job_details ORDER BY collected_at DESC, id DESC LIMIT $1;`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent jobs: %w", err)
	}
	return collectJobs(rows)
}

// FindByURL retrieves the record stored under url.
func (r *JobDetailRepoImpl) FindByURL(ctx context.Context, url string) (*entity.JobDetail, error) {
	query := `SELECT ` + selectColumns + ` FROM job_details WHERE url = $1;`
	job, err := scanJob(r.db.QueryRow(ctx, query, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job %s: %w", url, err)
	}
	return job, nil
}

func (r *JobDetailRepoImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_details;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

func (r *JobDetailRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func collectJobs(rows pgx.Rows) ([]*entity.JobDetail, error) {
	defer rows.Close()

	jobs := []*entity.JobDetail{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*entity.JobDetail, error) {
	var job entity.JobDetail
	var skillsJSON, descriptionsJSON, jobInfoJSON []byte

	err := row.Scan(
		&job.ID,
		&job.URL,
		&job.Thumbnail,
		&job.JobTitle,
		&job.CompanyURL,
		&job.CompanyName,
		&job.Province,
		&job.Salary,
		&skillsJSON,
		&descriptionsJSON,
		&jobInfoJSON,
		&job.CollectedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeDocuments(&job, skillsJSON, descriptionsJSON, jobInfoJSON); err != nil {
		return nil, err
	}
	return &job, nil
}

// encodeDocuments renders the JSONB columns. Absent skills are stored as an
// empty list; absent maps are stored as NULL.
func encodeDocuments(job *entity.JobDetail) (skills, descriptions, jobInfo []byte, err error) {
	s := job.Skills
	if s.Kind() == entity.SkillsAbsent {
		s = entity.DecodedSkills([]string{})
	}
	if skills, err = json.Marshal(s); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	if job.Descriptions != nil {
		if descriptions, err = json.Marshal(job.Descriptions); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode descriptions: %w", err)
		}
	}
	if job.JobInfo != nil {
		if jobInfo, err = json.Marshal(job.JobInfo); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode job_info: %w", err)
		}
	}
	return skills, descriptions, jobInfo, nil
}

func decodeDocuments(job *entity.JobDetail, skills, descriptions, jobInfo []byte) error {
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &job.Skills); err != nil {
			return fmt.Errorf("failed to decode skills for %s: %w", job.URL, err)
		}
	}
	if len(descriptions) > 0 {
		if err := json.Unmarshal(descriptions, &job.Descriptions); err != nil {
			return fmt.Errorf("failed to decode descriptions for %s: %w", job.URL, err)
		}
	}
	if len(jobInfo) > 0 {
		if err := json.Unmarshal(jobInfo, &job.JobInfo); err != nil {
			return fmt.Errorf("failed to decode job_info for %s: %w", job.URL, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
