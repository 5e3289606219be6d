package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/crawlweb-api/internal/entity"
	"github.com/user/crawlweb-api/internal/repository"
)

// skillRules applies to each item of a list-shaped skills value.
const skillRules = "dive,max=100"

// JobCatalog defines the operations on crawled job records.
type JobCatalog interface {
	// Create validates and stores a new record.
	Create(ctx context.Context, job *entity.JobDetail) error
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]*entity.JobDetail, error)
	// Recent returns the limit most recently collected records.
	Recent(ctx context.Context, limit int) ([]*entity.JobDetail, error)
}

type jobCatalogUseCase struct {
	jobRepo  repository.JobDetailRepository
	validate *validator.Validate
}

// NewJobCatalog creates a new JobCatalog use case.
func NewJobCatalog(jobRepo repository.JobDetailRepository) JobCatalog {
	return &jobCatalogUseCase{
		jobRepo:  jobRepo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (uc *jobCatalogUseCase) Create(ctx context.Context, job *entity.JobDetail) error {
	job.Thumbnail = nilIfBlank(job.Thumbnail)
	job.CompanyURL = nilIfBlank(job.CompanyURL)
	job.CompanyName = nilIfBlank(job.CompanyName)
	job.Salary = nilIfBlank(job.Salary)

	if err := uc.validateJob(job); err != nil {
		return err
	}

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, entity.ErrDuplicateURL) {
			return &entity.ValidationError{Field: "url", Reason: err.Error(), Err: err}
		}
		return fmt.Errorf("failed to create job %s: %w", job.URL, err)
	}
	return nil
}

func (uc *jobCatalogUseCase) ListAll(ctx context.Context) ([]*entity.JobDetail, error) {
	jobs, err := uc.jobRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (uc *jobCatalogUseCase) Recent(ctx context.Context, limit int) ([]*entity.JobDetail, error) {
	jobs, err := uc.jobRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}
	return jobs, nil
}

func (uc *jobCatalogUseCase) validateJob(job *entity.JobDetail) error {
	if err := uc.validate.Struct(job); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &entity.ValidationError{Field: columnName(fe.Field()), Reason: reason(fe), Err: err}
		}
		return err
	}

	switch job.Skills.Kind() {
	case entity.SkillsUnreadable:
		return &entity.ValidationError{Field: "skills", Reason: "expected a list of strings"}
	case entity.SkillsDecoded:
		// Encoded strings are kept verbatim and normalized on read.
		list, _ := job.Skills.Decoded()
		if err := uc.validate.Var(list, skillRules); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				fe := fieldErrs[0]
				return &entity.ValidationError{
					Field:  "skills",
					Reason: fmt.Sprintf("item %q: %s", fe.Value(), reason(fe)),
					Err:    err,
				}
			}
			return err
		}
	}
	return nil
}

// nilIfBlank stores blank optional values as null.
func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

var columnNames = map[string]string{
	"URL":         "url",
	"Thumbnail":   "thumbnail",
	"JobTitle":    "job_title",
	"CompanyURL":  "company_url",
	"CompanyName": "company_name",
	"Province":    "province",
	"Salary":      "salary",
}

func columnName(field string) string {
	if name, ok := columnNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "http_url":
		return "enter a valid URL"
	default:
		return fe.Error()
	}
}
