package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/user/crawlweb-api/internal/entity"
	"go.uber.org/zap"
)

// ImportRecord is one job object in a crawler output file.
type ImportRecord struct {
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
}

func (r ImportRecord) toEntity() *entity.JobDetail {
	return &entity.JobDetail{
		URL:          r.URL,
		Thumbnail:    r.Thumbnail,
		JobTitle:     r.JobTitle,
		CompanyURL:   r.CompanyURL,
		CompanyName:  r.CompanyName,
		Province:     r.Province,
		Salary:       r.Salary,
		Skills:       r.Skills,
		Descriptions: r.Descriptions,
		JobInfo:      r.JobInfo,
	}
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Inserted   int
	Duplicates int
	Invalid    int
}

// Importer loads crawler output into the catalog through the validated
// create path.
type Importer struct {
	catalog JobCatalog
	logger  *zap.Logger
}

func NewImporter(catalog JobCatalog, logger *zap.Logger) *Importer {
	return &Importer{catalog: catalog, logger: logger}
}

// Import reads a JSON array of records from r and creates each one. Invalid
// and duplicate records are logged and skipped; storage errors abort the run.
func (im *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return res, fmt.Errorf("failed to read import file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return res, fmt.Errorf("import file must contain a JSON array, got %v", tok)
	}

	for i := 0; dec.More(); i++ {
		var rec ImportRecord
		if err := dec.Decode(&rec); err != nil {
			return res, fmt.Errorf("failed to decode record %d: %w", i, err)
		}

		err := im.catalog.Create(ctx, rec.toEntity())
		var vErr *entity.ValidationError
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, entity.ErrDuplicateURL):
			res.Duplicates++
			im.logger.Debug("skipping duplicate job", zap.Int("index", i), zap.String("url", rec.URL))
		case errors.As(err, &vErr):
			res.Invalid++
			im.logger.Warn("skipping invalid job", zap.Int("index", i), zap.String("url", rec.URL), zap.Error(err))
		default:
			return res, err
		}
	}

	if _, err := dec.Token(); err != nil {
		return res, fmt.Errorf("failed to read end of import file: %w", err)
	}
	return res, nil
}
