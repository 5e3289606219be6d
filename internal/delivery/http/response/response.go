package response

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/user/crawlweb-api/internal/entity"
)

// JobDetail is the public JSON shape of a job record. Fields are listed
// explicitly so storage-only columns (such as the row id) never leak.
type JobDetail struct {
	URL          string         `json:"url"`
	Thumbnail    *string        `json:"thumbnail"`
	JobTitle     string         `json:"job_title"`
	CompanyURL   *string        `json:"company_url"`
	CompanyName  *string        `json:"company_name"`
	Province     string         `json:"province"`
	Salary       *string        `json:"salary"`
	Skills       []string       `json:"skills"`
	Descriptions map[string]any `json:"descriptions"`
	JobInfo      map[string]any `json:"job_info"`
	CollectedAt  time.Time      `json:"collected_at"`
}

// NewJobDetail maps a record to its JSON shape. The second result is false
// when the stored skills value could not be decoded and was replaced with an
// empty list.
func NewJobDetail(job *entity.JobDetail) (JobDetail, bool) {
	skills, ok := NormalizeSkills(job.Skills)
	return JobDetail{
		URL:          job.URL,
		Thumbnail:    job.Thumbnail,
		JobTitle:     job.JobTitle,
		CompanyURL:   job.CompanyURL,
		CompanyName:  job.CompanyName,
		Province:     job.Province,
		Salary:       job.Salary,
		Skills:       skills,
		Descriptions: job.Descriptions,
		JobInfo:      job.JobInfo,
		CollectedAt:  job.CollectedAt,
	}, ok
}

// NewJobDetails maps records in order and reports how many skills values fell
// back to an empty list. The result is never nil.
func NewJobDetails(jobs []*entity.JobDetail) ([]JobDetail, int) {
	out := make([]JobDetail, 0, len(jobs))
	fallbacks := 0
	for _, job := range jobs {
		j, ok := NewJobDetail(job)
		if !ok {
			fallbacks++
		}
		out = append(out, j)
	}
	return out, fallbacks
}

// NormalizeSkills turns any stored skills value into a list.
//
// A string is parsed as a JSON list of strings; an empty or unparsable string
// yields an empty list and ok=false (empty string alone counts as ok). A
// decoded list is returned unchanged. Absent skills yield an empty list, and
// an unreadable stored value yields an empty list with ok=false.
func NormalizeSkills(s entity.Skills) (skills []string, ok bool) {
	switch s.Kind() {
	case entity.SkillsStringEncoded:
		raw, _ := s.Encoded()
		if strings.TrimSpace(raw) == "" {
			return []string{}, true
		}
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return []string{}, false
		}
		if list == nil {
			return []string{}, true
		}
		return list, true
	case entity.SkillsDecoded:
		list, _ := s.Decoded()
		if list == nil {
			return []string{}, true
		}
		return list, true
	case entity.SkillsUnreadable:
		return []string{}, false
	default:
		return []string{}, true
	}
}

type HealthResponse map[string]string
