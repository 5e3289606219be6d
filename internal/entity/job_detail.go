package entity

import "time"

// JobDetail mirrors one crawled job posting as stored in the `job_details` table.
type JobDetail struct {
	ID           int64
	URL          string         `validate:"required,max=500,http_url"`
	Thumbnail    *string        `validate:"omitempty,max=500,http_url"`
	JobTitle     string         `validate:"required,max=255"`
	CompanyURL   *string        `validate:"omitempty,max=500,http_url"`
	CompanyName  *string        `validate:"omitempty,max=255"`
	Province     string         `validate:"required,max=100"`
	Salary       *string        `validate:"omitempty,max=100"`
	Skills       Skills
	Descriptions map[string]any
	JobInfo      map[string]any
	// CollectedAt is assigned by the store on insert and never changes.
	CollectedAt time.Time
}

func (j *JobDetail) String() string {
	company := ""
	if j.CompanyName != nil {
		company = *j.CompanyName
	}
	return j.JobTitle + " - " + company
}

// Clone returns a deep copy of the record. Document maps are copied
// recursively so the clone can be mutated freely.
func (j *JobDetail) Clone() *JobDetail {
	c := *j
	c.Thumbnail = cloneString(j.Thumbnail)
	c.CompanyURL = cloneString(j.CompanyURL)
	c.CompanyName = cloneString(j.CompanyName)
	c.Salary = cloneString(j.Salary)
	c.Skills = j.Skills.Clone()
	c.Descriptions = cloneDocument(j.Descriptions)
	c.JobInfo = cloneDocument(j.JobInfo)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDocument(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneDocument(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
