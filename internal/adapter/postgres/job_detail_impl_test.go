package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/crawlweb-api/internal/entity"
)

func TestEncodeDocuments(t *testing.T) {
	t.Run("absent skills stored as empty list", func(t *testing.T) {
		skills, descriptions, jobInfo, err := encodeDocuments(&entity.JobDetail{URL: "https://example.com/a"})
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(skills))
		assert.Nil(t, descriptions)
		assert.Nil(t, jobInfo)
	})

	t.Run("string encoded skills kept as JSON string", func(t *testing.T) {
		job := &entity.JobDetail{Skills: entity.StringEncodedSkills(`["python","go"]`)}
		skills, _, _, err := encodeDocuments(job)
		require.NoError(t, err)
		assert.Equal(t, `"[\"python\",\"go\"]"`, string(skills))
	})

	t.Run("maps stored as objects", func(t *testing.T) {
		job := &entity.JobDetail{
			Skills:       entity.DecodedSkills([]string{"go"}),
			Descriptions: map[string]any{"summary": "build crawlers"},
			JobInfo:      map[string]any{"level": "senior"},
		}
		skills, descriptions, jobInfo, err := encodeDocuments(job)
		require.NoError(t, err)
		assert.JSONEq(t, `["go"]`, string(skills))
		assert.JSONEq(t, `{"summary":"build crawlers"}`, string(descriptions))
		assert.JSONEq(t, `{"level":"senior"}`, string(jobInfo))
	})
}

func TestDecodeDocuments(t *testing.T) {
	tests := []struct {
		name     string
		skills   string
		wantKind entity.SkillsKind
	}{
		{"json string", `"[\"python\",\"go\"]"`, entity.SkillsStringEncoded},
		{"json array", `["python","go"]`, entity.SkillsDecoded},
		{"json null", `null`, entity.SkillsAbsent},
		{"empty column", ``, entity.SkillsAbsent},
		{"json false", `false`, entity.SkillsAbsent},
		{"json zero", `0`, entity.SkillsAbsent},
		{"empty object", `{}`, entity.SkillsAbsent},
		{"number list", `[1,2]`, entity.SkillsUnreadable},
		{"json true", `true`, entity.SkillsUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var job entity.JobDetail
			err := decodeDocuments(&job, []byte(tt.skills), []byte(`{"a":1}`), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, job.Skills.Kind())
			assert.Equal(t, map[string]any{"a": float64(1)}, job.Descriptions)
			assert.Nil(t, job.JobInfo)
		})
	}

	t.Run("non-object descriptions", func(t *testing.T) {
		var job entity.JobDetail
		err := decodeDocuments(&job, nil, []byte(`[1,2]`), nil)
		assert.Error(t, err)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "job_details_url_key"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("connection refused")))
}
