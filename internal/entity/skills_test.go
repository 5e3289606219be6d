package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantKind    SkillsKind
		wantEncoded string
		wantList    []string
	}{
		{name: "null", input: `null`, wantKind: SkillsAbsent},
		{name: "json string", input: `"[\"python\",\"go\"]"`, wantKind: SkillsStringEncoded, wantEncoded: `["python","go"]`},
		{name: "empty string", input: `""`, wantKind: SkillsStringEncoded, wantEncoded: ""},
		{name: "list", input: `["python","go"]`, wantKind: SkillsDecoded, wantList: []string{"python", "go"}},
		{name: "empty list", input: `[]`, wantKind: SkillsDecoded, wantList: []string{}},
		{name: "false", input: `false`, wantKind: SkillsAbsent},
		{name: "zero", input: `0`, wantKind: SkillsAbsent},
		{name: "empty object", input: `{}`, wantKind: SkillsAbsent},
		{name: "true", input: `true`, wantKind: SkillsUnreadable},
		{name: "number", input: `7`, wantKind: SkillsUnreadable},
		{name: "object", input: `{"a":"go"}`, wantKind: SkillsUnreadable},
		{name: "list of numbers", input: `[1,2]`, wantKind: SkillsUnreadable},
		{name: "mixed list", input: `["go",null,3]`, wantKind: SkillsUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Skills
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.wantKind, s.Kind())

			switch tt.wantKind {
			case SkillsStringEncoded:
				got, ok := s.Encoded()
				assert.True(t, ok)
				assert.Equal(t, tt.wantEncoded, got)
			case SkillsDecoded:
				got, ok := s.Decoded()
				assert.True(t, ok)
				assert.Equal(t, tt.wantList, got)
			}
		})
	}
}

func TestSkillsMarshalJSONKeepsShape(t *testing.T) {
	for _, s := range []Skills{
		{},
		StringEncodedSkills(`["go"]`),
		DecodedSkills([]string{"go", "sql"}),
		unreadable(t, `[1,2]`),
	} {
		body, err := json.Marshal(s)
		require.NoError(t, err)

		var back Skills
		require.NoError(t, json.Unmarshal(body, &back))
		assert.Equal(t, s.Kind(), back.Kind())
	}

	body, err := json.Marshal(DecodedSkills(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))

	body, err = json.Marshal(unreadable(t, `{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func unreadable(t *testing.T, raw string) Skills {
	t.Helper()
	var s Skills
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.Equal(t, SkillsUnreadable, s.Kind())
	return s
}

func TestSkillsCloneDoesNotShareList(t *testing.T) {
	orig := DecodedSkills([]string{"go", "sql"})
	c := orig.Clone()

	list, _ := c.Decoded()
	list[0] = "rust"

	got, _ := orig.Decoded()
	assert.Equal(t, []string{"go", "sql"}, got)
}

func TestJobDetailClone(t *testing.T) {
	salary := "1000"
	orig := &JobDetail{
		URL:          "https://example.com/1",
		Salary:       &salary,
		Skills:       DecodedSkills([]string{"go"}),
		Descriptions: map[string]any{"benefits": []any{"laptop"}, "meta": map[string]any{"lang": "vi"}},
		JobInfo:      map[string]any{"level": "junior"},
	}

	c := orig.Clone()
	*c.Salary = "0"
	list, _ := c.Skills.Decoded()
	list[0] = "rust"
	c.Descriptions["benefits"].([]any)[0] = "none"
	c.Descriptions["meta"].(map[string]any)["lang"] = "en"
	c.JobInfo["level"] = "senior"

	assert.Equal(t, "1000", *orig.Salary)
	skills, _ := orig.Skills.Decoded()
	assert.Equal(t, []string{"go"}, skills)
	assert.Equal(t, []any{"laptop"}, orig.Descriptions["benefits"])
	assert.Equal(t, "vi", orig.Descriptions["meta"].(map[string]any)["lang"])
	assert.Equal(t, "junior", orig.JobInfo["level"])
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Field: "url", Reason: "duplicate", Err: ErrDuplicateURL})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "invalid url: duplicate", vErr.Error())
	assert.ErrorIs(t, err, ErrDuplicateURL)
}

func TestJobDetailString(t *testing.T) {
	company := "Acme"
	assert.Equal(t, "Go Dev - Acme", (&JobDetail{JobTitle: "Go Dev", CompanyName: &company}).String())
	assert.Equal(t, "Go Dev - ", (&JobDetail{JobTitle: "Go Dev"}).String())
}
