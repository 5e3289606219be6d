package entity

import (
	"bytes"
	"encoding/json"
)

// SkillsKind tells how a skills value was found in storage.
type SkillsKind int

const (
	SkillsAbsent SkillsKind = iota
	// SkillsStringEncoded is a JSON array serialized into a string, e.g. "[\"go\"]".
	SkillsStringEncoded
	// SkillsDecoded is a native list.
	SkillsDecoded
	// SkillsUnreadable is any other stored value, such as `true`, `7` or
	// `[1,2]`. The raw JSON is kept so it is written back unchanged.
	SkillsUnreadable
)

// Skills holds the raw skills value of a record. The crawler writes it either
// as a JSON-encoded string or as a native list, so both shapes are kept apart
// until the response layer normalizes them.
type Skills struct {
	kind    SkillsKind
	encoded string
	decoded []string
	raw     json.RawMessage
}

func StringEncodedSkills(s string) Skills {
	return Skills{kind: SkillsStringEncoded, encoded: s}
}

func DecodedSkills(list []string) Skills {
	return Skills{kind: SkillsDecoded, decoded: list}
}

func (s Skills) Kind() SkillsKind { return s.kind }

// Clone returns a copy that shares no memory with s.
func (s Skills) Clone() Skills {
	c := s
	if s.decoded != nil {
		c.decoded = append([]string(nil), s.decoded...)
	}
	if s.raw != nil {
		c.raw = append(json.RawMessage(nil), s.raw...)
	}
	return c
}

// Encoded returns the raw string for SkillsStringEncoded values.
func (s Skills) Encoded() (string, bool) {
	return s.encoded, s.kind == SkillsStringEncoded
}

// Decoded returns the list for SkillsDecoded values.
func (s Skills) Decoded() ([]string, bool) {
	return s.decoded, s.kind == SkillsDecoded
}

// MarshalJSON writes the value in the shape it was stored in: null, a JSON
// string, or a JSON array.
func (s Skills) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case SkillsStringEncoded:
		return json.Marshal(s.encoded)
	case SkillsDecoded:
		if s.decoded == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.decoded)
	case SkillsUnreadable:
		return s.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails on a well-formed JSON value. Falsy values
// (false, 0, {}) read as absent; anything that is neither a string nor a list
// of strings becomes SkillsUnreadable.
func (s *Skills) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Skills{}
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StringEncodedSkills(str)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err == nil {
			*s = DecodedSkills(list)
			return nil
		}
	default:
		if isFalsy(data) {
			*s = Skills{}
			return nil
		}
	}

	*s = Skills{kind: SkillsUnreadable, raw: append(json.RawMessage(nil), data...)}
	return nil
}

func isFalsy(data []byte) bool {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case bool:
		return !v
	case float64:
		return v == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
