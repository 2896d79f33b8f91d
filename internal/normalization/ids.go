package normalization

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// OptionalID is a nullable reference on write. Set reports whether the field
// was present at all, so an explicit null can clear the reference. Decoding
// never fails; Check reports malformed values under the caller's field name.
type OptionalID struct {
	Set     bool
	Value   *uuid.UUID
	invalid string
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*o = OptionalID{Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		*o = OptionalID{Set: true, invalid: string(trimmed)}
		return nil
	}
	return o.UnmarshalParam(s)
}

// UnmarshalParam treats an empty form value as null.
func (o *OptionalID) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" || param == "null" {
		*o = OptionalID{Set: true}
		return nil
	}
	id, err := uuid.Parse(param)
	if err != nil {
		*o = OptionalID{Set: true, invalid: param}
		return nil
	}
	*o = OptionalID{Set: true, Value: &id}
	return nil
}

func (o OptionalID) Check(field string) error {
	if o.invalid != "" {
		return &FieldError{Field: field, Msg: `"` + o.invalid + `" is not a valid UUID`}
	}
	return nil
}

// IDList is a set of references, deduplicated in input order. Forms may carry
// it as a JSON array or a comma-separated string.
type IDList struct {
	IDs     []uuid.UUID
	invalid []string
}

func (l *IDList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*l = IDList{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*l = IDList{invalid: []string{string(trimmed)}}
			return nil
		}
		return l.UnmarshalParam(s)
	}
	var raw []string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		*l = IDList{invalid: []string{string(trimmed)}}
		return nil
	}
	l.parse(raw)
	return nil
}

func (l *IDList) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*l = IDList{}
		return nil
	}
	if strings.HasPrefix(param, "[") {
		return l.UnmarshalJSON([]byte(param))
	}
	l.parse(strings.Split(param, ","))
	return nil
}

func (l *IDList) parse(raw []string) {
	out := IDList{IDs: make([]uuid.UUID, 0, len(raw))}
	seen := map[uuid.UUID]bool{}
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			out.invalid = append(out.invalid, s)
			continue
		}
		if !seen[id] {
			seen[id] = true
			out.IDs = append(out.IDs, id)
		}
	}
	*l = out
}

func (l IDList) Check(field string) error {
	if len(l.invalid) > 0 {
		return &FieldError{Field: field, Msg: `"` + l.invalid[0] + `" is not a valid UUID`}
	}
	return nil
}
