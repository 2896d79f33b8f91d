package normalization

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"
)

// BibleVerse is the read-side shape of a devotion's verse field. Both keys are
// always present on the wire.
type BibleVerse struct {
	Reference    string `json:"reference"`
	VerseContent string `json:"verse_content"`
}

// VerseInput is the write-side form. It accepts a JSON object or a string that
// holds a JSON-encoded object (multipart forms can only carry strings).
type VerseInput struct {
	Reference    string `json:"reference" form:"-"`
	VerseContent string `json:"verse_content" form:"-"`
}

const verseField = "bible_verse"

func (v *VerseInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return &FieldError{Field: verseField, Msg: "invalid verse encoding", Err: err}
		}
		return v.UnmarshalParam(encoded)
	}
	return v.decodeObject(trimmed)
}

// UnmarshalParam decodes the string form used by multipart/form bodies.
func (v *VerseInput) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*v = VerseInput{}
		return nil
	}
	return v.decodeObject([]byte(param))
}

func (v *VerseInput) decodeObject(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FieldError{Field: verseField, Msg: "invalid verse encoding", Err: err}
	}
	if raw == nil {
		return &FieldError{Field: verseField, Msg: "invalid verse encoding", Err: errors.New("expected an object")}
	}
	out := VerseInput{}
	for key, target := range map[string]*string{"reference": &out.Reference, "verse_content": &out.VerseContent} {
		val, ok := raw[key]
		if !ok || string(val) == "null" {
			continue
		}
		if err := json.Unmarshal(val, target); err != nil {
			return &FieldError{Field: verseField, Msg: "invalid verse encoding", Err: errors.New(key + " must be a string")}
		}
		*target = strings.TrimSpace(*target)
	}
	*v = out
	return nil
}

// JSON encodes the verse for storage.
func (v VerseInput) JSON() datatypes.JSON {
	b, _ := json.Marshal(BibleVerse{Reference: v.Reference, VerseContent: v.VerseContent})
	return datatypes.JSON(b)
}

// ReadVerse decodes a stored verse without ever failing: rows written before
// validation existed may hold strings, partial objects or garbage.
func ReadVerse(stored []byte) BibleVerse {
	out := BibleVerse{}
	data := bytes.TrimSpace(stored)
	if len(data) == 0 {
		return out
	}
	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return out
		}
		data = []byte(strings.TrimSpace(encoded))
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}
	if s, ok := raw["reference"].(string); ok {
		out.Reference = s
	}
	if s, ok := raw["verse_content"].(string); ok {
		out.VerseContent = s
	}
	return out
}
