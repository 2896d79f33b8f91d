package normalization

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestVerseRoundTripFillsMissingKeys(t *testing.T) {
	var in VerseInput
	if err := json.Unmarshal([]byte(`{"reference":"John 10:30"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := ReadVerse(in.JSON())
	if got.Reference != "John 10:30" || got.VerseContent != "" {
		t.Fatalf("unexpected verse: %+v", got)
	}
	b, _ := json.Marshal(got)
	if string(b) != `{"reference":"John 10:30","verse_content":""}` {
		t.Fatalf("unexpected wire form: %s", b)
	}
}

func TestVerseAcceptsEncodedString(t *testing.T) {
	var in VerseInput
	body := `"{\"reference\":\"Psalm 23:1\",\"verse_content\":\"The Lord is my shepherd\"}"`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Reference != "Psalm 23:1" || in.VerseContent != "The Lord is my shepherd" {
		t.Fatalf("unexpected verse: %+v", in)
	}
}

func TestVerseRejectsMalformedString(t *testing.T) {
	var in VerseInput
	err := in.UnmarshalParam(`{"reference": "John`)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "bible_verse" {
		t.Fatalf("expected bible_verse field error, got %v", err)
	}
	if err := in.UnmarshalParam(`["John 3:16"]`); err == nil {
		t.Fatalf("expected error for array input")
	}
	if err := in.UnmarshalParam(`{"reference": 12}`); err == nil {
		t.Fatalf("expected error for non-string reference")
	}
}

func TestReadVerseIsGenerous(t *testing.T) {
	cases := map[string]BibleVerse{
		``:                                    {},
		`garbage`:                             {},
		`"{\"reference\":\"Mark 1:1\"}"`:      {Reference: "Mark 1:1"},
		`{"reference":5,"verse_content":"x"}`: {VerseContent: "x"},
		`null`:                                {},
	}
	for stored, want := range cases {
		if got := ReadVerse([]byte(stored)); got != want {
			t.Fatalf("ReadVerse(%q) = %+v, want %+v", stored, got, want)
		}
	}
}
