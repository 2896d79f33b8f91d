package normalization

import "strings"

const (
	StreamLive     = "live"
	StreamUpcoming = "upcoming"
	StreamPast     = "past"
)

func StreamStatus(input string) (string, error) {
	s := ParseInputString(input)
	switch s {
	case StreamLive, StreamUpcoming, StreamPast:
		return s, nil
	}
	return "", &FieldError{Field: "status", Msg: `"` + strings.TrimSpace(input) + `" is not a valid choice`}
}

// Link validates an optional absolute http(s) URL.
func Link(field, input string, maxLen int) (string, error) {
	s, err := Text(field, input, maxLen)
	if err != nil || s == "" {
		return s, err
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", &FieldError{Field: field, Msg: "enter a valid URL"}
	}
	if len(s) <= len("https://") || strings.ContainsAny(s, " \t\n") {
		return "", &FieldError{Field: field, Msg: "enter a valid URL"}
	}
	return s, nil
}
