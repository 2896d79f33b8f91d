package normalization

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseInputString trims and lowercases identifiers such as usernames and emails.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := ParseInputString(*input)
	return &normalized
}

// Text trims surrounding whitespace and enforces a maximum rune length (0 = unbounded).
func Text(field, input string, maxLen int) (string, error) {
	out := strings.TrimSpace(input)
	if maxLen > 0 && utf8.RuneCountInString(out) > maxLen {
		return "", &FieldError{Field: field, Msg: fmt.Sprintf("ensure this field has no more than %d characters", maxLen)}
	}
	return out, nil
}

// RequiredText is Text that also rejects blank values.
func RequiredText(field, input string, maxLen int) (string, error) {
	out, err := Text(field, input, maxLen)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", &FieldError{Field: field, Msg: "this field may not be blank"}
	}
	return out, nil
}
