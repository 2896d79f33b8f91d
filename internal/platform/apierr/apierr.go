package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound             = "not_found"
	CodeValidation           = "validation_error"
	CodeUnauthenticated      = "not_authenticated"
	CodeForbidden            = "permission_denied"
	CodeSelfDeletionRejected = "self_deletion_rejected"
	CodeInternal             = "internal_error"
	CodeInvalidPage          = "invalid_page"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields carries field-level messages for validation failures.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

// InvalidPage is returned when ?page= points past the last page.
func InvalidPage() *Error {
	return New(http.StatusNotFound, CodeInvalidPage, errors.New("invalid page"))
}

func Unauthenticated() *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, errors.New("authentication credentials were not provided"))
}

func Forbidden(code string, err error) *Error {
	if code == "" {
		code = CodeForbidden
	}
	if err == nil {
		err = errors.New("you do not have permission to perform this action")
	}
	return New(http.StatusForbidden, code, err)
}

// Validation builds a 400 error with one message per offending field.
func Validation(field, msg string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeValidation,
		Err:    fmt.Errorf("%s: %s", field, msg),
		Fields: map[string][]string{field: {msg}},
	}
}

func ValidationFields(fields map[string][]string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeValidation,
		Err:    errors.New("invalid input"),
		Fields: fields,
	}
}

// SelfDeletionRejected is a validation failure, not a permission failure.
func SelfDeletionRejected() *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeSelfDeletionRejected,
		Err:    errors.New("you cannot delete your own account"),
		Fields: map[string][]string{"id": {"you cannot delete your own account"}},
	}
}

func Internal(code string, err error) *Error {
	if code == "" {
		code = CodeInternal
	}
	return New(http.StatusInternalServerError, code, err)
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	ae, ok := As(err)
	return ok && ae.Status == http.StatusNotFound
}
