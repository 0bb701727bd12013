// Package errors defines the error taxonomy shared by the reporting pipeline
// and the HTTP layer. Errors are plain cockroachdb/errors values marked with
// one of the sentinel categories below; callers test them with errors.Is.
package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrDatabase      = errors.New("database error")
	ErrRendering     = errors.New("rendering error")
	ErrStorage       = errors.New("storage error")
	ErrInternal      = errors.New("internal error")
)

// ErrorBuilder accumulates hints on an error before it is marked with a
// category.
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepth(1, msg)}
}

func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepthf(1, format, args...)}
}

func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: errors.WithStackDepth(err, 1)}
}

// WithHint attaches a user facing message. The first hint is what the API
// returns to callers.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

func (b *ErrorBuilder) Mark(reference error) error {
	return errors.Mark(b.err, reference)
}

// Is reports whether err carries target, either as a cause or as a mark.
func Is(err, target error) bool { return errors.Is(err, target) }

func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// HTTPStatusFromErr maps an error category to its HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type ErrorDetail struct {
	Display       string `json:"display"`
	InternalError string `json:"internal_error,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the JSON body for err. Internal details are only
// exposed for client errors, server failures get a generic message unless a
// hint was attached.
func NewErrorResponse(err error) ErrorResponse {
	display := "An unexpected error occurred"
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		display = hints[0]
	}
	detail := ErrorDetail{Display: display}
	if HTTPStatusFromErr(err) < http.StatusInternalServerError {
		detail.InternalError = err.Error()
	}
	return ErrorResponse{Success: false, Error: detail}
}
