package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the error taxonomy. Every *ApiErr wraps exactly one of these,
// so callers can branch with errors.Is regardless of the message.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authorized")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrUpload             = errors.New("upload error")
	ErrInternal           = errors.New("internal server error")
)

type ApiErr struct {
	StatusCode int
	kind       error
	Message    string // short, user visible
	Field      string // set for validation errors
	Cause      error
}

func newApiErr(status int, kind error, message string) *ApiErr {
	return &ApiErr{StatusCode: status, kind: kind, Message: message}
}

func (e *ApiErr) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *ApiErr) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.kind, e.Cause}
	}
	return []error{e.kind}
}

// Detail is the text placed in the "error" field of a response body.
func (e *ApiErr) Detail() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.kind.Error()
}

// WithCause returns a copy of e carrying cause.
func (e *ApiErr) WithCause(cause error) *ApiErr {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithStatus returns a copy of e answering with a different status code.
func (e *ApiErr) WithStatus(status int) *ApiErr {
	cp := *e
	cp.StatusCode = status
	return &cp
}

func Validation(field, message string) *ApiErr {
	e := newApiErr(http.StatusBadRequest, ErrValidation, message)
	e.Field = field
	return e
}

func DuplicateEmail(message string) *ApiErr {
	return newApiErr(http.StatusBadRequest, ErrDuplicateEmail, message)
}

func InvalidCredentials() *ApiErr {
	return newApiErr(http.StatusUnauthorized, ErrInvalidCredentials, "Invalid email or password")
}

func Unauthenticated(message string) *ApiErr {
	return newApiErr(http.StatusUnauthorized, ErrUnauthenticated, message)
}

func Forbidden(message string) *ApiErr {
	return newApiErr(http.StatusForbidden, ErrForbidden, message)
}

func NotFound(entity string) *ApiErr {
	return newApiErr(http.StatusNotFound, ErrNotFound, entity+" not found")
}

func Upload(message string) *ApiErr {
	return newApiErr(http.StatusBadRequest, ErrUpload, message)
}

func Internal(message string, cause error) *ApiErr {
	e := newApiErr(http.StatusInternalServerError, ErrInternal, message)
	e.Cause = cause
	return e
}

// As extracts an *ApiErr from err. Anything else becomes an InternalError
// carrying err as its cause.
func As(err error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("Server error", err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// Body is the JSON response body for e.
func (e *ApiErr) Body() map[string]any {
	body := map[string]any{"message": e.Message, "error": e.Detail()}
	if e.Field != "" {
		body["field"] = e.Field
	}
	return body
}
