package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindExternal
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindExternal:
		return "external"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Status maps the kind to the HTTP status returned to callers.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

const (
	msgStorage  = "Database operation failed"
	msgExternal = "Failed to communicate with external service"
	msgInternal = "An internal error occurred"
)

// Error is the tagged failure passed between the core and the HTTP layer.
// Message is safe to show to callers; Reason and Err are only logged.
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Reason != "" {
		b.WriteString(" (")
		b.WriteString(e.Reason)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Violation is a single failed input rule.
type Violation struct {
	Field   string
	Message string
}

// ViolationSeparator joins violation messages in a ValidationError.
const ViolationSeparator = ", "

// Validation builds a 400 error whose message lists every violation.
func Validation(violations ...Violation) *Error {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Message)
	}
	return &Error{Kind: KindValidation, Message: strings.Join(msgs, ViolationSeparator)}
}

// Validationf builds a 400 error from a single formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthorized builds a 401 error. reason is kept out of the response.
func Unauthorized(message, reason string) *Error {
	return &Error{Kind: KindAuth, Message: message, Reason: reason}
}

// External wraps a transport or decoding failure of an outbound call.
func External(op string, err error) *Error {
	return &Error{Kind: KindExternal, Message: msgExternal, Reason: op, Err: err}
}

// Storage wraps a persistence failure.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msgStorage, Reason: op, Err: err}
}

// Internal wraps anything else.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msgInternal, Reason: op, Err: err}
}

// KindOf reports the kind of err, KindInternal for untagged errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
