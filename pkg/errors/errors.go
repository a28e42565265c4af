package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error. The HTTP responder switches on it
// exhaustively, so adding a Kind means adding a status mapping.
type Kind int

const (
	// KindUnknown covers unexpected and storage-layer failures.
	KindUnknown Kind = iota
	// KindValidation is malformed client input, reported per field.
	KindValidation
	// KindAuth is a missing, invalid or expired token, or a credential mismatch.
	KindAuth
	// KindNotFound is a missing entity or an unmatched route.
	KindNotFound
	// KindConflict is a uniqueness violation, reported per field.
	KindConflict
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Reason narrows a KindAuth error.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonTokenMissing
	ReasonTokenInvalid
	ReasonTokenExpired
	ReasonCredentialMismatch
)

// String returns the reason name used in logs.
func (r Reason) String() string {
	switch r {
	case ReasonTokenMissing:
		return "token_missing"
	case ReasonTokenInvalid:
		return "token_invalid"
	case ReasonTokenExpired:
		return "token_expired"
	case ReasonCredentialMismatch:
		return "credential_mismatch"
	default:
		return "none"
	}
}

// Error is the single error type crossing layer boundaries.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	// Fields maps a request field to its message for validation and conflict errors.
	Fields map[string]string
	// Err is the underlying cause. It is logged, never shown to callers.
	Err error
}

// Common application errors, usable as errors.Is targets.
var (
	ErrNotFound           = NewNotFoundError("resource", "")
	ErrConflict           = &Error{Kind: KindConflict}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrUnknown            = &Error{Kind: KindUnknown}
	ErrTokenMissing       = NewAuthError(ReasonTokenMissing, "")
	ErrTokenInvalid       = NewAuthError(ReasonTokenInvalid, "")
	ErrTokenExpired       = NewAuthError(ReasonTokenExpired, "")
	ErrCredentialMismatch = NewAuthError(ReasonCredentialMismatch, "")
)

// NewValidationError creates a validation error from a field -> message map.
func NewValidationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewAuthError creates an authentication error with the given reason.
func NewAuthError(reason Reason, message string) *Error {
	if message == "" {
		message = defaultAuthMessage(reason)
	}
	return &Error{
		Kind:    KindAuth,
		Reason:  reason,
		Message: message,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return &Error{
		Kind:    KindNotFound,
		Message: message,
	}
}

// NewConflictError creates a uniqueness conflict on a single field.
func NewConflictError(field, message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, err error) *Error {
	return &Error{
		Kind:    KindUnknown,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. For auth errors
// with a reason on target, the reasons must match too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == ReasonNone || t.Reason == e.Reason
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}

// Is is errors.Is re-exported so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func defaultAuthMessage(reason Reason) string {
	switch reason {
	case ReasonTokenMissing:
		return "authentication token is missing"
	case ReasonTokenInvalid:
		return "authentication token is invalid"
	case ReasonTokenExpired:
		return "authentication token has expired"
	case ReasonCredentialMismatch:
		return "password does not match"
	default:
		return "unauthorized"
	}
}
