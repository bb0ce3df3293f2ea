package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the boundary layer can map it to a
// client-visible response without string matching.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindConflict      Kind = "CONFLICT"
	KindState         Kind = "STATE"
	KindAuthorization Kind = "AUTHORIZATION"
	KindCompliance    Kind = "COMPLIANCE"
	KindNotFound      Kind = "NOT_FOUND"
	KindInternal      Kind = "INTERNAL"
)

// Compliance error codes. Blocked users are hard-rejected; users above the
// verification threshold are routed to an identity-verification step instead.
const (
	CodeAccountBlocked       = "account_blocked"
	CodeVerificationRequired = "verification_required"
)

type Error struct {
	Kind    Kind
	Message string
	// Code carries a machine-readable sub-reason (compliance codes above).
	Code string
	// CurrentState is set on state errors so clients can explain why the
	// action is disallowed.
	CurrentState string
	Err          error
}

func (e *Error) Error() string {
	if e.CurrentState != "" {
		return fmt.Sprintf("%s (current state: %s)", e.Message, e.CurrentState)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func ConflictWrap(err error, msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

// State reports an operation that is not valid for the current status; the
// status is carried so the boundary can surface it.
func State(msg, current string) *Error {
	return &Error{Kind: KindState, Message: msg, CurrentState: current}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func Compliance(code, msg string) *Error {
	return &Error{Kind: KindCompliance, Message: msg, Code: code}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// CodeOf returns the machine-readable code of err, or "" if none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
