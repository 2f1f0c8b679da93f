// Package apperrors defines the error taxonomy shared by the invitation
// services and their transports.
package apperrors

import "errors"

// Kind classifies an error for callers that need to branch on it.
type Kind string

const (
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindExpired           Kind = "expired"
	KindStoreError        Kind = "store_error"
	KindInvalidInput      Kind = "invalid_input"
	KindConflict          Kind = "conflict"
	KindPartialFailure    Kind = "partial_failure"
)

// Code is a machine-readable identifier, finer grained than Kind. It is also
// the key used to look up localized messages.
type Code string

const (
	CodeUnauthenticated           Code = "UNAUTHENTICATED"
	CodeForbidden                 Code = "FORBIDDEN"
	CodeInvitationNotFound        Code = "INVITATION_NOT_FOUND"
	CodeInvitationExpired         Code = "INVITATION_EXPIRED"
	CodeInvitationAlreadyAccepted Code = "INVITATION_ALREADY_ACCEPTED"
	CodeInvitationCancelled       Code = "INVITATION_CANCELLED"
	CodeInvitationNotPending      Code = "INVITATION_NOT_PENDING"
	CodeInvalidInput              Code = "INVALID_INPUT"
	CodeEmailTaken                Code = "EMAIL_TAKEN"
	CodeStore                     Code = "STORE_ERROR"
	CodeRegistrationIncomplete    Code = "REGISTRATION_INCOMPLETE"
	CodeAlreadyBootstrapped       Code = "ALREADY_BOOTSTRAPPED"
)

// Error is the domain error type.
type Error struct {
	Kind    Kind
	Code    Code
	Message string // Internal message, for logs
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code so sentinels work with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// Store wraps a storage failure, passing the driver message through.
func Store(cause error) *Error {
	return &Error{Kind: KindStoreError, Code: CodeStore, Message: cause.Error(), Cause: cause}
}

// Invalid builds an InvalidInput error with the given message.
func Invalid(message string) *Error {
	return New(KindInvalidInput, CodeInvalidInput, message)
}

var (
	ErrUnauthenticated           = New(KindUnauthenticated, CodeUnauthenticated, "no authenticated caller")
	ErrForbidden                 = New(KindForbidden, CodeForbidden, "caller is not allowed to perform this action")
	ErrInvitationNotFound        = New(KindNotFound, CodeInvitationNotFound, "invitation not found")
	ErrInvitationExpired         = New(KindExpired, CodeInvitationExpired, "invitation has expired")
	ErrInvitationAlreadyAccepted = New(KindInvalidTransition, CodeInvitationAlreadyAccepted, "invitation already accepted")
	ErrInvitationCancelled       = New(KindInvalidTransition, CodeInvitationCancelled, "invitation was cancelled")
	ErrInvitationNotPending      = New(KindInvalidTransition, CodeInvitationNotPending, "invitation is no longer pending")
	ErrEmailTaken                = New(KindConflict, CodeEmailTaken, "email already registered")
	ErrAlreadyBootstrapped       = New(KindConflict, CodeAlreadyBootstrapped, "system already bootstrapped")
	ErrRegistrationIncomplete    = New(KindPartialFailure, CodeRegistrationIncomplete, "account created but invitation not accepted")
)

// KindOf returns the kind of err. Unclassified errors are store errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreError
}

// CodeOf returns the code of err, or CodeStore for unclassified errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
