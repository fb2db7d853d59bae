// Package fault defines the closed failure taxonomy shared by the
// orchestration core. Adapters surface the most specific kind they can; the
// dispatcher and HTTP layer propagate kinds unchanged.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInvalidInput marks a malformed or absent audio reference.
	KindInvalidInput Kind = iota
	// KindFetch marks an unreachable remote URL.
	KindFetch
	// KindConfiguration marks a missing credential or unresolvable provider id.
	KindConfiguration
	// KindProvider marks a vendor non-success status or explicit error payload.
	KindProvider
	// KindTimeout marks a deadline exceeded, during polling or otherwise.
	KindTimeout
	// KindUnexpectedResponse marks a response that does not match the vendor contract.
	KindUnexpectedResponse
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindFetch:
		return "fetch"
	case KindConfiguration:
		return "configuration"
	case KindProvider:
		return "provider"
	case KindTimeout:
		return "timeout"
	case KindUnexpectedResponse:
		return "unexpected_response"
	default:
		return "unknown"
	}
}

// Error is a failure with a kind, an optional originating provider and an
// optional wrapped cause. It matches errors.Is against the kind sentinels
// below, so callers never need to inspect the struct directly.
type Error struct {
	Kind     Kind
	Provider string
	Message  string
	cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.cause != nil {
		if msg != "" {
			msg = msg + ": " + e.cause.Error()
		} else {
			msg = e.cause.Error()
		}
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Provider, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match on the kind sentinels.
func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	return ok && Kind(s) == e.Kind
}

type sentinel Kind

func (s sentinel) Error() string { return Kind(s).String() }

var (
	ErrInvalidInput       = sentinel(KindInvalidInput)
	ErrFetch              = sentinel(KindFetch)
	ErrConfiguration      = sentinel(KindConfiguration)
	ErrProvider           = sentinel(KindProvider)
	ErrTimeout            = sentinel(KindTimeout)
	ErrUnexpectedResponse = sentinel(KindUnexpectedResponse)
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: err}
}

// FromProvider tags a failure with the vendor it came from.
func FromProvider(kind Kind, provider, format string, args ...any) *Error {
	return &Error{Kind: kind, Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err if it carries one.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
