package provider

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable provider failure category.
type Kind string

const (
	// KindUnavailable means the provider is not configured (e.g. no API key).
	KindUnavailable Kind = "provider_unavailable"
	// KindRequestFailed covers network errors, timeouts and non-2xx statuses.
	KindRequestFailed Kind = "provider_request_failed"
	// KindResponseMalformed means the body could not be parsed or broke the schema.
	KindResponseMalformed Kind = "provider_response_malformed"
	// KindResponseSuspect means the output looked like a diagnostic, not a translation.
	KindResponseSuspect Kind = "provider_response_suspect"
)

// Error wraps a provider failure with its kind.
type Error struct {
	Kind     Kind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Wrap(kind Kind, provider, msg string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Message: msg, Err: err}
}

func NewError(kind Kind, provider, msg string) *Error {
	return &Error{Kind: kind, Provider: provider, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain. Errors that
// are not provider errors (context deadlines, transport failures) are
// reported as KindRequestFailed.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindRequestFailed
}
