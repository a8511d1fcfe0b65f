package mrr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned by NewClient when the key or secret is empty.
	ErrMissingCredentials = errors.New("mrr: api key and secret are required")

	// ErrTransport matches every *TransportError via errors.Is.
	ErrTransport = errors.New("mrr: transport failure")

	// ErrDecode matches every *DecodeError via errors.Is.
	ErrDecode = errors.New("mrr: response decode failure")
)

// TransportError means no HTTP response was obtained: DNS, connect, TLS,
// timeout, cancellation or a truncated body.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mrr: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError means a 200 body was not valid JSON while decoding was enabled.
type DecodeError struct {
	Status int
	Body   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mrr: failed to decode %d response: %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
