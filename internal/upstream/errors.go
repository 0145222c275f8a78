// Package upstream holds the uniform failure shapes shared by both provider
// clients: a non-2xx provider reply and a network-level transport failure are
// kept distinguishable all the way to the HTTP surface.
package upstream

import (
	"errors"
	"fmt"
)

// StatusError is a provider reply with a non-2xx status. Body carries the
// provider's response verbatim (truncated by the client) as diagnostic
// payload for the caller.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status=%d", e.Provider, e.StatusCode)
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// TransportError is a network-level failure reaching a provider: DNS,
// timeout, connection reset. Cause is for operator logs only and must never
// be echoed into a client response.
type TransportError struct {
	Provider string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Provider, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// AsTransportError attempts to unwrap an error into a TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
