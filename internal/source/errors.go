/*

Error taxonomy for external data sources. Every failure crossing the client
boundary is classified into exactly one of these so aggregation components
can branch on structure instead of message strings.

*/

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the source was reached but has no matching entity.
	// This is a normal negative result, not a fault.
	ErrNotFound = errors.New("no matching entity at source")

	// ErrMalformed means the source answered with an unexpected shape.
	// Upstream components degrade it to a not-found rather than failing
	// hard.
	ErrMalformed = errors.New("malformed source response")

	// ErrInvalidInput is a programmer error in the request itself. It is
	// returned immediately, never retried, and never converted to a soft
	// result.
	ErrInvalidInput = errors.New("invalid input")
)

// TransportError covers timeouts, DNS failures, connection resets and
// non-success HTTP statuses. StatusCode is 0 when no response was received.
type TransportError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s: status %d from %s", e.Source, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("source %s: request to %s failed: %v", e.Source, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsSoft reports whether err is an expected negative outcome (not found or
// malformed) rather than a transport or programmer fault.
func IsSoft(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed)
}
