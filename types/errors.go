package types

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNetwork          = errors.New("udp: unknown network")
	ErrMissingAddr             = errors.New("udp: missing address")
	ErrClosedEndpoint          = errors.New("udp: endpoint closed")
	ErrClosedSource            = errors.New("udp: source closed")
	ErrClosedSink              = errors.New("udp: sink closed")
	ErrInvalidPacketsPerBuffer = errors.New("udp: packets per buffer must be positive")
	ErrNilConsumer             = errors.New("udp: nil batch consumer")
)

// BindError reports a failure to acquire the requested socket. It is fatal
// for the construction of the owning endpoint and is never retried.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("udp: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
