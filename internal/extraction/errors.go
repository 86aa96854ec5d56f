package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResult means the model answered with something that is not
	// one of the expected result shapes.
	ErrMalformedResult = errors.New("malformed extraction result")
	// ErrTimeout means the vision call did not finish within the scan timeout.
	ErrTimeout = errors.New("extraction timed out")
	// ErrUpstream means the vision call itself failed.
	ErrUpstream = errors.New("extraction service failed")
)

// DeclaredError is returned when the model reports that it could not extract
// anything, via an {"error": "..."} answer.
type DeclaredError struct {
	Message string
}

func (e *DeclaredError) Error() string {
	return "extraction declined: " + e.Message
}

// UpstreamError wraps a failed vision call. It matches ErrUpstream.
type UpstreamError struct {
	Err       error
	Retryable bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUpstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
