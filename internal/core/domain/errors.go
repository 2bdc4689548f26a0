package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream marks failures talking to the journey planner.
	ErrUpstream = errors.New("upstream departure fetch failed")
	// ErrMalformedDeparture marks a departure record missing a required field.
	ErrMalformedDeparture = errors.New("malformed departure record")
	// ErrInvalidTimestamp marks a departure time that is not a zoned ISO 8601 value.
	ErrInvalidTimestamp = errors.New("invalid departure timestamp")
)

// MalformedDepartureError reports which record and field failed normalization.
type MalformedDepartureError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedDepartureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("departure %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("departure %d: missing %s", e.Index, e.Field)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *MalformedDepartureError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedDeparture, e.Err}
	}
	return []error{ErrMalformedDeparture}
}

// UpstreamError wraps a transport, status or decode failure from the journey planner.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream: %v", e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}
