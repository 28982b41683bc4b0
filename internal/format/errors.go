package format

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the pipeline.
var (
	// ErrPhase is returned when a phase is called out of order.
	ErrPhase = errors.New("format: phase out of order")
	// ErrBusy is returned when an operation starts while another is running.
	ErrBusy = errors.New("format: operation in progress")
	// ErrUnknownStyle is returned for style names the pipeline does not know.
	ErrUnknownStyle = errors.New("format: unknown style")
	// ErrNoSelection is returned when the live document has no selection.
	ErrNoSelection = errors.New("format: no selection")
	// ErrInvalidOptions is returned when an apply payload cannot be decoded.
	ErrInvalidOptions = errors.New("format: invalid options")
)

// OpError records which phase of which operation failed.
type OpError struct {
	Style string
	Phase string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("format %s: %s: %v", e.Style, e.Phase, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
