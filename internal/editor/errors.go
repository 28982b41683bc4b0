package editor

import (
	"errors"
	"fmt"
)

// Editor errors.
var (
	// ErrNilRoot is returned when an editor is created without a root.
	ErrNilRoot = errors.New("editor: nil root")

	// ErrNotFound indicates a text search found nothing.
	ErrNotFound = errors.New("editor: text not found")

	// ErrRange indicates character offsets outside the root's text.
	ErrRange = errors.New("editor: offset out of range")
)

// InitError reports a component that failed to wire up.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("editor: init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
