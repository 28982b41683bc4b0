package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("script: state is closed")

	// ErrNoEditor is returned when a script runs before Bind.
	ErrNoEditor = errors.New("script: no editor bound")
)
