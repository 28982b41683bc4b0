package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates settings that cannot produce a usable Config.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownCapability indicates a capability name that no operation uses.
	ErrUnknownCapability = errors.New("unknown capability")
)

// LoadError reports a failure reading or decoding a settings file.
type LoadError struct {
	// Path is the settings file, empty for environment-only loads.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading config: %v", e.Err)
	}
	return fmt.Sprintf("loading config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
