package bus

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/bus/topic"
)

// Sentinel errors for bus configuration.
var (
	// ErrDuplicateHandler is returned when a request or command key already has
	// a handler on the node.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidKey is returned when a key is empty, malformed or a pattern.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidPattern is returned when a conceal pattern is malformed.
	ErrInvalidPattern = errors.New("invalid conceal pattern")
)

// RegistrationError reports a handler registration failure on a node.
type RegistrationError struct {
	// Node is the name (or id) of the node registration was attempted on.
	Node string

	// Kind is the handler table involved.
	Kind Kind

	// Key is the offending key.
	Key topic.Topic

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("bus node %s: %s handler %q: %v", e.Node, e.Kind, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}
