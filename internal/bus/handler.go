package bus

import "github.com/dshills/inkwell/internal/bus/topic"

// Kind identifies one of the three message kinds.
type Kind int

const (
	// KindRequest messages have one handler per key and return a value.
	KindRequest Kind = iota
	// KindCommand messages have one handler per key and return nothing.
	KindCommand
	// KindEvent messages have any number of handlers and are broadcast.
	KindEvent
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindCommand:
		return "command"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// RequestFunc answers a request.
type RequestFunc func(args any) any

// CommandFunc performs a command.
type CommandFunc func(args any)

// EventFunc reacts to an event.
type EventFunc func(args any)

// Handlers is the fixed handler table a component exposes.
type Handlers struct {
	Requests map[topic.Topic]RequestFunc
	Commands map[topic.Topic]CommandFunc
	Events   map[topic.Topic]EventFunc
}

// Component is implemented by anything that can be mounted on a Node.
type Component interface {
	Handlers() Handlers
}

// Observer is notified after every top-level dispatch.
type Observer func(kind Kind, key topic.Topic, handled bool, visited int)
