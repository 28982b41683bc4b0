package input

import "github.com/dshills/inkwell/internal/input/key"

// Type is a host event type.
type Type int

const (
	Focus Type = iota
	Blur
	KeyDown
	KeyUp
	Paste
	Input
	MouseEnter
	MouseLeave
	Click
)

var typeNames = [...]string{
	Focus:      "focus",
	Blur:       "blur",
	KeyDown:    "keydown",
	KeyUp:      "keyup",
	Paste:      "paste",
	Input:      "input",
	MouseEnter: "mouseenter",
	MouseLeave: "mouseleave",
	Click:      "click",
}

// String returns the DOM event name.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ParseType maps a DOM event name to a Type.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), true
		}
	}
	return 0, false
}

// Event is one host event on the editable root.
type Event struct {
	Type Type
	// Key is set for keydown and keyup.
	Key key.Event
	// Data carries pasted HTML or the inserted text of an input event.
	Data string
}

// PasteEvent is the payload of editor.paste.
type PasteEvent struct {
	HTML string
}
