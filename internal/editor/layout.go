package editor

import "github.com/dshills/inkwell/internal/dom"

// Rect is a box in host layout coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Layout is the host's geometry collaborator. Bounds reports the box
// covering r, or false when the host cannot measure it.
type Layout interface {
	Bounds(r dom.Range) (Rect, bool)
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(r dom.Range) (Rect, bool)

// Bounds implements Layout.
func (f LayoutFunc) Bounds(r dom.Range) (Rect, bool) { return f(r) }
