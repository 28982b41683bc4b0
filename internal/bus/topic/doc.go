// Package topic provides the hierarchical message keys used by the bus.
//
// Keys use dot notation:
//
//	selection.changed   - the live selection moved
//	format.apply        - apply a formatting operation
//	canvas.ready        - the staging surface finished loading
//
// Patterns may contain wildcards and are used for conceal rules:
//
//	selection.*   - matches selection.changed (single segment)
//	canvas.**     - matches canvas, canvas.ready, canvas.a.b (zero or more segments)
//	*.changed     - matches selection.changed, editor.changed
package topic
