// Package key describes keyboard input as delivered by a host page.
//
// Hosts report keys by their DOM KeyboardEvent.key names ("Enter",
// "ArrowLeft", "a") plus modifier flags. Parse turns those into an Event
// the input translator can classify: Enter without Shift starts a new
// block, navigation keys move the selection.
package key
