// Package keys lists the stable bus keys shared between the editing core and
// its UI collaborators. UI code addresses the editor only through these keys.
package keys

import "github.com/dshills/inkwell/internal/bus/topic"

// Request keys. Handlers return a value.
const (
	// SelectionCurrent returns the live dom.Selection.
	SelectionCurrent topic.Topic = "selection.current"
	// SelectionRange returns the live selection as an ordered dom.Range.
	SelectionRange topic.Topic = "selection.range"
	// SelectionAnchor returns the anchor dom.Point.
	SelectionAnchor topic.Topic = "selection.anchor"
	// SelectionInside reports whether every selected text run is inside one of
	// the tags given as args ([]string).
	SelectionInside topic.Topic = "selection.inside"
	// SelectionContains reports whether any selected text run is inside one of
	// the tags given as args ([]string).
	SelectionContains topic.Topic = "selection.contains"
	// SelectionBounds returns the selection's bounding box from the host layout.
	SelectionBounds topic.Topic = "selection.bounds"
	// FormatCan reports whether a style may be applied to the current selection.
	FormatCan topic.Topic = "format.can"
	// FormatState reports whether a style is active on the current selection.
	FormatState topic.Topic = "format.state"
	// EditorHTML returns the editable root's markup.
	EditorHTML topic.Topic = "editor.html"
)

// Command keys. Handlers return nothing.
const (
	// FormatApply applies a formatting operation; args are format.Options or a
	// map with style, toggle and href entries.
	FormatApply topic.Topic = "format.apply"
	// SelectionSet replaces the live selection; args are a dom.Range or dom.Selection.
	SelectionSet topic.Topic = "selection.set"
	// EditorLoad replaces the editable root's content with sanitized markup (string).
	EditorLoad topic.Topic = "editor.load"
	// HistoryUndo reverts the last committed operation.
	HistoryUndo topic.Topic = "history.undo"
	// HistoryRedo reapplies the last reverted operation.
	HistoryRedo topic.Topic = "history.redo"
)

// Event keys. Any number of handlers.
const (
	EditorFocus   topic.Topic = "editor.focus"
	EditorBlur    topic.Topic = "editor.blur"
	EditorNewline topic.Topic = "editor.newline"
	EditorPaste   topic.Topic = "editor.paste"
	// EditorChanged fires after the live tree was modified by the core.
	EditorChanged topic.Topic = "editor.changed"
	// SelectionChanged fires after a debounced burst of selection moves.
	SelectionChanged topic.Topic = "selection.changed"
	// CanvasReady fires once when the staging surface finished loading.
	CanvasReady topic.Topic = "canvas.ready"
	// FormatCommitted fires after a formatting transaction committed.
	FormatCommitted topic.Topic = "format.committed"
)
