// Package history provides undo/redo for committed formatting operations.
//
// Every committed transaction becomes a Snapshot command holding the
// editable root's markup and selection before and after. Undo restores the
// before state through a Target, redo the after state:
//
//	h := history.New(500)
//	h.Push(history.NewSnapshot(commit))
//	h.Undo(editor)
//	h.Redo(editor)
//
// Several commits can be grouped into one undo unit:
//
//	defer h.GroupScope("paste").End()
package history
