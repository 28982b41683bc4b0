package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/keys"
)

type fakeTarget struct {
	html string
	sel  coords.Serialized
	fail error
}

func (f *fakeTarget) Restore(html string, sel coords.Serialized) error {
	if f.fail != nil {
		return f.fail
	}
	f.html, f.sel = html, sel
	return nil
}

func snap(name, before, after string) *Snapshot {
	return &Snapshot{Name: name, BeforeHTML: before, AfterHTML: after}
}

func TestUndoRedo(t *testing.T) {
	h := New(0)
	target := &fakeTarget{html: "<p>b</p>"}
	h.Push(snap("bold", "<p>a</p>", "<p><b>a</b></p>"))
	h.Push(snap("h1", "<p><b>a</b></p>", "<h1><b>a</b></h1>"))
	assert.Equal(t, 2, h.UndoCount())

	info, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "format h1", info.Description)

	require.NoError(t, h.Undo(target))
	assert.Equal(t, "<p><b>a</b></p>", target.html)
	require.NoError(t, h.Undo(target))
	assert.Equal(t, "<p>a</p>", target.html)
	assert.ErrorIs(t, h.Undo(target), ErrNothingToUndo)

	require.NoError(t, h.Redo(target))
	assert.Equal(t, "<p><b>a</b></p>", target.html)
	assert.True(t, h.CanRedo())

	h.Push(snap("italic", "<p><b>a</b></p>", "<p><i><b>a</b></i></p>"))
	assert.False(t, h.CanRedo())
	assert.ErrorIs(t, h.Redo(target), ErrNothingToRedo)
}

func TestMaxEntries(t *testing.T) {
	h := New(2)
	for _, n := range []string{"a", "b", "c"} {
		h.Push(snap(n, n, n))
	}
	assert.Equal(t, 2, h.UndoCount())
	info, _ := h.PeekUndo()
	assert.Equal(t, "format c", info.Description)
}

func TestFailedUndoKeepsEntry(t *testing.T) {
	h := New(10)
	h.Push(snap("bold", "x", "y"))
	target := &fakeTarget{fail: errors.New("detached")}
	err := h.Undo(target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undo bold")
	assert.Equal(t, 1, h.UndoCount())
	assert.Zero(t, h.RedoCount())
}

func TestGroups(t *testing.T) {
	h := New(10)
	target := &fakeTarget{}

	scope := h.GroupScope("paste")
	h.Push(snap("one", "0", "1"))
	h.Push(snap("two", "1", "2"))
	h.BeginGroup("nested")
	scope.End()
	scope.End()

	require.Equal(t, 1, h.UndoCount())
	info, _ := h.PeekUndo()
	assert.Equal(t, "paste", info.Description)

	require.NoError(t, h.Undo(target))
	assert.Equal(t, "0", target.html, "compound undoes in reverse")
	require.NoError(t, h.Redo(target))
	assert.Equal(t, "2", target.html)

	h.BeginGroup("single")
	h.Push(snap("three", "2", "3"))
	h.EndGroup()
	info, _ = h.PeekUndo()
	assert.Equal(t, "format three", info.Description)

	h.BeginGroup("dropped")
	h.Push(snap("four", "3", "4"))
	h.CancelGroup()
	assert.Equal(t, 2, h.UndoCount())

	h.Clear()
	assert.False(t, h.CanUndo())
}

func TestComponent(t *testing.T) {
	node := bus.New(bus.WithName("editor"))
	target := &fakeTarget{}
	c := NewComponent(New(10), target, nil)
	require.NoError(t, node.Mount(c))

	node.Emit(keys.FormatCommitted, format.CommitEvent{
		Style:      "bold",
		BeforeHTML: "<p>a</p>",
		AfterHTML:  "<p><b>a</b></p>",
	})
	assert.Equal(t, 1, c.History().UndoCount())

	assert.True(t, node.Exec(keys.HistoryUndo, nil))
	assert.Equal(t, "<p>a</p>", target.html)
	assert.True(t, node.Exec(keys.HistoryRedo, nil))
	assert.Equal(t, "<p><b>a</b></p>", target.html)

	// Nothing to redo is not an error for the bus caller.
	assert.True(t, node.Exec(keys.HistoryRedo, nil))
	node.Emit(keys.FormatCommitted, "not a commit")
	assert.Equal(t, 1, c.History().UndoCount())
}
