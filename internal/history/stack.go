package history

import (
	"errors"
	"sync"
	"time"
)

// Errors returned by undo and redo.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when New gets a non-positive size.
const DefaultMaxEntries = 500

type entry struct {
	command   Command
	timestamp time.Time
}

// Info describes a stack entry.
type Info struct {
	Description string
	Timestamp   time.Time
}

// History holds the undo and redo stacks.
type History struct {
	mu sync.Mutex

	undo []*entry
	redo []*entry

	grouping  bool
	groupName string
	groupCmds []Command

	maxEntries int
}

// New creates a history keeping at most maxEntries undo steps.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records an already applied command and clears the redo stack.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.pushLocked(cmd)
}

func (h *History) pushLocked(cmd Command) {
	h.undo = append(h.undo, &entry{command: cmd, timestamp: time.Now()})
	h.redo = nil
	if excess := len(h.undo) - h.maxEntries; excess > 0 {
		h.undo = h.undo[excess:]
	}
}

// Undo reverts the most recent command. The lock is not held while the
// target restores.
func (h *History) Undo(t Target) error {
	h.mu.Lock()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.mu.Unlock()

	if err := e.command.Undo(t); err != nil {
		h.mu.Lock()
		h.undo = append(h.undo, e)
		h.mu.Unlock()
		return err
	}
	h.mu.Lock()
	h.redo = append(h.redo, e)
	h.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone command.
func (h *History) Redo(t Target) error {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.mu.Unlock()

	if err := e.command.Execute(t); err != nil {
		h.mu.Lock()
		h.redo = append(h.redo, e)
		h.mu.Unlock()
		return err
	}
	h.mu.Lock()
	h.undo = append(h.undo, e)
	h.mu.Unlock()
	return nil
}

// CanUndo reports whether Undo has work.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo has work.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoCount returns the undo depth.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the redo depth.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// PeekUndo describes the next undo step.
func (h *History) PeekUndo() (Info, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Info{}, false
	}
	e := h.undo[len(h.undo)-1]
	return Info{Description: e.command.Description(), Timestamp: e.timestamp}, true
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.grouping = false
	h.groupCmds = nil
}
