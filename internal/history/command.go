package history

import (
	"fmt"
	"strings"

	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/format"
)

// Target is the document a command restores.
type Target interface {
	// Restore replaces the editable root's markup and selection.
	Restore(html string, sel coords.Serialized) error
}

// Command is an undoable change.
type Command interface {
	// Execute reapplies the change.
	Execute(t Target) error
	// Undo reverts the change.
	Undo(t Target) error
	// Description names the change.
	Description() string
}

// Snapshot swaps whole markup states.
type Snapshot struct {
	Name            string
	BeforeHTML      string
	AfterHTML       string
	BeforeSelection coords.Serialized
	AfterSelection  coords.Serialized
}

// NewSnapshot builds a snapshot from a committed operation.
func NewSnapshot(ev format.CommitEvent) *Snapshot {
	return &Snapshot{
		Name:            ev.Style,
		BeforeHTML:      ev.BeforeHTML,
		AfterHTML:       ev.AfterHTML,
		BeforeSelection: ev.BeforeSelection,
		AfterSelection:  ev.AfterSelection,
	}
}

// Execute restores the after state.
func (s *Snapshot) Execute(t Target) error {
	if err := t.Restore(s.AfterHTML, s.AfterSelection); err != nil {
		return fmt.Errorf("redo %s: %w", s.Name, err)
	}
	return nil
}

// Undo restores the before state.
func (s *Snapshot) Undo(t Target) error {
	if err := t.Restore(s.BeforeHTML, s.BeforeSelection); err != nil {
		return fmt.Errorf("undo %s: %w", s.Name, err)
	}
	return nil
}

// Description implements Command.
func (s *Snapshot) Description() string {
	return "format " + s.Name
}

// Compound runs several commands as one unit.
type Compound struct {
	Name     string
	Commands []Command
}

// Execute runs the commands in order.
func (c *Compound) Execute(t Target) error {
	for _, cmd := range c.Commands {
		if err := cmd.Execute(t); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverts the commands in reverse order.
func (c *Compound) Undo(t Target) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(t); err != nil {
			return err
		}
	}
	return nil
}

// Description implements Command.
func (c *Compound) Description() string {
	if c.Name != "" {
		return c.Name
	}
	names := make([]string, len(c.Commands))
	for i, cmd := range c.Commands {
		names[i] = cmd.Description()
	}
	return strings.Join(names, ", ")
}
