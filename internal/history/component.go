package history

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/bus/topic"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/keys"
)

// Component records committed operations and answers the undo and redo
// commands for one target.
type Component struct {
	history   *History
	target    Target
	logger    *zap.Logger
	restoring bool
}

// NewComponent binds h to target.
func NewComponent(h *History, target Target, logger *zap.Logger) *Component {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Component{history: h, target: target, logger: logger}
}

// History returns the underlying stacks.
func (c *Component) History() *History {
	return c.history
}

// Handlers implements bus.Component.
func (c *Component) Handlers() bus.Handlers {
	return bus.Handlers{
		Commands: map[topic.Topic]bus.CommandFunc{
			keys.HistoryUndo: func(any) { c.step(c.history.Undo, "undo") },
			keys.HistoryRedo: func(any) { c.step(c.history.Redo, "redo") },
		},
		Events: map[topic.Topic]bus.EventFunc{
			keys.FormatCommitted: c.record,
		},
	}
}

func (c *Component) record(args any) {
	if c.restoring {
		return
	}
	ev, ok := args.(format.CommitEvent)
	if !ok {
		return
	}
	c.history.Push(NewSnapshot(ev))
}

func (c *Component) step(fn func(Target) error, name string) {
	c.restoring = true
	defer func() { c.restoring = false }()
	if err := fn(c.target); err != nil {
		if errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo) {
			c.logger.Debug(name+" skipped", zap.Error(err))
			return
		}
		c.logger.Warn(name+" failed", zap.Error(err))
	}
}
