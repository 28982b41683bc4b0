package input

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/keys"
)

// Translator emits semantic bus events for host events.
type Translator struct {
	node      *bus.Node
	selection *Debouncer
	logger    *zap.Logger
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithTranslatorLogger sets the logger.
func WithTranslatorLogger(l *zap.Logger) TranslatorOption {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTranslator creates a translator emitting on node. Selection changes
// are debounced by delay through sched.
func NewTranslator(node *bus.Node, sched Scheduler, delay time.Duration, opts ...TranslatorOption) *Translator {
	t := &Translator{node: node, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	t.selection = NewDebouncer(sched, delay, func() {
		t.node.Emit(keys.SelectionChanged, nil)
	})
	return t
}

// Handle translates one host event.
func (t *Translator) Handle(ev Event) {
	switch ev.Type {
	case Focus:
		t.node.Emit(keys.EditorFocus, nil)
	case Blur:
		t.selection.Stop()
		t.node.Emit(keys.EditorBlur, nil)
	case KeyDown:
		// The host has not applied the key yet; nothing to report.
	case KeyUp:
		switch {
		case ev.Key.IsNewline():
			t.node.Emit(keys.EditorNewline, ev.Key)
			t.selection.Trigger()
		case ev.Key.Key.IsNavigation(), ev.Key.Key.IsEditing():
			t.selection.Trigger()
		}
	case Paste:
		t.node.Emit(keys.EditorPaste, PasteEvent{HTML: ev.Data})
	case Input:
		t.node.Emit(keys.EditorChanged, nil)
		t.selection.Trigger()
	case Click:
		t.selection.Trigger()
	case MouseEnter, MouseLeave:
		t.logger.Debug("pointer event", zap.Stringer("type", ev.Type))
	}
}

// Close cancels pending debounced work.
func (t *Translator) Close() {
	t.selection.Stop()
}
