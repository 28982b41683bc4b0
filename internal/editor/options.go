package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/native"
)

// Option configures an Editor.
type Option func(*options)

type options struct {
	cfg         *config.Config
	logger      *zap.Logger
	parent      *bus.Node
	sched       input.Scheduler
	layout      Layout
	recorder    format.Recorder
	observer    bus.Observer
	exec        native.Executor
	historySize int
	onClean     func(time.Duration)
}

// WithConfig sets the editing configuration. Defaults to config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParent attaches the editor's bus node under parent.
func WithParent(parent *bus.Node) Option {
	return func(o *options) {
		o.parent = parent
	}
}

// WithScheduler sets the host loop. Without one, callbacks run inline and
// debounced selection notifications are dropped.
func WithScheduler(s input.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithLayout installs the geometry collaborator answering selection.bounds.
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithRecorder observes formatting operations.
func WithRecorder(r format.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithObserver observes every dispatch on the editor's bus nodes.
func WithObserver(obs bus.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithExecutor replaces the native formatting primitives.
func WithExecutor(e native.Executor) Option {
	return func(o *options) {
		o.exec = e
	}
}

// WithHistorySize bounds the undo stack.
func WithHistorySize(n int) Option {
	return func(o *options) {
		o.historySize = n
	}
}

// WithCleanHook is called with the duration of every sanitizer run.
func WithCleanHook(fn func(time.Duration)) Option {
	return func(o *options) {
		o.onClean = fn
	}
}

// inline runs posted callbacks immediately and never fires timers.
type inline struct{}

func (inline) Post(fn func()) { fn() }

func (inline) AfterFunc(time.Duration, func()) input.Timer { return stopped{} }

type stopped struct{}

func (stopped) Stop() bool { return false }
