// Package watch re-sanitizes markup files when they change on disk.
//
// Files are watched through their parent directories so editors that save
// by rename are still seen. Bursts of events per file are coalesced by a
// quiet period before the handler runs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned when operating on a closed watcher.
	ErrClosed = errors.New("watch: watcher is closed")

	// ErrAlreadyWatching is returned when a file is added twice.
	ErrAlreadyWatching = errors.New("watch: file is already watched")

	// ErrNotRegular is returned for paths that are not regular files.
	ErrNotRegular = errors.New("watch: not a regular file")
)

// DefaultDelay is the quiet period before a changed file is handled.
const DefaultDelay = 100 * time.Millisecond

// Handler processes one changed file.
type Handler func(ctx context.Context, path string) error

// Result reports one handler run.
type Result struct {
	Path string
	Err  error
}

// Stats is a point-in-time view of a watcher.
type Stats struct {
	Files   int
	Events  int64
	Handled int64
	Errors  int64
}

// Watcher runs a Handler for files that changed.
type Watcher struct {
	mu      sync.Mutex
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	dirs    map[string]int
	timers  map[string]*time.Timer
	due     chan string
	results chan Result
	done    chan struct{}
	closed  bool

	handle Handler
	delay  time.Duration
	logger *zap.Logger

	events  atomic.Int64
	handled atomic.Int64
	errs    atomic.Int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher calling handle for changed files.
func New(handle Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		fs:      fsw,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]int),
		timers:  make(map[string]*time.Timer),
		due:     make(chan string, 16),
		results: make(chan Result, 16),
		done:    make(chan struct{}),
		handle:  handle,
		delay:   DefaultDelay,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching the file at path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return ErrAlreadyWatching
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)
	if t := w.timers[abs]; t != nil {
		t.Stop()
		delete(w.timers, abs)
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir]--; w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fs.Remove(dir)
	}
	return nil
}

// Results delivers handler outcomes. Results are dropped when nobody reads.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	files := len(w.files)
	w.mu.Unlock()
	return Stats{
		Files:   files,
		Events:  w.events.Load(),
		Handled: w.handled.Load(),
		Errors:  w.errs.Load(),
	}
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.event(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.errs.Add(1)
			w.logger.Warn("watch error", zap.Error(err))
		case path := <-w.due:
			w.run(ctx, path)
		}
	}
}

func (w *Watcher) event(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return
	}
	w.events.Add(1)
	if t := w.timers[abs]; t != nil {
		t.Stop()
	}
	w.timers[abs] = time.AfterFunc(w.delay, func() {
		select {
		case w.due <- abs:
		case <-w.done:
		}
	})
}

func (w *Watcher) run(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	_, watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	err := w.handle(ctx, path)
	w.handled.Add(1)
	if err != nil {
		w.errs.Add(1)
		w.logger.Warn("handle changed file", zap.String("path", path), zap.Error(err))
	} else {
		w.logger.Debug("handled changed file", zap.String("path", path))
	}
	select {
	case w.results <- Result{Path: path, Err: err}:
	default:
	}
}

// Close stops the watcher. Pending timers are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	close(w.done)
	w.mu.Unlock()
	return w.fs.Close()
}
