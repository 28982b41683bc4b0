// Package canvas provides the staging surface formatting transactions run
// against: an isolated document that receives a copy of the live region,
// takes the native primitives and hands the result back.
package canvas

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/keys"
	"github.com/dshills/inkwell/internal/native"
)

// ErrNoSelection is returned when the canvas has no selection to cache.
var ErrNoSelection = errors.New("canvas: no selection")

// Scheduler runs callbacks later on the owning goroutine.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Post implements Scheduler.
func (f SchedulerFunc) Post(fn func()) { f(fn) }

// immediate runs callbacks synchronously.
var immediate = SchedulerFunc(func(fn func()) { fn() })

// Canvas is the scratch document.
type Canvas struct {
	mu      sync.Mutex
	doc     *html.Node
	body    *html.Node
	d       *dom.Document
	loading bool
	ready   bool
	waiting []func()

	cached    coords.Serialized
	hasCached bool

	sched  Scheduler
	exec   native.Executor
	node   *bus.Node
	logger *zap.Logger
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithScheduler sets where the ready notification is delivered.
func WithScheduler(s Scheduler) Option {
	return func(c *Canvas) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithExecutor sets the native primitive implementation.
func WithExecutor(e native.Executor) Option {
	return func(c *Canvas) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithBus makes the canvas emit canvas.ready on node.
func WithBus(node *bus.Node) Option {
	return func(c *Canvas) {
		c.node = node
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an unloaded canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		sched:  immediate,
		exec:   native.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load creates the isolated document if needed. Ready callbacks run through
// the scheduler once loading completes.
func (c *Canvas) Load() error {
	c.mu.Lock()
	if c.doc != nil || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	doc, err := html.Parse(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"))
	if err != nil {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		return fmt.Errorf("canvas: load: %w", err)
	}
	body, _ := dom.FindOne(doc, "//body")
	if body == nil {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		return errors.New("canvas: load: document has no body")
	}

	c.mu.Lock()
	c.doc, c.body = doc, body
	c.d = dom.NewDocument(body)
	c.mu.Unlock()

	c.sched.Post(c.markReady)
	return nil
}

func (c *Canvas) markReady() {
	c.mu.Lock()
	c.ready = true
	c.loading = false
	waiting := c.waiting
	c.waiting = nil
	c.mu.Unlock()

	c.logger.Info("canvas ready")
	for _, fn := range waiting {
		fn()
	}
	if c.node != nil {
		c.node.Emit(keys.CanvasReady, c)
	}
}

// Ready reports whether the canvas finished loading.
func (c *Canvas) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// OnReady runs fn once the canvas is ready, immediately if it already is.
func (c *Canvas) OnReady(fn func()) {
	c.mu.Lock()
	if !c.ready {
		c.waiting = append(c.waiting, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	fn()
}

// ensure loads the document on first use.
func (c *Canvas) ensure() *dom.Document {
	if c.d == nil {
		if err := c.Load(); err != nil {
			c.logger.Error("canvas load failed", zap.Error(err))
			return dom.NewDocument(dom.NewRoot())
		}
	}
	return c.d
}

// Root returns the canvas root (the isolated document's body).
func (c *Canvas) Root() *html.Node {
	return c.ensure().Root
}

// Document returns the canvas document with its selection.
func (c *Canvas) Document() *dom.Document {
	return c.ensure()
}

// Reset clears the content and every cached selection.
func (c *Canvas) Reset() {
	d := c.ensure()
	dom.RemoveChildren(d.Root)
	d.Selection = dom.Selection{}
	c.cached = coords.Serialized{}
	c.hasCached = false
}

// Import replaces the canvas content with deep copies of nodes. Each copied
// text node receives the whitespace-normalized text of its original, judged
// in the original's surroundings.
func (c *Canvas) Import(nodes []*html.Node) {
	d := c.ensure()
	dom.RemoveChildren(d.Root)
	for _, n := range nodes {
		cp := dom.Clone(n)
		src, dst := dom.TextNodes(n), dom.TextNodes(cp)
		for i := range dst {
			if i < len(src) {
				dst[i].Data, _ = dom.Normalized(src[i])
			}
		}
		d.Root.AppendChild(cp)
	}
}

// Select resolves s against the canvas root and makes it the canvas
// selection.
func (c *Canvas) Select(s coords.Serialized) error {
	d := c.ensure()
	r, err := coords.Resolve(s, d.Root)
	if err != nil {
		return fmt.Errorf("canvas: select: %w", err)
	}
	d.Select(r)
	return nil
}

// Exec runs a native primitive against the canvas.
func (c *Canvas) Exec(cmd native.Command) bool {
	return c.exec.Exec(c.ensure(), cmd)
}

// CacheSelection records the canvas selection as coordinates.
func (c *Canvas) CacheSelection() (coords.Serialized, error) {
	d := c.ensure()
	if !d.HasSelection() {
		return coords.Serialized{}, ErrNoSelection
	}
	s, err := coords.Serialize(d.Range(), d.Root)
	if err != nil {
		return coords.Serialized{}, fmt.Errorf("canvas: cache selection: %w", err)
	}
	c.cached, c.hasCached = s, true
	return s, nil
}

// Cached returns the last cached selection.
func (c *Canvas) Cached() (coords.Serialized, bool) {
	return c.cached, c.hasCached
}

// MarkSelection wraps every selected text run in a pseudo-selection span so
// the selection can be found again after the content moves. It returns the
// spans created.
func (c *Canvas) MarkSelection() []*html.Node {
	d := c.ensure()
	texts := native.Isolate(d)
	var spans []*html.Node
	for i := 0; i < len(texts); {
		j := i
		for j+1 < len(texts) && texts[j+1].PrevSibling == texts[j] {
			j++
		}
		span := dom.NewSelectionMarker()
		d.Wrap(texts[i], texts[j], span)
		spans = append(spans, span)
		i = j + 1
	}
	return spans
}

// Take detaches and returns the canvas content.
func (c *Canvas) Take() []*html.Node {
	d := c.ensure()
	nodes := dom.Children(d.Root)
	for _, n := range nodes {
		d.Root.RemoveChild(n)
	}
	d.Selection = dom.Selection{}
	return nodes
}

// HTML renders the canvas content.
func (c *Canvas) HTML() (string, error) {
	return dom.InnerHTML(c.ensure().Root)
}
