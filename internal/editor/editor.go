// Package editor binds a live editable root to the editing core: the bus
// node UI collaborators talk to, the staging canvas and formatting pipeline,
// paste handling, undo history and host input translation.
package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/canvas"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/keys"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/paste"
	"github.com/dshills/inkwell/internal/sanitize"
)

// Editor is one editable root and the components serving it. It is owned
// by a single goroutine.
type Editor struct {
	cfg    *config.Config
	doc    *dom.Document
	logger *zap.Logger
	layout Layout

	node        *bus.Node
	formatNode  *bus.Node
	historyNode *bus.Node

	cleaner  *sanitize.Cleaner
	canvas   *canvas.Canvas
	pipeline *format.Pipeline
	history  *history.Component
	paste    *paste.Inserter
	input    *input.Translator
}

// New wires an editor around root. The formatting commands are mounted
// once the canvas reports ready.
func New(root *html.Node, opts ...Option) (*Editor, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	o := options{logger: zap.NewNop(), sched: inline{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg == nil {
		o.cfg = config.Default()
	}

	e := &Editor{
		cfg:    o.cfg,
		doc:    dom.NewDocument(root),
		logger: logging.WithComponent(o.logger, "editor"),
		layout: o.layout,
	}
	if err := e.bootstrap(o); err != nil {
		return nil, err
	}
	return e, nil
}

// bootstrap creates the components in dependency order.
func (e *Editor) bootstrap(o options) error {
	busLog := logging.WithComponent(o.logger, "bus")
	nodeOpts := []bus.Option{bus.WithName("editor"), bus.WithLogger(busLog), bus.WithParent(o.parent)}
	if o.observer != nil {
		nodeOpts = append(nodeOpts, bus.WithObserver(o.observer))
	}
	e.node = bus.New(nodeOpts...)
	e.formatNode = bus.New(bus.WithName("format"), bus.WithLogger(busLog), bus.WithParent(e.node))
	e.historyNode = bus.New(bus.WithName("history"), bus.WithLogger(busLog), bus.WithParent(e.node))

	cleanOpts := []sanitize.Option{sanitize.WithLogger(logging.WithComponent(o.logger, "sanitize"))}
	if o.onClean != nil {
		cleanOpts = append(cleanOpts, sanitize.WithRunHook(o.onClean))
	}
	e.cleaner = sanitize.New(e.cfg, cleanOpts...)

	canvasOpts := []canvas.Option{
		canvas.WithScheduler(o.sched),
		canvas.WithBus(e.node),
		canvas.WithLogger(logging.WithComponent(o.logger, "canvas")),
	}
	if o.exec != nil {
		canvasOpts = append(canvasOpts, canvas.WithExecutor(o.exec))
	}
	e.canvas = canvas.New(canvasOpts...)

	var err error
	e.pipeline, err = format.New(e.doc, e.canvas, e.cleaner, e.cfg,
		format.WithLogger(logging.WithComponent(o.logger, "format")),
		format.WithBus(e.formatNode),
		format.WithRecorder(o.recorder),
	)
	if err != nil {
		return &InitError{Component: "format", Err: err}
	}

	e.history = history.NewComponent(history.New(o.historySize), e, logging.WithComponent(o.logger, "history"))
	if err := e.historyNode.Mount(e.history); err != nil {
		return &InitError{Component: "history", Err: err}
	}

	e.paste = paste.New(e.cfg, e.cleaner, paste.WithLogger(logging.WithComponent(o.logger, "paste")))

	if err := e.node.Mount(e); err != nil {
		return &InitError{Component: "editor", Err: err}
	}
	e.input = input.NewTranslator(e.node, o.sched, e.cfg.Debounce(),
		input.WithTranslatorLogger(logging.WithComponent(o.logger, "input")))

	if err := e.pipeline.Attach(e.formatNode); err != nil {
		return &InitError{Component: "canvas", Err: err}
	}
	e.logger.Info("editor ready", zap.String("node", e.node.ID()))
	return nil
}

// Node returns the editor's bus node.
func (e *Editor) Node() *bus.Node {
	return e.node
}

// Document returns the live document.
func (e *Editor) Document() *dom.Document {
	return e.doc
}

// Root returns the editable root.
func (e *Editor) Root() *html.Node {
	return e.doc.Root
}

// Config returns the editing configuration.
func (e *Editor) Config() *config.Config {
	return e.cfg
}

// Pipeline returns the formatting pipeline.
func (e *Editor) Pipeline() *format.Pipeline {
	return e.pipeline
}

// History returns the undo stacks.
func (e *Editor) History() *history.History {
	return e.history.History()
}

// Handle forwards a host input event.
func (e *Editor) Handle(ev input.Event) {
	e.input.Handle(ev)
}

// Close cancels pending work and detaches the editor from its parent.
func (e *Editor) Close() {
	e.input.Close()
	e.node.Detach()
}

// HTML returns the editable root's markup.
func (e *Editor) HTML() (string, error) {
	return dom.InnerHTML(e.doc.Root)
}

// Text returns the root's whitespace-normalized text.
func (e *Editor) Text() string {
	return dom.NormalizedText(e.doc.Root)
}

// Load replaces the root's content with sanitized markup, places the caret
// at the start and clears the history.
func (e *Editor) Load(markup string) error {
	if err := dom.SetInnerHTML(e.doc.Root, markup); err != nil {
		return fmt.Errorf("editor: load: %w", err)
	}
	e.cleaner.Clean(e.doc.Root)
	e.doc.Collapse(dom.PointAt(e.doc.Root, 0, true))
	e.history.History().Clear()
	e.node.Emit(keys.EditorChanged, nil)
	return nil
}

// Restore implements history.Target.
func (e *Editor) Restore(markup string, sel coords.Serialized) error {
	if err := dom.SetInnerHTML(e.doc.Root, markup); err != nil {
		return err
	}
	r, err := coords.Resolve(sel, e.doc.Root)
	if err != nil {
		return err
	}
	e.doc.Select(r)
	e.node.Emit(keys.EditorChanged, nil)
	return nil
}

// Select replaces the selection.
func (e *Editor) Select(r dom.Range) {
	e.doc.Select(r)
	e.node.Emit(keys.SelectionChanged, nil)
}

// SelectText selects normalized characters [from, to).
func (e *Editor) SelectText(from, to int) error {
	n := utf8.RuneCountInString(e.Text())
	if from < 0 || to < from || to > n {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrRange, from, to, n)
	}
	start := dom.PointAt(e.doc.Root, from, true)
	if from == to {
		e.Select(dom.Collapse(start))
		return nil
	}
	e.Select(dom.NewRange(start, dom.PointAt(e.doc.Root, to, false)))
	return nil
}

// SelectString selects the first occurrence of s in the normalized text.
func (e *Editor) SelectString(s string) error {
	text := e.Text()
	i := strings.Index(text, s)
	if s == "" || i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, s)
	}
	from := utf8.RuneCountInString(text[:i])
	return e.SelectText(from, from+utf8.RuneCountInString(s))
}

// Selection returns the selection as normalized character offsets.
func (e *Editor) Selection() (from, to int, ok bool) {
	if !e.doc.HasSelection() {
		return 0, 0, false
	}
	r := e.doc.Range()
	return dom.CharOffset(e.doc.Root, r.Start), dom.CharOffset(e.doc.Root, r.End), true
}

// Apply runs a formatting operation.
func (e *Editor) Apply(opts format.Options) (bool, error) {
	return e.pipeline.Apply(opts)
}

// Can reports whether style applies to the selection.
func (e *Editor) Can(style string) bool {
	return e.pipeline.Can(style)
}

// Active reports whether style is applied to the selection.
func (e *Editor) Active(style string) bool {
	return e.pipeline.Active(style)
}

// Undo reverts the last recorded change.
func (e *Editor) Undo() error {
	return e.history.History().Undo(e)
}

// Redo reapplies the last reverted change.
func (e *Editor) Redo() error {
	return e.history.History().Redo(e)
}

// Paste inserts pasted markup at the selection and records it as one
// undoable change.
func (e *Editor) Paste(markup string) error {
	root := e.doc.Root
	before, err := coords.Serialize(e.doc.Range(), root)
	if err != nil {
		return fmt.Errorf("editor: paste: %w", err)
	}
	beforeHTML, _ := dom.InnerHTML(root)
	if err := e.paste.Insert(e.doc, markup); err != nil {
		return err
	}
	after, _ := coords.Serialize(e.doc.Range(), root)
	afterHTML, _ := dom.InnerHTML(root)
	e.node.Emit(keys.FormatCommitted, format.CommitEvent{
		Style:           "paste",
		BeforeHTML:      beforeHTML,
		AfterHTML:       afterHTML,
		BeforeSelection: before,
		AfterSelection:  after,
	})
	e.node.Emit(keys.EditorChanged, nil)
	return nil
}

// block returns the nearest block ancestor of the selection start.
func (e *Editor) block() *html.Node {
	if !e.doc.HasSelection() {
		return nil
	}
	for n := e.doc.Range().Start.Node; n != nil && n != e.doc.Root; n = n.Parent {
		if dom.IsBlock(n) {
			return n
		}
	}
	return nil
}

// excluded reports whether n or any ancestor below the root leaves Enter to
// the host.
func (e *Editor) excluded(n *html.Node) bool {
	for ; n != nil && n != e.doc.Root; n = n.Parent {
		if n.Type == html.ElementNode && e.cfg.EnterExcluded(n.Data) {
			return true
		}
	}
	return false
}
