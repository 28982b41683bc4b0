// Package format runs formatting operations as staged transactions: the
// selected region is exported into the canvas, transformed there by native
// primitives, sanitized and imported back with the selection restored.
package format

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/canvas"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/keys"
	"github.com/dshills/inkwell/internal/native"
	"github.com/dshills/inkwell/internal/sanitize"
)

// State is the phase a pipeline is in.
type State int

const (
	Idle State = iota
	Exported
	Transformed
	Committed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Exported:
		return "exported"
	case Transformed:
		return "transformed"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// Recorder observes finished operations.
type Recorder interface {
	ObserveOperation(style, result string, elapsed time.Duration)
}

// CommitEvent is the payload of the format.committed event.
type CommitEvent struct {
	Style           string
	BeforeHTML      string
	AfterHTML       string
	BeforeSelection coords.Serialized
	AfterSelection  coords.Serialized
}

// transaction is the state of one running operation.
type transaction struct {
	op          operation
	index       int
	count       int
	charsBefore int
	snapshot    []*html.Node
	before      coords.Serialized
	beforeHTML  string
}

// Pipeline applies formatting operations to a live document.
type Pipeline struct {
	live    *dom.Document
	canvas  *canvas.Canvas
	cleaner *sanitize.Cleaner
	cfg     *config.Config
	node    *bus.Node
	logger  *zap.Logger
	rec     Recorder

	state State
	busy  bool
	tx    *transaction
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBus sets the node committed operations are announced on.
func WithBus(node *bus.Node) Option {
	return func(p *Pipeline) {
		p.node = node
	}
}

// WithRecorder installs an operation observer.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.rec = r
	}
}

// New creates a pipeline over live. A nil cleaner is built from cfg.
func New(live *dom.Document, cv *canvas.Canvas, cleaner *sanitize.Cleaner, cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if live == nil || live.Root == nil {
		return nil, fmt.Errorf("format: %w", coords.ErrNilRoot)
	}
	if cv == nil {
		return nil, fmt.Errorf("format: canvas is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if cleaner == nil {
		cleaner = sanitize.New(cfg)
	}
	p := &Pipeline{
		live:    live,
		canvas:  cv,
		cleaner: cleaner,
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// State returns the current phase.
func (p *Pipeline) State() State {
	return p.state
}

// Can reports whether style may be applied to the current selection.
func (p *Pipeline) Can(style string) bool {
	op, ok := lookup(p.cfg, style)
	if !ok || !op.allowed(p.cfg) {
		return false
	}
	root := p.live.Root
	if strings.TrimSpace(dom.NormalizedText(root)) == "" || !p.live.HasSelection() {
		return false
	}
	r := p.live.Range()
	if op.block {
		if len(p.region()) > 1 || dom.Touches(r, root, "li", "ol", "ul") {
			return false
		}
	}
	switch op.style {
	case StyleLink:
		return !r.Collapsed() || dom.Inside(r, root, op.tags...)
	case StyleUnlink:
		return dom.Touches(r, root, op.tags...)
	}
	return true
}

// Active reports whether style is currently applied to the selection.
func (p *Pipeline) Active(style string) bool {
	op, ok := lookup(p.cfg, style)
	if !ok || !p.live.HasSelection() {
		return false
	}
	return p.active(op)
}

func (p *Pipeline) active(op operation) bool {
	r := p.live.Range()
	switch op.mode {
	case stateInside:
		return dom.Inside(r, p.live.Root, op.tags...)
	case stateTouch:
		return dom.Inside(r, p.live.Root, op.tags...) || dom.Touches(r, p.live.Root, op.tags...)
	}
	return false
}

// Apply runs one operation through every phase. A style the selection does
// not allow returns false without error.
func (p *Pipeline) Apply(opts Options) (bool, error) {
	if p.busy {
		return false, ErrBusy
	}
	if _, ok := lookup(p.cfg, opts.Style); !ok {
		return false, &OpError{Style: opts.Style, Phase: "lookup", Err: ErrUnknownStyle}
	}
	if !p.Can(opts.Style) {
		p.logger.Debug("style not applicable", zap.String("style", opts.Style))
		p.observe(opts.Style, "denied", 0)
		return false, nil
	}

	p.busy = true
	defer func() { p.busy = false }()
	start := time.Now()

	phases := []struct {
		name string
		run  func() error
	}{
		{"preprocess", p.PreProcess},
		{"process", func() error { return p.Process(opts) }},
		{"commit", p.Commit},
	}
	for _, ph := range phases {
		if err := ph.run(); err != nil {
			p.observe(opts.Style, "error", time.Since(start))
			p.logger.Warn("operation aborted",
				zap.String("style", opts.Style),
				zap.String("phase", ph.name),
				zap.Error(err))
			return false, &OpError{Style: opts.Style, Phase: ph.name, Err: err}
		}
	}
	p.observe(opts.Style, "applied", time.Since(start))
	return true, nil
}

func (p *Pipeline) observe(style, result string, elapsed time.Duration) {
	if p.rec != nil {
		p.rec.ObserveOperation(style, result, elapsed)
	}
}

// PreProcess exports the region holding the selection into the canvas.
func (p *Pipeline) PreProcess() error {
	if p.state != Idle {
		return ErrPhase
	}
	if !p.live.HasSelection() {
		return ErrNoSelection
	}
	region := p.region()
	if len(region) == 0 {
		return ErrNoSelection
	}
	root := p.live.Root

	tx := &transaction{index: dom.Index(region[0]), count: len(region)}
	before, err := coords.Serialize(p.live.Range(), root)
	if err != nil {
		return err
	}
	tx.before = before
	tx.beforeHTML, _ = dom.InnerHTML(root)
	for _, n := range region {
		tx.snapshot = append(tx.snapshot, dom.Clone(n))
	}
	p.tx = tx
	p.state = Exported

	p.insertMarkers(region)
	tx.charsBefore = dom.CharOffset(root, dom.Point{Node: root, Offset: tx.index})
	sel, err := coords.Serialize(p.live.Range(), root)
	if err != nil {
		p.Abort()
		return err
	}
	p.canvas.Reset()
	p.canvas.Import(region)
	if err := p.canvas.Select(coords.Shift(sel, -tx.index, -tx.charsBefore)); err != nil {
		p.Abort()
		return err
	}
	return nil
}

// Process runs the operation's primitives against the canvas.
func (p *Pipeline) Process(opts Options) error {
	if p.state != Exported || p.tx == nil {
		return ErrPhase
	}
	op, ok := lookup(p.cfg, opts.Style)
	if !ok {
		p.Abort()
		return ErrUnknownStyle
	}
	p.tx.op = op

	active := opts.Toggle && p.active(op)
	var cmds []native.Command
	if !active && op.other != "" {
		if other, ok := lookup(p.cfg, op.other); ok && p.active(other) {
			cmds = append(cmds, other.commands(p.cfg, true, "")...)
		}
	}
	href := ""
	if op.style == StyleLink {
		href = NormalizeHref(opts.Href)
		if href == "" && !active {
			p.Abort()
			return fmt.Errorf("%w: link needs an href", ErrInvalidOptions)
		}
	}
	cmds = append(cmds, op.commands(p.cfg, active, href)...)

	if op.pseudo {
		p.canvas.MarkSelection()
	}
	for _, cmd := range cmds {
		if !p.canvas.Exec(cmd) {
			p.logger.Debug("primitive had no effect", zap.String("command", cmd.Name))
		}
	}
	p.state = Transformed
	return nil
}

// Commit sanitizes the canvas, swaps it into the live tree and restores the
// selection.
func (p *Pipeline) Commit() error {
	if p.state != Transformed || p.tx == nil {
		return ErrPhase
	}
	tx := p.tx
	cached, err := p.canvas.CacheSelection()
	if err != nil {
		p.Abort()
		return err
	}
	if tx.op.style == StyleBlockquote {
		unwrapQuoted(p.canvas.Document())
	}
	p.cleaner.Clean(p.canvas.Root())

	root := p.live.Root
	nodes := p.canvas.Take()
	p.replaceRegion(tx, nodes)

	if spans := pseudoSelection(nodes); len(spans) > 0 {
		last := spans[len(spans)-1]
		p.live.Select(dom.NewRange(dom.Point{Node: spans[0]}, dom.Point{Node: last, Offset: dom.Len(last)}))
		for _, s := range spans {
			p.live.Unwrap(s)
		}
		p.live.Select(coords.NormalizeToTextBoundaries(p.live.Range()))
	} else {
		r, err := coords.Resolve(coords.Shift(cached, tx.index, tx.charsBefore), root)
		if err != nil {
			p.Abort()
			return err
		}
		p.live.Select(r)
	}
	p.removeMarkers(root, tx)

	p.state = Committed
	after, _ := coords.Serialize(p.live.Range(), root)
	afterHTML, _ := dom.InnerHTML(root)
	p.tx = nil
	p.state = Idle
	p.logger.Debug("operation committed", zap.String("style", tx.op.style))

	if p.node != nil {
		p.node.Emit(keys.FormatCommitted, CommitEvent{
			Style:           tx.op.style,
			BeforeHTML:      tx.beforeHTML,
			AfterHTML:       afterHTML,
			BeforeSelection: tx.before,
			AfterSelection:  after,
		})
		p.node.Emit(keys.EditorChanged, nil)
	}
	return nil
}

// Abort restores the live region from the snapshot and returns to Idle.
func (p *Pipeline) Abort() {
	tx := p.tx
	p.tx = nil
	p.state = Idle
	if tx == nil {
		return
	}
	snapshot := make([]*html.Node, len(tx.snapshot))
	for i, n := range tx.snapshot {
		snapshot[i] = dom.Clone(n)
	}
	p.replaceRegion(tx, snapshot)
	if r, err := coords.Resolve(tx.before, p.live.Root); err == nil {
		p.live.Select(r)
	}
	p.canvas.Reset()
	p.logger.Warn("transaction rolled back", zap.Int("index", tx.index))
}

// region returns the run of top-level children spanning the selection.
func (p *Pipeline) region() []*html.Node {
	r := p.live.Range()
	first := p.topLevel(r.Start, false)
	last := p.topLevel(r.End, !r.Collapsed())
	if first == nil {
		first = last
	}
	if last == nil || dom.Index(last) < dom.Index(first) {
		last = first
	}
	if first == nil {
		return nil
	}
	var out []*html.Node
	for n := first; n != nil; n = n.NextSibling {
		out = append(out, n)
		if n == last {
			break
		}
	}
	return out
}

// topLevel maps a boundary point to the root child holding it. end selects
// the child before a root-level offset.
func (p *Pipeline) topLevel(pt dom.Point, end bool) *html.Node {
	root := p.live.Root
	if pt.Node != root {
		return dom.TopLevel(root, pt.Node)
	}
	i := pt.Offset
	if end {
		i--
	}
	if c := dom.ChildAt(root, max(i, 0)); c != nil {
		return c
	}
	return root.LastChild
}

// replaceRegion swaps the transaction's live region for nodes.
func (p *Pipeline) replaceRegion(tx *transaction, nodes []*html.Node) {
	root := p.live.Root
	old := make([]*html.Node, 0, tx.count)
	for i, n := 0, dom.ChildAt(root, tx.index); i < tx.count && n != nil; i, n = i+1, n.NextSibling {
		old = append(old, n)
	}
	var ref *html.Node
	if len(old) > 0 {
		ref = old[len(old)-1].NextSibling
	} else {
		ref = dom.ChildAt(root, tx.index)
	}
	for _, n := range old {
		root.RemoveChild(n)
	}
	p.live.Selection = dom.Selection{}
	for _, n := range nodes {
		root.InsertBefore(n, ref)
	}
	tx.count = len(nodes)
}

// insertMarkers brackets the region's non-blank text with boundary markers.
func (p *Pipeline) insertMarkers(region []*html.Node) {
	marker := p.cfg.Marker()
	if marker == "" {
		return
	}
	var texts []*html.Node
	for _, n := range region {
		for _, t := range dom.TextNodes(n) {
			if !dom.IsBlank(t.Data) {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) == 0 {
		return
	}
	first, last := texts[0], texts[len(texts)-1]

	lr := []rune(last.Data)
	end := len(lr)
	for end > 0 && dom.IsSpace(lr[end-1]) {
		end--
	}
	p.live.InsertText(last, end, marker)

	start := 0
	for _, r := range first.Data {
		if !dom.IsSpace(r) {
			break
		}
		start++
	}
	p.live.InsertText(first, start, marker)
}

// removeMarkers deletes boundary markers from the committed region.
func (p *Pipeline) removeMarkers(root *html.Node, tx *transaction) {
	marker := []rune(p.cfg.Marker())
	if len(marker) == 0 {
		return
	}
	var texts []*html.Node
	for i, n := 0, dom.ChildAt(root, tx.index); i < tx.count && n != nil; i, n = i+1, n.NextSibling {
		texts = append(texts, dom.TextNodes(n)...)
	}
	for _, t := range texts {
		for {
			i := strings.Index(t.Data, string(marker))
			if i < 0 {
				break
			}
			at := len([]rune(t.Data[:i]))
			p.live.DeleteText(t, at, at+len(marker))
		}
		if t.Data == "" && t.Parent != nil {
			parent := t.Parent
			p.live.Remove(t)
			p.removeEmptyInline(parent)
		}
	}
}

// removeEmptyInline removes n and its inline ancestors while they are left
// without children. Blocks and line breaks stop the climb.
func (p *Pipeline) removeEmptyInline(n *html.Node) {
	for n != nil && n != p.live.Root && n.Type == html.ElementNode &&
		n.FirstChild == nil && !dom.IsBlock(n) && !dom.IsBreak(n) {
		parent := n.Parent
		p.live.Remove(n)
		n = parent
	}
}

// pseudoSelection finds the pseudo-selection wrappers under nodes.
func pseudoSelection(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, dom.ByAttr(n, dom.SelectionAttr)...)
	}
	return out
}

// unwrapQuoted unwraps paragraphs sitting directly in a blockquote,
// separating consecutive ones with a line break.
func unwrapQuoted(d *dom.Document) {
	var quotes []*html.Node
	dom.Walk(d.Root, func(n *html.Node) bool {
		if dom.IsElement(n, "blockquote") {
			quotes = append(quotes, n)
		}
		return true
	})
	for _, q := range quotes {
		for c := q.FirstChild; c != nil; {
			next := c.NextSibling
			if dom.IsElement(c, "p") {
				if hasContentBefore(c) {
					d.Insert(q, dom.NewElement("br"), c)
				}
				d.Unwrap(c)
			}
			c = next
		}
	}
}

func hasContentBefore(n *html.Node) bool {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if !dom.IsText(s) || !dom.IsBlank(s.Data) {
			return true
		}
	}
	return false
}
