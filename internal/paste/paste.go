// Package paste cleans pasted markup and inserts it at the selection.
package paste

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/sanitize"
)

// Inserter cleans and places pasted content.
type Inserter struct {
	cfg     *config.Config
	cleaner *sanitize.Cleaner
	policy  *bluemonday.Policy
	logger  *zap.Logger
}

// Option configures an Inserter.
type Option func(*Inserter)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Inserter) {
		if l != nil {
			i.logger = l
		}
	}
}

// New creates an Inserter for cfg. A nil cleaner is built from cfg.
func New(cfg *config.Config, cleaner *sanitize.Cleaner, opts ...Option) *Inserter {
	if cfg == nil {
		cfg = config.Default()
	}
	if cleaner == nil {
		cleaner = sanitize.New(cfg)
	}
	i := &Inserter{
		cfg:     cfg,
		cleaner: cleaner,
		policy:  Policy(cfg),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Policy returns a bluemonday policy allowing only the whitelisted tags,
// line breaks and link targets.
func Policy(cfg *config.Config) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(cfg.Whitelist()...)
	p.AllowElements("br")
	if cfg.Allowed("a") {
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto", "ftp", "tel")
		p.AllowRelativeURLs(true)
		p.RequireParseableURLs(true)
	}
	return p
}

// Clean runs raw through the policy and the sanitizer and returns the
// resulting top-level nodes, detached.
func (i *Inserter) Clean(raw string) ([]*html.Node, error) {
	safe := i.policy.Sanitize(raw)
	root, err := dom.ParseRoot(safe)
	if err != nil {
		return nil, fmt.Errorf("paste: parse: %w", err)
	}
	i.cleaner.Clean(root)
	nodes := dom.Children(root)
	for _, n := range nodes {
		root.RemoveChild(n)
	}
	return nodes, nil
}

// Insert cleans raw and places it at d's selection, replacing selected
// text. A single default paragraph pasted inside a paragraph is inserted
// inline; anything else goes in as top-level blocks after the caret's
// block. The caret ends after the inserted content.
func (i *Inserter) Insert(d *dom.Document, raw string) error {
	if !d.HasSelection() {
		return fmt.Errorf("paste: no selection")
	}
	nodes, err := i.Clean(raw)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}
	deleteSelection(d)
	caret := d.Range().Start

	var last *html.Node
	if len(nodes) == 1 && dom.IsElement(nodes[0], i.cfg.DefaultBlock()) &&
		dom.Closest(caret.Node, d.Root, i.cfg.DefaultBlock()) != nil {
		last = insertInline(d, caret, nodes[0])
	} else {
		last = insertBlocks(d, caret, nodes)
	}
	if last != nil {
		d.Collapse(endOf(last))
	}
	i.logger.Debug("pasted", zap.Int("nodes", len(nodes)))
	return nil
}

// deleteSelection removes the selected text and collapses to its start.
func deleteSelection(d *dom.Document) {
	r := d.Range()
	if r.Collapsed() {
		return
	}
	spans := r.Spans()
	for j := len(spans) - 1; j >= 0; j-- {
		s := spans[j]
		d.DeleteText(s.Node, s.From, s.To)
	}
	d.Collapse(d.Range().Start)
}

// insertInline moves p's children to the caret and returns the last one.
func insertInline(d *dom.Document, caret dom.Point, p *html.Node) *html.Node {
	parent, ref := caret.Node, (*html.Node)(nil)
	if dom.IsText(caret.Node) {
		parent = caret.Node.Parent
		ref = d.SplitText(caret.Node, caret.Offset)
	} else {
		ref = dom.ChildAt(parent, caret.Offset)
	}
	last := p.LastChild
	for c := p.FirstChild; c != nil; {
		next := c.NextSibling
		p.RemoveChild(c)
		d.Insert(parent, c, ref)
		c = next
	}
	return last
}

// insertBlocks places nodes after the caret's top-level block, replacing
// it when it holds no text.
func insertBlocks(d *dom.Document, caret dom.Point, nodes []*html.Node) *html.Node {
	root := d.Root
	var ref *html.Node
	top := dom.TopLevel(root, caret.Node)
	switch {
	case top != nil:
		ref = top.NextSibling
	case caret.Node == root:
		ref = dom.ChildAt(root, caret.Offset)
	}
	for _, n := range nodes {
		d.Insert(root, n, ref)
	}
	if top != nil && dom.IsBlank(dom.Text(top)) {
		d.Remove(top)
	}
	return nodes[len(nodes)-1]
}

// endOf returns the point after n's last text, or after n itself.
func endOf(n *html.Node) dom.Point {
	texts := dom.TextNodes(n)
	if len(texts) > 0 {
		t := texts[len(texts)-1]
		return dom.Point{Node: t, Offset: dom.Len(t)}
	}
	return dom.Point{Node: n.Parent, Offset: dom.Index(n) + 1}
}
