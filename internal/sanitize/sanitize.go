package sanitize

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/dom"
)

// dropTags are removed with their content rather than unwrapped.
var dropTags = map[string]struct{}{
	"script": {}, "style": {}, "template": {}, "head": {}, "title": {},
	"meta": {}, "link": {}, "noscript": {}, "iframe": {}, "object": {},
	"embed": {}, "textarea": {}, "select": {},
}

// maxFixes bounds the block-root pass on pathological input.
const maxFixes = 10000

// Cleaner sanitizes subtrees against a configuration's whitelist.
type Cleaner struct {
	cfg    *config.Config
	logger *zap.Logger
	onRun  func(time.Duration)
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRunHook installs a callback invoked after every Clean with its
// duration.
func WithRunHook(fn func(time.Duration)) Option {
	return func(c *Cleaner) {
		c.onRun = fn
	}
}

// New creates a Cleaner. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *Cleaner {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Cleaner{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the cleaner's configuration.
func (c *Cleaner) Config() *config.Config {
	return c.cfg
}

// Clean sanitizes root's descendants in place.
func (c *Cleaner) Clean(root *html.Node) {
	if root == nil {
		return
	}
	start := time.Now()
	p := &pass{
		cfg:    c.cfg,
		root:   root,
		d:      dom.NewDocument(root),
		marker: c.cfg.Marker(),
	}
	p.findEdges()

	p.stripAttributes(root)
	p.collapseBreaks()
	p.unwrapDisallowed(root)
	p.wrapRuns(root, c.cfg.DefaultBlock())
	fixes := p.enforceBlockRoot()
	p.collapseBreaks()
	p.prune()

	elapsed := time.Since(start)
	c.logger.Debug("subtree sanitized",
		zap.Int("block_fixes", fixes),
		zap.Duration("elapsed", elapsed),
	)
	if c.onRun != nil {
		c.onRun(elapsed)
	}
}

// CleanString parses fragment, cleans it and renders the result.
func (c *Cleaner) CleanString(fragment string) (string, error) {
	root, err := dom.ParseRoot(fragment)
	if err != nil {
		return "", err
	}
	c.Clean(root)
	return dom.InnerHTML(root)
}

// pass holds the state of one Clean call.
type pass struct {
	cfg    *config.Config
	root   *html.Node
	d      *dom.Document
	marker string
	// edges are the first and last text nodes carrying the boundary marker.
	edges [2]*html.Node
}

func (p *pass) findEdges() {
	for _, t := range dom.TextNodes(p.root) {
		if !strings.Contains(t.Data, p.marker) {
			continue
		}
		if p.edges[0] == nil {
			p.edges[0] = t
		}
		p.edges[1] = t
	}
}

// kept reports whether n holds one of the outermost boundary markers.
func (p *pass) kept(n *html.Node) bool {
	for _, e := range p.edges {
		if e != nil && dom.Contains(n, e) {
			return true
		}
	}
	return false
}

// meaningful reports whether n holds text other than whitespace and markers.
func (p *pass) meaningful(n *html.Node) bool {
	if dom.IsText(n) {
		return !dom.IsBlank(strings.ReplaceAll(n.Data, p.marker, ""))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if p.meaningful(c) {
			return true
		}
	}
	return false
}

// void reports whether n contributes nothing: blank text, or an element
// other than <br> without meaningful text or an edge marker.
func (p *pass) void(n *html.Node) bool {
	switch {
	case dom.IsText(n):
		return dom.IsBlank(n.Data)
	case dom.IsBreak(n):
		return false
	case n.Type != html.ElementNode:
		return true
	}
	return !p.kept(n) && !p.meaningful(n)
}

func (p *pass) nextContent(n *html.Node) *html.Node {
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if !p.void(c) {
			return c
		}
	}
	return nil
}

func (p *pass) prevContent(n *html.Node) *html.Node {
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if !p.void(c) {
			return c
		}
	}
	return nil
}

// wrapRuns wraps each run of inline children of parent in a new tag
// element. Runs start at the first non-void, non-<br> node and end at the
// last non-void, non-<br> node before the next block.
func (p *pass) wrapRuns(parent *html.Node, tag string) {
	var first, last *html.Node
	flush := func() {
		if first != nil && last != nil {
			p.d.Wrap(first, last, dom.NewElement(tag))
		}
		first, last = nil, nil
	}
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case dom.IsBlock(c):
			flush()
		case dom.IsBreak(c) || p.void(c):
		default:
			if first == nil {
				first = c
			}
			last = c
		}
		c = next
	}
	flush()
}
