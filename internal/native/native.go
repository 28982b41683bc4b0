// Package native implements the low-level formatting primitives the
// pipeline drives. They behave like a browser's editing commands: they act
// on the document's selection, may produce markup outside the whitelist and
// leave clean-up to the sanitizer.
package native

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
)

// Command names understood by Default.
const (
	Bold                = "bold"
	Italic              = "italic"
	RemoveFormat        = "removeFormat"
	FormatBlock         = "formatBlock"
	InsertOrderedList   = "insertOrderedList"
	InsertUnorderedList = "insertUnorderedList"
	RemoveList          = "removeList"
	CreateLink          = "createLink"
	Unlink              = "unlink"
)

// Command is one primitive invocation.
type Command struct {
	// Name is one of the command constants.
	Name string
	// Value is the block tag for FormatBlock and the href for CreateLink.
	Value string
	// Tags are the element names RemoveFormat and RemoveList act on.
	Tags []string
}

// Executor runs primitives against a document.
type Executor interface {
	// Exec runs cmd and reports whether it applied.
	Exec(doc *dom.Document, cmd Command) bool
}

// Default is the built-in Executor.
type Default struct {
	defaultBlock string
	logger       *zap.Logger
}

// Option configures Default.
type Option func(*Default)

// WithDefaultBlock sets the tag list items become when a list is removed.
func WithDefaultBlock(tag string) Option {
	return func(e *Default) {
		e.defaultBlock = tag
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Default) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates the default executor.
func New(opts ...Option) *Default {
	e := &Default{defaultBlock: "p", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exec implements Executor.
func (e *Default) Exec(doc *dom.Document, cmd Command) bool {
	if doc == nil || !doc.HasSelection() {
		return false
	}
	var ok bool
	switch cmd.Name {
	case Bold:
		ok = e.wrapInline(doc, "b", "b", "strong")
	case Italic:
		ok = e.wrapInline(doc, "i", "i", "em")
	case RemoveFormat:
		ok = e.removeFormat(doc, cmd.Tags)
	case FormatBlock:
		ok = e.formatBlock(doc, cmd.Value)
	case InsertOrderedList:
		ok = e.insertList(doc, "ol")
	case InsertUnorderedList:
		ok = e.insertList(doc, "ul")
	case RemoveList:
		ok = e.removeList(doc, cmd.Tags)
	case CreateLink:
		ok = e.createLink(doc, cmd.Value)
	case Unlink:
		ok = e.unlink(doc)
	default:
		e.logger.Debug("unknown primitive", zap.String("command", cmd.Name))
		return false
	}
	e.logger.Debug("primitive executed", zap.String("command", cmd.Name), zap.Bool("applied", ok))
	return ok
}

// Isolate splits text so each selected span is a text node of its own and
// returns those nodes in document order.
func Isolate(d *dom.Document) []*html.Node {
	spans := d.Range().Spans()
	out := make([]*html.Node, 0, len(spans))
	for _, s := range spans {
		t := s.Node
		if s.To < dom.Len(t) {
			d.SplitText(t, s.To)
		}
		if s.From > 0 {
			t = d.SplitText(t, s.From)
		}
		out = append(out, t)
	}
	return out
}

// inlineRuns lifts each isolated node to its highest inline ancestor whose
// text is entirely selected, then groups adjacent siblings into runs.
func inlineRuns(root *html.Node, nodes []*html.Node) [][]*html.Node {
	selected := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		selected[n] = true
	}
	covered := func(a *html.Node) bool {
		found := false
		for _, t := range dom.TextNodes(a) {
			if dom.Len(t) == 0 {
				continue
			}
			if !selected[t] {
				return false
			}
			found = true
		}
		return found
	}

	var tops []*html.Node
	for _, n := range nodes {
		if len(tops) > 0 && dom.Contains(tops[len(tops)-1], n) {
			continue
		}
		top := n
		for a := n.Parent; a != nil && a != root && dom.IsElement(a) && !dom.IsBlock(a) && covered(a); a = a.Parent {
			top = a
		}
		tops = append(tops, top)
	}

	var runs [][]*html.Node
	for i, n := range tops {
		if i > 0 && n.PrevSibling == tops[i-1] {
			runs[len(runs)-1] = append(runs[len(runs)-1], n)
			continue
		}
		runs = append(runs, []*html.Node{n})
	}
	return runs
}

// within reports whether every non-empty text under the run sits inside an
// element with one of tags below its block.
func within(run []*html.Node, tags ...string) bool {
	for _, n := range run {
		for _, t := range dom.TextNodes(n) {
			if dom.Len(t) == 0 {
				continue
			}
			if closestInline(t, tags...) == nil {
				return false
			}
		}
	}
	return true
}

// closestInline finds the nearest ancestor with one of tags before the
// enclosing block.
func closestInline(n *html.Node, tags ...string) *html.Node {
	for a := n; a != nil && !dom.IsBlock(a); a = a.Parent {
		if dom.IsElement(a, tags...) {
			return a
		}
	}
	return nil
}

// unwrapDescendants unwraps every element under n (excluding n) with one of
// tags.
func unwrapDescendants(d *dom.Document, n *html.Node, tags ...string) {
	var found []*html.Node
	dom.Walk(n, func(c *html.Node) bool {
		if c != n && dom.IsElement(c, tags...) {
			found = append(found, c)
		}
		return true
	})
	for _, c := range found {
		d.Unwrap(c)
	}
}

// splitAround splits the ancestors of n up to and including anc so that n
// ends up alone in a copy of anc, which is returned.
func splitAround(d *dom.Document, n, anc *html.Node) *html.Node {
	cur := n
	for {
		parent := cur.Parent
		last := parent == anc
		idx := dom.Index(cur)
		if cur.NextSibling != nil {
			d.SplitElement(parent, idx+1)
		}
		if idx > 0 {
			parent = d.SplitElement(parent, idx)
		}
		if last {
			return parent
		}
		cur = parent
	}
}
