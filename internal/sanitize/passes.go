package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
)

// stripAttributes keeps href on anchors and the pseudo-selection marker.
func (p *pass) stripAttributes(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		kept := c.Attr[:0]
		for _, a := range c.Attr {
			switch {
			case a.Namespace != "":
			case a.Key == "href" && c.Data == "a" && safeHref(a.Val):
				kept = append(kept, a)
			case a.Key == dom.SelectionAttr:
				kept = append(kept, a)
			}
		}
		if len(kept) == 0 {
			kept = nil
		}
		c.Attr = kept
		p.stripAttributes(c)
	}
}

func safeHref(v string) bool {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "ftp", "tel":
		return true
	}
	return false
}

// collapseBreaks splits paragraphs on <br><br> and drops trailing and
// orphaned breaks.
func (p *pass) collapseBreaks() {
	p.splitBreakPairs()
	p.removeTrailingBreaks()
}

func (p *pass) splitBreakPairs() {
	block := p.cfg.DefaultBlock()
	queue := []*html.Node{p.root}
	dom.Walk(p.root, func(n *html.Node) bool {
		if n != p.root && dom.IsElement(n, block) {
			queue = append(queue, n)
		}
		return true
	})

	for len(queue) > 0 {
		container := queue[0]
		queue = queue[1:]
		if container != p.root && container.Parent == nil {
			continue
		}
		for c := container.FirstChild; c != nil; {
			next := c.NextSibling
			if !dom.IsBreak(c) {
				c = next
				continue
			}
			second := p.nextContent(c)
			if second == nil || !dom.IsBreak(second) {
				c = next
				continue
			}
			after := second.NextSibling
			if container == p.root {
				p.wrapRunBefore(c, block)
			}
			p.removeSiblings(c, second)
			if container != p.root && after != nil {
				right := p.d.SplitElement(container, dom.Index(after))
				queue = append([]*html.Node{right}, queue...)
				break
			}
			c = after
		}
	}
}

// wrapRunBefore wraps the inline siblings preceding n, back to the previous
// block, in a new block element.
func (p *pass) wrapRunBefore(n *html.Node, tag string) {
	var first *html.Node
	for c := n.PrevSibling; c != nil && !dom.IsBlock(c); c = c.PrevSibling {
		first = c
	}
	if first == nil {
		return
	}
	hasContent := false
	for c := first; c != n; c = c.NextSibling {
		if !p.void(c) && !dom.IsBreak(c) {
			hasContent = true
			break
		}
	}
	if hasContent {
		p.d.Wrap(first, n.PrevSibling, dom.NewElement(tag))
	}
}

// removeSiblings removes from through to inclusive.
func (p *pass) removeSiblings(from, to *html.Node) {
	for c := from; c != nil; {
		next := c.NextSibling
		p.d.Remove(c)
		if c == to {
			return
		}
		c = next
	}
}

func (p *pass) removeTrailingBreaks() {
	var containers []*html.Node
	dom.Walk(p.root, func(n *html.Node) bool {
		if n == p.root || dom.IsBlock(n) {
			containers = append(containers, n)
		}
		return true
	})
	for _, b := range containers {
		for {
			last := p.lastContent(b)
			if last == nil || !dom.IsBreak(last) {
				break
			}
			p.d.Remove(last)
		}
	}

	for c := p.root.FirstChild; c != nil; {
		next := c.NextSibling
		if dom.IsBreak(c) {
			prev, after := p.prevContent(c), p.nextContent(c)
			if (prev == nil || dom.IsBlock(prev)) && (after == nil || dom.IsBlock(after)) {
				p.d.Remove(c)
			}
		}
		c = next
	}
}

// lastContent returns the last <br> or meaningful node of n that is not
// inside a nested block.
func (p *pass) lastContent(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		switch {
		case dom.IsBreak(c):
			return c
		case p.void(c):
			continue
		case dom.IsText(c), dom.IsBlock(c):
			return c
		}
		if inner := p.lastContent(c); inner != nil {
			return inner
		}
		return c
	}
	return nil
}

// allowed reports whether element n may stay.
func (p *pass) allowed(n *html.Node) bool {
	if dom.IsElement(n, "a") {
		if _, ok := dom.Attr(n, "href"); !ok {
			return false
		}
	}
	return p.cfg.Allowed(n.Data) || dom.IsBreak(n) || dom.IsSelectionMarker(n)
}

// insideBlock reports whether n has a whitelisted block ancestor below root.
func (p *pass) insideBlock(n *html.Node) bool {
	for a := n.Parent; a != nil && a != p.root; a = a.Parent {
		if dom.IsBlock(a) && p.allowed(a) {
			return true
		}
	}
	return false
}

// unwrapDisallowed replaces disallowed elements with their (cleaned)
// children and removes comments and other non-content nodes.
func (p *pass) unwrapDisallowed(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
		case html.ElementNode:
			if _, drop := dropTags[c.Data]; drop {
				p.d.Remove(c)
				break
			}
			p.unwrapDisallowed(c)
			if p.allowed(c) {
				break
			}
			if dom.IsBlock(c) && !p.insideBlock(c) {
				p.wrapRuns(c, p.cfg.DefaultBlock())
			}
			p.d.Unwrap(c)
		default:
			p.d.Remove(c)
		}
		c = next
	}
}

type fix int

const (
	fixNone fix = iota
	fixRename
	fixUnwrap
	fixWrapItem
	fixHoist
)

// enforceBlockRoot moves blocks to the root until none is misplaced and
// returns the number of fixes applied.
func (p *pass) enforceBlockRoot() int {
	p.normalizeLists()
	fixes := 0
	for fixes < maxFixes {
		v, f := p.findViolation()
		if v == nil {
			break
		}
		switch f {
		case fixRename:
			dom.Rename(v, p.cfg.DefaultBlock())
		case fixUnwrap:
			p.unwrapParagraph(v)
		case fixWrapItem:
			p.d.Wrap(v, v, dom.NewElement("li"))
		case fixHoist:
			p.hoist(v)
		}
		fixes++
	}
	return fixes
}

// normalizeLists drops blank text from lists and wraps stray inline runs
// in list items.
func (p *pass) normalizeLists() {
	var lists []*html.Node
	dom.Walk(p.root, func(n *html.Node) bool {
		if n != p.root && dom.IsElement(n, "ol", "ul") {
			lists = append(lists, n)
		}
		return true
	})
	for _, l := range lists {
		for c := l.FirstChild; c != nil; {
			next := c.NextSibling
			if dom.IsText(c) && dom.IsBlank(c.Data) {
				p.d.Remove(c)
			}
			c = next
		}
		p.wrapRuns(l, "li")
	}
}

func (p *pass) findViolation() (*html.Node, fix) {
	var found *html.Node
	var f fix
	dom.Walk(p.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n == p.root {
			return true
		}
		if k := p.classify(n); k != fixNone {
			found, f = n, k
			return false
		}
		return true
	})
	return found, f
}

func (p *pass) classify(n *html.Node) fix {
	if !dom.IsBlock(n) {
		return fixNone
	}
	parent := n.Parent
	if dom.IsElement(n, "li") {
		if dom.IsElement(parent, "ol", "ul") {
			return fixNone
		}
		return fixRename
	}
	if parent == p.root {
		return fixNone
	}
	paragraph := dom.IsElement(n, p.cfg.DefaultBlock())
	switch {
	case dom.IsElement(parent, "li"):
		if dom.IsElement(n, "ol", "ul") || dom.IsHeading(n) {
			return fixNone
		}
		if paragraph {
			return fixUnwrap
		}
	case dom.IsElement(parent, "blockquote") || dom.IsHeading(parent):
		if paragraph {
			return fixUnwrap
		}
	case dom.IsElement(parent, "ol", "ul"):
		return fixWrapItem
	}
	return fixHoist
}

// unwrapParagraph merges a paragraph's content into its parent, separating
// it from neighboring content with <br>.
func (p *pass) unwrapParagraph(n *html.Node) {
	if !p.meaningful(n) && !p.kept(n) {
		p.d.Remove(n)
		return
	}
	parent := n.Parent
	if prev := p.prevContent(n); prev != nil && !dom.IsBreak(prev) {
		p.d.Insert(parent, dom.NewElement("br"), n)
	}
	if next := p.nextContent(n); next != nil && !dom.IsBreak(next) {
		p.d.Insert(parent, dom.NewElement("br"), n.NextSibling)
	}
	p.d.Unwrap(n)
}

// hoist lifts n to the root, splitting every ancestor around it.
func (p *pass) hoist(n *html.Node) {
	for n.Parent != nil && n.Parent != p.root {
		a := n.Parent
		if n.NextSibling != nil {
			p.d.SplitElement(a, dom.Index(n)+1)
		}
		p.d.Move(n, a.Parent, a.NextSibling)
		if a.FirstChild == nil {
			p.d.Remove(a)
		}
	}
}

// prune removes nodes without meaningful text, blank text and breaks at the
// root, then merges adjacent inline twins and text nodes.
func (p *pass) prune() {
	p.pruneNode(p.root)
	for c := p.root.FirstChild; c != nil; {
		next := c.NextSibling
		if dom.IsBreak(c) || dom.IsText(c) && dom.IsBlank(c.Data) {
			p.d.Remove(c)
		}
		c = next
	}
	mergeInline(p.root)
	mergeText(p.root)
}

func (p *pass) pruneNode(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case dom.IsBreak(c):
		case dom.IsText(c):
			if c.Data == "" || !p.meaningful(c) && !dom.IsBlank(c.Data) && !p.kept(c) {
				p.d.Remove(c)
			}
		case p.void(c):
			p.d.Remove(c)
		default:
			p.pruneNode(c)
		}
		c = next
	}
}

// mergeInline folds an inline element into its previous sibling when both
// have the same tag and attributes.
func mergeInline(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for next := c.NextSibling; twins(c, next); next = c.NextSibling {
			for gc := next.FirstChild; gc != nil; {
				after := gc.NextSibling
				next.RemoveChild(gc)
				c.AppendChild(gc)
				gc = after
			}
			n.RemoveChild(next)
		}
		mergeInline(c)
	}
}

func twins(a, b *html.Node) bool {
	if a == nil || b == nil || a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.Data != b.Data || dom.IsBlock(a) || dom.IsBreak(a) || dom.IsSelectionMarker(a) {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}

func mergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dom.IsText(c) {
			for next != nil && dom.IsText(next) {
				c.Data += next.Data
				after := next.NextSibling
				n.RemoveChild(next)
				next = after
			}
		} else {
			mergeText(c)
		}
		c = next
	}
}
