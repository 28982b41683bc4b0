package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Document is an editable root plus its selection. The mutators below keep
// the selection's points valid across edits.
type Document struct {
	Root      *html.Node
	Selection Selection
}

// NewDocument wraps root with an empty selection.
func NewDocument(root *html.Node) *Document {
	return &Document{Root: root}
}

// Range returns the ordered selection range.
func (d *Document) Range() Range {
	return d.Selection.Range()
}

// Select sets the selection to r.
func (d *Document) Select(r Range) {
	d.Selection = SelectRange(r)
}

// Collapse places a caret at p.
func (d *Document) Collapse(p Point) {
	d.Selection = Selection{Anchor: p, Focus: p}
}

// HasSelection reports whether a selection inside the root is set.
func (d *Document) HasSelection() bool {
	return !d.Selection.IsZero() &&
		Contains(d.Root, d.Selection.Anchor.Node) &&
		Contains(d.Root, d.Selection.Focus.Node)
}

func (d *Document) adjust(fn func(p *Point)) {
	fn(&d.Selection.Anchor)
	fn(&d.Selection.Focus)
}

// InsertText inserts s into text node t at rune offset at. Points after at
// move right.
func (d *Document) InsertText(t *html.Node, at int, s string) {
	runes := []rune(t.Data)
	at = min(max(at, 0), len(runes))
	t.Data = string(runes[:at]) + s + string(runes[at:])
	n := utf8.RuneCountInString(s)
	d.adjust(func(p *Point) {
		if p.Node == t && p.Offset > at {
			p.Offset += n
		}
	})
}

// DeleteText removes runes [from, to) of text node t.
func (d *Document) DeleteText(t *html.Node, from, to int) {
	runes := []rune(t.Data)
	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))
	t.Data = string(runes[:from]) + string(runes[to:])
	n := to - from
	d.adjust(func(p *Point) {
		if p.Node != t {
			return
		}
		switch {
		case p.Offset > to:
			p.Offset -= n
		case p.Offset > from:
			p.Offset = from
		}
	})
}

// SplitText splits t at rune offset at and returns the new node holding the
// right part, inserted after t. Points past at move into it.
func (d *Document) SplitText(t *html.Node, at int) *html.Node {
	runes := []rune(t.Data)
	at = min(max(at, 0), len(runes))
	right := NewText(string(runes[at:]))
	t.Data = string(runes[:at])
	parent := t.Parent
	idx := Index(t)
	parent.InsertBefore(right, t.NextSibling)
	d.adjust(func(p *Point) {
		switch {
		case p.Node == t && p.Offset > at:
			p.Node, p.Offset = right, p.Offset-at
		case p.Node == parent && p.Offset > idx:
			p.Offset++
		}
	})
	return right
}

// Insert inserts detached node n into parent before ref (nil appends).
func (d *Document) Insert(parent, n, ref *html.Node) {
	parent.InsertBefore(n, ref)
	idx := Index(n)
	d.adjust(func(p *Point) {
		if p.Node == parent && p.Offset > idx {
			p.Offset++
		}
	})
}

// Remove detaches n. Points inside n collapse to where n was.
func (d *Document) Remove(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	idx := Index(n)
	d.adjust(func(p *Point) {
		switch {
		case Contains(n, p.Node):
			p.Node, p.Offset = parent, idx
		case p.Node == parent && p.Offset > idx:
			p.Offset--
		}
	})
	parent.RemoveChild(n)
}

// Move relocates n under parent before ref. Points inside n travel with it.
func (d *Document) Move(n, parent, ref *html.Node) {
	if ref == n {
		return
	}
	old := n.Parent
	if old != nil {
		idx := Index(n)
		d.adjust(func(p *Point) {
			if p.Node == old && p.Offset > idx {
				p.Offset--
			}
		})
		old.RemoveChild(n)
	}
	parent.InsertBefore(n, ref)
	idx := Index(n)
	d.adjust(func(p *Point) {
		if p.Node == parent && p.Offset > idx {
			p.Offset++
		}
	})
}

// Unwrap replaces element n with its children.
func (d *Document) Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	idx := Index(n)
	count := Len(n)
	d.adjust(func(p *Point) {
		switch {
		case p.Node == n:
			p.Node, p.Offset = parent, idx+p.Offset
		case p.Node == parent && p.Offset > idx:
			p.Offset += count - 1
		}
	})
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// Wrap moves the sibling run first..last into the detached element w, which
// takes the run's place.
func (d *Document) Wrap(first, last, w *html.Node) {
	parent := first.Parent
	from, to := Index(first), Index(last)
	d.adjust(func(p *Point) {
		if p.Node != parent {
			return
		}
		switch {
		case p.Offset > to:
			p.Offset -= to - from
		case p.Offset > from:
			p.Node, p.Offset = w, p.Offset-from
		}
	})
	parent.InsertBefore(w, first)
	for c := first; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		w.AppendChild(c)
		if c == last {
			break
		}
		c = next
	}
}

// SplitElement splits element n before child index at. n keeps children
// [0, at); a shallow clone inserted after n receives the rest and is
// returned.
func (d *Document) SplitElement(n *html.Node, at int) *html.Node {
	parent := n.Parent
	idx := Index(n)
	right := ShallowClone(n)
	parent.InsertBefore(right, n.NextSibling)
	for c := ChildAt(n, at); c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		right.AppendChild(c)
		c = next
	}
	d.adjust(func(p *Point) {
		switch {
		case p.Node == n && p.Offset > at:
			p.Node, p.Offset = right, p.Offset-at
		case p.Node == parent && p.Offset > idx:
			p.Offset++
		}
	})
	return right
}

// MoveChildren moves all of src's children into dst before ref.
func (d *Document) MoveChildren(dst, ref, src *html.Node) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		d.Move(c, dst, ref)
		c = next
	}
}
