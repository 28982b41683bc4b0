package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Point is a boundary position inside a container node.
type Point struct {
	Node   *html.Node
	Offset int
}

// IsZero reports whether p has no container.
func (p Point) IsZero() bool {
	return p.Node == nil
}

// Clamp returns p with its offset limited to the container's length.
func (p Point) Clamp() Point {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if l := Len(p.Node); p.Offset > l {
		p.Offset = l
	}
	return p
}

// String formats p for debugging.
func (p Point) String() string {
	if p.Node == nil {
		return "(nil)"
	}
	name := p.Node.Data
	if IsText(p.Node) {
		name = fmt.Sprintf("#text%q", p.Node.Data)
	}
	return fmt.Sprintf("(%s, %d)", name, p.Offset)
}

// pointKey returns child indices from the tree top down to p's container,
// followed by p's offset.
func pointKey(p Point) []int {
	var rev []int
	for cur := p.Node; cur != nil && cur.Parent != nil; cur = cur.Parent {
		rev = append(rev, Index(cur))
	}
	key := make([]int, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		key = append(key, rev[i])
	}
	return append(key, p.Offset)
}

// ComparePoints orders two points in the same tree: -1 when a is before b,
// 0 when equal, 1 when after.
func ComparePoints(a, b Point) int {
	if a.Node == b.Node {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	}
	ka, kb := pointKey(a), pointKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			if ka[i] < kb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return 0
}

// Range is an ordered pair of points.
type Range struct {
	Start Point
	End   Point
}

// NewRange returns the range between a and b, swapping them if needed.
func NewRange(a, b Point) Range {
	if ComparePoints(a, b) > 0 {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Collapse returns the empty range at p.
func Collapse(p Point) Range {
	return Range{Start: p, End: p}
}

// SelectNodeContents returns the range covering all of n's content.
func SelectNodeContents(n *html.Node) Range {
	return Range{Start: Point{n, 0}, End: Point{n, Len(n)}}
}

// IsZero reports whether the range has no start container.
func (r Range) IsZero() bool {
	return r.Start.Node == nil
}

// Collapsed reports whether start and end coincide.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

// CommonAncestor returns the deepest node containing both boundaries.
func (r Range) CommonAncestor() *html.Node {
	for a := r.Start.Node; a != nil; a = a.Parent {
		if Contains(a, r.End.Node) {
			return a
		}
	}
	return nil
}

// Span is the selected part [From, To) of one text node.
type Span struct {
	Node *html.Node
	From int
	To   int
}

// Text returns the selected runes.
func (s Span) Text() string {
	runes := []rune(s.Node.Data)
	return string(runes[s.From:s.To])
}

// Full reports whether the whole text node is selected.
func (s Span) Full() bool {
	return s.From == 0 && s.To == Len(s.Node)
}

// Spans returns the non-empty text spans selected by r, in document order.
func (r Range) Spans() []Span {
	if r.IsZero() || r.Collapsed() {
		return nil
	}
	top := r.CommonAncestor()
	if top == nil {
		return nil
	}
	var out []Span
	for _, t := range TextNodes(top) {
		l := Len(t)
		from := offsetIn(t, r.Start, l)
		to := offsetIn(t, r.End, l)
		if to > from {
			out = append(out, Span{Node: t, From: from, To: to})
		}
	}
	return out
}

// offsetIn maps boundary p onto text node t's offsets: p's own offset when p
// is inside t, otherwise 0 or l depending on which side of t p falls.
func offsetIn(t *html.Node, p Point, l int) int {
	if p.Node == t {
		return min(max(p.Offset, 0), l)
	}
	if ComparePoints(p, Point{t, l}) >= 0 {
		return l
	}
	return 0
}

// String returns the raw selected text.
func (r Range) String() string {
	var sb strings.Builder
	for _, s := range r.Spans() {
		sb.WriteString(s.Text())
	}
	return sb.String()
}

// Intersects reports whether any part of n lies inside r.
func (r Range) Intersects(n *html.Node) bool {
	if n.Parent == nil {
		return Contains(n, r.Start.Node)
	}
	idx := Index(n)
	before := Point{n.Parent, idx}
	after := Point{n.Parent, idx + 1}
	return ComparePoints(r.Start, after) < 0 && ComparePoints(r.End, before) > 0
}

// Selection is an anchor and a focus, in either order.
type Selection struct {
	Anchor Point
	Focus  Point
}

// SelectRange returns a forward selection for r.
func SelectRange(r Range) Selection {
	return Selection{Anchor: r.Start, Focus: r.End}
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s.Anchor.Node == nil || s.Focus.Node == nil
}

// Backward reports whether the focus precedes the anchor.
func (s Selection) Backward() bool {
	return ComparePoints(s.Anchor, s.Focus) > 0
}

// Range returns the selection as an ordered range.
func (s Selection) Range() Range {
	return NewRange(s.Anchor, s.Focus)
}
