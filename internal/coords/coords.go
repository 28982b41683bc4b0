// Package coords converts ranges into restorable path descriptions.
//
// A Path addresses a boundary point by the child indices leading from a root
// to the point's container, plus an offset inside it. Text offsets are
// stored in the normalized whitespace space (see package dom) so a path taken
// from raw markup resolves against its normalized copy. Each path also
// records the point's character offset over the root's normalized text,
// which Resolve uses when the index walk no longer fits the tree.
package coords

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
)

// Errors returned by coordinate operations.
var (
	// ErrNotInRoot is returned when a boundary container lies outside the root.
	ErrNotInRoot = errors.New("coords: container not inside root")

	// ErrNilRoot is returned when no root is given.
	ErrNilRoot = errors.New("coords: nil root")
)

// Path locates one boundary point relative to a root.
type Path struct {
	// Indices are child indices from the root down to the container.
	Indices []int `json:"indices"`
	// Offset is the rune (text) or child (element) offset in the container.
	Offset int `json:"offset"`
	// Chars is the point's offset over the root's normalized text.
	Chars int `json:"chars"`
}

// Serialized is a range as two paths.
type Serialized struct {
	Start Path `json:"start"`
	End   Path `json:"end"`
}

// Collapsed reports whether both paths name the same character position.
func (s Serialized) Collapsed() bool {
	return s.Start.Chars == s.End.Chars
}

// Serialize describes r relative to root.
func Serialize(r dom.Range, root *html.Node) (Serialized, error) {
	if root == nil {
		return Serialized{}, ErrNilRoot
	}
	start, err := SerializePoint(r.Start, root)
	if err != nil {
		return Serialized{}, err
	}
	end, err := SerializePoint(r.End, root)
	if err != nil {
		return Serialized{}, err
	}
	return Serialized{Start: start, End: end}, nil
}

// SerializePoint describes p relative to root.
func SerializePoint(p dom.Point, root *html.Node) (Path, error) {
	if p.Node == nil {
		return Path{}, ErrNotInRoot
	}
	indices, ok := dom.NodePath(root, p.Node)
	if !ok {
		return Path{}, ErrNotInRoot
	}
	p = p.Clamp()
	offset := p.Offset
	if dom.IsText(p.Node) {
		offset = dom.NormalizedOffset(p.Node, p.Offset)
	}
	return Path{
		Indices: indices,
		Offset:  offset,
		Chars:   dom.CharOffset(root, p),
	}, nil
}

// Resolve turns s back into a range under root. Paths whose index walk fails
// or lands on a different character position are located by their Chars
// offset instead. An empty root resolves to a caret at (root, 0).
func Resolve(s Serialized, root *html.Node) (dom.Range, error) {
	if root == nil {
		return dom.Range{}, ErrNilRoot
	}
	if root.FirstChild == nil {
		return dom.Collapse(dom.Point{Node: root}), nil
	}
	start := ResolvePoint(s.Start, root, true)
	end := ResolvePoint(s.End, root, false)
	if s.Start.Chars == s.End.Chars && s.Start.Offset == s.End.Offset && equalInts(s.Start.Indices, s.End.Indices) {
		end = start
	}
	if dom.ComparePoints(start, end) > 0 {
		end = start
	}
	return dom.Range{Start: start, End: end}, nil
}

// ResolvePoint resolves a single path. forward picks the later of two
// equivalent positions, as a range start wants.
func ResolvePoint(p Path, root *html.Node, forward bool) dom.Point {
	if pt, ok := walk(p, root, forward); ok {
		return pt
	}
	return dom.PointAt(root, p.Chars, forward)
}

func walk(p Path, root *html.Node, forward bool) (dom.Point, bool) {
	n := root
	for _, i := range p.Indices {
		n = dom.ChildAt(n, i)
		if n == nil {
			return dom.Point{}, false
		}
	}
	var pt dom.Point
	if dom.IsText(n) {
		if p.Offset < 0 || p.Offset > dom.NormalizedLen(n) {
			return dom.Point{}, false
		}
		pt = dom.Point{Node: n, Offset: dom.RawOffset(n, p.Offset, forward)}
	} else {
		if p.Offset < 0 || p.Offset > dom.Len(n) {
			return dom.Point{}, false
		}
		pt = dom.Point{Node: n, Offset: p.Offset}
	}
	if dom.CharOffset(root, pt) != p.Chars {
		return dom.Point{}, false
	}
	return pt, true
}

// Shift moves s by index top-level children and chars characters, as when
// the content it describes is re-rooted at a different position.
func Shift(s Serialized, index, chars int) Serialized {
	return Serialized{
		Start: shiftPath(s.Start, index, chars),
		End:   shiftPath(s.End, index, chars),
	}
}

func shiftPath(p Path, index, chars int) Path {
	out := Path{
		Indices: append([]int(nil), p.Indices...),
		Offset:  p.Offset,
		Chars:   p.Chars + chars,
	}
	if len(out.Indices) > 0 {
		out.Indices[0] += index
	} else {
		out.Offset += index
	}
	if out.Chars < 0 {
		out.Chars = 0
	}
	return out
}

// Offset returns the normalized character offset of (node, offset) under
// root.
func Offset(root, node *html.Node, offset int) int {
	return dom.CharOffset(root, dom.Point{Node: node, Offset: offset})
}

// Locate returns the point at normalized character offset chars under root,
// preferring the start of following text at node boundaries.
func Locate(root *html.Node, chars int) dom.Point {
	return dom.PointAt(root, chars, true)
}

// NormalizeToTextBoundaries re-expresses r so both boundaries sit in text
// nodes while selecting the same raw substring. Ranges without text are
// returned unchanged.
func NormalizeToTextBoundaries(r dom.Range) dom.Range {
	if r.IsZero() || dom.IsText(r.Start.Node) && dom.IsText(r.End.Node) {
		return r
	}
	top := r.CommonAncestor()
	if top == nil {
		return r
	}
	texts := dom.TextNodes(top)
	if len(texts) == 0 {
		return r
	}
	from := rawOffset(texts, r.Start)
	to := from + utf8.RuneCountInString(r.String())

	start, ok := rawPoint(texts, from, true)
	if !ok {
		return r
	}
	end, _ := rawPoint(texts, to, false)
	if r.Collapsed() || dom.ComparePoints(start, end) > 0 {
		end = start
	}
	return dom.Range{Start: start, End: end}
}

// rawOffset counts raw runes of texts before p.
func rawOffset(texts []*html.Node, p dom.Point) int {
	total := 0
	for _, t := range texts {
		if t == p.Node {
			return total + p.Offset
		}
		if dom.ComparePoints(dom.Point{Node: t}, p) >= 0 {
			return total
		}
		total += dom.Len(t)
	}
	return total
}

// rawPoint finds the text position at raw offset n. forward skips to the
// start of the next non-empty text at a boundary.
func rawPoint(texts []*html.Node, n int, forward bool) (dom.Point, bool) {
	total := 0
	var last *html.Node
	for _, t := range texts {
		l := dom.Len(t)
		if l == 0 {
			continue
		}
		last = t
		if forward && n < total+l || !forward && n <= total+l && (n > total || total == 0) {
			return dom.Point{Node: t, Offset: n - total}, true
		}
		total += l
	}
	if last == nil {
		return dom.Point{}, false
	}
	return dom.Point{Node: last, Offset: dom.Len(last)}, true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
