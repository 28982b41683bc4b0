package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// IsSpace reports whether r is collapsible whitespace.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// IsBlank reports whether s holds only collapsible whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !IsSpace(r) {
			return false
		}
	}
	return true
}

// Preformatted reports whether n sits inside a <pre>.
func Preformatted(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if IsElement(cur, "pre") {
			return true
		}
	}
	return false
}

// TrimSides reports whether leading and trailing whitespace of text node t
// disappears under normalization: a side trims when the sibling on that side
// is a block or <br>.
func TrimSides(t *html.Node) (left, right bool) {
	left = t.PrevSibling != nil && (IsBlock(t.PrevSibling) || IsBreak(t.PrevSibling))
	right = t.NextSibling != nil && (IsBlock(t.NextSibling) || IsBreak(t.NextSibling))
	return left, right
}

// Collapse normalizes s: whitespace runs become one space, and a leading or
// trailing run is dropped when trimLeft or trimRight is set. The returned
// slice maps every raw rune offset 0..len(runes) to a normalized offset.
func CollapseSpace(s string, trimLeft, trimRight bool) (string, []int) {
	runes := []rune(s)
	m := make([]int, len(runes)+1)
	var sb strings.Builder
	out := 0
	for i := 0; i < len(runes); {
		m[i] = out
		if !IsSpace(runes[i]) {
			sb.WriteRune(runes[i])
			out++
			i++
			continue
		}
		j := i
		for j < len(runes) && IsSpace(runes[j]) {
			j++
		}
		keep := !(i == 0 && trimLeft) && !(j == len(runes) && trimRight)
		if keep {
			sb.WriteByte(' ')
			out++
		}
		for k := i + 1; k < j; k++ {
			m[k] = out
		}
		i = j
	}
	m[len(runes)] = out
	return sb.String(), m
}

// Normalized returns t's normalized text and the raw-to-normalized offset
// map. Preformatted text maps one to one.
func Normalized(t *html.Node) (string, []int) {
	if Preformatted(t) {
		n := Len(t)
		m := make([]int, n+1)
		for i := range m {
			m[i] = i
		}
		return t.Data, m
	}
	left, right := TrimSides(t)
	return CollapseSpace(t.Data, left, right)
}

// NormalizedLen returns the length of t's normalized text.
func NormalizedLen(t *html.Node) int {
	_, m := Normalized(t)
	return m[len(m)-1]
}

// NormalizedOffset converts a raw rune offset in t to a normalized one.
func NormalizedOffset(t *html.Node, raw int) int {
	_, m := Normalized(t)
	raw = min(max(raw, 0), len(m)-1)
	return m[raw]
}

// RawOffset converts a normalized offset in t back to a raw rune offset.
// Several raw offsets can share a normalized one inside a collapsed run;
// forward picks the last of them (tight against following content),
// otherwise the first.
func RawOffset(t *html.Node, norm int, forward bool) int {
	_, m := Normalized(t)
	if norm <= 0 && !forward {
		return 0
	}
	best := -1
	for i, v := range m {
		if v == norm {
			if !forward {
				return i
			}
			best = i
		}
		if v > norm {
			break
		}
	}
	if best >= 0 {
		return best
	}
	if norm > m[len(m)-1] {
		return len(m) - 1
	}
	return 0
}

// NormalizeTree rewrites every text node under root with its normalized
// text. Nodes that normalize to nothing are kept empty so child indices do
// not move.
func NormalizeTree(root *html.Node) {
	texts := TextNodes(root)
	norm := make([]string, len(texts))
	for i, t := range texts {
		norm[i], _ = Normalized(t)
	}
	for i, t := range texts {
		t.Data = norm[i]
	}
}

// NormalizedText returns root's text in the normalized space.
func NormalizedText(root *html.Node) string {
	var sb strings.Builder
	for _, t := range TextNodes(root) {
		s, _ := Normalized(t)
		sb.WriteString(s)
	}
	return sb.String()
}

// CharOffset returns the normalized character offset of p measured from the
// start of root.
func CharOffset(root *html.Node, p Point) int {
	total := 0
	for _, t := range TextNodes(root) {
		if t == p.Node {
			return total + NormalizedOffset(t, p.Offset)
		}
		if ComparePoints(Point{t, 0}, p) >= 0 {
			return total
		}
		total += NormalizedLen(t)
	}
	return total
}

// PointAt locates the point at normalized character offset chars under root.
// At a boundary between two text nodes forward prefers the start of the
// later one and !forward the end of the earlier one. Offsets past the end
// clamp to the end of the last text; a root without text yields (root, 0).
func PointAt(root *html.Node, chars int, forward bool) Point {
	texts := TextNodes(root)
	if chars < 0 {
		chars = 0
	}
	total := 0
	var last *html.Node
	for _, t := range texts {
		n := NormalizedLen(t)
		if n == 0 {
			continue
		}
		last = t
		if forward && chars < total+n || !forward && chars <= total+n && (chars > total || total == 0) {
			return Point{t, RawOffset(t, chars-total, forward)}
		}
		total += n
	}
	if last != nil {
		return Point{last, Len(last)}
	}
	return Point{root, 0}
}
