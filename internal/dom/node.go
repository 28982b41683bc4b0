package dom

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "dd": {},
	"details": {}, "dialog": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {},
	"figcaption": {}, "figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {},
	"h3": {}, "h4": {}, "h5": {}, "h6": {}, "header": {}, "hgroup": {}, "hr": {},
	"li": {}, "main": {}, "nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {},
	"table": {}, "tbody": {}, "td": {}, "tfoot": {}, "th": {}, "thead": {},
	"tr": {}, "ul": {}, "body": {}, "html": {},
}

// IsElement reports whether n is an element whose tag is one of tags. With no
// tags it reports whether n is an element at all.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	_, ok := blockTags[n.Data]
	return ok
}

// IsBreak reports whether n is a <br>.
func IsBreak(n *html.Node) bool {
	return IsElement(n, "br")
}

// IsHeading reports whether n is an h1-h6 element.
func IsHeading(n *html.Node) bool {
	return IsElement(n, "h1", "h2", "h3", "h4", "h5", "h6")
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Rename changes an element's tag in place and drops its attributes.
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
	n.Attr = nil
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Len returns the boundary length of n: runes for text nodes, children
// otherwise.
func Len(n *html.Node) int {
	if n == nil {
		return 0
	}
	if IsText(n) {
		return utf8.RuneCountInString(n.Data)
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Index returns n's position among its siblings, or -1 when detached.
func Index(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// ChildAt returns the i'th child of n, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if n == nil || i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Children returns a snapshot of n's children.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Contains reports whether a is b or an ancestor of b.
func Contains(a, b *html.Node) bool {
	for n := b; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

// Closest returns the nearest inclusive ancestor of n, below stop, that is an
// element with one of tags.
func Closest(n, stop *html.Node, tags ...string) *html.Node {
	for cur := n; cur != nil && cur != stop; cur = cur.Parent {
		if IsElement(cur, tags...) {
			return cur
		}
	}
	return nil
}

// TopLevel returns the child of root that contains n, or nil when n is root
// or outside it.
func TopLevel(root, n *html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == root {
			return cur
		}
	}
	return nil
}

// NodePath returns child indices from root down to n, or nil and false when n
// is not inside root.
func NodePath(root, n *html.Node) ([]int, bool) {
	var rev []int
	cur := n
	for cur != root {
		if cur == nil || cur.Parent == nil {
			return nil, false
		}
		rev = append(rev, Index(cur))
		cur = cur.Parent
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out, true
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// TextNodes returns the text nodes under n in document order.
func TextNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	Walk(n, func(c *html.Node) bool {
		if IsText(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Text returns the raw concatenated text under n.
func Text(n *html.Node) string {
	var sb strings.Builder
	for _, t := range TextNodes(n) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}

// Clone returns a detached deep copy of n.
func Clone(n *html.Node) *html.Node {
	c := ShallowClone(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// ShallowClone copies n without children or links.
func ShallowClone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter inserts n after ref under ref's parent.
func InsertAfter(ref, n *html.Node) {
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Render serializes n and its descendants.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InnerHTML serializes n's children.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// NewRoot creates a detached <div> to hold editable content.
func NewRoot() *html.Node {
	return NewElement("div")
}

// ParseFragment parses s as the content of a <div> and returns the nodes,
// detached.
func ParseFragment(s string) ([]*html.Node, error) {
	ctx := NewRoot()
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// SetInnerHTML replaces n's children with the parsed fragment s.
func SetInnerHTML(n *html.Node, s string) error {
	nodes, err := ParseFragment(s)
	if err != nil {
		return err
	}
	RemoveChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// ParseRoot parses s into a fresh root.
func ParseRoot(s string) (*html.Node, error) {
	root := NewRoot()
	if err := SetInnerHTML(root, s); err != nil {
		return nil, err
	}
	return root, nil
}

// SelectionAttr marks the pseudo-selection wrapper elements that carry a
// selection across a subtree replacement.
const SelectionAttr = "data-inkwell-selection"

// NewSelectionMarker creates a pseudo-selection wrapper.
func NewSelectionMarker() *html.Node {
	return NewElement("span", html.Attribute{Key: SelectionAttr, Val: "true"})
}

// IsSelectionMarker reports whether n is a pseudo-selection wrapper.
func IsSelectionMarker(n *html.Node) bool {
	if !IsElement(n, "span") {
		return false
	}
	_, ok := Attr(n, SelectionAttr)
	return ok
}
