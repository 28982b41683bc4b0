package native

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
)

// createLink wraps the selected runs in anchors pointing at href. A run
// already inside an anchor only has its href replaced; a collapsed caret
// inside an anchor updates that anchor.
func (e *Default) createLink(d *dom.Document, href string) bool {
	if href == "" {
		return false
	}
	r := d.Range()
	if r.Collapsed() {
		a := dom.Closest(r.Start.Node, d.Root, "a")
		if a == nil {
			return false
		}
		dom.SetAttr(a, "href", href)
		return true
	}

	nodes := Isolate(d)
	if len(nodes) == 0 {
		return false
	}
	for _, run := range inlineRuns(d.Root, nodes) {
		if len(run) == 1 {
			if a := closestInline(run[0], "a"); a != nil {
				dom.SetAttr(a, "href", href)
				continue
			}
		}
		a := dom.NewElement("a", html.Attribute{Key: "href", Val: href})
		d.Wrap(run[0], run[len(run)-1], a)
		unwrapDescendants(d, a, "a")
	}
	return true
}

// unlink unwraps every anchor the selection touches.
func (e *Default) unlink(d *dom.Document) bool {
	r := d.Range()
	var anchors []*html.Node
	dom.Walk(d.Root, func(n *html.Node) bool {
		if n != d.Root && dom.IsElement(n, "a") && (r.Intersects(n) || dom.Contains(n, r.Start.Node)) {
			anchors = append(anchors, n)
		}
		return true
	})
	for _, a := range anchors {
		d.Unwrap(a)
	}
	return len(anchors) > 0
}
