package native

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/dom"
)

// touched returns the top-level children of root the selection reaches. A
// collapsed selection touches the child holding the caret.
func touched(d *dom.Document) []*html.Node {
	r := d.Range()
	var out []*html.Node
	if !r.Collapsed() {
		for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
			if r.Intersects(c) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if top := dom.TopLevel(d.Root, r.Start.Node); top != nil {
		return []*html.Node{top}
	}
	if r.Start.Node == d.Root {
		if c := dom.ChildAt(d.Root, r.Start.Offset); c != nil {
			return []*html.Node{c}
		}
		if c := d.Root.LastChild; c != nil {
			return []*html.Node{c}
		}
	}
	return nil
}

// groups splits top-level nodes into runs of adjacent siblings.
func groups(nodes []*html.Node) [][]*html.Node {
	var out [][]*html.Node
	for i, n := range nodes {
		if i > 0 && n.PrevSibling == nodes[i-1] {
			out[len(out)-1] = append(out[len(out)-1], n)
			continue
		}
		out = append(out, []*html.Node{n})
	}
	return out
}

// formatBlock turns each touched block into tag. Loose inline content is
// wrapped; blockquote wraps the touched blocks instead of renaming them.
func (e *Default) formatBlock(d *dom.Document, tag string) bool {
	if tag == "" {
		return false
	}
	blocks := touched(d)
	if len(blocks) == 0 {
		return false
	}
	if tag == "blockquote" {
		for _, g := range groups(blocks) {
			d.Wrap(g[0], g[len(g)-1], dom.NewElement(tag))
		}
		return true
	}

	var inline []*html.Node
	flush := func() {
		for _, g := range groups(inline) {
			d.Wrap(g[0], g[len(g)-1], dom.NewElement(tag))
		}
		inline = inline[:0]
	}
	for _, b := range blocks {
		switch {
		case !dom.IsBlock(b):
			inline = append(inline, b)
		case dom.IsElement(b, "ol", "ul"):
			// Lists are left alone.
		default:
			dom.Rename(b, tag)
		}
	}
	flush()
	return true
}

// insertList wraps the touched blocks in a new list and converts each child
// into an item.
func (e *Default) insertList(d *dom.Document, tag string) bool {
	blocks := touched(d)
	if len(blocks) == 0 {
		return false
	}
	applied := false
	for _, g := range groups(blocks) {
		list := dom.NewElement(tag)
		d.Wrap(g[0], g[len(g)-1], list)
		itemize(d, list)
		applied = true
	}
	return applied
}

// itemize makes every child of list an li.
func itemize(d *dom.Document, list *html.Node) {
	for c := list.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case dom.IsText(c) && dom.IsBlank(c.Data):
			d.Remove(c)
		case dom.IsElement(c, "ol", "ul"):
			d.Unwrap(c)
		case dom.IsElement(c, "li"):
		case dom.IsHeading(c) || dom.IsElement(c, "blockquote", "pre"):
			d.Wrap(c, c, dom.NewElement("li"))
		case dom.IsBlock(c):
			dom.Rename(c, "li")
		default:
			last := c
			for next != nil && !dom.IsBlock(next) {
				last, next = next, next.NextSibling
			}
			d.Wrap(c, last, dom.NewElement("li"))
		}
		c = next
	}
}

// removeList takes the selected items out of lists tagged with one of tags.
// The list is split so unselected items stay listed; the freed items
// become default blocks.
func (e *Default) removeList(d *dom.Document, tags []string) bool {
	if len(tags) == 0 {
		tags = []string{"ol", "ul"}
	}
	applied := false
	for _, list := range touched(d) {
		if !dom.IsElement(list, tags...) {
			continue
		}
		for c := list.FirstChild; c != nil; {
			next := c.NextSibling
			if dom.IsText(c) && dom.IsBlank(c.Data) {
				d.Remove(c)
			}
			c = next
		}

		r := d.Range()
		var items []*html.Node
		for c := list.FirstChild; c != nil; c = c.NextSibling {
			if r.Intersects(c) || dom.Contains(c, r.Start.Node) {
				items = append(items, c)
			}
		}
		if len(items) == 0 {
			items = dom.Children(list)
		}
		if len(items) == 0 {
			continue
		}

		target := list
		if last := items[len(items)-1]; last.NextSibling != nil {
			d.SplitElement(target, dom.Index(last)+1)
		}
		if first := dom.Index(items[0]); first > 0 {
			target = d.SplitElement(target, first)
		}
		for c := target.FirstChild; c != nil; c = c.NextSibling {
			if dom.IsElement(c, "li") {
				dom.Rename(c, e.defaultBlock)
			}
		}
		d.Unwrap(target)
		applied = true
	}
	return applied
}
