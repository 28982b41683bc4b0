package native

import (
	"github.com/dshills/inkwell/internal/dom"
)

// wrapInline wraps every selected run that is not already formatted with one
// of same in a new tag element. Nested copies inside the wrapper are
// unwrapped so the result stays flat.
func (e *Default) wrapInline(d *dom.Document, tag string, same ...string) bool {
	nodes := Isolate(d)
	if len(nodes) == 0 {
		return false
	}
	applied := false
	for _, run := range inlineRuns(d.Root, nodes) {
		if within(run, same...) {
			continue
		}
		w := dom.NewElement(tag)
		d.Wrap(run[0], run[len(run)-1], w)
		unwrapDescendants(d, w, same...)
		applied = true
	}
	return applied
}

// removeFormat pulls the selected text out of any enclosing element with
// one of tags, splitting the element around it.
func (e *Default) removeFormat(d *dom.Document, tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	applied := false
	for _, t := range Isolate(d) {
		for {
			anc := closestInline(t.Parent, tags...)
			if anc == nil || anc == d.Root {
				break
			}
			d.Unwrap(splitAround(d, t, anc))
			applied = true
		}
	}
	return applied
}
