package dom

import "golang.org/x/net/html"

// Inside reports whether every non-blank text run selected by r lies inside
// an element with one of tags below stop. A collapsed range checks its
// caret.
func Inside(r Range, stop *html.Node, tags ...string) bool {
	if r.IsZero() {
		return false
	}
	spans := contentSpans(r)
	if len(spans) == 0 {
		return Closest(r.Start.Node, stop, tags...) != nil
	}
	for _, s := range spans {
		if Closest(s.Node, stop, tags...) == nil {
			return false
		}
	}
	return true
}

// Touches reports whether r reaches into an element with one of tags below
// stop: a selected run inside one, or one lying within the range.
func Touches(r Range, stop *html.Node, tags ...string) bool {
	if r.IsZero() {
		return false
	}
	if Closest(r.Start.Node, stop, tags...) != nil || Closest(r.End.Node, stop, tags...) != nil {
		return true
	}
	if r.Collapsed() {
		return false
	}
	for _, s := range r.Spans() {
		if Closest(s.Node, stop, tags...) != nil {
			return true
		}
	}
	top := r.CommonAncestor()
	found := false
	Walk(top, func(n *html.Node) bool {
		if found {
			return false
		}
		if n != top && IsElement(n, tags...) && r.Intersects(n) {
			found = true
		}
		return !found
	})
	return found
}

func contentSpans(r Range) []Span {
	var out []Span
	for _, s := range r.Spans() {
		if !IsBlank(s.Text()) {
			out = append(out, s)
		}
	}
	return out
}
