package format

import (
	"slices"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/native"
)

// Style names accepted by Apply.
const (
	StyleBold          = "bold"
	StyleItalic        = "italic"
	StyleParagraph     = "paragraph"
	StyleBlockquote    = "blockquote"
	StylePre           = "pre"
	StyleOrderedList   = "ordered-list"
	StyleUnorderedList = "unordered-list"
	StyleLink          = "link"
	StyleUnlink        = "unlink"
)

// headings maps heading style names to their tags.
var headings = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

type stateMode int

const (
	// stateNone marks styles without an active state.
	stateNone stateMode = iota
	// stateInside: every selected run is inside the tag set.
	stateInside
	// stateTouch: inside, or the selection reaches into the tag set.
	stateTouch
)

// operation describes how one style maps onto primitives.
type operation struct {
	style      string
	capability config.Capability
	tags       []string
	block      bool
	mode       stateMode
	// pseudo marks styles whose result is re-selected through the
	// pseudo-selection wrapper.
	pseudo bool
	// other is the opposite list style, removed before applying.
	other string
}

// Styles lists every style name in a stable order.
func Styles() []string {
	out := []string{StyleBold, StyleItalic, StyleParagraph}
	out = append(out, headings...)
	return append(out, StyleBlockquote, StylePre, StyleOrderedList, StyleUnorderedList, StyleLink, StyleUnlink)
}

func lookup(cfg *config.Config, style string) (operation, bool) {
	switch style {
	case StyleBold:
		return operation{style: style, capability: config.Bold, tags: cfg.Tags(config.Bold), mode: stateInside}, true
	case StyleItalic:
		return operation{style: style, capability: config.Italic, tags: cfg.Tags(config.Italic), mode: stateInside}, true
	case StyleParagraph:
		return operation{style: style, capability: config.BlockFormat, tags: []string{cfg.DefaultBlock()}, block: true}, true
	case StyleBlockquote, StylePre:
		return operation{style: style, capability: config.BlockFormat, tags: []string{style}, block: true, mode: stateInside}, true
	case StyleOrderedList:
		return operation{style: style, capability: config.OrderedList, tags: listTags(cfg.Tags(config.OrderedList)), mode: stateInside, other: StyleUnorderedList}, true
	case StyleUnorderedList:
		return operation{style: style, capability: config.UnorderedList, tags: listTags(cfg.Tags(config.UnorderedList)), mode: stateInside, other: StyleOrderedList}, true
	case StyleLink:
		return operation{style: style, capability: config.Link, tags: cfg.Tags(config.Link), mode: stateTouch, pseudo: true}, true
	case StyleUnlink:
		return operation{style: style, capability: config.Link, tags: cfg.Tags(config.Link), pseudo: true}, true
	}
	if slices.Contains(headings, style) {
		return operation{style: style, capability: config.BlockFormat, tags: []string{style}, block: true, mode: stateInside}, true
	}
	return operation{}, false
}

// listTags drops item tags from a list capability's tag set.
func listTags(tags []string) []string {
	return slices.DeleteFunc(tags, func(t string) bool { return t == "li" })
}

// allowed reports whether the configuration permits the operation's tags.
func (op operation) allowed(cfg *config.Config) bool {
	if !cfg.Has(op.capability) || len(op.tags) == 0 {
		return false
	}
	if op.capability == config.BlockFormat {
		return slices.Contains(cfg.Tags(config.BlockFormat), op.tags[0]) || op.tags[0] == cfg.DefaultBlock()
	}
	return true
}

// commands returns the primitives that apply (active false) or remove
// (active true) the style.
func (op operation) commands(cfg *config.Config, active bool, href string) []native.Command {
	switch op.style {
	case StyleBold:
		if active {
			return []native.Command{{Name: native.RemoveFormat, Tags: op.tags}}
		}
		return []native.Command{{Name: native.Bold}}
	case StyleItalic:
		if active {
			return []native.Command{{Name: native.RemoveFormat, Tags: op.tags}}
		}
		return []native.Command{{Name: native.Italic}}
	case StyleOrderedList, StyleUnorderedList:
		if active {
			return []native.Command{{Name: native.RemoveList, Tags: op.tags}}
		}
		name := native.InsertOrderedList
		if op.style == StyleUnorderedList {
			name = native.InsertUnorderedList
		}
		return []native.Command{{Name: name}}
	case StyleLink:
		if active {
			return []native.Command{{Name: native.Unlink}}
		}
		return []native.Command{{Name: native.CreateLink, Value: href}}
	case StyleUnlink:
		return []native.Command{{Name: native.Unlink}}
	}
	// Block styles.
	if active {
		return []native.Command{{Name: native.FormatBlock, Value: cfg.DefaultBlock()}}
	}
	return []native.Command{{Name: native.FormatBlock, Value: op.tags[0]}}
}
