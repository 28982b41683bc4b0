package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/bus/topic"
	"github.com/dshills/inkwell/internal/coords"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/keys"
)

// Handlers implements bus.Component.
func (e *Editor) Handlers() bus.Handlers {
	h := bus.Handlers{
		Requests: map[topic.Topic]bus.RequestFunc{
			keys.SelectionCurrent: func(any) any { return e.doc.Selection },
			keys.SelectionRange:   func(any) any { return e.doc.Range() },
			keys.SelectionAnchor:  func(any) any { return e.doc.Selection.Anchor },
			keys.SelectionInside: func(args any) any {
				tags, _ := args.([]string)
				return e.doc.HasSelection() && dom.Inside(e.doc.Range(), e.doc.Root, tags...)
			},
			keys.SelectionContains: func(args any) any {
				tags, _ := args.([]string)
				return e.doc.HasSelection() && dom.Touches(e.doc.Range(), e.doc.Root, tags...)
			},
			keys.EditorHTML: func(any) any {
				s, err := e.HTML()
				if err != nil {
					e.logger.Warn("render root", zap.Error(err))
				}
				return s
			},
		},
		Commands: map[topic.Topic]bus.CommandFunc{
			keys.SelectionSet: e.handleSelect,
			keys.EditorLoad: func(args any) {
				s, _ := args.(string)
				if err := e.Load(s); err != nil {
					e.logger.Warn("editor.load failed", zap.Error(err))
				}
			},
		},
		Events: map[topic.Topic]bus.EventFunc{
			keys.EditorNewline: e.handleNewline,
			keys.EditorPaste:   e.handlePaste,
		},
	}
	if e.layout != nil {
		h.Requests[keys.SelectionBounds] = func(any) any {
			if !e.doc.HasSelection() {
				return nil
			}
			r, ok := e.layout.Bounds(e.doc.Range())
			if !ok {
				return nil
			}
			return r
		}
	}
	return h
}

func (e *Editor) handleSelect(args any) {
	switch v := args.(type) {
	case dom.Range:
		e.Select(v)
	case dom.Selection:
		e.doc.Selection = v
		e.node.Emit(keys.SelectionChanged, nil)
	case coords.Serialized:
		r, err := coords.Resolve(v, e.doc.Root)
		if err != nil {
			e.logger.Warn("selection.set failed", zap.Error(err))
			return
		}
		e.Select(r)
	default:
		e.logger.Warn("bad selection.set payload", zap.Any("args", args))
	}
}

// handleNewline turns a heading the host continued into a paragraph.
func (e *Editor) handleNewline(any) {
	b := e.block()
	if b == nil || !dom.IsHeading(b) || e.excluded(b) {
		return
	}
	e.logger.Debug("newline after heading", zap.String("tag", b.Data))
	e.node.Exec(keys.FormatApply, format.Options{Style: format.StyleParagraph})
}

func (e *Editor) handlePaste(args any) {
	var markup string
	switch v := args.(type) {
	case input.PasteEvent:
		markup = v.HTML
	case string:
		markup = v
	default:
		return
	}
	if err := e.Paste(markup); err != nil {
		e.logger.Warn("paste failed", zap.Error(err))
	}
}
