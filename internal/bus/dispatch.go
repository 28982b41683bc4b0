package bus

import (
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus/topic"
)

// dispatch is the per-call record threaded through one delegation traversal.
type dispatch struct {
	kind    Kind
	key     topic.Topic
	args    any
	visited map[string]struct{}
	handled bool
	result  any
}

func newDispatch(kind Kind, key topic.Topic, args any) *dispatch {
	return &dispatch{
		kind:    kind,
		key:     key,
		args:    args,
		visited: make(map[string]struct{}),
	}
}

func (d *dispatch) done() bool {
	return d.kind != KindEvent && d.handled
}

// Request asks the tree for a value. It returns the first handler's result and
// whether any node handled the key.
func (n *Node) Request(key topic.Topic, args any) (any, bool) {
	d := newDispatch(KindRequest, key, args)
	n.deliver(d)
	n.finish(d)
	return d.result, d.handled
}

// Exec runs the first command handler found for key and reports whether one
// was found.
func (n *Node) Exec(key topic.Topic, args any) bool {
	d := newDispatch(KindCommand, key, args)
	n.deliver(d)
	n.finish(d)
	return d.handled
}

// Emit broadcasts an event to every reachable node.
func (n *Node) Emit(key topic.Topic, args any) {
	d := newDispatch(KindEvent, key, args)
	n.deliver(d)
	n.finish(d)
}

func (n *Node) deliver(d *dispatch) {
	if _, seen := d.visited[n.id]; seen {
		return
	}
	d.visited[n.id] = struct{}{}

	n.handleLocal(d)
	if d.done() {
		return
	}

	for _, child := range n.Children() {
		if _, seen := d.visited[child.id]; seen {
			continue
		}
		child.deliver(d)
		if d.done() {
			return
		}
	}

	if n.parent != nil && !n.conceal.Match(d.key) {
		n.parent.deliver(d)
	}
}

func (n *Node) handleLocal(d *dispatch) {
	switch d.kind {
	case KindRequest:
		if fn, ok := n.requests[d.key]; ok {
			d.result = fn(d.args)
			d.handled = true
		}
	case KindCommand:
		if fn, ok := n.commands[d.key]; ok {
			fn(d.args)
			d.handled = true
		}
	case KindEvent:
		handlers := n.events[d.key]
		if len(handlers) == 0 {
			return
		}
		for _, fn := range append([]EventFunc(nil), handlers...) {
			fn(d.args)
		}
		d.handled = true
	}
}

func (n *Node) finish(d *dispatch) {
	if !d.handled && d.kind != KindEvent {
		n.logger.Debug("unhandled message",
			zap.String("node", n.Name()),
			zap.Stringer("kind", d.kind),
			zap.String("key", d.key.String()),
			zap.Int("visited", len(d.visited)),
		)
	}
	if n.observer != nil {
		n.observer(d.kind, d.key, d.handled, len(d.visited))
	}
}
