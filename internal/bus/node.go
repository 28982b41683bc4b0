package bus

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus/topic"
)

// Node is one addressable unit of the bus tree.
type Node struct {
	id   string
	name string

	// parent is a back-reference only; the parent owns the child list.
	parent   *Node
	children []*Node

	requests map[topic.Topic]RequestFunc
	commands map[topic.Topic]CommandFunc
	events   map[topic.Topic][]EventFunc

	conceal *topic.Matcher

	logger   *zap.Logger
	observer Observer

	pendingParent *Node
}

// New creates a bus node.
func New(opts ...Option) *Node {
	n := &Node{
		id:       uuid.NewString(),
		requests: make(map[topic.Topic]RequestFunc),
		commands: make(map[topic.Topic]CommandFunc),
		events:   make(map[topic.Topic][]EventFunc),
		conceal:  topic.NewMatcher(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if p := n.pendingParent; p != nil {
		n.pendingParent = nil
		if n.observer == nil {
			n.observer = p.observer
		}
		n.SetParent(p)
	}
	return n
}

// ID returns the node's opaque id.
func (n *Node) ID() string {
	return n.id
}

// Name returns the node's name, or its id when unnamed.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	return n.id
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Root walks parent links to the top of the tree.
func (n *Node) Root() *Node {
	seen := map[*Node]bool{n: true}
	cur := n
	for cur.parent != nil && !seen[cur.parent] {
		cur = cur.parent
		seen[cur] = true
	}
	return cur
}

// SetParent moves the node under p, removing it from its previous parent's
// child list. A nil p detaches the node.
func (n *Node) SetParent(p *Node) {
	if n.parent == p {
		if p != nil && !p.hasChild(n) {
			p.children = append(p.children, n)
		}
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.parent = p
	if p != nil && !p.hasChild(n) {
		p.children = append(p.children, n)
	}
}

// Detach removes the node from its parent.
func (n *Node) Detach() {
	n.SetParent(nil)
}

// AddChild appends c to the node's child list without touching c's existing
// parent link, unless c has none. A node may therefore be listed as a child
// of several nodes; dispatch still reaches it at most once per call.
func (n *Node) AddChild(c *Node) {
	if c == nil || n.hasChild(c) {
		return
	}
	n.children = append(n.children, c)
	if c.parent == nil {
		c.parent = n
	}
}

// RemoveChild removes c from the child list, clearing c's parent if it is n.
func (n *Node) RemoveChild(c *Node) {
	n.removeChild(c)
	if c != nil && c.parent == n {
		c.parent = nil
	}
}

func (n *Node) hasChild(c *Node) bool {
	for _, existing := range n.children {
		if existing == c {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(c *Node) {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Conceal adds patterns whose messages must not bubble past this node.
func (n *Node) Conceal(patterns ...topic.Topic) error {
	for _, p := range patterns {
		if !p.IsValid() {
			return &RegistrationError{Node: n.Name(), Kind: KindEvent, Key: p, Err: ErrInvalidPattern}
		}
	}
	for _, p := range patterns {
		n.conceal.Add(p)
	}
	return nil
}

// Conceals reports whether key is blocked from bubbling past this node.
func (n *Node) Conceals(key topic.Topic) bool {
	return n.conceal.Match(key)
}

// HandleRequest registers the request handler for key.
func (n *Node) HandleRequest(key topic.Topic, fn RequestFunc) error {
	if err := n.checkKey(KindRequest, key, fn == nil); err != nil {
		return err
	}
	n.requests[key] = fn
	return nil
}

// HandleCommand registers the command handler for key.
func (n *Node) HandleCommand(key topic.Topic, fn CommandFunc) error {
	if err := n.checkKey(KindCommand, key, fn == nil); err != nil {
		return err
	}
	n.commands[key] = fn
	return nil
}

// On appends an event handler for key.
func (n *Node) On(key topic.Topic, fn EventFunc) error {
	if err := n.checkKey(KindEvent, key, fn == nil); err != nil {
		return err
	}
	n.events[key] = append(n.events[key], fn)
	return nil
}

// Off removes every handler of any kind registered for key.
func (n *Node) Off(key topic.Topic) {
	delete(n.requests, key)
	delete(n.commands, key)
	delete(n.events, key)
}

// CanMount reports the error Mount would return for c without registering
// anything.
func (n *Node) CanMount(c Component) error {
	h := c.Handlers()
	for key, fn := range h.Requests {
		if err := n.checkKey(KindRequest, key, fn == nil); err != nil {
			return err
		}
	}
	for key, fn := range h.Commands {
		if err := n.checkKey(KindCommand, key, fn == nil); err != nil {
			return err
		}
	}
	for key, fn := range h.Events {
		if err := n.checkKey(KindEvent, key, fn == nil); err != nil {
			return err
		}
	}
	return nil
}

// Mount registers every handler of c. Either all handlers are registered or,
// on error, none are.
func (n *Node) Mount(c Component) error {
	if err := n.CanMount(c); err != nil {
		return err
	}
	h := c.Handlers()
	for key, fn := range h.Requests {
		n.requests[key] = fn
	}
	for key, fn := range h.Commands {
		n.commands[key] = fn
	}
	for key, fn := range h.Events {
		n.events[key] = append(n.events[key], fn)
	}
	n.logger.Debug("component mounted",
		zap.String("node", n.Name()),
		zap.Int("requests", len(h.Requests)),
		zap.Int("commands", len(h.Commands)),
		zap.Int("events", len(h.Events)),
	)
	return nil
}

func (n *Node) checkKey(kind Kind, key topic.Topic, nilHandler bool) error {
	if !key.IsValidKey() {
		return &RegistrationError{Node: n.Name(), Kind: kind, Key: key, Err: ErrInvalidKey}
	}
	if nilHandler {
		return &RegistrationError{Node: n.Name(), Kind: kind, Key: key, Err: ErrNilHandler}
	}
	var exists bool
	switch kind {
	case KindRequest:
		_, exists = n.requests[key]
	case KindCommand:
		_, exists = n.commands[key]
	}
	if exists {
		return &RegistrationError{Node: n.Name(), Kind: kind, Key: key, Err: ErrDuplicateHandler}
	}
	return nil
}

// HasHandler reports whether this node itself handles key for kind.
func (n *Node) HasHandler(kind Kind, key topic.Topic) bool {
	switch kind {
	case KindRequest:
		_, ok := n.requests[key]
		return ok
	case KindCommand:
		_, ok := n.commands[key]
		return ok
	case KindEvent:
		return len(n.events[key]) > 0
	}
	return false
}
