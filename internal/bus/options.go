package bus

import "go.uber.org/zap"

// Option configures a Node.
type Option func(*Node)

// WithName sets a human readable name used in logs and errors.
func WithName(name string) Option {
	return func(n *Node) {
		n.name = name
	}
}

// WithID overrides the generated node id.
func WithID(id string) Option {
	return func(n *Node) {
		if id != "" {
			n.id = id
		}
	}
}

// WithParent attaches the node under parent on construction.
func WithParent(parent *Node) Option {
	return func(n *Node) {
		n.pendingParent = parent
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(n *Node) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithObserver installs a dispatch observer. Children created with
// WithParent inherit the parent's observer unless they set their own.
func WithObserver(o Observer) Option {
	return func(n *Node) {
		n.observer = o
	}
}
