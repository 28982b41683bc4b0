// Package bus provides the hierarchical message bus every editor component
// communicates through.
//
// A bus is a tree of Nodes. Each node owns three handler tables keyed by
// topic.Topic:
//
//	requests - one handler per key, returns a value     (Request)
//	commands - one handler per key, side effects only   (Exec)
//	events   - any number of handlers per key           (Emit)
//
// # Delegation
//
// A message first tries the node it was sent to. Requests and commands stop
// at the first node that has a handler; otherwise the node delegates to its
// children in registration order and then to its parent. Events run every
// local handler and always continue to children and parent, so Emit is a
// broadcast over the reachable tree.
//
// Every top-level call carries a dispatch record holding the set of nodes
// already attempted. A node reached twice during the same call is skipped, so
// each node sees a message at most once no matter how the tree is shaped:
//
//	root := bus.New(bus.WithName("root"))
//	toolbar := bus.New(bus.WithName("toolbar"), bus.WithParent(root))
//	pipeline := bus.New(bus.WithName("pipeline"), bus.WithParent(root))
//
//	pipeline.HandleRequest("format.can", func(args any) any { return true })
//	ok, handled := toolbar.Request("format.can", "bold") // toolbar -> root -> pipeline
//
// # Conceal Rules
//
// Conceal patterns stop a message from bubbling up past a node. Local
// handling and delegation to children are unaffected, so a subtree can keep
// its internal events private from its ancestors:
//
//	flyout.Conceal("flyout.**")
//
// # Components
//
// Components expose a fixed handler table through the Component interface and
// are wired with Mount. Duplicate request or command keys are configuration
// errors reported by Mount before anything is registered.
//
// # Thread Safety
//
// Nodes are not safe for concurrent use. The editor runs the whole bus on the
// host's single UI goroutine.
package bus
