package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/bus/topic"
)

// tree builds:
//
//	root
//	├── a
//	│   └── a1
//	└── b
func tree(t *testing.T) (root, a, a1, b *Node) {
	t.Helper()
	root = New(WithName("root"))
	a = New(WithName("a"), WithParent(root))
	a1 = New(WithName("a1"), WithParent(a))
	b = New(WithName("b"), WithParent(root))
	return root, a, a1, b
}

func TestNode_RequestLocal(t *testing.T) {
	n := New()
	require.NoError(t, n.HandleRequest("selection.current", func(args any) any { return "sel" }))

	got, ok := n.Request("selection.current", nil)
	assert.True(t, ok)
	assert.Equal(t, "sel", got)
}

func TestNode_RequestUnhandled(t *testing.T) {
	root, _, a1, _ := tree(t)

	got, ok := a1.Request("nothing.here", nil)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, root.Exec("nothing.here", nil))
}

func TestNode_RequestDelegatesToChildrenThenParent(t *testing.T) {
	root, a, a1, b := tree(t)

	require.NoError(t, b.HandleRequest("format.can", func(args any) any { return "from b" }))
	require.NoError(t, a1.HandleRequest("format.can", func(args any) any { return "from a1" }))

	// a: local miss -> children (a1 hit).
	got, ok := a.Request("format.can", nil)
	require.True(t, ok)
	assert.Equal(t, "from a1", got)

	// b: local hit.
	got, _ = b.Request("format.can", nil)
	assert.Equal(t, "from b", got)

	// root: children in registration order, a's subtree first.
	got, _ = root.Request("format.can", nil)
	assert.Equal(t, "from a1", got)
}

func TestNode_RequestBubblesToSibling(t *testing.T) {
	_, _, a1, b := tree(t)
	require.NoError(t, b.HandleRequest("format.state", func(args any) any { return args }))

	got, ok := a1.Request("format.state", "bold")
	require.True(t, ok)
	assert.Equal(t, "bold", got)
}

func TestNode_RequestStopsAtFirstHandler(t *testing.T) {
	root, a, _, b := tree(t)
	calls := 0
	require.NoError(t, a.HandleRequest("editor.html", func(args any) any { calls++; return "a" }))
	require.NoError(t, b.HandleRequest("editor.html", func(args any) any { calls++; return "b" }))

	got, _ := root.Request("editor.html", nil)
	assert.Equal(t, "a", got)
	assert.Equal(t, 1, calls)
}

func TestNode_ExecRunsOnce(t *testing.T) {
	root, a, a1, b := tree(t)
	var order []string
	require.NoError(t, b.HandleCommand("format.apply", func(args any) { order = append(order, "b") }))

	assert.True(t, a1.Exec("format.apply", nil))
	assert.True(t, a.Exec("format.apply", nil))
	assert.True(t, root.Exec("format.apply", nil))
	assert.Equal(t, []string{"b", "b", "b"}, order)
}

func TestNode_EmitBroadcasts(t *testing.T) {
	root, a, a1, b := tree(t)
	var got []string
	for _, n := range []*Node{root, a, a1, b} {
		n := n
		require.NoError(t, n.On("editor.focus", func(args any) { got = append(got, n.Name()) }))
	}

	a1.Emit("editor.focus", nil)
	assert.ElementsMatch(t, []string{"root", "a", "a1", "b"}, got)
	assert.Equal(t, "a1", got[0], "local handlers run first")
}

func TestNode_EmitHandlersInRegistrationOrder(t *testing.T) {
	n := New()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		require.NoError(t, n.On("editor.changed", func(args any) { got = append(got, i) }))
	}
	n.Emit("editor.changed", nil)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestNode_EmitContinuesWithoutLocalHandlers(t *testing.T) {
	root, a, a1, b := tree(t)
	hits := 0
	require.NoError(t, b.On("editor.blur", func(args any) { hits++ }))

	// Neither a1, a nor root handle it; it must still reach b.
	a1.Emit("editor.blur", nil)
	a.Emit("editor.blur", nil)
	root.Emit("editor.blur", nil)
	assert.Equal(t, 3, hits)
}

func TestNode_DiamondDeliversOnce(t *testing.T) {
	root := New(WithName("root"))
	left := New(WithName("left"), WithParent(root))
	right := New(WithName("right"), WithParent(root))
	shared := New(WithName("shared"), WithParent(left))
	right.AddChild(shared)

	hits := 0
	require.NoError(t, shared.On("selection.changed", func(args any) { hits++ }))
	root.Emit("selection.changed", nil)
	assert.Equal(t, 1, hits)

	requests := 0
	require.NoError(t, shared.HandleRequest("editor.html", func(args any) any { requests++; return nil }))
	_, ok := right.Request("editor.html", nil)
	assert.True(t, ok)
	assert.Equal(t, 1, requests)
}

func TestNode_CycleIsSafe(t *testing.T) {
	a := New(WithName("a"))
	b := New(WithName("b"), WithParent(a))
	// Close the loop: a is also listed as b's child.
	b.AddChild(a)

	hits := map[string]int{}
	require.NoError(t, a.On("editor.changed", func(args any) { hits["a"]++ }))
	require.NoError(t, b.On("editor.changed", func(args any) { hits["b"]++ }))

	b.Emit("editor.changed", nil)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, hits)

	_, ok := a.Request("missing.key", nil)
	assert.False(t, ok)
}

func TestNode_ReentrantDispatchGetsFreshState(t *testing.T) {
	root, a, _, b := tree(t)
	require.NoError(t, b.HandleRequest("format.state", func(args any) any { return true }))
	require.NoError(t, a.HandleCommand("format.apply", func(args any) {
		// a nested request from inside a handler is its own top-level call
		v, ok := a.Request("format.state", nil)
		assert.True(t, ok)
		assert.Equal(t, true, v)
	}))
	assert.True(t, root.Exec("format.apply", nil))
}

func TestNode_ConcealBlocksBubblingOnly(t *testing.T) {
	root, a, a1, b := tree(t)
	require.NoError(t, a.Conceal("flyout.**"))

	var got []string
	for _, n := range []*Node{root, a, a1, b} {
		n := n
		require.NoError(t, n.On("flyout.opened", func(args any) { got = append(got, n.Name()) }))
	}

	a1.Emit("flyout.opened", nil)
	assert.ElementsMatch(t, []string{"a1", "a"}, got)

	// Downward delegation from above is unaffected.
	got = nil
	root.Emit("flyout.opened", nil)
	assert.ElementsMatch(t, []string{"root", "a", "a1", "b"}, got)

	// Requests are concealed too.
	require.NoError(t, root.HandleRequest("flyout.state", func(args any) any { return 1 }))
	_, ok := a1.Request("flyout.state", nil)
	assert.False(t, ok)
	assert.True(t, a.Conceals("flyout.state"))
	assert.False(t, a.Conceals("editor.focus"))
}

func TestNode_ConcealInvalidPattern(t *testing.T) {
	n := New()
	err := n.Conceal("bad..pattern")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNode_DuplicateRegistration(t *testing.T) {
	n := New(WithName("editor"))
	require.NoError(t, n.HandleRequest("selection.range", func(args any) any { return nil }))
	require.NoError(t, n.HandleCommand("format.apply", func(args any) {}))

	err := n.HandleRequest("selection.range", func(args any) any { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, "editor", regErr.Node)
	assert.Equal(t, KindRequest, regErr.Kind)
	assert.Equal(t, topic.Topic("selection.range"), regErr.Key)

	assert.ErrorIs(t, n.HandleCommand("format.apply", func(args any) {}), ErrDuplicateHandler)

	// Events may have many handlers.
	require.NoError(t, n.On("editor.focus", func(args any) {}))
	require.NoError(t, n.On("editor.focus", func(args any) {}))
}

func TestNode_RegistrationValidation(t *testing.T) {
	n := New()
	assert.ErrorIs(t, n.HandleRequest("", func(args any) any { return nil }), ErrInvalidKey)
	assert.ErrorIs(t, n.HandleRequest("format.*", func(args any) any { return nil }), ErrInvalidKey)
	assert.ErrorIs(t, n.HandleCommand("format.apply", nil), ErrNilHandler)
	assert.ErrorIs(t, n.On("editor.focus", nil), ErrNilHandler)
}

type testComponent struct {
	requests map[topic.Topic]RequestFunc
	commands map[topic.Topic]CommandFunc
	events   map[topic.Topic]EventFunc
}

func (c testComponent) Handlers() Handlers {
	return Handlers{Requests: c.requests, Commands: c.commands, Events: c.events}
}

func TestNode_MountIsAllOrNothing(t *testing.T) {
	n := New()
	require.NoError(t, n.HandleCommand("format.apply", func(args any) {}))

	c := testComponent{
		requests: map[topic.Topic]RequestFunc{"format.can": func(args any) any { return true }},
		commands: map[topic.Topic]CommandFunc{"format.apply": func(args any) {}},
	}
	assert.ErrorIs(t, n.CanMount(c), ErrDuplicateHandler)
	assert.ErrorIs(t, n.Mount(c), ErrDuplicateHandler)
	assert.False(t, n.HasHandler(KindRequest, "format.can"), "nothing registered on failure")

	ok := testComponent{
		requests: map[topic.Topic]RequestFunc{"format.can": func(args any) any { return true }},
		events:   map[topic.Topic]EventFunc{"canvas.ready": func(args any) {}},
	}
	require.NoError(t, n.Mount(ok))
	assert.True(t, n.HasHandler(KindRequest, "format.can"))
	assert.True(t, n.HasHandler(KindEvent, "canvas.ready"))
}

func TestNode_Reparent(t *testing.T) {
	root, a, a1, b := tree(t)

	a1.SetParent(b)
	assert.Same(t, b, a1.Parent())
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{a1}, b.Children())

	// Messages now route through the new parent.
	require.NoError(t, b.HandleRequest("toolbar.state", func(args any) any { return "b" }))
	require.NoError(t, a.Conceal("toolbar.**"))
	got, ok := a1.Request("toolbar.state", nil)
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	a1.Detach()
	assert.Nil(t, a1.Parent())
	assert.Empty(t, b.Children())
	assert.Same(t, root, b.Root())
	assert.Same(t, a1, a1.Root())
}

func TestNode_RemoveChild(t *testing.T) {
	root, a, _, _ := tree(t)
	root.RemoveChild(a)
	assert.Nil(t, a.Parent())
	assert.Len(t, root.Children(), 1)
}

func TestNode_Observer(t *testing.T) {
	type call struct {
		kind    Kind
		key     topic.Topic
		handled bool
		visited int
	}
	var calls []call
	root := New(WithObserver(func(kind Kind, key topic.Topic, handled bool, visited int) {
		calls = append(calls, call{kind, key, handled, visited})
	}))
	child := New(WithParent(root))
	require.NoError(t, child.HandleRequest("editor.html", func(args any) any { return "" }))

	root.Request("editor.html", nil)
	child.Emit("editor.focus", nil)

	require.Len(t, calls, 2)
	assert.Equal(t, call{KindRequest, "editor.html", true, 2}, calls[0])
	assert.Equal(t, call{KindEvent, "editor.focus", false, 2}, calls[1])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "request", KindRequest.String())
	assert.Equal(t, "command", KindCommand.String())
	assert.Equal(t, "event", KindEvent.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
