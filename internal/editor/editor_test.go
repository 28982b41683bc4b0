package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/format"
	"github.com/dshills/inkwell/internal/input"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/keys"
)

// manual posts inline and fires timers only on demand.
type manual struct {
	timers []*timer
}

type timer struct {
	fn      func()
	stopped bool
}

func (t *timer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manual) Post(fn func()) { fn() }

func (m *manual) AfterFunc(_ time.Duration, fn func()) input.Timer {
	t := &timer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *manual) fire() int {
	n := 0
	timers := m.timers
	m.timers = nil
	for _, t := range timers {
		if !t.stopped {
			t.fn()
			n++
		}
	}
	return n
}

func newEditor(t *testing.T, markup string, opts ...Option) *Editor {
	t.Helper()
	e, err := New(dom.NewRoot(), opts...)
	require.NoError(t, err)
	require.NoError(t, e.Load(markup))
	t.Cleanup(e.Close)
	return e
}

func markup(t *testing.T, e *Editor) string {
	t.Helper()
	s, err := e.HTML()
	require.NoError(t, err)
	return s
}

func TestNewRequiresRoot(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilRoot)
}

func TestLoadSanitizes(t *testing.T) {
	e := newEditor(t, `<div style="x">loose <span>text</span></div>`)
	assert.Equal(t, `<p>loose text</p>`, markup(t, e))
	from, to, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, from)
	assert.Equal(t, 0, to)
}

func TestSelectText(t *testing.T) {
	e := newEditor(t, `<p>one two three</p>`)
	require.NoError(t, e.SelectString("two"))
	assert.Equal(t, "two", e.Document().Range().String())

	from, to, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, []int{4, 7}, []int{from, to})

	assert.ErrorIs(t, e.SelectString("four"), ErrNotFound)
	assert.ErrorIs(t, e.SelectText(3, 99), ErrRange)
}

func TestSelectionRequests(t *testing.T) {
	e := newEditor(t, `<p>one <b>two</b> three</p>`)
	node := e.Node()
	require.NoError(t, e.SelectString("two"))

	got, ok := node.Request(keys.SelectionInside, []string{"b", "strong"})
	require.True(t, ok)
	assert.Equal(t, true, got)

	require.NoError(t, e.SelectString("one two"))
	got, _ = node.Request(keys.SelectionInside, []string{"b"})
	assert.Equal(t, false, got)
	got, _ = node.Request(keys.SelectionContains, []string{"b"})
	assert.Equal(t, true, got)

	r, ok := node.Request(keys.SelectionRange, nil)
	require.True(t, ok)
	assert.Equal(t, "one two", r.(dom.Range).String())

	html, ok := node.Request(keys.EditorHTML, nil)
	require.True(t, ok)
	assert.Equal(t, `<p>one <b>two</b> three</p>`, html)

	_, ok = node.Request(keys.SelectionBounds, nil)
	assert.False(t, ok)
}

func TestSelectionBounds(t *testing.T) {
	var seen string
	layout := LayoutFunc(func(r dom.Range) (Rect, bool) {
		seen = r.String()
		return Rect{X: 1, Y: 2, Width: 30, Height: 10}, true
	})
	e := newEditor(t, `<p>measure me</p>`, WithLayout(layout))
	require.NoError(t, e.SelectString("me"))

	got, ok := e.Node().Request(keys.SelectionBounds, nil)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 1, Y: 2, Width: 30, Height: 10}, got)
	assert.Equal(t, "me", seen)
}

func TestFormatThroughParentBus(t *testing.T) {
	root := bus.New(bus.WithName("ui"))
	e := newEditor(t, `<p>one two three</p>`, WithParent(root))
	require.NoError(t, e.SelectString("two"))

	can, ok := root.Request(keys.FormatCan, format.StyleBold)
	require.True(t, ok)
	assert.Equal(t, true, can)

	var changed int
	require.NoError(t, root.On(keys.EditorChanged, func(any) { changed++ }))

	assert.True(t, root.Exec(keys.FormatApply, map[string]any{"style": "bold", "toggle": true}))
	assert.Equal(t, `<p>one <b>two</b> three</p>`, markup(t, e))
	assert.Equal(t, 1, changed)

	state, _ := root.Request(keys.FormatState, format.StyleBold)
	assert.Equal(t, true, state)
}

func TestUndoRedo(t *testing.T) {
	e := newEditor(t, `<p>Lorem ipsum</p>`)
	require.NoError(t, e.SelectText(0, 11))

	ok, err := e.Apply(format.Options{Style: "h1", Toggle: true})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `<h1>Lorem ipsum</h1>`, markup(t, e))
	assert.Equal(t, 1, e.History().UndoCount())

	require.NoError(t, e.Undo())
	assert.Equal(t, `<p>Lorem ipsum</p>`, markup(t, e))
	assert.Equal(t, "Lorem ipsum", e.Document().Range().String())

	assert.True(t, e.Node().Exec(keys.HistoryRedo, nil))
	assert.Equal(t, `<h1>Lorem ipsum</h1>`, markup(t, e))
	assert.Equal(t, 1, e.History().UndoCount())
	assert.Equal(t, 0, e.History().RedoCount())
}

func TestPasteEvent(t *testing.T) {
	e := newEditor(t, `<p>one two</p>`)
	require.NoError(t, e.SelectText(4, 4))

	e.Handle(input.Event{Type: input.Paste, Data: `<b onclick="x">new</b>`})
	assert.Equal(t, `<p>one <b>new</b>two</p>`, markup(t, e))
	require.Equal(t, 1, e.History().UndoCount())
	info, ok := e.History().PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "format paste", info.Description)

	require.NoError(t, e.Undo())
	assert.Equal(t, `<p>one two</p>`, markup(t, e))
}

func TestNewlineAfterHeading(t *testing.T) {
	tests := []struct {
		name string
		in   string
		at   int
		want string
	}{
		{"heading continued", `<h1>Title</h1><h1>rest</h1>`, 5, `<h1>Title</h1><p>rest</p>`},
		{"paragraph untouched", `<p>one</p><p>two</p>`, 3, `<p>one</p><p>two</p>`},
		{"list item untouched", `<ul><li>one</li><li>two</li></ul>`, 3, `<ul><li>one</li><li>two</li></ul>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t, tt.in)
			require.NoError(t, e.SelectText(tt.at, tt.at))
			e.Handle(input.Event{Type: input.KeyUp, Key: key.Event{Key: key.KeyEnter}})
			assert.Equal(t, tt.want, markup(t, e))
		})
	}
}

func TestShiftEnterKeepsHeading(t *testing.T) {
	e := newEditor(t, `<h1>Title</h1><h1>rest</h1>`)
	require.NoError(t, e.SelectText(5, 5))
	e.Handle(input.Event{Type: input.KeyUp, Key: key.Event{Key: key.KeyEnter, Modifiers: key.ModShift}})
	assert.Equal(t, `<h1>Title</h1><h1>rest</h1>`, markup(t, e))
}

func TestSelectionChangedIsDebounced(t *testing.T) {
	sched := &manual{}
	e := newEditor(t, `<p>one two</p>`, WithScheduler(sched))

	var changes int
	require.NoError(t, e.Node().On(keys.SelectionChanged, func(any) { changes++ }))

	for range 3 {
		e.Handle(input.Event{Type: input.Click})
	}
	e.Handle(input.Event{Type: input.KeyUp, Key: key.Event{Key: key.KeyLeft}})
	assert.Equal(t, 0, changes)
	assert.Equal(t, 1, sched.fire())
	assert.Equal(t, 1, changes)

	e.Handle(input.Event{Type: input.Click})
	e.Handle(input.Event{Type: input.Blur})
	assert.Equal(t, 0, sched.fire())
	assert.Equal(t, 1, changes)
}

func TestCommands(t *testing.T) {
	e := newEditor(t, `<p>a</p>`)
	node := e.Node()

	assert.True(t, node.Exec(keys.EditorLoad, `<h2>title</h2><font>body</font>`))
	assert.Equal(t, `<h2>title</h2><p>body</p>`, markup(t, e))

	text := e.Root().LastChild.FirstChild
	r := dom.NewRange(dom.Point{Node: text, Offset: 1}, dom.Point{Node: text, Offset: 3})
	assert.True(t, node.Exec(keys.SelectionSet, r))
	assert.Equal(t, "od", e.Document().Range().String())

	sel, ok := node.Request(keys.SelectionCurrent, nil)
	require.True(t, ok)
	assert.Equal(t, text, sel.(dom.Selection).Anchor.Node)
}
