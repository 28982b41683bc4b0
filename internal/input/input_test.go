package input

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/bus/topic"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/keys"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manual is a Scheduler whose timers fire only when told to.
type manual struct {
	posted []func()
	timers []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manual) Post(fn func()) { m.posted = append(m.posted, fn) }

func (m *manual) AfterFunc(_ time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// fire runs every live timer.
func (m *manual) fire() {
	timers := m.timers
	m.timers = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func TestLoopRunsInOrder(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var mu sync.Mutex
	var got []int
	finished := make(chan struct{})
	for i := range 5 {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 4 {
				close(finished)
			}
		})
	}
	<-finished
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoopRecoversPanics(t *testing.T) {
	l := NewLoop()
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	assert.Equal(t, 2, l.RunPending())
	assert.True(t, ran)
	assert.Zero(t, l.RunPending())
}

func TestLoopRejectsSecondRun(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	l.Post(func() { close(started) })
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	<-started

	err := l.Run(context.Background())
	require.Error(t, err)
	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}

func TestLoopAfterFunc(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fired := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	l.AfterFunc(5*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	cancel()
	<-done
}

func TestDebouncerCoalesces(t *testing.T) {
	m := &manual{}
	calls := 0
	d := NewDebouncer(m, 150*time.Millisecond, func() { calls++ })
	for range 5 {
		d.Trigger()
	}
	assert.True(t, d.Pending())
	m.fire()
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	d.Trigger()
	d.Stop()
	m.fire()
	assert.Equal(t, 1, calls)
}

func TestDebouncerOnLoop(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var calls atomic.Int32
	fired := make(chan struct{}, 1)
	d := NewDebouncer(l, 20*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	for range 3 {
		d.Trigger()
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	cancel()
	<-done
}

func TestTranslator(t *testing.T) {
	node := bus.New(bus.WithName("editor"))
	var seen []topic.Topic
	record := func(k topic.Topic) {
		require.NoError(t, node.On(k, func(any) { seen = append(seen, k) }))
	}
	for _, k := range []topic.Topic{keys.EditorFocus, keys.EditorBlur, keys.EditorNewline, keys.EditorPaste, keys.EditorChanged, keys.SelectionChanged} {
		record(k)
	}
	var pasted PasteEvent
	require.NoError(t, node.On(keys.EditorPaste, func(args any) { pasted = args.(PasteEvent) }))

	m := &manual{}
	tr := NewTranslator(node, m, time.Millisecond)
	enter, _ := key.Parse("Enter")
	left, _ := key.Parse("ArrowLeft")
	soft, _ := key.Parse("Shift+Enter")

	tr.Handle(Event{Type: Focus})
	tr.Handle(Event{Type: KeyDown, Key: enter})
	tr.Handle(Event{Type: KeyUp, Key: enter})
	tr.Handle(Event{Type: KeyUp, Key: soft})
	tr.Handle(Event{Type: KeyUp, Key: left})
	tr.Handle(Event{Type: Click})
	tr.Handle(Event{Type: MouseEnter})
	m.fire()
	tr.Handle(Event{Type: Paste, Data: "<b>x</b>"})
	tr.Handle(Event{Type: Input})
	tr.Handle(Event{Type: Blur})
	m.fire()

	assert.Equal(t, []topic.Topic{
		keys.EditorFocus,
		keys.EditorNewline,
		keys.SelectionChanged,
		keys.EditorPaste,
		keys.EditorChanged,
		keys.EditorBlur,
	}, seen)
	assert.Equal(t, "<b>x</b>", pasted.HTML)
	tr.Close()
}

func TestParseType(t *testing.T) {
	for _, ty := range []Type{Focus, Blur, KeyDown, KeyUp, Paste, Input, MouseEnter, MouseLeave, Click} {
		got, ok := ParseType(ty.String())
		require.True(t, ok)
		assert.Equal(t, ty, got)
	}
	_, ok := ParseType("wheel")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Type(99).String())
}
