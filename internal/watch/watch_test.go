package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/inkwell/internal/sanitize"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func write(t *testing.T, path, s string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(s), 0o644))
}

func TestCleanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	write(t, path, `<div class="x">loose</div>`)
	c := sanitize.New(nil)

	changed, err := CleanFile(c, path)
	require.NoError(t, err)
	assert.True(t, changed)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `<p>loose</p>`, string(raw))

	changed, err = CleanFile(c, path)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = CleanFile(c, filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestWatcherCleansOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.html")
	other := filepath.Join(dir, "other.html")
	write(t, path, `<p>ok</p>`)
	write(t, other, `<div>untouched</div>`)

	w, err := New(Cleaner(sanitize.New(nil)), WithDelay(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Add(path))
	assert.ErrorIs(t, w.Add(path), ErrAlreadyWatching)
	assert.ErrorIs(t, w.Add(dir), ErrNotRegular)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	write(t, other, `<div>still untouched</div>`)
	write(t, path, `<span>a</span><b>b</b>`)

	select {
	case res := <-w.Results():
		require.NoError(t, res.Err)
		assert.Equal(t, path, res.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
	require.Eventually(t, func() bool {
		raw, err := os.ReadFile(path)
		return err == nil && string(raw) == `<p>a<b>b</b></p>`
	}, 5*time.Second, 10*time.Millisecond)

	raw, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, `<div>still untouched</div>`, string(raw))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.ErrorIs(t, w.Add(other), ErrClosed)
	assert.GreaterOrEqual(t, w.Stats().Handled, int64(1))
}

func TestWatcherReportsHandlerErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	write(t, path, "x")

	boom := errors.New("boom")
	w, err := New(func(context.Context, string) error { return boom }, WithDelay(time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Add(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	write(t, path, "y")
	select {
	case res := <-w.Results():
		assert.ErrorIs(t, res.Err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
	assert.GreaterOrEqual(t, w.Stats().Errors, int64(1))
	cancel()
	<-done
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	write(t, path, "x")
	w, err := New(Cleaner(sanitize.New(nil)))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Add(path))
	assert.Equal(t, 1, w.Stats().Files)
	require.NoError(t, w.Remove(path))
	assert.Equal(t, 0, w.Stats().Files)
	require.NoError(t, w.Remove(path))
}
