package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory file system for testing.
type memFS struct {
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: make(map[string][]byte)}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return memFileInfo(path), nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo string

func (f memFileInfo) Name() string       { return string(f) }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestForPath_TOML(t *testing.T) {
	fsys := newMemFS(map[string]string{"/inkwell.toml": `
default_block = "p"
debounce = "150ms"

[capabilities]
bold = ["b", "strong"]
`})
	got, err := ForPath(fsys, "/inkwell.toml").Load()
	require.NoError(t, err)
	assert.Equal(t, "p", got["default_block"])
	assert.Equal(t, "150ms", got["debounce"])
	caps := got["capabilities"].(map[string]any)
	assert.Equal(t, []any{"b", "strong"}, caps["bold"])
}

func TestForPath_YAML(t *testing.T) {
	fsys := newMemFS(map[string]string{"/inkwell.yml": `
default_block: div
capabilities:
  italic: [i, em]
logging:
  level: debug
`})
	l := ForPath(fsys, "/inkwell.yml")
	_, isYAML := l.(*YAMLLoader)
	require.True(t, isYAML)

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "div", got["default_block"])
	assert.Equal(t, "debug", got["logging"].(map[string]any)["level"])
}

func TestLoad_MissingFile(t *testing.T) {
	got, err := ForPath(newMemFS(nil), "/nope.toml").Load()
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoad_ParseError(t *testing.T) {
	fsys := newMemFS(map[string]string{"/bad.toml": "default_block = \n"})
	_, err := ForPath(fsys, "/bad.toml").Load()
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "/bad.toml", pe.Path)
	assert.Contains(t, pe.Error(), "parse error in /bad.toml")
}

func TestLoadFromReader(t *testing.T) {
	got, err := (&TOMLLoader{}).LoadFromReader(strings.NewReader(`marker = "#"`))
	require.NoError(t, err)
	assert.Equal(t, "#", got["marker"])

	got, err = (&YAMLLoader{}).LoadFromReader(strings.NewReader("marker: '#'"))
	require.NoError(t, err)
	assert.Equal(t, "#", got["marker"])
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"INKWELL_LOG_LEVEL=debug",
			"INKWELL_LOG_DEVELOPMENT=true",
			"INKWELL_DEBOUNCE=40ms",
			"INKWELL_SERVER_READ_TIMEOUT=5",
			"HOME=/root",
		}
	}
	got, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"level": "debug", "development": true}, got["logging"])
	assert.Equal(t, "40ms", got["debounce"])
	assert.Equal(t, int64(5), got["server"].(map[string]any)["read_timeout"])
	assert.NotContains(t, got, "home")
}

func TestMerge(t *testing.T) {
	dst := map[string]any{
		"default_block": "p",
		"logging":       map[string]any{"level": "info", "development": false},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"marker":  "#",
	}
	got := Merge(dst, src)
	assert.Equal(t, map[string]any{
		"default_block": "p",
		"marker":        "#",
		"logging":       map[string]any{"level": "debug", "development": false},
	}, got)
}
