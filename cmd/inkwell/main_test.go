package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCleanStdin(t *testing.T) {
	out, err := execute(t, `<div style="x">a <span>b</span></div>`, "clean")
	require.NoError(t, err)
	assert.Equal(t, "<p>a b</p>\n", out)
}

func TestCleanFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.html")
	require.NoError(t, os.WriteFile(a, []byte("<h1 class=x>A</h1>"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("loose"), 0o644))

	out, err := execute(t, "", "clean", a, b)
	require.NoError(t, err)
	assert.Equal(t, "<h1>A</h1>\n<p>loose</p>\n", out)

	_, err = execute(t, "", "clean", "-w", a, b)
	require.NoError(t, err)
	raw, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "<p>loose</p>", string(raw))

	_, err = execute(t, "", "clean", filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out, err := execute(t, "<p>Lorem ipsum</p>", "format", "--style", "h1", "--select", "0:11")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Lorem ipsum</h1>\n", out)

	out, err = execute(t, "<p>one two</p>", "format", "-s", "link", "--href", "example.com", "--select", "4:7")
	require.NoError(t, err)
	assert.Equal(t, "<p>one <a href=\"http://example.com\">two</a></p>\n", out)

	_, err = execute(t, "<p>a</p><p>b</p>", "format", "-s", "h1", "--select", "0:2")
	assert.ErrorContains(t, err, "cannot be applied")

	_, err = execute(t, "<p>a</p>", "format", "-s", "h1")
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		wantErr  bool
	}{
		{"0:5", 0, 5, false},
		{" 3 : 4 ", 3, 4, false},
		{"7", 7, 7, false},
		{"5:2", 0, 0, true},
		{"a:b", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		from, to, err := parseSelection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, []int{tt.from, tt.to}, []int{from, to}, tt.in)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.html")
	scriptPath := filepath.Join(dir, "s.lua")
	require.NoError(t, os.WriteFile(input, []byte("<p>one</p><p>two</p>"), 0o644))
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
		inkwell.select(0, 6)
		inkwell.apply("ordered-list")
		print(inkwell.text())
	`), 0o644))

	out, err := execute(t, "", "run", "-i", input, "-p", scriptPath)
	require.NoError(t, err)
	assert.Equal(t, "onetwo\n<ol><li>one</li><li>two</li></ol>\n", out)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_block = \"p\"\n[capabilities]\nbold = [\"strong\"]\n"), 0o644))

	out, err := execute(t, "<p><b>x</b> <strong>y</strong></p>", "--config", path, "clean")
	require.NoError(t, err)
	assert.Equal(t, "<p>x <strong>y</strong></p>\n", out)

	_, err = execute(t, "", "--config", path+".missing.yaml", "clean")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "inkwell dev"))
}
