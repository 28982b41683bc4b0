package paste

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/dom"
)

// load parses src with "|" marking the caret inside the first text holding it.
func load(t *testing.T, src string) *dom.Document {
	t.Helper()
	root, err := dom.ParseRoot(strings.Replace(src, "|", "", 1))
	require.NoError(t, err)
	d := dom.NewDocument(root)
	at := strings.Index(src, "|")
	require.GreaterOrEqual(t, at, 0)
	chars := len([]rune(plain(src[:at])))
	d.Collapse(dom.PointAt(root, chars, false))
	return d
}

// plain strips tags from an html prefix.
func plain(s string) string {
	var sb strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func render(t *testing.T, d *dom.Document) string {
	t.Helper()
	s, err := dom.InnerHTML(d.Root)
	require.NoError(t, err)
	return s
}

func TestClean(t *testing.T) {
	in := New(config.Default(), nil)
	nodes, err := in.Clean(`<div style="x"><script>alert(1)</script><b onclick="y">bold</b> and <font>plain</font></div>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	for _, n := range nodes {
		assert.Nil(t, n.Parent)
	}
	root := dom.NewRoot()
	root.AppendChild(nodes[0])
	got, err := dom.InnerHTML(root)
	require.NoError(t, err)
	assert.Equal(t, `<p><b>bold</b> and plain</p>`, got)
}

func TestPolicyKeepsSafeLinks(t *testing.T) {
	p := Policy(config.Default())
	assert.Equal(t, `<a href="http://x.io">l</a>`, p.Sanitize(`<a href="http://x.io" target="_blank">l</a>`))
	assert.Equal(t, `<a href="/rel">l</a>`, p.Sanitize(`<a href="/rel">l</a>`))
	assert.Equal(t, `l`, p.Sanitize(`<span>l</span>`))
}

func TestInsertInline(t *testing.T) {
	d := load(t, `<p>one |two</p>`)
	in := New(nil, nil)
	require.NoError(t, in.Insert(d, `<b>new</b>`))
	assert.Equal(t, `<p>one <b>new</b>two</p>`, render(t, d))

	r := d.Range()
	assert.True(t, r.Collapsed())
	assert.Equal(t, "one new", dom.NormalizedText(d.Root)[:dom.CharOffset(d.Root, r.Start)])
}

func TestInsertBlocks(t *testing.T) {
	d := load(t, `<p>one|</p><p>two</p>`)
	in := New(nil, nil)
	require.NoError(t, in.Insert(d, `<h1>title</h1><p>body</p>`))
	assert.Equal(t, `<p>one</p><h1>title</h1><p>body</p><p>two</p>`, render(t, d))
	assert.Equal(t, "body", d.Range().Start.Node.Data)
}

func TestInsertReplacesBlankBlock(t *testing.T) {
	root, err := dom.ParseRoot(`<p>a</p><p> </p>`)
	require.NoError(t, err)
	d := dom.NewDocument(root)
	d.Collapse(dom.Point{Node: root.LastChild.FirstChild, Offset: 0})

	require.NoError(t, New(nil, nil).Insert(d, `<ul><li>x</li></ul>`))
	assert.Equal(t, `<p>a</p><ul><li>x</li></ul>`, render(t, d))
}

func TestInsertReplacesSelection(t *testing.T) {
	root, err := dom.ParseRoot(`<p>keep drop keep</p>`)
	require.NoError(t, err)
	d := dom.NewDocument(root)
	text := root.FirstChild.FirstChild
	d.Select(dom.NewRange(dom.Point{Node: text, Offset: 5}, dom.Point{Node: text, Offset: 9}))

	require.NoError(t, New(nil, nil).Insert(d, `new`))
	assert.Equal(t, `<p>keep new keep</p>`, render(t, d))
}

func TestInsertWithoutSelection(t *testing.T) {
	root, err := dom.ParseRoot(`<p>a</p>`)
	require.NoError(t, err)
	assert.Error(t, New(nil, nil).Insert(dom.NewDocument(root), `x`))
}
