package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/metrics"
)

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClean(t *testing.T) {
	h := New(nil, nil).Handler()
	rec := post(t, h, "/v1/clean", CleanRequest{HTML: `<div onclick="x">a<script>b</script> <i class="c">c</i></div>`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CleanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, `<p>a <i>c</i></p>`, resp.HTML)
}

func TestFormat(t *testing.T) {
	m := metrics.New(false)
	h := New(nil, m).Handler()

	rec := post(t, h, "/v1/format", FormatRequest{
		HTML:      "<p>The quick brown fox jumps over the lazy dog near the river.</p>",
		Selection: Selection{Start: 16, End: 43},
		Style:     "link",
		Href:      "typecode.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp FormatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Applied)
	assert.Equal(t, `<p>The quick brown <a href="http://typecode.com">fox jumps over the lazy dog</a> near the river.</p>`, resp.HTML)
	assert.Equal(t, Selection{Start: 16, End: 43}, resp.Selection)
	assert.Equal(t, uint64(1), m.Snapshot().Operations)
}

func TestFormatDenied(t *testing.T) {
	h := New(nil, nil).Handler()
	off := false
	rec := post(t, h, "/v1/format", FormatRequest{
		HTML:      "<p>a</p><p>b</p>",
		Selection: Selection{Start: 0, End: 2},
		Style:     "h2",
		Toggle:    &off,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FormatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Applied)
	assert.Equal(t, "<p>a</p><p>b</p>", resp.HTML)
}

func TestFormatErrors(t *testing.T) {
	h := New(nil, nil).Handler()
	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing style", FormatRequest{HTML: "<p>a</p>"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"html": "<p>a</p>", "style": "bold", "colour": 1}, http.StatusBadRequest},
		{"bad selection", FormatRequest{HTML: "<p>a</p>", Style: "bold", Selection: Selection{0, 9}}, http.StatusUnprocessableEntity},
		{"unknown style", FormatRequest{HTML: "<p>ab</p>", Style: "strike", Selection: Selection{0, 1}}, http.StatusUnprocessableEntity},
		{"link without href", FormatRequest{HTML: "<p>ab</p>", Style: "link", Selection: Selection{0, 1}}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/v1/format", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := New(nil, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])

	post(t, h, "/v1/clean", CleanRequest{HTML: "<p>x</p>"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inkwell_sanitizer_runs_total 1")
}

func TestWrongContentType(t *testing.T) {
	h := New(nil, nil).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/clean", bytes.NewReader([]byte("<p>x</p>")))
	req.Header.Set("Content-Type", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
