package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"Warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_WriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: zapcore.WarnLevel, Output: &buf})
	require.NoError(t, err)

	l.Info("quiet")
	l.Warn("loud")
	require.NoError(t, l.Sync())

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: zapcore.DebugLevel, Output: &buf})
	require.NoError(t, err)

	WithComponent(l, "canvas").Debug("ready")
	assert.Contains(t, buf.String(), `"component":"canvas"`)
	assert.Contains(t, buf.String(), `"logger":"canvas"`)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	assert.NotPanics(t, func() { WithComponent(nil, "x").Info("dropped") })
}
