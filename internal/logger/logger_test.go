package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, SetFormat(FormatJSON))
	SetOutput(&buf)
	t.Cleanup(func() {
		SetDebugMode(false)
		_ = SetFormat(FormatConsole)
		SetOutput(nil)
	})
	return &buf
}

func TestDebugHiddenUnlessEnabled(t *testing.T) {
	buf := captureJSON(t)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetDebugMode(true)
	buf.Reset()
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), `"message":"shown 2"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestInfoAndError(t *testing.T) {
	buf := captureJSON(t)

	Info("hello %s", "world")
	Error("broken: %v", "disk")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[0], "hello world")
	assert.Contains(t, lines[1], `"level":"error"`)
}

func TestWarnOnlyInDebug(t *testing.T) {
	buf := captureJSON(t)

	Warn("quiet")
	assert.Empty(t, buf.String())

	SetDebugMode(true)
	buf.Reset()
	Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestSetFormatRejectsUnknown(t *testing.T) {
	assert.Error(t, SetFormat("xml"))
}

func TestFromContext(t *testing.T) {
	buf := captureJSON(t)

	// no logger attached falls back to the process logger
	FromContext(context.Background()).Info().Msg("plain")
	assert.Contains(t, buf.String(), "plain")

	buf.Reset()
	child := Get().With().Str("trace_id", "abc").Logger()
	ctx := WithContext(context.Background(), child)
	FromContext(ctx).Info().Msg("traced")
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}
