package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		_ = SetFormat(FormatConsole)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("test message %s", "arg")

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "test message arg")
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("test message")
	Section("Pipeline")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Extraction")

	assert.Contains(t, buf.String(), "=== Extraction ===")
}

func TestLevels_AlwaysOn(t *testing.T) {
	buf := capture(t)

	Info("info %d", 1)
	Warn("warn %d", 2)
	Error("error %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "info 1")
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[2], "ERROR")
}

func TestSetFormat_JSON(t *testing.T) {
	buf := capture(t)
	require.NoError(t, SetFormat(FormatJSON))

	L().Info("tool call", zap.String("tool", "extract_pdf"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "tool call", entry["msg"])
	assert.Equal(t, "extract_pdf", entry["tool"])
}

func TestSetFormat_Unknown(t *testing.T) {
	capture(t)
	assert.Error(t, SetFormat("xml"))
}
