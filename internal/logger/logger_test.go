package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelInfo))

	l.Debug("hidden")
	l.Info("shown", "user_id", "42")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "user_id=42")
}

func TestWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("request_id", "abc")

	l.Info("request completed")

	assert.Contains(t, buf.String(), "request_id=abc")
}
