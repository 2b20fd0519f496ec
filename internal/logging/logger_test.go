package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "TinyBank", "debug")
	logger.Debug("hello", "user_id", "42")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "TinyBank", line["service"])
	assert.Equal(t, "42", line["user_id"])
}

func TestNewWithWriterFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "TinyBank", "chatty")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
