package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: "info"}, &buf)

	log.With(String("surface", "cli")).Info("use_case",
		String("name", "publish"),
		Int("keys", 3),
		Bool("success", false),
		Error(errors.New("boom")),
	)
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "use_case", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cli", entry["surface"])
	assert.Equal(t, "publish", entry["name"])
	assert.Equal(t, float64(3), entry["keys"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: "warn"}, &buf)

	log.Info("hidden")
	log.Debugf("hidden %d", 1)
	log.Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Options{Level: "chatty"}, &buf)
	log.Debug("hidden")
	log.Info("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(Options{Level: "debug", Pretty: true}, &buf).Debug("hello", String("k", "v"))
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "hello")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "curator.log")
	log, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	log.Info("to_file")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to_file")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("ignored")
	assert.NotNil(t, log.With(String("a", "b")))
}
