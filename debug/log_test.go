package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("loader", "loaded %d patches", 3)
	assert.Contains(t, buf.String(), "loader")
	assert.Contains(t, buf.String(), "loaded 3 patches")
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	Disable()

	Log("loader", "dropped")
	assert.Empty(t, buf.String())
	assert.False(t, Enabled())
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	Log("writer", "hello")
	Disable()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debug logging started")
	assert.Contains(t, string(data), "hello")
}
