package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestNewFileOnlyWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.log")

	logger, err := NewFileOnly("info", path)
	require.NoError(t, err)

	logger.Info("hello file")
	logger.Debug("dropped below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.NotContains(t, string(data), "dropped below level")
}

func TestNewFileOnlyWithoutFileIsNop(t *testing.T) {
	logger, err := NewFileOnly("debug", "")
	require.NoError(t, err)
	logger.Info("nowhere")
}
