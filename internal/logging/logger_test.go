package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client.log")

	logger, err := NewFile(path, false)
	require.NoError(t, err)
	logger.Info("channel connected")
	logger.Debug("suppressed at info level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"channel connected"`)
	require.False(t, strings.Contains(string(data), "suppressed"))
}
