package tui

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDefaultLogger routes slog to a buffer for the duration of the test.
func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestRedirectLogs(t *testing.T) {
	t.Run("no file discards", func(t *testing.T) {
		terminal := captureDefaultLogger(t)

		restore, err := redirectLogs(context.Background(), "")
		require.NoError(t, err)
		slog.Error("API Error", "status", 500)
		restore()

		assert.Empty(t, terminal.String())
		slog.Info("after browser")
		assert.Contains(t, terminal.String(), "after browser")
	})

	t.Run("file in missing directory", func(t *testing.T) {
		terminal := captureDefaultLogger(t)
		path := filepath.Join(t.TempDir(), "state", "receipts", "browse.log")

		restore, err := redirectLogs(context.Background(), path)
		require.NoError(t, err)
		slog.Error("API Error", "status", 500)
		restore()

		assert.Empty(t, terminal.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "API Error")
	})

	t.Run("unwritable path", func(t *testing.T) {
		captureDefaultLogger(t)
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		_, err := redirectLogs(context.Background(), filepath.Join(blocker, "browse.log"))
		assert.Error(t, err)
	})
}
