package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLUnderStateDir(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	runtime, err := New("info")
	require.NoError(t, err)
	defer runtime.Close()

	require.Equal(t, filepath.Join(state, "voxclip", "log.jsonl"), runtime.Path)

	runtime.Logger.Info("pipeline start", "segments", 3)
	require.NoError(t, runtime.Close())

	content, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Contains(t, string(content), `"msg":"pipeline start"`)
	require.Contains(t, string(content), `"segments":3`)
	require.True(t, strings.HasSuffix(strings.TrimSpace(string(content)), "}"))
}

func TestNewAppendsAcrossRuns(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	first, err := New("info")
	require.NoError(t, err)
	first.Logger.Info("one")
	require.NoError(t, first.Close())

	second, err := New("info")
	require.NoError(t, err)
	second.Logger.Info("two")
	require.NoError(t, second.Close())

	content, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	require.Contains(t, string(content), "one")
	require.Contains(t, string(content), "two")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
