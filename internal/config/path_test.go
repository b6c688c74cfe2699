package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathExplicitWins(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path, err := ResolvePath("/etc/voxclip.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/voxclip.yaml", path)
}

func TestResolvePathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/xdg", "voxclip", "config.yaml"), path)
}

func TestResolvePathHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")

	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/home/tester", ".config", "voxclip", "config.yaml"), path)
}
