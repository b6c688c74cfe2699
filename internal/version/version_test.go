package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringContainsComponents(t *testing.T) {
	t.Parallel()

	s := String()
	require.Contains(t, s, "voxclip")
	require.Contains(t, s, Version)
	require.Contains(t, s, Commit)
	require.Contains(t, s, "go=")
}
