package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateForLog(t *testing.T) {
	require.Equal(t, "", TruncateForLog("abc", 0))
	require.Equal(t, "abc", TruncateForLog("  abc  ", 5))
	require.Equal(t, "ab...", TruncateForLog("abcdef", 2))
	require.Equal(t, "àè...", TruncateForLog("àèìòù", 2))
}

func TestNewBuildsLogger(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	require.NotNil(t, l)
	require.True(t, l.Core().Enabled(-1))
}
