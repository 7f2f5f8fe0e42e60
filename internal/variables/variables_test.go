package variables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverPrecedence(t *testing.T) {
	resolver := NewResolver(map[string]interface{}{"board_name": "default-board"})

	value, ok := resolver.Get("board-name")
	require.True(t, ok)
	assert.Equal(t, "default-board", value)

	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board_name: file-board\nretries: 3\n"), 0o644))
	require.NoError(t, resolver.LoadFile(path))

	value, _ = resolver.Get("board_name")
	assert.Equal(t, "file-board", value)

	t.Setenv("BOARD_NAME", "env-board")
	value, _ = resolver.Get("board_name")
	assert.Equal(t, "env-board", value)

	t.Setenv("BOARDFARM_BOARD_NAME", "prefixed-board")
	value, _ = resolver.Get("board_name")
	assert.Equal(t, "prefixed-board", value)
}

func TestResolverMissing(t *testing.T) {
	resolver := NewResolver(nil)

	_, ok := resolver.Get("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, "fallback", resolver.GetString("nonexistent", "fallback"))
}

func TestGetStringRendersNonStrings(t *testing.T) {
	resolver := NewResolver(map[string]interface{}{"retries": 3})
	assert.Equal(t, "3", resolver.GetString("retries", "0"))
}

func TestLoadFileErrors(t *testing.T) {
	resolver := NewResolver(nil)

	err := resolver.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading variable file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(": not yaml ["), 0o644))
	err = resolver.LoadFile(path)
	assert.ErrorContains(t, err, "parsing variable file")
}
