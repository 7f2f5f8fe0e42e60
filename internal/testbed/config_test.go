package testbed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "env.json", `{"environment_def":{"board":{"model":"X1"}}}`)

	config, err := LoadJSON(path)
	require.NoError(t, err)

	envDef, ok := config["environment_def"].(map[string]interface{})
	require.True(t, ok)
	board := envDef["board"].(map[string]interface{})
	assert.Equal(t, "X1", board["model"])
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadJSONMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{not json`)

	_, err := LoadJSON(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config")
}

func TestLoadInventoryConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inv.json", `{
		"board-1": {"type": "cpe", "location": "rack-4"},
		"board-2": {"type": "cpe", "location": "rack-5"}
	}`)

	board, err := LoadInventoryConfig("board-1", path)
	require.NoError(t, err)
	assert.Equal(t, "rack-4", board["location"])
}

func TestLoadInventoryConfigUnknownBoard(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inv.json", `{"board-1": {"type": "cpe"}}`)

	_, err := LoadInventoryConfig("board-9", path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "board-9")
}

func TestParseConfig(t *testing.T) {
	env := map[string]interface{}{"environment_def": map[string]interface{}{}}
	inv := map[string]interface{}{"type": "cpe"}

	cfg := ParseConfig(inv, env)
	assert.Equal(t, env, cfg.EnvConfig)
	assert.Equal(t, inv, cfg.Inventory)
}
