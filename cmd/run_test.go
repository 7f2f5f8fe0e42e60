package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfrobot/internal/api"
)

func TestComposeListenerArg(t *testing.T) {
	opts := &runOptions{
		boardName:       "board-1",
		envConfig:       "/tmp/env.json",
		inventoryConfig: "/tmp/inventory.json",
	}
	assert.Equal(t,
		"BFRobot:board_name=board-1:env_config=/tmp/env.json:inventory_config=/tmp/inventory.json",
		composeListenerArg(opts))

	opts.skipBoot = true
	opts.ignoreDevices = []string{"lan2", "wifi"}
	arg := composeListenerArg(opts)
	assert.Contains(t, arg, "skip_boot=true")
	assert.Contains(t, arg, "ignore_devices=lan2,wifi")
}

func TestValidateRunOptions(t *testing.T) {
	err := validateRunOptions(&runOptions{})
	require.Error(t, err)
	assert.True(t, api.IsConfigurationError(err))

	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.json")
	inventoryPath := filepath.Join(dir, "inventory.json")
	require.NoError(t, os.WriteFile(envPath, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(inventoryPath, []byte("{}"), 0o644))

	opts := &runOptions{
		boardName:       "board-1",
		envConfig:       envPath,
		inventoryConfig: inventoryPath,
	}
	assert.NoError(t, validateRunOptions(opts))

	opts.envConfig = filepath.Join(dir, "missing.json")
	assert.ErrorContains(t, validateRunOptions(opts), "config file not readable")
}

func TestApplyVariableDefaults(t *testing.T) {
	dir := t.TempDir()
	varsPath := filepath.Join(dir, "vars.yaml")
	vars := "board_name: board-1\nenv_config: /lab/env.json\n"
	require.NoError(t, os.WriteFile(varsPath, []byte(vars), 0o644))

	opts := &runOptions{
		variableFile:    varsPath,
		inventoryConfig: "/lab/inventory.json",
	}
	require.NoError(t, applyVariableDefaults(opts))

	assert.Equal(t, "board-1", opts.boardName)
	assert.Equal(t, "/lab/env.json", opts.envConfig)
	assert.Equal(t, "/lab/inventory.json", opts.inventoryConfig)
}
