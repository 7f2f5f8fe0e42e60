package testbed

import (
	"encoding/json"
	"fmt"
	"os"

	"bfrobot/pkg/logging"
)

// Config is the merged testbed configuration for a run: the board's
// inventory entry and the environment definition the structural matcher
// evaluates requirements against.
type Config struct {
	EnvConfig map[string]interface{}
	Inventory map[string]interface{}
}

// ParseConfig merges an inventory entry and an environment config into a
// Config. This is the fallback used when the library's parse-config hook
// declines to produce one.
func ParseConfig(inventory, envConfig map[string]interface{}) *Config {
	return &Config{
		EnvConfig: envConfig,
		Inventory: inventory,
	}
}

// LoadJSON reads and decodes a JSON object file.
func LoadJSON(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config from %s: %w", path, err)
	}

	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config from %s: %w", path, err)
	}

	logging.Debug("ConfigLoader", "Loaded configuration from %s", path)
	return config, nil
}

// LoadInventoryConfig loads the inventory file and returns the entry for
// the named board. The inventory is a JSON object keyed by board name.
func LoadInventoryConfig(boardName, path string) (map[string]interface{}, error) {
	inventory, err := LoadJSON(path)
	if err != nil {
		return nil, err
	}

	entry, exists := inventory[boardName]
	if !exists {
		return nil, fmt.Errorf("board %s not found in inventory %s", boardName, path)
	}

	board, ok := entry.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("inventory entry for board %s is not an object", boardName)
	}

	logging.Info("ConfigLoader", "Loaded inventory entry for board %s from %s", boardName, path)
	return board, nil
}
