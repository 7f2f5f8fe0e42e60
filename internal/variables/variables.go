// Package variables resolves run configuration values from variable files
// and the process environment, with a fixed precedence: an explicit
// BOARDFARM_ prefixed environment variable wins, then the bare variable,
// then the loaded variable file, then the registered default.
package variables

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"bfrobot/pkg/logging"
)

// envPrefix namespaces environment variables so a run can be steered
// without colliding with unrelated process environment.
const envPrefix = "BOARDFARM_"

// Resolver answers variable lookups for a run.
type Resolver struct {
	mu       sync.RWMutex
	fileVars map[string]interface{}
	defaults map[string]interface{}
}

// NewResolver builds a resolver with the given defaults. Defaults may be
// nil.
func NewResolver(defaults map[string]interface{}) *Resolver {
	if defaults == nil {
		defaults = map[string]interface{}{}
	}
	return &Resolver{
		fileVars: map[string]interface{}{},
		defaults: defaults,
	}
}

// LoadFile merges a YAML variable file into the resolver. Later files win
// over earlier ones key by key.
func (r *Resolver) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading variable file: %w", err)
	}

	vars := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &vars); err != nil {
		return fmt.Errorf("parsing variable file %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range vars {
		r.fileVars[normalizeName(key)] = value
	}
	logging.Debug("Variables", "Loaded %d variables from %s", len(vars), path)
	return nil
}

// Get resolves one variable by precedence. The boolean reports whether any
// layer had a value.
func (r *Resolver) Get(name string) (interface{}, bool) {
	normalized := normalizeName(name)

	if value, ok := os.LookupEnv(envPrefix + strings.ToUpper(normalized)); ok {
		return value, true
	}
	if value, ok := os.LookupEnv(strings.ToUpper(normalized)); ok {
		return value, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if value, ok := r.fileVars[normalized]; ok {
		return value, true
	}
	value, ok := r.defaults[normalized]
	return value, ok
}

// GetString resolves a variable and renders it as a string, falling back
// to the given default when no layer has a value.
func (r *Resolver) GetString(name, fallback string) string {
	value, ok := r.Get(name)
	if !ok {
		return fallback
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// normalizeName makes variable names comparable across the spellings used
// in files (board_name), flags (board-name), and the environment
// (BOARD_NAME).
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "-", "_")
}
