// Package usecases provides the built-in keyword modules that work
// without testbed hardware: run bookkeeping, identifiers, and timing
// helpers. Device-backed use-case modules are registered by the embedding
// automation library next to these.
package usecases

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bfrobot/internal/keyword"
	"bfrobot/internal/listener"
)

// BuiltinModules returns the module sources that ship with bfrobot. The
// context storage backs the run-context keywords; it may be shared with a
// listener so keywords and lifecycle callbacks see the same state.
func BuiltinModules(storage *listener.ContextStorage) []*keyword.ModuleSource {
	return []*keyword.ModuleSource{
		infraModule(storage),
	}
}

func infraModule(storage *listener.ContextStorage) *keyword.ModuleSource {
	return &keyword.ModuleSource{
		ModuleName: "infra",
		Funcs: map[string]interface{}{
			"generate_run_id": func() string {
				return uuid.NewString()
			},
			"get_epoch_time": func() int64 {
				return time.Now().Unix()
			},
			"wait_seconds": func(seconds float64) {
				time.Sleep(time.Duration(seconds * float64(time.Second)))
			},
			"set_run_context": func(key string, value interface{}) {
				storage.Set(key, value)
			},
			"get_run_context": func(key string) (interface{}, error) {
				value, ok := storage.Get(key)
				if !ok {
					return nil, fmt.Errorf("no run context entry for %q", key)
				}
				return value, nil
			},
		},
		Docs: map[string]string{
			"generate_run_id": "Generates a unique identifier for correlating artifacts of one run.",
			"get_epoch_time":  "Returns the current Unix timestamp in seconds.",
			"wait_seconds":    "Blocks for the given number of seconds.",
			"set_run_context": "Stores a value in the run context for later tests.",
			"get_run_context": "Reads a value from the run context, failing when the key is absent.",
		},
		Args: map[string][]string{
			"wait_seconds":    {"seconds"},
			"set_run_context": {"key", "value"},
			"get_run_context": {"key"},
		},
	}
}
