package usecases

import (
	"fmt"

	"bfrobot/internal/api"
	"bfrobot/internal/keyword"
	"bfrobot/internal/lifecycle"
	"bfrobot/internal/listener"
	"bfrobot/pkg/logging"
)

// TestbedLibrary is the hand-written keyword surface next to discovery:
// device resolution, testbed config access, step logging, test context,
// and explicit environment gating. Its methods are discovered like any
// device object, without a prefix, so the keywords read "Get Device By
// Type" rather than "Testbed Get Device By Type".
type TestbedLibrary struct {
	coordinator *lifecycle.Coordinator
	storage     *listener.ContextStorage
}

func NewTestbedLibrary(coordinator *lifecycle.Coordinator, storage *listener.ContextStorage) *TestbedLibrary {
	return &TestbedLibrary{
		coordinator: coordinator,
		storage:     storage,
	}
}

// TestbedSource wraps the library as a keyword source. A free function
// rather than a method so it does not show up in discovery itself.
func TestbedSource(l *TestbedLibrary) *keyword.ObjectSource {
	return &keyword.ObjectSource{
		SourceName: "testbed",
		Object:     l,
		Docs: map[string]string{
			"get_device_by_type":  "Returns the device registered for the given type identifier.",
			"get_devices_by_type": "Returns all devices of the given type, keyed by device name.",
			"get_device_manager":  "Returns the device manager of the current deployment.",
			"get_testbed_config":  "Returns the parsed testbed configuration.",
			"log_step":            "Logs a test step marker into the run log.",
			"set_test_context":    "Stores a value in the test-scoped context.",
			"get_test_context":    "Reads a value from the context, failing when the key is absent.",
			"clear_test_context":  "Drops all test-scoped context entries.",
			"require_environment": "Skips the test unless the deployed environment satisfies the requirement (JSON or preset name).",
		},
	}
}

func (l *TestbedLibrary) GetDeviceByType(typeID string) (interface{}, error) {
	dm, err := l.coordinator.DeviceManager()
	if err != nil {
		return nil, err
	}
	return dm.GetDeviceByType(typeID)
}

func (l *TestbedLibrary) GetDevicesByType(typeID string) (map[string]interface{}, error) {
	dm, err := l.coordinator.DeviceManager()
	if err != nil {
		return nil, err
	}
	return dm.GetDevicesByType(typeID)
}

func (l *TestbedLibrary) GetDeviceManager() (interface{}, error) {
	return l.coordinator.DeviceManager()
}

func (l *TestbedLibrary) GetTestbedConfig() (interface{}, error) {
	return l.coordinator.Config()
}

func (l *TestbedLibrary) LogStep(message string) {
	logging.Info("Keyword", "STEP: %s", message)
}

func (l *TestbedLibrary) SetTestContext(key string, value interface{}) {
	l.storage.SetTestLocal(key, value)
}

func (l *TestbedLibrary) GetTestContext(key string) (interface{}, error) {
	value, ok := l.storage.Get(key)
	if !ok {
		return nil, fmt.Errorf("no test context entry for %q", key)
	}
	return value, nil
}

func (l *TestbedLibrary) ClearTestContext() {
	l.storage.ClearTestLocal()
}

// RequireEnvironment gates the current test explicitly: the payload is a
// preset name or a JSON requirement, checked the same way env_req tags
// are. A mismatch answers with a skip signal rather than a failure.
func (l *TestbedLibrary) RequireEnvironment(payload string) error {
	err := l.coordinator.CheckTestEnvironment([]string{"env_req:" + payload})
	if err == nil {
		return nil
	}
	if api.IsEnvironmentMismatch(err) {
		return &listener.SkipExecution{Message: err.Error()}
	}
	return err
}
