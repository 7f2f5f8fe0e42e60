package testbed

import "context"

// RuntimeOptions is the parsed option set handed to every lifecycle hook.
// It mirrors the command-line surface of the device automation library.
type RuntimeOptions struct {
	BoardName             string
	EnvConfig             string
	InventoryConfig       string
	SkipBoot              bool
	SkipContingencyChecks bool
	SaveConsoleLogs       string
	Legacy                bool
	IgnoreDevices         []string
}

// DeploymentOutcome records how a deployment ended, for handoff to the
// release hook.
type DeploymentOutcome struct {
	// Status is "success" or "failed"
	Status string

	// Exception carries the failure text when Status is "failed"
	Exception string
}

// DeviceManager holds the registered devices for a run. It is owned by the
// device automation library; bfrobot only resolves devices through it.
type DeviceManager interface {
	// GetDeviceByType returns the device instance registered for the given
	// type identifier (e.g., "CPE", "ACS", "LAN").
	GetDeviceByType(typeID string) (interface{}, error)

	// GetDevicesByType returns all devices of the given type, keyed by
	// device name.
	GetDevicesByType(typeID string) (map[string]interface{}, error)
}

// Hooks is the lifecycle contract of the device automation library. The
// coordinator invokes these in strict order during deployment and exactly
// once during release.
type Hooks interface {
	// Configure prepares the library with the runtime options.
	Configure(opts *RuntimeOptions) error

	// ReserveDevices reserves lab devices and returns the inventory config,
	// or nil to have the caller load the inventory file directly.
	ReserveDevices(opts *RuntimeOptions) (map[string]interface{}, error)

	// ParseConfig merges the inventory and environment configs into a
	// testbed Config, or returns nil to have the caller parse directly.
	ParseConfig(opts *RuntimeOptions, inventory, envConfig map[string]interface{}) (*Config, error)

	// RegisterDevices instantiates device objects from the config and
	// returns the device manager holding them.
	RegisterDevices(cfg *Config, opts *RuntimeOptions) (DeviceManager, error)

	// SetupEnvironment boots and provisions the registered devices. This is
	// the one asynchronous lifecycle step; the coordinator drives it to
	// completion before deployment is considered done.
	SetupEnvironment(ctx context.Context, cfg *Config, opts *RuntimeOptions, dm DeviceManager) error

	// ReleaseDevices returns the reserved devices to the lab, receiving the
	// recorded deployment outcome.
	ReleaseDevices(cfg *Config, opts *RuntimeOptions, outcome DeploymentOutcome, dm DeviceManager) error

	// ContingencyCheck runs the library's pre-test checks for an
	// environment requirement that has already matched.
	ContingencyCheck(requirement interface{}, dm DeviceManager) error
}
