package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bfrobot/internal/api"
	"bfrobot/internal/envmatch"
	"bfrobot/internal/testbed"
	"bfrobot/pkg/logging"
)

// Coordinator drives the testbed through its lifecycle: deploy at suite
// start, per-test environment gating, release at suite end.
//
// Deploy runs the hook sequence exactly once; a second call is a no-op.
// Release never returns an error: failures during teardown are logged so
// they cannot mask the result of the test run.
type Coordinator struct {
	mu    sync.Mutex
	hooks testbed.Hooks
	opts  testbed.RuntimeOptions

	deploymentID string
	deployed     bool
	released     bool

	cfg *testbed.Config
	dm  testbed.DeviceManager
}

// NewCoordinator builds a coordinator over the given hooks and runtime
// options. Nothing is deployed until Deploy is called.
func NewCoordinator(hooks testbed.Hooks, opts testbed.RuntimeOptions) *Coordinator {
	return &Coordinator{
		hooks: hooks,
		opts:  opts,
	}
}

// Deploy provisions the testbed: validate options, configure, reserve,
// parse configuration, register devices, then drive environment setup to
// completion. A failing hook leaves the coordinator undeployed and its
// error is returned; Release stays a no-op in that case.
func (c *Coordinator) Deploy(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deployed {
		logging.Debug("Lifecycle", "Deploy called again for %s, ignoring", c.deploymentID)
		return nil
	}

	if err := c.validateOptions(); err != nil {
		return err
	}

	c.deploymentID = uuid.NewString()
	logging.Info("Lifecycle", "Deploying testbed %s for board %s", c.deploymentID, c.opts.BoardName)

	if err := c.hooks.Configure(&c.opts); err != nil {
		return api.NewDeploymentError("configure", err)
	}

	inventory, err := c.hooks.ReserveDevices(&c.opts)
	if err != nil {
		return api.NewDeploymentError("reserve-devices", err)
	}
	if inventory == nil {
		inventory, err = testbed.LoadInventoryConfig(c.opts.BoardName, c.opts.InventoryConfig)
		if err != nil {
			return api.NewDeploymentError("parse-config", err)
		}
	}

	envConfig, err := testbed.LoadJSON(c.opts.EnvConfig)
	if err != nil {
		return api.NewDeploymentError("parse-config", err)
	}

	cfg, err := c.hooks.ParseConfig(&c.opts, inventory, envConfig)
	if err != nil {
		return api.NewDeploymentError("parse-config", err)
	}
	if cfg == nil {
		cfg = testbed.ParseConfig(inventory, envConfig)
	}
	c.cfg = cfg

	dm, err := c.hooks.RegisterDevices(cfg, &c.opts)
	if err != nil {
		c.cfg = nil
		return api.NewDeploymentError("register-devices", err)
	}

	// Environment setup is the one asynchronous lifecycle step. It runs in
	// its own goroutine so cancellation propagates through the group
	// context, but deploy does not finish until it has.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.hooks.SetupEnvironment(gctx, cfg, &c.opts, dm)
	})
	if err := group.Wait(); err != nil {
		c.cfg = nil
		return api.NewDeploymentError("setup-environment", err)
	}

	c.dm = dm
	c.deployed = true
	return nil
}

func (c *Coordinator) validateOptions() error {
	if c.opts.BoardName == "" {
		return api.NewConfigurationError("board-name")
	}
	if c.opts.EnvConfig == "" {
		return api.NewConfigurationError("env-config")
	}
	if c.opts.InventoryConfig == "" {
		return api.NewConfigurationError("inventory-config")
	}
	return nil
}

// DeploymentID returns the identifier assigned to the current deployment.
func (c *Coordinator) DeploymentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deploymentID
}

// DeviceManager returns the device registry produced by deployment.
func (c *Coordinator) DeviceManager() (testbed.DeviceManager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.deployed || c.dm == nil {
		return nil, api.NewNotInitializedError("device manager")
	}
	return c.dm, nil
}

// Config returns the parsed testbed configuration.
func (c *Coordinator) Config() (*testbed.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.deployed || c.cfg == nil {
		return nil, api.NewNotInitializedError("testbed config")
	}
	return c.cfg, nil
}

// CheckTestEnvironment gates one test on its tags: the environment
// requirement carried by the tags must match the deployed environment,
// and the contingency check hook must pass for it.
//
// When contingency checks are globally disabled the gate is a no-op: the
// test runs even against a mismatched environment. A mismatch comes back
// as an environment mismatch error so the caller can skip the test rather
// than fail it.
func (c *Coordinator) CheckTestEnvironment(tags []string) error {
	c.mu.Lock()
	deployed := c.deployed
	cfg, dm := c.cfg, c.dm
	skipContingency := c.opts.SkipContingencyChecks
	c.mu.Unlock()

	if !deployed {
		return api.NewNotInitializedError("testbed")
	}
	if skipContingency {
		logging.Debug("Lifecycle", "Contingency checks disabled, skipping environment gate")
		return nil
	}

	requirements, err := RequirementsFromTags(tags)
	if err != nil {
		return err
	}

	for _, requirement := range requirements {
		ok, err := envmatch.Matches(requirement, cfg.EnvConfig)
		if err != nil {
			return err
		}
		if !ok {
			return api.NewEnvironmentMismatchError(requirement)
		}

		if err := c.hooks.ContingencyCheck(requirement, dm); err != nil {
			return err
		}
	}
	return nil
}

// Release tears the testbed down. It is a no-op before deployment and
// after a previous release, and it never propagates errors: teardown
// failures are logged and swallowed so they cannot overwrite the outcome
// of the run.
func (c *Coordinator) Release(outcome testbed.DeploymentOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.deployed || c.released {
		logging.Debug("Lifecycle", "Release called without an active deployment, ignoring")
		return
	}
	c.released = true

	logging.Info("Lifecycle", "Releasing testbed %s (status: %s)", c.deploymentID, outcome.Status)
	if err := c.hooks.ReleaseDevices(c.cfg, &c.opts, outcome, c.dm); err != nil {
		logging.Error("Lifecycle", err, "Failed to release devices for %s", c.deploymentID)
	}
}
