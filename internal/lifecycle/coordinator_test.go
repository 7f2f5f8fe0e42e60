package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfrobot/internal/api"
	"bfrobot/internal/testbed"
)

type recordingHooks struct {
	mu    sync.Mutex
	calls []string

	setupErr        error
	releaseErr      error
	contingencyErr  error
	contingencyReqs []interface{}
}

func (h *recordingHooks) record(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
}

func (h *recordingHooks) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *recordingHooks) Configure(opts *testbed.RuntimeOptions) error {
	h.record("configure")
	return nil
}

func (h *recordingHooks) ReserveDevices(opts *testbed.RuntimeOptions) (map[string]interface{}, error) {
	h.record("reserve-devices")
	return nil, nil
}

func (h *recordingHooks) ParseConfig(opts *testbed.RuntimeOptions, inventory, envConfig map[string]interface{}) (*testbed.Config, error) {
	h.record("parse-config")
	return nil, nil
}

func (h *recordingHooks) RegisterDevices(cfg *testbed.Config, opts *testbed.RuntimeOptions) (testbed.DeviceManager, error) {
	h.record("register-devices")
	return &stubDeviceManager{}, nil
}

func (h *recordingHooks) SetupEnvironment(ctx context.Context, cfg *testbed.Config, opts *testbed.RuntimeOptions, dm testbed.DeviceManager) error {
	h.record("setup-environment")
	return h.setupErr
}

func (h *recordingHooks) ReleaseDevices(cfg *testbed.Config, opts *testbed.RuntimeOptions, outcome testbed.DeploymentOutcome, dm testbed.DeviceManager) error {
	h.record("release-devices")
	return h.releaseErr
}

func (h *recordingHooks) ContingencyCheck(requirement interface{}, dm testbed.DeviceManager) error {
	h.mu.Lock()
	h.contingencyReqs = append(h.contingencyReqs, requirement)
	h.mu.Unlock()
	h.record("contingency-check")
	return h.contingencyErr
}

type stubDeviceManager struct{}

func (stubDeviceManager) GetDeviceByType(typeID string) (interface{}, error) {
	return nil, fmt.Errorf("no device of type %s", typeID)
}

func (stubDeviceManager) GetDevicesByType(typeID string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func writeConfigs(t *testing.T, envConfig string) testbed.RuntimeOptions {
	t.Helper()
	dir := t.TempDir()

	envPath := filepath.Join(dir, "env.json")
	require.NoError(t, os.WriteFile(envPath, []byte(envConfig), 0o644))

	inventoryPath := filepath.Join(dir, "inventory.json")
	inventory := `{"board-1": {"devices": [{"name": "board", "type": "CPE"}]}}`
	require.NoError(t, os.WriteFile(inventoryPath, []byte(inventory), 0o644))

	return testbed.RuntimeOptions{
		BoardName:       "board-1",
		EnvConfig:       envPath,
		InventoryConfig: inventoryPath,
	}
}

const dualStackEnv = `{"environment_def": {"board": {"eRouter_Provisioning_mode": "dual", "model": "F5685"}}}`

func TestDeployRunsHooksInOrder(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))

	require.NoError(t, coordinator.Deploy(context.Background()))

	assert.Equal(t, []string{
		"configure",
		"reserve-devices",
		"parse-config",
		"register-devices",
		"setup-environment",
	}, hooks.recorded())
	assert.NotEmpty(t, coordinator.DeploymentID())
}

func TestDeployTwiceRunsOnce(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))

	require.NoError(t, coordinator.Deploy(context.Background()))
	id := coordinator.DeploymentID()
	require.NoError(t, coordinator.Deploy(context.Background()))

	assert.Equal(t, id, coordinator.DeploymentID())
	assert.Equal(t, 1, countCalls(hooks.recorded(), "register-devices"))
}

func TestDeployValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts testbed.RuntimeOptions
	}{
		{"missing board name", testbed.RuntimeOptions{EnvConfig: "e", InventoryConfig: "i"}},
		{"missing env config", testbed.RuntimeOptions{BoardName: "b", InventoryConfig: "i"}},
		{"missing inventory config", testbed.RuntimeOptions{BoardName: "b", EnvConfig: "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinator := NewCoordinator(&recordingHooks{}, tt.opts)
			err := coordinator.Deploy(context.Background())
			require.Error(t, err)
			assert.True(t, api.IsConfigurationError(err))
		})
	}
}

func TestDeployFailsWhenSetupFails(t *testing.T) {
	hooks := &recordingHooks{setupErr: fmt.Errorf("provisioning timed out")}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))

	err := coordinator.Deploy(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsDeploymentError(err))
	assert.Contains(t, err.Error(), "provisioning timed out")

	// The coordinator stays undeployed: devices are not resolvable and
	// release must not reach the release hook.
	_, err = coordinator.DeviceManager()
	assert.True(t, api.IsNotInitialized(err))

	coordinator.Release(testbed.DeploymentOutcome{Status: "failed"})
	assert.Equal(t, 0, countCalls(hooks.recorded(), "release-devices"))
}

func TestReleaseBeforeDeployIsNoOp(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, testbed.RuntimeOptions{})

	coordinator.Release(testbed.DeploymentOutcome{Status: "success"})
	assert.Empty(t, hooks.recorded())
}

func TestReleaseSwallowsErrors(t *testing.T) {
	hooks := &recordingHooks{releaseErr: fmt.Errorf("lab API unreachable")}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))

	require.NoError(t, coordinator.Deploy(context.Background()))
	coordinator.Release(testbed.DeploymentOutcome{Status: "failed", Exception: "test crashed"})

	assert.Equal(t, 1, countCalls(hooks.recorded(), "release-devices"))

	// A second release does not reach the hook again.
	coordinator.Release(testbed.DeploymentOutcome{Status: "failed"})
	assert.Equal(t, 1, countCalls(hooks.recorded(), "release-devices"))
}

func TestCheckTestEnvironmentMatch(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	tags := []string{
		"smoke",
		`env_req:{"environment_def": {"board": {"eRouter_Provisioning_mode": "dual"}}}`,
	}
	require.NoError(t, coordinator.CheckTestEnvironment(tags))
	assert.Len(t, hooks.contingencyReqs, 1)
}

func TestCheckTestEnvironmentMismatch(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	err := coordinator.CheckTestEnvironment([]string{"env_req:ipv6_only"})
	require.Error(t, err)
	assert.True(t, api.IsEnvironmentMismatch(err))
}

func TestCheckTestEnvironmentPreset(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	require.NoError(t, coordinator.CheckTestEnvironment([]string{"env_req:dual_stack"}))
}

func TestCheckTestEnvironmentContingencyFailure(t *testing.T) {
	hooks := &recordingHooks{contingencyErr: fmt.Errorf("ACS not reachable")}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	err := coordinator.CheckTestEnvironment([]string{"env_req:dual_stack"})
	assert.ErrorContains(t, err, "ACS not reachable")
}

func TestCheckTestEnvironmentSkipContingencyDisablesGate(t *testing.T) {
	hooks := &recordingHooks{contingencyErr: fmt.Errorf("should not run")}
	opts := writeConfigs(t, dualStackEnv)
	opts.SkipContingencyChecks = true
	coordinator := NewCoordinator(hooks, opts)
	require.NoError(t, coordinator.Deploy(context.Background()))

	// The whole gate is disabled: even a mismatched requirement runs.
	require.NoError(t, coordinator.CheckTestEnvironment([]string{"env_req:ipv6_only"}))
	assert.Empty(t, hooks.contingencyReqs)
}

func TestCheckTestEnvironmentNoRequirements(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	require.NoError(t, coordinator.CheckTestEnvironment([]string{"smoke", "regression"}))
	assert.Empty(t, hooks.contingencyReqs)
}

func TestPresetsCopy(t *testing.T) {
	first := Presets()
	first["dual_stack"] = nil
	assert.NotNil(t, Presets()["dual_stack"])
	assert.Len(t, Presets(), 3)
}

func TestPresetTreesUseOptionLists(t *testing.T) {
	tree := Presets()["dual_stack"].(map[string]interface{})
	board := tree["environment_def"].(map[string]interface{})["board"].(map[string]interface{})
	assert.Equal(t, []interface{}{"dual"}, board["eRouter_Provisioning_mode"])
}

func TestRequirementsFromTags(t *testing.T) {
	// Only the first env_req tag counts.
	requirements, err := RequirementsFromTags([]string{
		"smoke",
		`env_req:{"environment_def": {"board": {"model": "F5685"}}}`,
		"env_req:ipv4_only",
	})
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	assert.Contains(t, fmt.Sprintf("%v", requirements[0]), "F5685")

	_, err = RequirementsFromTags([]string{"env_req:{not json"})
	assert.ErrorContains(t, err, "invalid environment requirement")
}

func TestRequirementsFromTagsUnknownPreset(t *testing.T) {
	requirements, err := RequirementsFromTags([]string{"env_req:no_such_preset"})
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	assert.Equal(t, map[string]interface{}{}, requirements[0])
}

func TestCheckTestEnvironmentUnknownPresetRuns(t *testing.T) {
	hooks := &recordingHooks{}
	coordinator := NewCoordinator(hooks, writeConfigs(t, dualStackEnv))
	require.NoError(t, coordinator.Deploy(context.Background()))

	// The empty requirement matches any environment, so the test runs.
	require.NoError(t, coordinator.CheckTestEnvironment([]string{"env_req:no_such_preset"}))
	assert.Len(t, hooks.contingencyReqs, 1)
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, call := range calls {
		if call == name {
			n++
		}
	}
	return n
}
