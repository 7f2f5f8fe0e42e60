package listener

import (
	"context"
	"errors"
	"fmt"

	"bfrobot/internal/api"
	"bfrobot/internal/lifecycle"
	"bfrobot/internal/testbed"
	"bfrobot/pkg/logging"
)

// SuiteInfo describes a suite callback. Parent is nil for the root suite.
type SuiteInfo struct {
	Name     string
	Parent   *SuiteInfo
	Metadata map[string]string
}

// TestInfo describes a test callback.
type TestInfo struct {
	Name string
	Tags []string
}

// TestResult carries the outcome of a finished test.
type TestResult struct {
	Passed  bool
	Skipped bool
	Message string
}

// SkipExecution signals that a test should be skipped rather than failed.
// It is the translation of an environment mismatch into a framework
// decision.
type SkipExecution struct {
	Message string
}

func (e *SkipExecution) Error() string {
	return e.Message
}

// IsSkip reports whether an error is a skip signal.
func IsSkip(err error) bool {
	var skip *SkipExecution
	return errors.As(err, &skip)
}

// Listener ties the test run to the testbed lifecycle: it deploys on the
// root suite start, gates each test on its environment requirements, and
// releases on the root suite end.
type Listener struct {
	coordinator *lifecycle.Coordinator
	storage     *ContextStorage
	boardName   string

	failures int
	lastFail string
}

// New builds a listener from key=value arguments.
func New(hooks testbed.Hooks, args []string) (*Listener, error) {
	opts, err := ParseOptions(args)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(hooks, opts), nil
}

// NewWithOptions builds a listener from already parsed options.
func NewWithOptions(hooks testbed.Hooks, opts testbed.RuntimeOptions) *Listener {
	return &Listener{
		coordinator: lifecycle.NewCoordinator(hooks, opts),
		storage:     NewContextStorage(),
		boardName:   opts.BoardName,
	}
}

// Coordinator exposes the lifecycle coordinator so keyword sources can
// resolve the device manager lazily.
func (l *Listener) Coordinator() *lifecycle.Coordinator {
	return l.coordinator
}

// Storage returns the run-scoped context storage.
func (l *Listener) Storage() *ContextStorage {
	return l.storage
}

// StartSuite deploys the testbed when the root suite starts. Nested suites
// share the root deployment. Suite metadata is annotated with the
// deployment id so reports can be traced back to the testbed session.
func (l *Listener) StartSuite(ctx context.Context, suite *SuiteInfo) error {
	if suite.Parent != nil {
		return nil
	}

	logging.Info("Listener", "Root suite %s starting, deploying testbed", suite.Name)

	// Export the preset requirement trees so suites can read them back
	// through the context keywords.
	for name, tree := range lifecycle.Presets() {
		l.storage.Set("preset_"+name, tree)
	}

	err := l.coordinator.Deploy(ctx)

	if suite.Metadata != nil {
		suite.Metadata["Board Name"] = l.boardName
		if err != nil {
			suite.Metadata["Testbed"] = fmt.Sprintf("deployment failed: %v", err)
		} else {
			suite.Metadata["Testbed"] = "deployed"
			suite.Metadata["Deployment ID"] = l.coordinator.DeploymentID()
		}
	}
	return err
}

// StartTest gates a test on its environment requirement tags. A mismatch
// comes back as a SkipExecution; any other failure is a real error.
func (l *Listener) StartTest(test *TestInfo) error {
	err := l.coordinator.CheckTestEnvironment(test.Tags)
	if err == nil {
		return nil
	}

	if api.IsEnvironmentMismatch(err) {
		logging.Info("Listener", "Skipping %s: %v", test.Name, err)
		return &SkipExecution{Message: err.Error()}
	}
	return err
}

// EndTest records the outcome and clears test-scoped context entries.
func (l *Listener) EndTest(test *TestInfo, result TestResult) {
	l.storage.ClearTestLocal()

	if !result.Passed && !result.Skipped {
		l.failures++
		l.lastFail = fmt.Sprintf("%s: %s", test.Name, result.Message)
	}
}

// EndSuite releases the testbed when the root suite ends. The recorded
// outcome reflects whether any test failed.
func (l *Listener) EndSuite(suite *SuiteInfo) {
	if suite.Parent != nil {
		return
	}

	outcome := testbed.DeploymentOutcome{Status: "success"}
	if l.failures > 0 {
		outcome.Status = "failed"
		outcome.Exception = l.lastFail
	}
	l.coordinator.Release(outcome)
}
