package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"bfrobot/internal/api"
	"bfrobot/internal/variables"
	"bfrobot/pkg/logging"
)

// runOptions collects the flags of the run command.
type runOptions struct {
	boardName             string
	envConfig             string
	inventoryConfig       string
	skipBoot              bool
	skipContingencyChecks bool
	saveConsoleLogs       string
	legacy                bool
	ignoreDevices         []string

	runner       string
	variableFile string
}

// newRunCmd creates the command that wraps the test runner: it validates
// the testbed options, composes the listener argument, and hands the
// remaining arguments through to the runner untouched.
func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- [runner arguments]",
		Short: "Run a test suite with the testbed lifecycle attached",
		Long: `Run invokes the test runner with the bfrobot listener attached, so the
testbed is deployed before the first suite and released after the last one.
Arguments after -- are passed to the runner unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.boardName, "board-name", "", "Name of the board to deploy (required)")
	cmd.Flags().StringVar(&opts.envConfig, "env-config", "", "Path to the environment config JSON (required)")
	cmd.Flags().StringVar(&opts.inventoryConfig, "inventory-config", "", "Path to the inventory config JSON (required)")
	cmd.Flags().BoolVar(&opts.skipBoot, "skip-boot", false, "Skip booting the devices during deployment")
	cmd.Flags().BoolVar(&opts.skipContingencyChecks, "skip-contingency-checks", false, "Skip per-test contingency checks")
	cmd.Flags().StringVar(&opts.saveConsoleLogs, "save-console-logs", "", "Directory to save device console logs to")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Enable legacy device support")
	cmd.Flags().StringSliceVar(&opts.ignoreDevices, "ignore-devices", nil, "Device names to leave out of the deployment")
	cmd.Flags().StringVar(&opts.runner, "runner", "robot", "Test runner executable to invoke")
	cmd.Flags().StringVar(&opts.variableFile, "variable-file", "", "YAML file with option defaults")

	return cmd
}

func runSuite(opts *runOptions, passthrough []string) error {
	if err := applyVariableDefaults(opts); err != nil {
		return err
	}
	if err := validateRunOptions(opts); err != nil {
		return err
	}

	listenerArg := composeListenerArg(opts)
	args := append([]string{"--listener", listenerArg}, passthrough...)

	logging.Info("CLI", "Invoking %s with listener %s", opts.runner, listenerArg)

	runner := exec.Command(opts.runner, args...)
	runner.Stdin = os.Stdin
	runner.Stdout = os.Stdout
	runner.Stderr = os.Stderr
	if err := runner.Run(); err != nil {
		return fmt.Errorf("test runner failed: %w", err)
	}
	return nil
}

// applyVariableDefaults fills unset flags from the variable file and the
// BOARDFARM_ environment, so lab runners can keep the per-board values out
// of the command line.
func applyVariableDefaults(opts *runOptions) error {
	resolver := variables.NewResolver(nil)
	if opts.variableFile != "" {
		if err := resolver.LoadFile(opts.variableFile); err != nil {
			return err
		}
	}

	if opts.boardName == "" {
		opts.boardName = resolver.GetString("board_name", "")
	}
	if opts.envConfig == "" {
		opts.envConfig = resolver.GetString("env_config", "")
	}
	if opts.inventoryConfig == "" {
		opts.inventoryConfig = resolver.GetString("inventory_config", "")
	}
	return nil
}

func validateRunOptions(opts *runOptions) error {
	if opts.boardName == "" {
		return api.NewConfigurationError("board-name")
	}
	if opts.envConfig == "" {
		return api.NewConfigurationError("env-config")
	}
	if opts.inventoryConfig == "" {
		return api.NewConfigurationError("inventory-config")
	}

	for _, path := range []string{opts.envConfig, opts.inventoryConfig} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config file not readable: %w", err)
		}
	}
	return nil
}

// composeListenerArg renders the runtime options as the listener argument
// string the runner passes back to the listener at import time.
func composeListenerArg(opts *runOptions) string {
	parts := []string{
		"BFRobot",
		"board_name=" + opts.boardName,
		"env_config=" + opts.envConfig,
		"inventory_config=" + opts.inventoryConfig,
	}
	if opts.skipBoot {
		parts = append(parts, "skip_boot=true")
	}
	if opts.skipContingencyChecks {
		parts = append(parts, "skip_contingency_checks=true")
	}
	if opts.saveConsoleLogs != "" {
		parts = append(parts, "save_console_logs="+opts.saveConsoleLogs)
	}
	if opts.legacy {
		parts = append(parts, "legacy=true")
	}
	if len(opts.ignoreDevices) > 0 {
		parts = append(parts, "ignore_devices="+strings.Join(opts.ignoreDevices, ","))
	}
	return strings.Join(parts, ":")
}
