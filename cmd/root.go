package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"bfrobot/internal/api"
	"bfrobot/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates a missing or invalid testbed option.
	ExitCodeConfigError = 2
)

var debugLogging bool

// rootCmd represents the base command for the bfrobot application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bfrobot",
	Short: "Run device testbed suites through the test automation framework",
	Long: `bfrobot bridges the test automation framework and the device testbed
library: it deploys the testbed around a test run, discovers device methods
as keywords, and gates tests on their environment requirements.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if debugLogging {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bfrobot version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if api.IsConfigurationError(err) {
		return ExitCodeConfigError
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newKeywordsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
