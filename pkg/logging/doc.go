// Package logging provides a structured logging system for bfrobot with
// unified log handling across all subsystems.
//
// This package implements a thin layer over Go's standard slog package,
// providing consistent logging behavior with structured output and level
// filtering.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Structured Logging
// All log entries include:
//   - Timestamp
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage
//
//	import "bfrobot/pkg/logging"
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Lifecycle", "Deploying devices for board %s", boardName)
//	logging.Debug("Keyword", "Discovered %d keywords", count)
//	logging.Error("Listener", err, "Failed to release devices")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Lifecycle**: Device deployment and release
//   - **Keyword**: Keyword discovery and dispatch
//   - **Listener**: Host engine lifecycle callbacks
//   - **Bridge**: MCP tool exposure
//   - **ConfigLoader**: Configuration and variable loading
//   - **CLI**: Command-line entry points
package logging
