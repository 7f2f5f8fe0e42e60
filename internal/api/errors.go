package api

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError indicates a required deployment input is missing or
// invalid. This is fatal and aborts the run before any device contact.
type ConfigurationError struct {
	// Option is the name of the missing or invalid option (e.g., "board_name")
	Option string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is required but not provided", e.Option)
}

// NewConfigurationError creates a ConfigurationError for a missing option.
func NewConfigurationError(option string) *ConfigurationError {
	return &ConfigurationError{Option: option}
}

// IsConfigurationError checks if an error is a ConfigurationError using error unwrapping.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// DeploymentError indicates a lifecycle hook failed during deployment.
// Deployment is all-or-nothing: this error propagates to the caller and
// normally aborts the run.
type DeploymentError struct {
	// Hook is the lifecycle hook that failed (e.g., "register-devices")
	Hook string

	// Err is the underlying hook failure
	Err error
}

// Error implements the error interface for DeploymentError.
func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment failed at %s hook: %v", e.Hook, e.Err)
}

// Unwrap exposes the underlying hook error for errors.Is/errors.As chains.
func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// NewDeploymentError wraps a hook failure in a DeploymentError.
func NewDeploymentError(hook string, err error) *DeploymentError {
	return &DeploymentError{Hook: hook, Err: err}
}

// IsDeploymentError checks if an error is a DeploymentError using error unwrapping.
func IsDeploymentError(err error) bool {
	var depErr *DeploymentError
	return errors.As(err, &depErr)
}

// UnknownKeywordError indicates a requested keyword name is not discoverable.
// This is fatal to that single invocation, not to the run. The requested name
// is echoed back verbatim.
type UnknownKeywordError struct {
	// Name is the keyword name exactly as requested by the caller
	Name string
}

// Error implements the error interface for UnknownKeywordError.
func (e *UnknownKeywordError) Error() string {
	return fmt.Sprintf("unknown keyword: %s", e.Name)
}

// NewUnknownKeywordError creates an UnknownKeywordError for the requested name.
func NewUnknownKeywordError(name string) *UnknownKeywordError {
	return &UnknownKeywordError{Name: name}
}

// IsUnknownKeyword checks if an error is an UnknownKeywordError using error unwrapping.
func IsUnknownKeyword(err error) bool {
	var unknownErr *UnknownKeywordError
	return errors.As(err, &unknownErr)
}

// InvalidRequirementError indicates a malformed environment requirement, such
// as an unrecognized contains-check key. Fatal to that single requirement
// evaluation only.
type InvalidRequirementError struct {
	// Checks lists the offending check keys
	Checks []string
}

// Error implements the error interface for InvalidRequirementError.
func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("invalid contains checks: {%s}", strings.Join(e.Checks, ", "))
}

// NewInvalidRequirementError creates an InvalidRequirementError naming the
// unrecognized check keys.
func NewInvalidRequirementError(checks []string) *InvalidRequirementError {
	return &InvalidRequirementError{Checks: checks}
}

// IsInvalidRequirement checks if an error is an InvalidRequirementError using error unwrapping.
func IsInvalidRequirement(err error) bool {
	var reqErr *InvalidRequirementError
	return errors.As(err, &reqErr)
}

// EnvironmentMismatchError indicates a test's environment requirement is
// legitimately unmet in the current lab. The listener converts it into a skip
// signal rather than a failure.
type EnvironmentMismatchError struct {
	// Requirement is the unmet requirement, rendered into the message
	Requirement interface{}
}

// Error implements the error interface for EnvironmentMismatchError.
func (e *EnvironmentMismatchError) Error() string {
	return fmt.Sprintf("environment mismatch. Required: %v", e.Requirement)
}

// NewEnvironmentMismatchError creates an EnvironmentMismatchError for the requirement.
func NewEnvironmentMismatchError(requirement interface{}) *EnvironmentMismatchError {
	return &EnvironmentMismatchError{Requirement: requirement}
}

// IsEnvironmentMismatch checks if an error is an EnvironmentMismatchError using error unwrapping.
func IsEnvironmentMismatch(err error) bool {
	var mismatchErr *EnvironmentMismatchError
	return errors.As(err, &mismatchErr)
}

// NotInitializedError indicates the device manager or testbed config was
// accessed before a successful deployment.
type NotInitializedError struct {
	// Resource names what was accessed (e.g., "device manager")
	Resource string
}

// Error implements the error interface for NotInitializedError.
func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s not initialized. Devices not yet deployed", e.Resource)
}

// NewNotInitializedError creates a NotInitializedError for the resource.
func NewNotInitializedError(resource string) *NotInitializedError {
	return &NotInitializedError{Resource: resource}
}

// IsNotInitialized checks if an error is a NotInitializedError using error unwrapping.
func IsNotInitialized(err error) bool {
	var initErr *NotInitializedError
	return errors.As(err, &initErr)
}
