package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("board_name")
	assert.Equal(t, "board_name is required but not provided", err.Error())
	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsConfigurationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsConfigurationError(fmt.Errorf("plain error")))
}

func TestDeploymentErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("device unreachable")
	err := NewDeploymentError("register-devices", cause)

	assert.Contains(t, err.Error(), "register-devices")
	assert.Contains(t, err.Error(), "device unreachable")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDeploymentError(err))
}

func TestUnknownKeywordErrorEchoesName(t *testing.T) {
	err := NewUnknownKeywordError("Nbi Frobnicate")
	assert.Equal(t, "unknown keyword: Nbi Frobnicate", err.Error())
	assert.True(t, IsUnknownKeyword(err))
	assert.False(t, IsUnknownKeyword(fmt.Errorf("unknown keyword: x")))
}

func TestInvalidRequirementError(t *testing.T) {
	err := NewInvalidRequirementError([]string{"contains_fuzzy"})
	assert.Contains(t, err.Error(), "contains_fuzzy")
	assert.True(t, IsInvalidRequirement(err))
}

func TestEnvironmentMismatchError(t *testing.T) {
	req := map[string]interface{}{"board": "abc"}
	err := NewEnvironmentMismatchError(req)
	assert.Contains(t, err.Error(), "environment mismatch")
	assert.True(t, IsEnvironmentMismatch(err))
}

func TestNotInitializedError(t *testing.T) {
	err := NewNotInitializedError("device manager")
	assert.Contains(t, err.Error(), "device manager")
	assert.True(t, IsNotInitialized(err))
}
