package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"bfrobot/internal/api"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeConfigError, getExitCode(api.NewConfigurationError("board-name")))
	assert.Equal(t, ExitCodeError, getExitCode(fmt.Errorf("anything else")))
}

func TestSetVersion(t *testing.T) {
	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", GetVersion())
}
