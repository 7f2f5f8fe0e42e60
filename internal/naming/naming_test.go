package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKeyword(t *testing.T) {
	tests := []struct {
		methodName string
		prefix     string
		expected   string
	}{
		{"get_uptime", "", "Get Uptime"},
		{"get_seconds_uptime", "", "Get Seconds Uptime"},
		{"GPV", "", "GPV"},
		{"GPV", "Nbi", "Nbi GPV"},
		{"get_cpu_usage", "UseCases", "UseCases Get Cpu Usage"},
		{"reboot", "", "Reboot"},
		{"factory_reset", "Sw", "Sw Factory Reset"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToKeyword(tt.methodName, tt.prefix))
		})
	}
}

func TestToMethod(t *testing.T) {
	tests := []struct {
		keyword           string
		expectedComponent string
		expectedMethod    string
	}{
		{"Get Uptime", "", "get_uptime"},
		{"Nbi GPV", "nbi", "GPV"},
		{"Nbi SPV", "nbi", "SPV"},
		{"Gui Login", "gui", "login"},
		{"Sw Factory Reset", "sw", "factory_reset"},
		{"Console Execute Command", "console", "execute_command"},
		{"Get Seconds Uptime", "", "get_seconds_uptime"},
		{"Firewall Add Rule", "firewall", "add_rule"},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			component, method := ToMethod(tt.keyword)
			assert.Equal(t, tt.expectedComponent, component)
			assert.Equal(t, tt.expectedMethod, method)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	component, method := ToMethod(ToKeyword("get_uptime", ""))
	assert.Equal(t, "", component)
	assert.Equal(t, "get_uptime", method)

	component, method = ToMethod(ToKeyword("GPV", "Nbi"))
	assert.Equal(t, "nbi", component)
	assert.Equal(t, "GPV", method)
}

func TestAbbreviationRestoration(t *testing.T) {
	// The lowering pass destroys case; the fixed abbreviation list brings
	// the protocol operation names back.
	_, method := ToMethod("Nbi Gpv")
	assert.Equal(t, "GPV", method)

	_, method = ToMethod("Schedule Rpc Call")
	assert.Equal(t, "schedule_RPC_call", method)
}

func TestModulePrefix(t *testing.T) {
	assert.Equal(t, "Acs", ModulePrefix("acs"))
	assert.Equal(t, "DeviceGetters", ModulePrefix("device_getters"))
	assert.Equal(t, "ImageComparison", ModulePrefix("image_comparison"))
}

func TestFromGoName(t *testing.T) {
	tests := []struct {
		goName   string
		expected string
	}{
		{"GetSecondsUptime", "get_seconds_uptime"},
		{"Reboot", "reboot"},
		{"GPV", "GPV"},
		{"SPV", "SPV"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FromGoName(tt.goName))
	}
}
