package lifecycle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// envReqPrefix marks a test tag as carrying an environment requirement.
// The payload after the prefix is either a preset name or a JSON document.
const envReqPrefix = "env_req:"

// presets are shorthand requirements for the common provisioning modes, so
// suites can tag tests env_req:dual_stack instead of spelling the JSON out.
var presets = map[string]interface{}{
	"dual_stack": provisioningMode("dual"),
	"ipv4_only":  provisioningMode("ipv4"),
	"ipv6_only":  provisioningMode("ipv6"),
}

// provisioningMode wraps the mode in an option list, the shape suites see
// when the preset trees are exported as variables.
func provisioningMode(mode string) interface{} {
	return map[string]interface{}{
		"environment_def": map[string]interface{}{
			"board": map[string]interface{}{
				"eRouter_Provisioning_mode": []interface{}{mode},
			},
		},
	}
}

// Presets returns a copy of the preset requirement table, so runs can
// export the trees as variables for suites to inspect.
func Presets() map[string]interface{} {
	copied := make(map[string]interface{}, len(presets))
	for name, tree := range presets {
		copied[name] = tree
	}
	return copied
}

// RequirementsFromTags extracts the environment requirement from a test's
// tags. Tags without the env_req: prefix are ignored, and only the first
// env_req tag counts; further ones are not evaluated.
//
// A payload that starts a JSON document is parsed as one (malformed JSON
// is an error). Anything else is a preset name; an unknown preset resolves
// to the empty requirement, which matches every environment, so a typoed
// preset runs the test instead of failing it.
func RequirementsFromTags(tags []string) ([]interface{}, error) {
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if !strings.HasPrefix(strings.ToLower(trimmed), envReqPrefix) {
			continue
		}

		payload := strings.TrimSpace(trimmed[len(envReqPrefix):])
		if payload == "" {
			continue
		}

		if strings.HasPrefix(payload, "{") || strings.HasPrefix(payload, "[") {
			var requirement interface{}
			if err := json.Unmarshal([]byte(payload), &requirement); err != nil {
				return nil, fmt.Errorf("invalid environment requirement %q: %w", tag, err)
			}
			return []interface{}{requirement}, nil
		}

		preset, ok := presets[strings.ToLower(payload)]
		if !ok {
			preset = map[string]interface{}{}
		}
		return []interface{}{preset}, nil
	}
	return nil, nil
}
