// Package envmatch decides whether a test's environment requirement is
// satisfied by the current testbed environment.
//
// Requirements and environments are untyped structural trees (nested maps,
// slices, and scalars, typically decoded from JSON). The matcher implements
// subset semantics: every key the requirement names must match in the
// environment, extra environment keys are ignored, a nil requirement is a
// wildcard, and a slice in the requirement is treated as a set of allowed
// options.
//
// The case ordering below is load-bearing. Several cases can structurally
// apply to the same pair (for example a list of single-key maps against a
// string), and existing requirement trees depend on the established
// precedence, so the cases are evaluated in exactly this order.
package envmatch

import (
	"reflect"
	"regexp"
	"strings"

	"bfrobot/internal/api"
)

// containsChecks maps the closed set of string-predicate check keys to their
// implementations. The value is the pattern or substring from the
// requirement; env is the environment string under test.
var containsChecks = map[string]func(value, env string) (bool, error){
	"contains_exact": func(value, env string) (bool, error) {
		return strings.Contains(env, value), nil
	},
	"not_contains_exact": func(value, env string) (bool, error) {
		return !strings.Contains(env, value), nil
	},
	"contains_regex": func(value, env string) (bool, error) {
		return regexp.MatchString(value, env)
	},
	"not_contains_regex": func(value, env string) (bool, error) {
		ok, err := regexp.MatchString(value, env)
		return !ok, err
	},
}

// Matches reports whether the test environment requirement is a subset of
// the given environment.
//
// A nil requirement is a wildcard and matches anything. A slice requirement
// against a scalar environment is treated as a list of allowed options. A
// slice requirement whose elements are all single-key maps, matched against
// a string environment, is interpreted as a set of contains checks
// (contains_exact, not_contains_exact, contains_regex, not_contains_regex).
//
// The only error condition is a malformed contains check: an unrecognized
// check key yields an InvalidRequirementError naming the offending keys.
// Absence of a match is false, not an error.
func Matches(requirement, environment interface{}) (bool, error) {
	switch {
	case requirement == nil:
		return true, nil

	case isMap(requirement) && isMap(environment):
		reqMap := requirement.(map[string]interface{})
		envMap := environment.(map[string]interface{})
		all := true
		for key, value := range reqMap {
			ok, err := Matches(value, envMap[key])
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}

	case isList(requirement) && isScalar(environment):
		if containsValue(requirement.([]interface{}), environment) {
			return true, nil
		}

	case isList(environment) && isScalar(requirement):
		if containsValue(environment.([]interface{}), requirement) {
			return true, nil
		}

	case isMap(requirement) && isList(environment):
		for _, item := range environment.([]interface{}) {
			ok, err := Matches(requirement, item)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}

	case isList(requirement) && isList(environment):
		all := true
		for _, item := range requirement.([]interface{}) {
			ok, err := Matches(item, environment)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}

	case isList(requirement) && isMap(environment):
		for _, item := range requirement.([]interface{}) {
			ok, err := Matches(item, environment)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}

	// A structural case that applied but did not match still falls through
	// here: plain equality is tried before the contains-check
	// interpretation, matching the established precedence.
	if reflect.DeepEqual(requirement, environment) {
		return true, nil
	}

	if envStr, ok := environment.(string); ok && isList(requirement) {
		if checks, ok := asContainsChecks(requirement.([]interface{})); ok {
			return performContainsChecks(checks, envStr)
		}
	}

	return false, nil
}

// asContainsChecks reports whether every element of the slice is a
// single-key map, returning the checks in order if so. An empty slice
// qualifies vacuously, so an empty requirement list against a string
// environment matches.
func asContainsChecks(items []interface{}) ([]map[string]interface{}, bool) {
	checks := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok || len(m) != 1 {
			return nil, false
		}
		checks = append(checks, m)
	}
	return checks, true
}

// performContainsChecks applies every check against the environment string
// and requires all to pass. Unrecognized check keys fail the whole
// evaluation with an InvalidRequirementError.
func performContainsChecks(checks []map[string]interface{}, env string) (bool, error) {
	var invalid []string
	for _, check := range checks {
		for key := range check {
			if _, known := containsChecks[key]; !known {
				invalid = append(invalid, key)
			}
		}
	}
	if len(invalid) > 0 {
		return false, api.NewInvalidRequirementError(invalid)
	}

	for _, check := range checks {
		for key, raw := range check {
			value, ok := raw.(string)
			if !ok {
				return false, nil
			}
			passed, err := containsChecks[key](value, env)
			if err != nil || !passed {
				return false, err
			}
		}
	}
	return true, nil
}

func isMap(v interface{}) bool {
	_, ok := v.(map[string]interface{})
	return ok
}

func isList(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

// isScalar reports whether v is a comparable leaf value. JSON decoding
// produces string, bool, and float64; int variants cover trees built in
// code.
func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return true
	default:
		return false
	}
}

func containsValue(list []interface{}, value interface{}) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}

