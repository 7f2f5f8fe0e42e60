package listener

import (
	"fmt"
	"strings"

	"bfrobot/internal/testbed"
)

// ParseOptions turns listener arguments of the form key=value into runtime
// options. Keys are matched with dashes and underscores interchangeably
// (board-name and board_name are the same option), and boolean options
// accept the spellings true, 1, yes, and the empty value.
func ParseOptions(args []string) (testbed.RuntimeOptions, error) {
	var opts testbed.RuntimeOptions

	for _, arg := range args {
		key, value := splitOption(arg)
		switch normalizeKey(key) {
		case "board_name":
			opts.BoardName = value
		case "env_config":
			opts.EnvConfig = value
		case "inventory_config":
			opts.InventoryConfig = value
		case "skip_boot":
			opts.SkipBoot = parseBool(value)
		case "skip_contingency_checks":
			opts.SkipContingencyChecks = parseBool(value)
		case "save_console_logs":
			opts.SaveConsoleLogs = value
		case "legacy":
			opts.Legacy = parseBool(value)
		case "ignore_devices":
			opts.IgnoreDevices = splitList(value)
		default:
			return opts, fmt.Errorf("unknown option: %s", key)
		}
	}

	return opts, nil
}

func splitOption(arg string) (key, value string) {
	if i := strings.Index(arg, "="); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(strings.TrimLeft(key, "-"))
	return strings.ToLower(strings.ReplaceAll(key, "-", "_"))
}

// parseBool applies the boolean spellings of the option surface. An option
// given without a value counts as enabled.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "":
		return true
	default:
		return false
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
