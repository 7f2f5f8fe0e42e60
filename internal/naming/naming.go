// Package naming converts between the wrapped device library's internal
// identifier style (lowercase_with_separators, with a handful of known
// all-uppercase protocol abbreviations) and the keyword display style
// exposed to test writers (Title Cased, space separated, optionally
// prefixed with a component label).
//
// The reverse conversion is a best-effort inverse tuned to the wrapped
// library's method naming conventions, not a general algorithm: method
// names with mixed-case segments outside the fixed abbreviation set do not
// round-trip losslessly.
package naming

import "strings"

// knownComponents is the closed set of component labels recognized as the
// first token of a keyword name. Matching is by the exact exposed spelling.
var knownComponents = map[string]struct{}{
	"Nbi":      {},
	"Gui":      {},
	"Sw":       {},
	"Hw":       {},
	"Console":  {},
	"Firewall": {},
}

// knownAbbreviations lists lowered method tokens that must be restored to
// upper case after the generic lowering pass. These are protocol operation
// names (TR-069 style) used by the wrapped library.
var knownAbbreviations = []string{"gpv", "spv", "gpn", "gpa", "spa", "rpc"}

// ToKeyword converts an internal method name to its exposed keyword name.
//
// The name is split on underscores and each word is title-cased unless the
// whole name is already all-uppercase, which preserves known abbreviations
// such as GPV and SPV as-is. If prefix is non-empty it is prepended with a
// separating space (e.g., ToKeyword("GPV", "Nbi") == "Nbi GPV").
func ToKeyword(methodName, prefix string) string {
	words := strings.Split(methodName, "_")
	titled := make([]string, 0, len(words))
	for _, word := range words {
		if word == strings.ToLower(word) {
			titled = append(titled, titleWord(word))
		} else {
			// Preserve words with existing upper-case letters (GPV, SPV).
			titled = append(titled, word)
		}
	}
	keyword := strings.Join(titled, " ")

	if prefix != "" {
		return prefix + " " + keyword
	}
	return keyword
}

// ToMethod converts a keyword name back to a component and internal method
// name.
//
// If the first token is one of the known component labels it is consumed
// and returned lower-cased as the component; the remaining tokens form the
// method name. Tokens are lower-cased and joined with underscores, then the
// fixed abbreviation set is restored to upper case, so
// ToMethod("Nbi GPV") == ("nbi", "GPV") and
// ToMethod("Get Seconds Uptime") == ("", "get_seconds_uptime").
func ToMethod(keywordName string) (component, methodName string) {
	parts := strings.Fields(keywordName)
	if len(parts) == 0 {
		return "", ""
	}

	if _, ok := knownComponents[parts[0]]; ok {
		component = strings.ToLower(parts[0])
		parts = parts[1:]
	}

	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	methodName = strings.Join(lowered, "_")

	for _, abbrev := range knownAbbreviations {
		methodName = strings.ReplaceAll(methodName, abbrev, strings.ToUpper(abbrev))
	}

	return component, methodName
}

// ModulePrefix converts a module name to its keyword prefix: underscores
// become word boundaries and the result is title-cased without separators,
// so "device_getters" becomes "DeviceGetters" and "acs" becomes "Acs".
func ModulePrefix(moduleName string) string {
	words := strings.Split(moduleName, "_")
	var b strings.Builder
	for _, word := range words {
		b.WriteString(titleWord(word))
	}
	return b.String()
}

// FromGoName converts an exported Go method name to the internal
// lowercase_with_separators style used for keyword derivation. All-upper
// names (protocol abbreviations) are preserved unchanged; otherwise word
// boundaries are inserted before upper-case letters and the result is
// lowered, so "GetSecondsUptime" becomes "get_seconds_uptime".
func FromGoName(goName string) string {
	if goName == strings.ToUpper(goName) && goName != strings.ToLower(goName) {
		return goName
	}

	var b strings.Builder
	for i, r := range goName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
