package keyword

import (
	"reflect"
	"strings"
)

// Action represents one discovered keyword: a named, invocable operation
// backed by a callable on a device, component, or use-case module.
type Action struct {
	// Name is the exposed display name, unique case-insensitively within a
	// discovery scope (e.g., "Nbi GPV", "Acs Get Parameter Value").
	Name string

	// Callable is the underlying function or bound method, referenced (not
	// copied) from the owning library.
	Callable reflect.Value

	// OriginPath is the dotted path used to re-resolve the callable at call
	// time when the router is bound to a device type rather than a specific
	// instance (e.g., ["nbi", "GPV"]).
	OriginPath []string

	// SourceName identifies the discovery source this action came from.
	SourceName string

	// Documentation is computed once at registration and cached.
	Documentation string

	// ArgSpec lists the arguments in declaration order. Each entry is a
	// bare name (required) or "name=default" (optional).
	ArgSpec []string

	// Tags carries provenance labels (e.g., "use_case:acs").
	Tags []string

	// Types maps argument names to type hints when known.
	Types map[string]string

	// SourceLocation is a best-effort "file:line" for the callable, empty
	// when unavailable.
	SourceLocation string
}

// Scope configures one discovery pass: the ordered sources to introspect
// and the exclusion rules applied to their members.
//
// Exclusion-by-name and exclusion-by-prefix are checked before any
// callability or type classification, so an excluded member never registers
// even if callable.
type Scope struct {
	// Sources are introspected in declared order. Later sources overwrite
	// earlier ones on case-insensitive name collisions, so order matters.
	Sources []Source

	// ExcludedSources skips whole sources by name.
	ExcludedSources map[string]bool

	// ExcludedNames skips members by their internal name.
	ExcludedNames map[string]bool

	// ExcludedPrefixes skips members whose internal name starts with any of
	// these prefixes.
	ExcludedPrefixes []string
}

// DefaultScope returns a scope with the standard exclusion rules: private
// members (underscore prefix), common container accessors, and registry
// internals that must not be exposed as keywords.
func DefaultScope(sources ...Source) Scope {
	return Scope{
		Sources:         sources,
		ExcludedSources: map[string]bool{},
		ExcludedNames: map[string]bool{
			"string":            true,
			"go_string":         true,
			"error":             true,
			"items":             true,
			"keys":              true,
			"values":            true,
			"get":               true,
			"pop":               true,
			"update":            true,
			"copy":              true,
			"clear":             true,
			"register_device":   true,
			"unregister_device": true,
			"warn_deprecation":  true,
		},
		ExcludedPrefixes: []string{"_"},
	}
}

// excludedByName reports whether an internal member name is excluded by the
// scope's name or prefix rules.
func (s *Scope) excludedByName(name string) bool {
	if s.ExcludedNames[name] {
		return true
	}
	for _, prefix := range s.ExcludedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// NormalizeName produces the lookup key for a keyword name: lower-cased
// with whitespace collapsed to single spaces. User-facing names are never
// matched case-sensitively.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
