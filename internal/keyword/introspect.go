package keyword

import (
	"fmt"
	"reflect"
	"sort"

	"bfrobot/internal/naming"
	"bfrobot/pkg/logging"
)

// Discover runs one discovery pass over the scope and returns the action
// map keyed by normalized keyword name.
//
// Sources are walked in declared order. A source that fails to resolve is
// logged and skipped; discovery as a whole never fails because of one bad
// source. Within a source, members are visited in sorted name order so the
// pass is deterministic. Later actions overwrite earlier ones on
// case-insensitive name collisions.
func Discover(scope Scope) map[string]*Action {
	actions := make(map[string]*Action)

	for _, source := range scope.Sources {
		if scope.ExcludedSources[source.Name()] {
			continue
		}

		resolved, err := source.Resolve()
		if err != nil {
			logging.Warn("Keyword", "Could not resolve source %s: %v", source.Name(), err)
			continue
		}
		if resolved == nil {
			logging.Debug("Keyword", "Source %s resolved to nothing, skipping", source.Name())
			continue
		}

		switch src := resolved.(type) {
		case *ModuleSource:
			discoverModule(src, &scope, actions)
		default:
			prefix, docs, args := objectSourceMeta(source)
			discoverObject(source.Name(), resolved, prefix, docs, args, &scope, actions, 0)
		}
	}

	logging.Info("Keyword", "Discovered %d keywords from %d sources", len(actions), len(scope.Sources))
	return actions
}

// objectSourceMeta extracts the prefix and metadata overrides carried by
// object-style sources.
func objectSourceMeta(source Source) (prefix string, docs map[string]string, args map[string][]string) {
	switch s := source.(type) {
	case *ObjectSource:
		return s.Prefix, s.Docs, s.Args
	case *LazyObjectSource:
		return s.Prefix, s.Docs, s.Args
	default:
		return "", nil, nil
	}
}

// discoverModule registers every includable function of a module source
// under the module's keyword prefix.
func discoverModule(src *ModuleSource, scope *Scope, actions map[string]*Action) {
	prefix := naming.ModulePrefix(src.ModuleName)

	names := make([]string, 0, len(src.Funcs))
	for name := range src.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if scope.excludedByName(name) {
			continue
		}

		callable := reflect.ValueOf(src.Funcs[name])
		if !isCallable(callable) {
			// Types and non-function values are never actions.
			continue
		}

		keywordName := naming.ToKeyword(name, prefix)
		doc := src.Docs[name]
		if doc == "" {
			doc = fmt.Sprintf("Use case: %s.%s", src.ModuleName, name)
		}

		argSpec, types := src.Args[name], map[string]string(nil)
		if argSpec == nil {
			argSpec, types = reflectArgSpec(callable)
		}

		actions[NormalizeName(keywordName)] = &Action{
			Name:           keywordName,
			Callable:       callable,
			OriginPath:     []string{name},
			SourceName:     src.ModuleName,
			Documentation:  doc,
			ArgSpec:        argSpec,
			Tags:           []string{"use_case:" + src.ModuleName},
			Types:          types,
			SourceLocation: sourceLocation(callable),
		}
	}
}

// discoverObject registers the methods of an object, recursing one level
// into non-scalar component fields (nbi, gui, sw, hw style sub-objects).
func discoverObject(sourceName string, obj interface{}, prefix string, docs map[string]string, args map[string][]string, scope *Scope, actions map[string]*Action, depth int) {
	members := collectMembers(obj)

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if scope.excludedByName(name) {
			continue
		}

		member := members[name]
		switch {
		case member.isType:
			// Type objects are never actions, even though their value may
			// look callable through a constructor.

		case isCallable(member.value):
			registerObjectAction(sourceName, name, member, prefix, docs, args, actions)

		case depth == 0 && isComponent(member.value):
			componentPrefix := naming.ToKeyword(name, prefix)
			discoverComponent(sourceName, name, member.value.Interface(), componentPrefix, docs, args, scope, actions)
		}
	}
}

// discoverComponent registers the methods of a nested component under an
// extended prefix. Components do not recurse further; addressing is at most
// two levels deep ("Nbi GPV").
func discoverComponent(sourceName, componentName string, component interface{}, prefix string, docs map[string]string, args map[string][]string, scope *Scope, actions map[string]*Action) {
	members := collectMembers(component)

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if scope.excludedByName(name) {
			continue
		}

		member := members[name]
		if member.isType || !isCallable(member.value) {
			continue
		}

		member.path = []string{componentName, name}
		registerObjectAction(sourceName, name, member, prefix, docs, args, actions)
	}
}

// registerObjectAction builds the action for an object member and stores it
// under its normalized keyword name, overwriting any earlier entry.
func registerObjectAction(sourceName, internalName string, member member, prefix string, docs map[string]string, args map[string][]string, actions map[string]*Action) {
	keywordName := naming.ToKeyword(internalName, prefix)

	path := member.path
	if path == nil {
		path = []string{internalName}
	}

	doc := docs[internalName]
	if doc == "" {
		doc = "No documentation available."
	}

	argSpec, types := args[internalName], map[string]string(nil)
	if argSpec == nil {
		argSpec, types = reflectArgSpec(member.value)
	}

	actions[NormalizeName(keywordName)] = &Action{
		Name:           keywordName,
		Callable:       member.value,
		OriginPath:     path,
		SourceName:     sourceName,
		Documentation:  doc,
		ArgSpec:        argSpec,
		Tags:           []string{sourceName},
		Types:          types,
		SourceLocation: sourceLocation(member.value),
	}
}

// member is one introspected attribute of an object: a bound method, a
// func-valued field, or a candidate component.
type member struct {
	value  reflect.Value
	isType bool
	path   []string
}

// collectMembers gathers the exported methods and fields of an object,
// keyed by internal (lowercase_with_separators) name. Bound methods win
// over fields with the same internal name.
func collectMembers(obj interface{}) map[string]member {
	members := make(map[string]member)

	v := reflect.ValueOf(obj)
	if !v.IsValid() {
		return members
	}

	// Struct fields first so methods can shadow them.
	elem := v
	for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return members
		}
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		t := elem.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue // unexported
			}
			value := elem.Field(i)
			members[naming.FromGoName(field.Name)] = member{
				value:  value,
				isType: isTypeObject(value),
			}
		}
	}

	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		members[naming.FromGoName(m.Name)] = member{value: v.Method(i)}
	}

	return members
}

// isCallable reports whether a value is an invocable function. Type
// objects are handled separately and never count.
func isCallable(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Func && !v.IsNil()
}

// isTypeObject reports whether a field value holds a reflect.Type, the Go
// counterpart of a class object.
func isTypeObject(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() {
		return false
	}
	_, ok := v.Interface().(reflect.Type)
	return ok
}

// isComponent reports whether a field value is a non-scalar object whose
// methods should be discovered under an extended prefix.
func isComponent(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() {
		return false
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return isComponent(v.Elem())
	case reflect.Struct:
		return true
	default:
		// Scalars, slices, maps, and channels are not components.
		return false
	}
}
