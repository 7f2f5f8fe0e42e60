package keyword

// Source is one introspectable unit in a discovery scope: a live object
// whose methods become keywords, or a module of named functions.
type Source interface {
	// Name identifies the source for exclusion rules, tags, and logs.
	Name() string

	// Resolve returns the object or module to introspect. Resolution may
	// fail (device not yet deployed, module not registered); discovery logs
	// and skips a failed source rather than aborting.
	Resolve() (interface{}, error)
}

// ObjectSource exposes the methods of a bound object, plus the methods of
// its one-level-nested components, as keywords.
type ObjectSource struct {
	// SourceName identifies the source.
	SourceName string

	// Object is the live instance to introspect.
	Object interface{}

	// Prefix, when non-empty, is prepended to every keyword name derived
	// from this source (e.g., "Dm" for device-manager methods).
	Prefix string

	// Docs optionally maps internal member names to documentation text.
	Docs map[string]string

	// Args optionally maps internal member names to argument specs,
	// overriding the reflected signature.
	Args map[string][]string
}

func (s *ObjectSource) Name() string { return s.SourceName }

func (s *ObjectSource) Resolve() (interface{}, error) { return s.Object, nil }

// LazyObjectSource is an ObjectSource whose object is produced on demand,
// for targets that only exist after deployment (a device resolved through
// the device manager). Discovery calls ResolveFn once per pass; the router
// calls it again per invocation when re-resolution is required.
type LazyObjectSource struct {
	SourceName string
	Prefix     string
	ResolveFn  func() (interface{}, error)
	Docs       map[string]string
	Args       map[string][]string
}

func (s *LazyObjectSource) Name() string { return s.SourceName }

func (s *LazyObjectSource) Resolve() (interface{}, error) { return s.ResolveFn() }

// ModuleSource exposes a module of named functions as keywords under a
// module-derived prefix ("acs" functions become "Acs ..." keywords). The
// function table is keyed by internal names (lowercase_with_separators).
type ModuleSource struct {
	// ModuleName is the module's internal name (e.g., "acs",
	// "device_getters").
	ModuleName string

	// Funcs maps internal function names to callables.
	Funcs map[string]interface{}

	// Docs optionally maps internal function names to documentation text.
	Docs map[string]string

	// Args optionally maps internal function names to argument specs.
	Args map[string][]string
}

func (s *ModuleSource) Name() string { return s.ModuleName }

func (s *ModuleSource) Resolve() (interface{}, error) { return s, nil }

// ModuleRegistry is an ordered collection of module sources. The device
// automation library registers its use-case modules here and the keyword
// layer receives the registry by injection; there is no process-global
// registration point.
type ModuleRegistry struct {
	modules []*ModuleSource
	byName  map[string]*ModuleSource
}

// NewModuleRegistry creates an empty module registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{byName: make(map[string]*ModuleSource)}
}

// Register adds a module source, replacing any module with the same name
// while preserving the original registration order.
func (r *ModuleRegistry) Register(module *ModuleSource) {
	if existing, ok := r.byName[module.ModuleName]; ok {
		for i, m := range r.modules {
			if m == existing {
				r.modules[i] = module
				break
			}
		}
	} else {
		r.modules = append(r.modules, module)
	}
	r.byName[module.ModuleName] = module
}

// Modules returns the registered modules in registration order.
func (r *ModuleRegistry) Modules() []*ModuleSource {
	out := make([]*ModuleSource, len(r.modules))
	copy(out, r.modules)
	return out
}

// Sources returns the registered modules as discovery sources, optionally
// excluding some by name.
func (r *ModuleRegistry) Sources(exclude ...string) []Source {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var sources []Source
	for _, module := range r.modules {
		if excluded[module.ModuleName] {
			continue
		}
		sources = append(sources, module)
	}
	return sources
}
