package keyword

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"bfrobot/internal/api"
	"bfrobot/internal/naming"
	"bfrobot/internal/testbed"
	"bfrobot/pkg/logging"
)

// Generic dispatch keywords. They take the target by name at call time and
// skip the discovery registry entirely, so they work even for members that
// discovery excluded or that appeared after the pass ran.
const (
	callDeviceMethodKeyword    = "Call Device Method"
	callComponentMethodKeyword = "Call Component Method"
)

// Router owns the discovered action registry and dispatches keyword calls
// to their callables. Discovery runs lazily on first use and is memoized;
// the registry is stable for the lifetime of the router.
type Router struct {
	mu      sync.Mutex
	scope   Scope
	actions map[string]*Action

	// deviceManager supplies the current device registry for the generic
	// dispatch keywords and for per-call re-resolution of lazily bound
	// sources. It may return an error before deployment has happened.
	deviceManager func() (testbed.DeviceManager, error)
}

// NewRouter builds a router over the given scope. deviceManager may be nil
// when the generic dispatch keywords are not needed.
func NewRouter(scope Scope, deviceManager func() (testbed.DeviceManager, error)) *Router {
	return &Router{
		scope:         scope,
		deviceManager: deviceManager,
	}
}

// ensureDiscovered runs the discovery pass once.
func (r *Router) ensureDiscovered() map[string]*Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions == nil {
		r.actions = Discover(r.scope)
	}
	return r.actions
}

// Names returns all dispatchable keyword names in sorted order, including
// the generic dispatch keywords.
func (r *Router) Names() []string {
	actions := r.ensureDiscovered()

	names := make([]string, 0, len(actions)+2)
	for _, action := range actions {
		names = append(names, action.Name)
	}
	names = append(names, callDeviceMethodKeyword, callComponentMethodKeyword)
	sort.Strings(names)
	return names
}

// Lookup returns the discovered action for a keyword name, or an unknown
// keyword error echoing the requested name verbatim.
func (r *Router) Lookup(name string) (*Action, error) {
	actions := r.ensureDiscovered()
	action, ok := actions[NormalizeName(name)]
	if !ok {
		return nil, api.NewUnknownKeywordError(name)
	}
	return action, nil
}

// RunKeyword dispatches one keyword call.
func (r *Router) RunKeyword(ctx context.Context, name string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	switch NormalizeName(name) {
	case NormalizeName(callDeviceMethodKeyword):
		return r.callDeviceMethod(ctx, args, kwargs)
	case NormalizeName(callComponentMethodKeyword):
		return r.callComponentMethod(ctx, args, kwargs)
	}

	action, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	callable, err := r.bindCallable(action)
	if err != nil {
		return nil, err
	}

	logging.Debug("Keyword", "Running keyword %s with %d args", action.Name, len(args))
	return Call(ctx, callable, args, kwargs)
}

// bindCallable returns the callable to invoke for an action. Actions from
// lazily resolved sources are re-bound on every call so they always target
// the object the source currently resolves to.
func (r *Router) bindCallable(action *Action) (reflect.Value, error) {
	source := r.sourceByName(action.SourceName)
	lazy, ok := source.(*LazyObjectSource)
	if !ok {
		return action.Callable, nil
	}

	obj, err := lazy.Resolve()
	if err != nil {
		return reflect.Value{}, fmt.Errorf("resolving source %s: %w", action.SourceName, err)
	}

	callable, err := walkPath(obj, action.OriginPath)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("binding %s: %w", action.Name, err)
	}
	return callable, nil
}

func (r *Router) sourceByName(name string) Source {
	for _, source := range r.scope.Sources {
		if source.Name() == name {
			return source
		}
	}
	return nil
}

// callDeviceMethod invokes a method on a device resolved by type at call
// time: Call Device Method  <device type>  <method>  [args...].
func (r *Router) callDeviceMethod(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s needs a device type and a method name", callDeviceMethodKeyword)
	}

	device, err := r.deviceByType(args[0])
	if err != nil {
		return nil, err
	}

	// The method may be given in keyword form ("Nbi GPV") or as the
	// internal name; transcoding handles both and restores abbreviations.
	component, method := naming.ToMethod(argString(args[1]))
	path := []string{method}
	if component != "" {
		path = []string{component, method}
	}

	callable, err := walkPath(device, path)
	if err != nil {
		return nil, err
	}
	return Call(ctx, callable, args[2:], kwargs)
}

// callComponentMethod invokes a method on a device component resolved at
// call time: Call Component Method  <device type>  <component>  <method>  [args...].
func (r *Router) callComponentMethod(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("%s needs a device type, a component, and a method name", callComponentMethodKeyword)
	}

	device, err := r.deviceByType(args[0])
	if err != nil {
		return nil, err
	}

	_, method := naming.ToMethod(argString(args[2]))
	callable, err := walkPath(device, []string{argString(args[1]), method})
	if err != nil {
		return nil, err
	}
	return Call(ctx, callable, args[3:], kwargs)
}

func (r *Router) deviceByType(arg interface{}) (interface{}, error) {
	if r.deviceManager == nil {
		return nil, api.NewNotInitializedError("device manager")
	}
	dm, err := r.deviceManager()
	if err != nil {
		return nil, err
	}
	return dm.GetDeviceByType(argString(arg))
}

func argString(arg interface{}) string {
	if s, ok := arg.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", arg)
}

// walkPath follows a member path (component names then a method name) from
// an object to a callable.
func walkPath(obj interface{}, path []string) (reflect.Value, error) {
	current := obj
	for i, name := range path {
		members := collectMembers(current)
		member, ok := members[strings.ToLower(name)]
		if !ok {
			// Paths recorded at discovery time keep the original internal
			// casing (GPV), so try the exact name too.
			member, ok = members[name]
		}
		if !ok {
			return reflect.Value{}, fmt.Errorf("no member %q", name)
		}

		if i == len(path)-1 {
			if !isCallable(member.value) {
				return reflect.Value{}, fmt.Errorf("member %q is not callable", name)
			}
			return member.value, nil
		}

		if !member.value.IsValid() || !member.value.CanInterface() {
			return reflect.Value{}, fmt.Errorf("member %q is not addressable", name)
		}
		current = member.value.Interface()
	}
	return reflect.Value{}, fmt.Errorf("empty member path")
}

// Documentation returns the documentation string for a keyword.
func (r *Router) Documentation(name string) (string, error) {
	switch NormalizeName(name) {
	case NormalizeName(callDeviceMethodKeyword):
		return "Calls a method on the device of the given type, bypassing keyword discovery.", nil
	case NormalizeName(callComponentMethodKeyword):
		return "Calls a method on a component of the device of the given type, bypassing keyword discovery.", nil
	}

	action, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return action.Documentation, nil
}

// Arguments returns the argument specification for a keyword.
func (r *Router) Arguments(name string) ([]string, error) {
	switch NormalizeName(name) {
	case NormalizeName(callDeviceMethodKeyword):
		return []string{"device_type", "method", "*args", "**kwargs"}, nil
	case NormalizeName(callComponentMethodKeyword):
		return []string{"device_type", "component", "method", "*args", "**kwargs"}, nil
	}

	action, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return action.ArgSpec, nil
}

// Tags returns the tags attached to a keyword at discovery time.
func (r *Router) Tags(name string) ([]string, error) {
	if isGenericKeyword(name) {
		return nil, nil
	}
	action, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return action.Tags, nil
}

// Types returns the recorded argument types for a keyword.
func (r *Router) Types(name string) (map[string]string, error) {
	if isGenericKeyword(name) {
		return nil, nil
	}
	action, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return action.Types, nil
}

// SourceLocation returns the file:line position of a keyword's callable,
// or "" when the position is unknown.
func (r *Router) SourceLocation(name string) (string, error) {
	if isGenericKeyword(name) {
		return "", nil
	}
	action, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return action.SourceLocation, nil
}

func isGenericKeyword(name string) bool {
	n := NormalizeName(name)
	return n == NormalizeName(callDeviceMethodKeyword) || n == NormalizeName(callComponentMethodKeyword)
}
