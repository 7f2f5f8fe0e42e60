package keyword

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	kwargsType  = reflect.TypeOf(map[string]interface{}(nil))
)

// reflectArgSpec derives the argument specification of a callable from its
// signature. Positional parameters get placeholder names (arg1, arg2, ...),
// a variadic tail becomes "*args", and a trailing map[string]interface{}
// becomes "**kwargs". A leading context.Context is part of the calling
// convention and is not surfaced as an argument.
//
// The returned type map records the Go type of each named positional
// parameter for inspection tooling.
func reflectArgSpec(fn reflect.Value) ([]string, map[string]string) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return []string{"*args", "**kwargs"}, nil
	}

	ft := fn.Type()
	spec := make([]string, 0, ft.NumIn())
	types := make(map[string]string)

	start := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		start = 1
	}

	argNum := 0
	for i := start; i < ft.NumIn(); i++ {
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			spec = append(spec, "*args")
			continue
		}
		if i == ft.NumIn()-1 && ft.In(i) == kwargsType && !ft.IsVariadic() {
			spec = append(spec, "**kwargs")
			continue
		}
		argNum++
		name := fmt.Sprintf("arg%d", argNum)
		spec = append(spec, name)
		types[name] = ft.In(i).String()
	}

	if len(types) == 0 {
		types = nil
	}
	return spec, types
}

// sourceLocation resolves a callable to its file:line position, or "" when
// the runtime has no symbol for it (non-func values, method values built
// through reflection without pc info).
func sourceLocation(fn reflect.Value) string {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return ""
	}
	file, line := rf.FileLine(rf.Entry())
	return fmt.Sprintf("%s:%d", file, line)
}
