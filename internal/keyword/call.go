package keyword

import (
	"context"
	"fmt"
	"reflect"
)

// fastFunc is the preferred shape for hand-written keyword callables: it
// takes the raw positional and named arguments and avoids the reflective
// conversion path entirely.
type fastFunc = func(args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// Call invokes a discovered callable with positional and named arguments.
//
// Callables of the fastFunc shape are invoked directly. Everything else
// goes through reflection: a leading context.Context parameter receives
// ctx, positional arguments fill the remaining parameters in order with
// assignability conversion, a trailing map[string]interface{} parameter
// receives the named arguments, and a variadic tail absorbs the leftover
// positionals. A trailing error result is split off; any remaining single
// result becomes the return value.
func Call(ctx context.Context, fn reflect.Value, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if !isCallable(fn) {
		return nil, fmt.Errorf("value is not callable")
	}

	if ff, ok := fn.Interface().(fastFunc); ok {
		return ff(args, kwargs)
	}

	ft := fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())

	next := 0 // next parameter index to fill
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		next = 1
	}

	// Reserve the trailing kwargs parameter if the signature declares one.
	lastFixed := ft.NumIn()
	wantsKwargs := false
	if !ft.IsVariadic() && ft.NumIn() > next && ft.In(ft.NumIn()-1) == kwargsType {
		wantsKwargs = true
		lastFixed = ft.NumIn() - 1
	}

	fixedEnd := lastFixed
	if ft.IsVariadic() {
		fixedEnd = ft.NumIn() - 1
	}
	wantArgs := fixedEnd - next

	argIdx := 0
	for ; next < fixedEnd; next++ {
		if argIdx >= len(args) {
			return nil, fmt.Errorf("not enough arguments: want %d, got %d", wantArgs, len(args))
		}
		v, err := convertArg(args[argIdx], ft.In(next))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", argIdx+1, err)
		}
		in = append(in, v)
		argIdx++
	}

	if ft.IsVariadic() {
		elemType := ft.In(ft.NumIn() - 1).Elem()
		for ; argIdx < len(args); argIdx++ {
			v, err := convertArg(args[argIdx], elemType)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", argIdx+1, err)
			}
			in = append(in, v)
		}
	} else if argIdx < len(args) {
		return nil, fmt.Errorf("too many arguments: want %d, got %d", wantArgs, len(args))
	}

	if wantsKwargs {
		if kwargs == nil {
			kwargs = map[string]interface{}{}
		}
		in = append(in, reflect.ValueOf(kwargs))
	} else if len(kwargs) > 0 {
		return nil, fmt.Errorf("callable does not accept named arguments")
	}

	out := fn.Call(in)
	return splitResults(out)
}

// convertArg adapts one argument to the target parameter type.
func convertArg(arg interface{}, target reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch target.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot pass nil as %s", target)
		}
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), target)
}

// splitResults separates a trailing error from the return values.
func splitResults(out []reflect.Value) (interface{}, error) {
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
		if len(out) == 0 {
			return nil, err
		}
		if len(out) == 1 {
			return out[0].Interface(), err
		}
		return valuesToSlice(out), err
	}

	if len(out) == 1 {
		return out[0].Interface(), nil
	}
	return valuesToSlice(out), nil
}

func valuesToSlice(out []reflect.Value) []interface{} {
	values := make([]interface{}, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
