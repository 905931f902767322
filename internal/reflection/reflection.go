// Package reflection provides internal utility functions for reflection operations in the actionlog module.
package reflection

import (
	"context"
	"reflect"
	"strconv"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// GetTypeNameShort returns just the type name without package path
func GetTypeNameShort(t reflect.Type) string {
	if t == nil {
		return ""
	}

	// Handle pointer types
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

// GetTypeName returns the fully qualified type name
func GetTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}

// MethodInputs returns the parameter types of a method obtained from reflect.Type.Method,
// skipping the receiver and a leading context.Context.
func MethodInputs(fn reflect.Type) []reflect.Type {
	start := 1 // receiver
	if fn.NumIn() > start && fn.In(start) == contextType {
		start++
	}

	inputs := make([]reflect.Type, 0, fn.NumIn()-start)
	for i := start; i < fn.NumIn(); i++ {
		inputs = append(inputs, fn.In(i))
	}
	return inputs
}

// ReturnsVoid reports whether a function type returns nothing, or only an error.
func ReturnsVoid(fn reflect.Type) bool {
	switch fn.NumOut() {
	case 0:
		return true
	case 1:
		return fn.Out(0) == errorType
	default:
		return false
	}
}

// ParamName returns the positional name used for parameters discovered by reflection,
// which carries no source-level names.
func ParamName(position int) string {
	return "arg" + strconv.Itoa(position)
}
