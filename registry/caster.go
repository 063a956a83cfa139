package registry

import (
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"
)

// UserRoutine describes a user-authored conversion function.
type UserRoutine struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseRoutine inspects fn and describes it if it is a supported conversion
// function; see Builder.Register for the accepted shapes.
func ParseRoutine(fn any) (UserRoutine, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return UserRoutine{}, ErrRoutineIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return UserRoutine{}, ErrIsNotARoutine
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if isDoublePointer(src) || isDoublePointer(dst) {
		return UserRoutine{}, ErrDoublePointer
	}

	r := UserRoutine{Src: src, Dst: dst, fn: fnVal}
	r.PackageAlias, r.Name = funcName(fnVal)

	switch fnType.NumOut() {
	case 1:
	case 2:
		switch last := fnType.Out(1); {
		case last.Kind() == reflect.Bool:
			r.HasBool = true
		case isError(last):
			r.HasErr = true
		default:
			return UserRoutine{}, ErrIsNotARoutine
		}
	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || !isError(fnType.Out(2)) {
			return UserRoutine{}, ErrIsNotARoutine
		}

		r.HasBool, r.HasErr = true, true
	default:
		return UserRoutine{}, ErrIsNotARoutine
	}

	return r, nil
}

// Routine wraps the function as a registry Routine.
func (u UserRoutine) Routine() Routine {
	return func(_ *Dispatcher, src any) (any, error) {
		in := reflect.ValueOf(src)
		if !in.Type().AssignableTo(u.Src) {
			return nil, fmt.Errorf("%s: cannot use %s as %s", u.QualifiedName(), in.Type(), u.Src)
		}

		out := u.fn.Call([]reflect.Value{in})

		if u.HasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return nil, fmt.Errorf("%s: %w", u.QualifiedName(), errVal.Interface().(error))
			}
		}

		if u.HasBool && !out[1].Bool() {
			return nil, fmt.Errorf("%s: %w", u.QualifiedName(), ErrRejected)
		}

		return out[0].Interface(), nil
	}
}

// QualifiedName returns "alias.Name" of the function.
func (u UserRoutine) QualifiedName() string {
	if u.PackageAlias == "" {
		return u.Name
	}

	return u.PackageAlias + "." + u.Name
}

func funcName(fn reflect.Value) (alias, name string) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", ""
	}

	full := f.Name()
	_, file := path.Split(full)

	pkg, name, found := strings.Cut(file, ".")
	if !found {
		return "", full
	}

	return pkg, name
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Ptr
}

var errorType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}
