package eval

import (
	"fmt"
	"strings"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
	"mapsynth/registry"
)

// Install registers an interpreted routine for every routine of prog.
// User-authored routines are looked up by name in funcs.
func Install(b *registry.Builder, prog *emit.Program, funcs map[string]any) error {
	for _, r := range prog.Routines {
		fn, err := interpret(prog, r, funcs)
		if err != nil {
			return fmt.Errorf("install %s: %w", r.Name, err)
		}

		b.Add(SourceTag(r), TargetTag(r), fn)
	}

	return nil
}

// SourceTag is the registry tag of r's source type.
func SourceTag(r *emit.Routine) registry.Tag {
	return registry.NamedTag(analyze.TypeKey(r.Source))
}

// TargetTag is the registry tag of r's target type.
func TargetTag(r *emit.Routine) registry.Tag {
	return registry.NamedTag(analyze.TypeKey(r.Target))
}

func interpret(prog *emit.Program, r *emit.Routine, funcs map[string]any) (registry.Routine, error) {
	var body registry.Routine

	switch b := r.Body.(type) {
	case *emit.UserCall:
		fn, ok := funcs[b.Func]
		if !ok {
			return nil, fmt.Errorf("user routine %s is not provided", b.Func)
		}

		u, err := registry.ParseRoutine(fn)
		if err != nil {
			return nil, fmt.Errorf("user routine %s: %w", b.Func, err)
		}

		return u.Routine(), nil

	case *emit.Placeholder:
		return func(*registry.Dispatcher, any) (any, error) {
			return nil, fmt.Errorf("%s: %w: %s", r.Name, registry.ErrPlaceholder, b.Reason)
		}, nil

	case *emit.EnumDispatch:
		body = enumRoutine(r, b)
	case *emit.ConstructorCall:
		body = constructorRoutine(prog, r, b)
	case *emit.ContainerBuild:
		body = containerRoutine(prog, r, b)
	default:
		return nil, fmt.Errorf("unsupported body %T", r.Body)
	}

	if !r.NullGuard {
		return body, nil
	}

	return func(d *registry.Dispatcher, src any) (any, error) {
		if src == nil {
			return nil, nil
		}

		return body(d, src)
	}, nil
}

func enumRoutine(r *emit.Routine, b *emit.EnumDispatch) registry.Routine {
	targetType := analyze.TypeKey(r.Target)

	return func(_ *registry.Dispatcher, src any) (any, error) {
		in, ok := src.(Enum)
		if !ok {
			return nil, fmt.Errorf("%s: expected enum value, got %T", r.Name, src)
		}

		for _, c := range b.Cases {
			if c.Source.Name == in.Name {
				return Enum{Type: targetType, Name: c.Target.Name, Ordinal: c.Target.Ordinal}, nil
			}
		}

		return nil, fmt.Errorf("%s: %w: %s", r.Name, registry.ErrInvalidEnumValue, in.Name)
	}
}

func constructorRoutine(prog *emit.Program, r *emit.Routine, b *emit.ConstructorCall) registry.Routine {
	return func(d *registry.Dispatcher, src any) (any, error) {
		in, ok := src.(*Object)
		if !ok {
			return nil, fmt.Errorf("%s: expected object, got %T", r.Name, src)
		}

		out := NewObject(r.Target)

		for i, arg := range b.Args {
			p := b.Constructor.Params[i]

			v, err := evalExpr(d, prog, arg, in, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s: %w", r.Name, p.Name, err)
			}

			out.Fields[paramField(r.Target, p.Name)] = v
		}

		for _, a := range b.Inits {
			v, err := evalExpr(d, prog, a.Value, in, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: member %s: %w", r.Name, a.Member.Name, err)
			}

			out.Fields[a.Member.Name] = v
		}

		return out, nil
	}
}

// paramField is the target member a constructor parameter populates.
func paramField(t *analyze.TypeInfo, param string) string {
	for _, f := range t.Fields {
		if f.Name == param {
			return f.Name
		}
	}

	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, param) {
			return f.Name
		}
	}

	return param
}

func evalExpr(d *registry.Dispatcher, prog *emit.Program, e emit.Expr, src *Object, elem any) (any, error) {
	switch x := e.(type) {
	case *emit.MemberRead:
		return src.Fields[x.Member.Name], nil
	case *emit.Element:
		return elem, nil
	case *emit.RoutineCall:
		arg, err := evalExpr(d, prog, x.Arg, src, elem)
		if err != nil {
			return nil, err
		}

		if arg == nil {
			return nil, nil
		}

		callee := prog.Routine(x.Key)
		if callee == nil {
			return nil, fmt.Errorf("no routine for %s", x.Key)
		}

		return d.DispatchAs(arg, SourceTag(callee), TargetTag(callee))
	default:
		return nil, fmt.Errorf("unsupported expression %T", e)
	}
}
