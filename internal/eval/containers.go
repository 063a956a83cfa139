package eval

import (
	"fmt"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
	"mapsynth/internal/plan"
	"mapsynth/registry"
)

func containerRoutine(prog *emit.Program, r *emit.Routine, b *emit.ContainerBuild) registry.Routine {
	targetType := analyze.TypeKey(r.Target)

	return func(d *registry.Dispatcher, src any) (any, error) {
		if b.Concrete == analyze.ContainerMap {
			in, ok := src.(*Dict)
			if !ok {
				return nil, fmt.Errorf("%s: expected dictionary, got %T", r.Name, src)
			}

			return buildDict(d, prog, b, targetType, in)
		}

		items, err := elements(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}

		if b.Copy == plan.CopyShare {
			return share(b, targetType, items), nil
		}

		converted := make([]any, 0, len(items))
		for _, it := range items {
			v, err := evalExpr(d, prog, b.Elem, nil, it)
			if err != nil {
				return nil, fmt.Errorf("%s: element: %w", r.Name, err)
			}

			converted = append(converted, v)
		}

		switch b.Concrete {
		case analyze.ContainerSet:
			out := &Set{Type: targetType, Items: make([]any, 0, len(converted))}
			for _, v := range converted {
				out.Add(v)
			}

			return out, nil
		case analyze.ContainerArray:
			if len(converted) != b.Len {
				return nil, fmt.Errorf("%s: %w: got %d elements, want %d", r.Name, registry.ErrLengthMismatch, len(converted), b.Len)
			}

			return &List{Type: targetType, Items: converted}, nil
		default:
			return &List{Type: targetType, Items: converted}, nil
		}
	}
}

func elements(src any) ([]any, error) {
	switch v := src.(type) {
	case *List:
		return v.Items, nil
	case *Set:
		return v.Items, nil
	default:
		return nil, fmt.Errorf("expected collection, got %T", src)
	}
}

// share reuses the source storage under the target tag.
func share(b *emit.ContainerBuild, typ string, items []any) any {
	if b.Concrete == analyze.ContainerSet {
		return &Set{Type: typ, Items: items}
	}

	return &List{Type: typ, Items: items}
}

func buildDict(d *registry.Dispatcher, prog *emit.Program, b *emit.ContainerBuild, typ string, in *Dict) (any, error) {
	if b.Copy == plan.CopyShare {
		return &Dict{Type: typ, Keys: in.Keys, Entries: in.Entries}, nil
	}

	out := NewDict(typ)

	for _, k := range in.Keys {
		key, err := evalExpr(d, prog, b.Key, nil, k)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}

		value, err := evalExpr(d, prog, b.Value, nil, in.Entries[k])
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}

		// converted keys may collide; the last entry wins
		out.Put(key, value)
	}

	return out, nil
}
