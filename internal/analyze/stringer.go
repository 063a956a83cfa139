package analyze

import (
	"strconv"
)

// TypeKey returns a canonical identity string for t.
// Named types use their full TypeID; unnamed composites are spelled structurally:
//   - "*mapsynth/store.Order" for a pointer
//   - "[]mapsynth/store.Item" for a slice
//   - "[4]int" for an array
//   - "map[string]int" for a map
//   - "set[string]" for a set
//   - "seq[int]", "setof[int]", "seq2[string]int" for contracts
func TypeKey(t *TypeInfo) string {
	return typeString(t, func(id TypeID) string { return id.String() })
}

// TypeString returns a short human-readable representation of t using package aliases.
func TypeString(t *TypeInfo) string {
	return typeString(t, func(id TypeID) string { return id.Short() })
}

func typeString(t *TypeInfo, named func(TypeID) string) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		return named(t.ID)
	}

	switch {
	case t.Nullable != nil:
		return "*" + typeString(t.Nullable, named)
	case t.Container == ContainerMapContract:
		return "seq2[" + typeString(t.KeyType, named) + "]" + typeString(t.ValueType, named)
	case t.KeyType != nil && t.ValueType != nil:
		return "map[" + typeString(t.KeyType, named) + "]" + typeString(t.ValueType, named)
	case t.Container == ContainerArray:
		return "[" + strconv.Itoa(t.Len) + "]" + typeString(t.ElemType, named)
	case t.Container == ContainerSet:
		return "set[" + typeString(t.ElemType, named) + "]"
	case t.Container == ContainerSetContract:
		return "setof[" + typeString(t.ElemType, named) + "]"
	case t.Container == ContainerSequenceContract:
		return "seq[" + typeString(t.ElemType, named) + "]"
	case t.ElemType != nil:
		return "[]" + typeString(t.ElemType, named)
	case t.GoType != nil:
		return t.GoType.String()
	default:
		return "struct{...}"
	}
}
