package registry

import (
	"reflect"
	"strconv"
	"sync"
)

// Tag identifies a type at runtime. Tags are interned: two tags with the
// same name are equal, and comparing them is a pointer comparison.
type Tag struct {
	info *tagInfo
}

type tagInfo struct {
	name string
}

// Tagged values report their own tag instead of their Go type. Dynamic
// values that stand for several logical types implement it.
type Tagged interface {
	TypeTag() Tag
}

var (
	tagsByName sync.Map // string -> *tagInfo
	tagsByType sync.Map // reflect.Type -> Tag
)

// NamedTag returns the tag called name.
func NamedTag(name string) Tag {
	if v, ok := tagsByName.Load(name); ok {
		return Tag{info: v.(*tagInfo)}
	}

	v, _ := tagsByName.LoadOrStore(name, &tagInfo{name: name})

	return Tag{info: v.(*tagInfo)}
}

// TagFor returns the tag of the Go type T.
func TagFor[T any]() Tag {
	return TypeTag(reflect.TypeFor[T]())
}

// TypeTag returns the tag of t. Named types are tagged by their fully
// qualified name, e.g. "mapsynth/store.Order".
func TypeTag(t reflect.Type) Tag {
	if t == nil {
		return Tag{}
	}

	if v, ok := tagsByType.Load(t); ok {
		return v.(Tag)
	}

	tag := NamedTag(typeName(t))
	tagsByType.Store(t, tag)

	return tag
}

// TagOf returns the runtime tag of v.
func TagOf(v any) Tag {
	if t, ok := v.(Tagged); ok {
		return t.TypeTag()
	}

	return TypeTag(reflect.TypeOf(v))
}

// IsZero reports whether the tag is the zero Tag.
func (t Tag) IsZero() bool {
	return t.info == nil
}

// String returns the tag name.
func (t Tag) String() string {
	if t.info == nil {
		return "<nil>"
	}

	return t.info.name
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	default:
		return t.String()
	}
}
