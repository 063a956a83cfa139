package eval

import (
	"mapsynth/internal/analyze"
	"mapsynth/registry"
)

// Object is a value of a struct type.
type Object struct {
	Type   string
	Fields map[string]any
}

// NewObject returns an empty object of type t.
func NewObject(t *analyze.TypeInfo) *Object {
	return &Object{Type: analyze.TypeKey(t), Fields: make(map[string]any)}
}

// TypeTag implements registry.Tagged.
func (o *Object) TypeTag() registry.Tag { return registry.NamedTag(o.Type) }

// Enum is a value of an enum type.
type Enum struct {
	Type    string
	Name    string
	Ordinal int64
}

// NewEnum returns the member called name of t, or false.
func NewEnum(t *analyze.TypeInfo, name string) (Enum, bool) {
	m := t.EnumMember(name)
	if m == nil {
		return Enum{}, false
	}

	return Enum{Type: analyze.TypeKey(t), Name: m.Name, Ordinal: m.Ordinal}, true
}

// TypeTag implements registry.Tagged.
func (e Enum) TypeTag() registry.Tag { return registry.NamedTag(e.Type) }

// List is a value of a list, array or sequence type.
type List struct {
	Type  string
	Items []any
}

// TypeTag implements registry.Tagged.
func (l *List) TypeTag() registry.Tag { return registry.NamedTag(l.Type) }

// Set is a value of a set type. Items keep insertion order and are unique.
type Set struct {
	Type  string
	Items []any
}

// TypeTag implements registry.Tagged.
func (s *Set) TypeTag() registry.Tag { return registry.NamedTag(s.Type) }

// Add inserts v unless an equal item is present.
func (s *Set) Add(v any) {
	for _, it := range s.Items {
		if it == v {
			return
		}
	}

	s.Items = append(s.Items, v)
}

// Dict is a value of a dictionary type. Keys keep first-insertion order.
type Dict struct {
	Type    string
	Keys    []any
	Entries map[any]any
}

// NewDict returns an empty dictionary tagged typ.
func NewDict(typ string) *Dict {
	return &Dict{Type: typ, Entries: make(map[any]any)}
}

// TypeTag implements registry.Tagged.
func (d *Dict) TypeTag() registry.Tag { return registry.NamedTag(d.Type) }

// Put stores v under k. A later Put of an equal key overwrites the value.
func (d *Dict) Put(k, v any) {
	if _, exists := d.Entries[k]; !exists {
		d.Keys = append(d.Keys, k)
	}

	d.Entries[k] = v
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.Keys)
}
