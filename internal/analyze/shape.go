package analyze

import "mapsynth/internal/common"

// ShapeKind is the classification of a type for mapping purposes.
type ShapeKind int

const (
	ShapeScalar ShapeKind = iota
	ShapeObject
	ShapeEnum
	ShapeCollection
	ShapeDictionary
	ShapeNullable
)

// String returns a human-readable representation of the ShapeKind.
func (s ShapeKind) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeObject:
		return "object"
	case ShapeEnum:
		return "enum"
	case ShapeCollection:
		return "collection"
	case ShapeDictionary:
		return "dictionary"
	case ShapeNullable:
		return "nullable"
	default:
		return common.UnknownStr
	}
}

// Shape is the result of classifying a type.
type Shape struct {
	Kind       ShapeKind
	Underlying *TypeInfo // ShapeNullable
	Elem       *TypeInfo // ShapeCollection
	Key        *TypeInfo // ShapeDictionary
	Value      *TypeInfo // ShapeDictionary
	Container  ContainerKind
}

// Classify determines the shape of t.
//
// The order is significant: a nullable wrapper is recognized first, then keyed
// pair semantics, then generic enumeration. Dictionaries also enumerate, so
// they must be tested before collections. Textual scalars enumerate characters
// but are never collections.
func Classify(t *TypeInfo) Shape {
	if t == nil {
		return Shape{Kind: ShapeScalar}
	}

	if t.Nullable != nil {
		return Shape{Kind: ShapeNullable, Underlying: t.Nullable}
	}

	if t.KeyType != nil && t.ValueType != nil {
		container := t.Container
		if container != ContainerMapContract {
			container = ContainerMap
		}

		return Shape{Kind: ShapeDictionary, Key: t.KeyType, Value: t.ValueType, Container: container}
	}

	if t.ElemType != nil && !t.Textual {
		container := t.Container
		if container == ContainerNone || container == ContainerMap || container == ContainerMapContract {
			container = ContainerSequenceContract
		}

		return Shape{Kind: ShapeCollection, Elem: t.ElemType, Container: container}
	}

	if t.Kind == TypeKindEnum || len(t.EnumMembers) > 0 {
		return Shape{Kind: ShapeEnum}
	}

	if t.Kind == TypeKindStruct {
		return Shape{Kind: ShapeObject}
	}

	return Shape{Kind: ShapeScalar}
}

// SameType reports whether a and b denote the same type.
func SameType(a, b *TypeInfo) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return TypeKey(a) == TypeKey(b)
}
