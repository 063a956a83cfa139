package analyze

import (
	"go/types"
	"reflect"

	"mapsynth/internal/common"
	"mapsynth/internal/diagnostic"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "mapsynth/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package alias qualified name, e.g. "store.Order".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// TypeKind represents the raw kind of a type as declared.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindEnum               // named type with a closed set of declared values
	TypeKindPointer            // nullable wrapper around another type
	TypeKindSlice              // growable sequence
	TypeKindArray              // fixed-length sequence
	TypeKindMap                // keyed container
	TypeKindSet                // unique-element container
	TypeKindInterface          // contract (sequence, set or dictionary) rather than a concrete container
	TypeKindExternal           // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindEnum:
		return "enum"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindSet:
		return "set"
	case TypeKindInterface:
		return "interface"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// ContainerKind is the container family of an enumerable type.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerArray
	ContainerList
	ContainerSet
	ContainerMap
	ContainerSequenceContract
	ContainerSetContract
	ContainerMapContract
)

// String returns a human-readable representation of the ContainerKind.
func (c ContainerKind) String() string {
	switch c {
	case ContainerNone:
		return "none"
	case ContainerArray:
		return "array"
	case ContainerList:
		return "list"
	case ContainerSet:
		return "set"
	case ContainerMap:
		return "map"
	case ContainerSequenceContract:
		return "sequence-contract"
	case ContainerSetContract:
		return "set-contract"
	case ContainerMapContract:
		return "map-contract"
	default:
		return common.UnknownStr
	}
}

// IsAbstract reports whether the container is a contract that cannot be constructed directly.
func (c ContainerKind) IsAbstract() bool {
	return c == ContainerSequenceContract || c == ContainerSetContract || c == ContainerMapContract
}

// SlotKind describes how a member can be read and written.
type SlotKind int

const (
	// SlotSettable members can be read and assigned after construction.
	SlotSettable SlotKind = iota
	// SlotReadOnly members can be read but only populated by a constructor.
	SlotReadOnly
	// SlotConstructorOnly members can neither be read nor assigned; only a constructor populates them.
	SlotConstructorOnly
)

// String returns a human-readable representation of the SlotKind.
func (s SlotKind) String() string {
	switch s {
	case SlotSettable:
		return "settable"
	case SlotReadOnly:
		return "read-only"
	case SlotConstructorOnly:
		return "constructor-only"
	default:
		return common.UnknownStr
	}
}

// Readable reports whether a member in this slot can be read from a source value.
func (s SlotKind) Readable() bool {
	return s == SlotSettable || s == SlotReadOnly
}

// TypeInfo describes a type in the type graph.
//
// Besides the raw Kind, a TypeInfo exposes structural capabilities. A type may
// expose several of them at once (a map is both enumerable and keyed, a string
// is enumerable and textual); Classify decides which shape wins.
type TypeInfo struct {
	ID   TypeID   // Unique identifier (empty for unnamed types like *T or []T)
	Kind TypeKind // Raw kind of type

	Nullable  *TypeInfo     // Wrapped type for pointer/optional wrappers
	ElemType  *TypeInfo     // Element type when the type is enumerable
	KeyType   *TypeInfo     // Key type for keyed containers
	ValueType *TypeInfo     // Value type for keyed containers
	Len       int           // Length for arrays
	Textual   bool          // Character-sequence scalar (never classified as a collection)
	Container ContainerKind // Container family for enumerable types

	Fields       []FieldInfo   // For structs, the list of members
	Constructors []Constructor // For structs, the ways to build a value
	EnumMembers  []EnumMember  // For enums, the declared values

	GoType types.Type          // The original go/types.Type, when loaded from Go
	Loc    diagnostic.Location // Declaration location
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Field returns the member with the exact given name.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// EnumMember returns the declared enum value with the given name.
func (t *TypeInfo) EnumMember(name string) *EnumMember {
	for i := range t.EnumMembers {
		if t.EnumMembers[i].Name == name {
			return &t.EnumMembers[i]
		}
	}

	return nil
}

// FieldInfo describes a member of an object type.
type FieldInfo struct {
	Name     string              // Member name
	Exported bool                // Whether the member is exported
	Type     *TypeInfo           // Member type
	Slot     SlotKind            // How the member can be read and written
	Getter   string              // Accessor method for read-only members
	Tag      reflect.StructTag   // Raw struct tag
	Embedded bool                // Whether the field is embedded (anonymous)
	Index    int                 // Declaration index
	Loc      diagnostic.Location // Declaration location
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		for i := range len(tag) {
			if tag[i] == ',' {
				return tag[:i]
			}
		}

		return tag
	}

	return f.Name
}

// Constructor describes one way of building a value of an object type.
// A constructor with an empty Name is the composite literal.
type Constructor struct {
	Name           string
	Params         []Param
	Index          int  // Declaration order
	ReturnsPointer bool // True for func NewT(...) *T
	ReturnsError   bool // True for func NewT(...) (T, error)
	Loc            diagnostic.Location
}

// IsLiteral reports whether the constructor is the composite literal.
func (c *Constructor) IsLiteral() bool {
	return c.Name == ""
}

// Param is a constructor parameter.
type Param struct {
	Name string
	Type *TypeInfo
}

// EnumMember is a single declared enum value.
type EnumMember struct {
	Name    string
	Ordinal int64
	Literal string // Constant value as written in source (e.g. `"PAID"` or `2`)
	Loc     diagnostic.Location
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Add registers a named type, creating its package entry on demand.
func (g *TypeGraph) Add(t *TypeInfo) {
	g.Types[t.ID] = t

	pkg, ok := g.Packages[t.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: t.ID.PkgPath, Name: common.PkgAlias(t.ID.PkgPath)}
		g.Packages[t.ID.PkgPath] = pkg
	}

	pkg.Types = append(pkg.Types, t.ID)
}

// Lookup resolves a type reference such as "store.Order" or "mapsynth/store.Order".
// A bare name is accepted when it is unambiguous across packages.
func (g *TypeGraph) Lookup(ref string) *TypeInfo {
	for id, t := range g.Types {
		if id.String() == ref {
			return t
		}
	}

	var found *TypeInfo

	for id, t := range g.Types {
		if id.Short() == ref || (id.Name == ref && !containsDot(ref)) {
			if found != nil {
				return nil
			}

			found = t
		}
	}

	return found
}

func containsDot(s string) bool {
	for i := range len(s) {
		if s[i] == '.' {
			return true
		}
	}

	return false
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory on disk, empty for declared types
	Types []TypeID // Named types defined in this package
}
