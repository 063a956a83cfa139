package mapping

import (
	"mapsynth/internal/diagnostic"
)

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Defaults are the class-level settings every mapping inherits.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Types declares language-neutral types in addition to loaded Go packages.
	Types []TypeDecl `yaml:"types,omitempty"`

	// TypeMappings is a list of type pair mappings.
	TypeMappings []TypeMapping `yaml:"mappings"`

	// File is the path the mapping was loaded from, used for locations.
	File string `yaml:"-"`
}

// Defaults holds class-level settings. A per-mapping value always overrides them.
type Defaults struct {
	IgnoreMissing bool `yaml:"ignore_missing,omitempty"`
	DeepCopy      bool `yaml:"deep_copy,omitempty"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type expression (e.g., "store.Order" or "[]store.Item").
	Source string `yaml:"source"`

	// Target type expression.
	Target string `yaml:"target"`

	// Name overrides the generated routine name.
	Name string `yaml:"name,omitempty"`

	// Members renames source members to target members.
	Members RenameList `yaml:"members,omitempty"`

	// EnumValues renames source enum values to target enum values.
	EnumValues RenameList `yaml:"enum_values,omitempty"`

	// Reverse requests the inverse mapping to be synthesized as well.
	Reverse bool `yaml:"reverse,omitempty"`

	// IgnoreMissing overrides Defaults.IgnoreMissing for this pair.
	IgnoreMissing *bool `yaml:"ignore_missing,omitempty"`

	// DeepCopy overrides Defaults.DeepCopy for this pair.
	DeepCopy *bool `yaml:"deep_copy,omitempty"`

	// Func names a user-authored routine; the pair is then treated as solved.
	Func string `yaml:"func,omitempty"`

	// FuncReturnsError tells that Func has the shape func(S) (T, error).
	FuncReturnsError bool `yaml:"func_returns_error,omitempty"`

	// Loc is the position of the mapping entry.
	Loc diagnostic.Location `yaml:"-"`

	// ReverseLoc is the position of the reverse key, when present.
	ReverseLoc diagnostic.Location `yaml:"-"`
}

// RenameList is an ordered list of source -> target renames.
// YAML accepts a mapping ({A: B}) or a list of single-entry mappings ([{A: B}]).
type RenameList []RenameEntry

// RenameEntry is one rename directive with its position.
type RenameEntry struct {
	Source string
	Target string
	Loc    diagnostic.Location
}

// TypeDecl declares a type without Go sources.
type TypeDecl struct {
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"` // struct | enum | alias
	Underlying   string      `yaml:"underlying,omitempty"`
	Fields       []FieldDecl `yaml:"fields,omitempty"`
	Constructors []CtorDecl  `yaml:"constructors,omitempty"`
	Values       EnumValues  `yaml:"values,omitempty"`

	Loc diagnostic.Location `yaml:"-"`
}

// FieldDecl declares a member of a struct TypeDecl.
type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Slot string `yaml:"slot,omitempty"` // settable (default) | readonly | ctoronly

	Loc diagnostic.Location `yaml:"-"`
}

// CtorDecl declares a constructor of a struct TypeDecl.
type CtorDecl struct {
	Name   string      `yaml:"name"`
	Params []FieldDecl `yaml:"params,omitempty"`

	Loc diagnostic.Location `yaml:"-"`
}

// EnumValues is an ordered list of enum members.
// YAML accepts a list of names (ordinals follow declaration order) or a
// mapping of name to ordinal.
type EnumValues []EnumValueDecl

// EnumValueDecl declares a single enum member.
type EnumValueDecl struct {
	Name    string
	Ordinal int64
	Loc     diagnostic.Location
}

// Slot names accepted in FieldDecl.Slot.
const (
	SlotNameSettable        = "settable"
	SlotNameReadOnly        = "readonly"
	SlotNameConstructorOnly = "ctoronly"
)

// Kind names accepted in TypeDecl.Kind.
const (
	DeclKindStruct = "struct"
	DeclKindEnum   = "enum"
	DeclKindAlias  = "alias"
)
