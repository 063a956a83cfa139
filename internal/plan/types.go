package plan

import (
	"mapsynth/internal/analyze"
	"mapsynth/internal/common"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
)

// PairKey identifies an ordered (source, target) pair.
type PairKey string

// KeyOf returns the PairKey of src -> dst.
func KeyOf(src, dst *analyze.TypeInfo) PairKey {
	return PairKey(analyze.TypeKey(src) + "->" + analyze.TypeKey(dst))
}

// NodeKind is the variant of a resolved pair.
type NodeKind int

const (
	// ObjectMapping builds a target object member by member.
	ObjectMapping NodeKind = iota
	// EnumMapping dispatches on source enum values.
	EnumMapping
	// CollectionMapping builds a target collection element by element.
	CollectionMapping
	// DictionaryMapping builds a target dictionary entry by entry.
	DictionaryMapping
	// UserSupplied delegates to a user-authored routine.
	UserSupplied
)

// String returns a human-readable node kind.
func (k NodeKind) String() string {
	switch k {
	case ObjectMapping:
		return "object"
	case EnumMapping:
		return "enum"
	case CollectionMapping:
		return "collection"
	case DictionaryMapping:
		return "dictionary"
	case UserSupplied:
		return "user"
	default:
		return common.UnknownStr
	}
}

// ConversionMode tells how a value moves from a source type to a target type.
type ConversionMode int

const (
	// ConvertIdentity copies the value as is.
	ConvertIdentity ConversionMode = iota
	// ConvertRoutine invokes the routine of another pair.
	ConvertRoutine
)

// Conversion describes how a value of one type becomes a value of another.
type Conversion struct {
	Mode ConversionMode
	// Pair is the routine to invoke for ConvertRoutine.
	Pair PairKey
	// Nullable is set when both sides are nullable wrappers and Pair converts
	// the wrapped types. An absent value stays absent.
	Nullable bool
}

// IsIdentity reports whether the value is copied as is.
func (c Conversion) IsIdentity() bool {
	return c.Mode == ConvertIdentity
}

// MemberState is the resolution outcome of one member.
type MemberState int

const (
	// MemberPassThrough copies a value of identical type.
	MemberPassThrough MemberState = iota
	// MemberNested converts the value through another pair's routine.
	MemberNested
	// MemberIncompatible has no conversion between the member types.
	MemberIncompatible
	// MemberMissing has no counterpart on the target.
	MemberMissing
	// MemberSkipped has no counterpart and is ignored on purpose.
	MemberSkipped
)

// String returns a human-readable member state.
func (s MemberState) String() string {
	switch s {
	case MemberPassThrough:
		return "pass-through"
	case MemberNested:
		return "nested"
	case MemberIncompatible:
		return "incompatible"
	case MemberMissing:
		return "missing"
	case MemberSkipped:
		return "skipped"
	default:
		return common.UnknownStr
	}
}

// Phase tells when a target member is populated.
//
//go:generate go tool stringer -type=Phase -trimprefix=Phase -output=phase_string.go
type Phase int

const (
	// PhaseNone means the member is not written.
	PhaseNone Phase = iota
	// PhaseConstructor passes the value as a constructor argument.
	PhaseConstructor
	// PhaseInitializer assigns the value after construction.
	PhaseInitializer
)

// MemberMapping is the resolution of one source member.
type MemberMapping struct {
	SourceName string
	Source     *analyze.FieldInfo
	TargetName string
	Target     *analyze.FieldInfo

	State MemberState
	// Slot is the target member's slot kind.
	Slot       analyze.SlotKind
	Phase      Phase
	Conversion Conversion
	// ArgIndex is the constructor parameter position for PhaseConstructor.
	ArgIndex int

	// Explicit is set when a rename directive produced the correspondence.
	Explicit bool
	Loc      diagnostic.Location
}

// ConstructorArg is one argument of the chosen constructor.
type ConstructorArg struct {
	Param analyze.Param
	// Member is the source member feeding the argument.
	Member     *analyze.FieldInfo
	Conversion Conversion
}

// EnumCase maps one source enum value to a target enum value.
type EnumCase struct {
	Source   analyze.EnumMember
	Target   analyze.EnumMember
	Explicit bool
	Loc      diagnostic.Location
}

// CopyPolicy is how a container is copied when no element conversion is needed.
type CopyPolicy int

const (
	// CopyFresh allocates a new container.
	CopyFresh CopyPolicy = iota
	// CopyShare reuses the source backing storage.
	CopyShare
)

// String returns a human-readable copy policy.
func (c CopyPolicy) String() string {
	if c == CopyShare {
		return "share"
	}

	return "fresh"
}

// ContainerPlan is the concretized build of a collection or dictionary pair.
type ContainerPlan struct {
	SourceContainer analyze.ContainerKind
	// Concrete is the container actually built for the target.
	Concrete analyze.ContainerKind
	// Len is the target length for arrays.
	Len int

	Elem  Conversion // collections
	Key   Conversion // dictionaries
	Value Conversion // dictionaries

	// Project is set when elements, keys or values are converted by a routine.
	Project bool
	Copy    CopyPolicy
}

// Node is a resolved pair.
type Node struct {
	Key    PairKey
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo
	Kind   NodeKind
	Origin mapping.Origin

	// Valid is false when resolution reported an error for the pair.
	Valid bool

	Members     []MemberMapping
	Constructor *analyze.Constructor
	Args        []ConstructorArg
	Cases       []EnumCase
	Container   *ContainerPlan

	UserFunc    string
	UserFuncErr bool
	RoutineName string
	// Reverse is set when the inverse pair was requested.
	Reverse bool

	Loc diagnostic.Location
}

// TypePair returns the "src->dst" label used in diagnostics.
func (n *Node) TypePair() string {
	return typePair(n.Source, n.Target)
}

// Initializers returns the members assigned after construction, in source order.
func (n *Node) Initializers() []MemberMapping {
	var out []MemberMapping

	for _, m := range n.Members {
		if m.Phase == PhaseInitializer {
			out = append(out, m)
		}
	}

	return out
}

// Plan is the output of resolution.
type Plan struct {
	// Nodes are the resolved pairs in resolution order.
	Nodes       []*Node
	Graph       *analyze.TypeGraph
	Diagnostics diagnostic.Diagnostics

	index map[PairKey]*Node
}

// Node returns the node for key, or nil.
func (p *Plan) Node(key PairKey) *Node {
	return p.index[key]
}

// Lookup returns the node for src -> dst, or nil.
func (p *Plan) Lookup(src, dst *analyze.TypeInfo) *Node {
	return p.Node(KeyOf(src, dst))
}

// Explicit returns the nodes created from declared requests, in declaration order.
func (p *Plan) Explicit() []*Node {
	var out []*Node

	for _, n := range p.Nodes {
		if n.Origin == mapping.OriginExplicit {
			out = append(out, n)
		}
	}

	return out
}

func typePair(src, dst *analyze.TypeInfo) string {
	return analyze.TypeString(src) + "->" + analyze.TypeString(dst)
}
