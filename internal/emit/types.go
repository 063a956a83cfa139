package emit

import (
	"mapsynth/internal/analyze"
	"mapsynth/internal/plan"
)

// Program is the synthesized output for a whole plan.
type Program struct {
	// Routines are in plan resolution order.
	Routines []*Routine
	// Signatures are the public pairs: the declared ones and their requested reverses.
	Signatures []Signature

	byKey map[plan.PairKey]*Routine
}

// Routine returns the routine of key, or nil.
func (p *Program) Routine(key plan.PairKey) *Routine {
	return p.byKey[key]
}

// Signature is a public conversion entry point.
type Signature struct {
	Name   string
	Key    plan.PairKey
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo
}

// Routine is the descriptor of one conversion routine.
type Routine struct {
	Name   string
	Key    plan.PairKey
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo
	// NullGuard makes an absent source produce an absent target before any member is read.
	NullGuard bool
	Body      Body
}

// Body is the closed set of routine bodies.
type Body interface {
	body()
}

// EnumDispatch selects the target value for each source value.
// Any other source value is an invalid-value failure.
type EnumDispatch struct {
	Cases []EnumCase
}

// EnumCase is one branch of an EnumDispatch.
type EnumCase struct {
	Source analyze.EnumMember
	Target analyze.EnumMember
}

// ConstructorCall builds the target with a constructor, then runs the initializers.
type ConstructorCall struct {
	Constructor *analyze.Constructor
	// Args are in parameter order.
	Args  []Expr
	Inits []Assign
}

// Assign writes one target member after construction.
type Assign struct {
	Member *analyze.FieldInfo
	Value  Expr
}

// ContainerBuild fills the concretized target container.
type ContainerBuild struct {
	Source   analyze.ContainerKind
	Concrete analyze.ContainerKind
	// Len is the target length for arrays.
	Len  int
	Copy plan.CopyPolicy
	// Elem converts one element; Key and Value convert one dictionary entry.
	// Each is an Element or a RoutineCall over an Element.
	Elem  Expr
	Key   Expr
	Value Expr
}

// Projects reports whether any element, key or value goes through a routine.
func (c *ContainerBuild) Projects() bool {
	for _, e := range []Expr{c.Elem, c.Key, c.Value} {
		if _, ok := e.(*RoutineCall); ok {
			return true
		}
	}

	return false
}

// UserCall delegates to a user-authored routine.
type UserCall struct {
	Func string
	// ReturnsError is set when Func returns (T, error) rather than T.
	ReturnsError bool
}

// Placeholder stands in for a pair that failed validation.
// It fails every time it is invoked.
type Placeholder struct {
	Reason string
}

func (*EnumDispatch) body()    {}
func (*ConstructorCall) body() {}
func (*ContainerBuild) body()  {}
func (*UserCall) body()        {}
func (*Placeholder) body()     {}

// Expr is the closed set of value expressions.
type Expr interface {
	expr()
}

// MemberRead reads a member of the routine's source value.
type MemberRead struct {
	Member *analyze.FieldInfo
}

// Getter returns the accessor to call, or "" when the member is read directly.
func (m *MemberRead) Getter() string {
	if m.Member.Slot == analyze.SlotReadOnly {
		return m.Member.Getter
	}

	return ""
}

// ElementRole tells which part of a container entry an Element denotes.
type ElementRole int

const (
	RoleElem ElementRole = iota
	RoleKey
	RoleValue
)

// Element is the current element, key or value inside a ContainerBuild.
type Element struct {
	Role ElementRole
}

// RoutineCall invokes another routine on Arg.
type RoutineCall struct {
	Routine string
	Key     plan.PairKey
	Arg     Expr
	// Nullable is set when Arg is a nullable wrapper; absent stays absent.
	Nullable bool
}

func (*MemberRead) expr()  {}
func (*Element) expr()     {}
func (*RoutineCall) expr() {}
