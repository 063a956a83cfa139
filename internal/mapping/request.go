package mapping

import (
	"fmt"

	"mapsynth/internal/analyze"
	"mapsynth/internal/common"
	"mapsynth/internal/diagnostic"
)

// Origin tells whether a request was declared or discovered.
type Origin int

const (
	// OriginExplicit requests come from a declared mapping.
	OriginExplicit Origin = iota
	// OriginImplicit requests are discovered during graph traversal or derived as reverses.
	OriginImplicit
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginExplicit:
		return "explicit"
	case OriginImplicit:
		return "implicit"
	default:
		return common.UnknownStr
	}
}

// Rename maps a source name to a target name.
type Rename struct {
	Source string
	Target string
	Loc    diagnostic.Location
	// Derived renames come from a resolved forward pair rather than a directive;
	// lookups through them report implicit error kinds.
	Derived bool
}

// Directives are the customizations attached to a request.
type Directives struct {
	MemberRenames []Rename
	EnumRenames   []Rename
	Reverse       bool
	// IgnoreMissing and DeepCopy override the class-level defaults when set.
	IgnoreMissing *bool
	DeepCopy      *bool
	// ReverseLoc is the position of the reverse flag, used by illegal-reverse diagnostics.
	ReverseLoc diagnostic.Location
}

// Request is a normalized request for one conversion pair.
type Request struct {
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo

	Directives Directives
	Origin     Origin

	// UserImplemented marks pairs solved by a user-authored routine.
	UserImplemented bool
	// UserFunc names the user-authored routine (e.g. "strconv.Itoa").
	UserFunc string
	// UserFuncErr is set when the user routine also returns an error.
	UserFuncErr bool
	// RoutineName overrides the generated routine name.
	RoutineName string

	Loc diagnostic.Location
}

// TypePair returns the "src->dst" label used in diagnostics.
func (r *Request) TypePair() string {
	return analyze.TypeString(r.Source) + "->" + analyze.TypeString(r.Target)
}

// BuildRequests turns the mappings of mf into the normalized request list.
// Mappings whose types cannot be resolved are reported and skipped.
func BuildRequests(mf *MappingFile, graph *analyze.TypeGraph) ([]Request, *diagnostic.Diagnostics) {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		return nil, res
	}

	resolver := NewTypeResolver(graph)
	requests := make([]Request, 0, len(mf.TypeMappings))

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		tpStr := fmt.Sprintf("%s->%s", tm.Source, tm.Target)

		src, err := resolver.Resolve(tm.Source)
		if err != nil {
			res.AddError(diagnostic.KindTypeNotFound, "source "+err.Error(), tm.Loc, tpStr, "")
			continue
		}

		dst, err := resolver.Resolve(tm.Target)
		if err != nil {
			res.AddError(diagnostic.KindTypeNotFound, "target "+err.Error(), tm.Loc, tpStr, "")
			continue
		}

		requests = append(requests, Request{
			Source:          src,
			Target:          dst,
			Directives:      directivesOf(tm),
			Origin:          OriginExplicit,
			UserImplemented: tm.Func != "",
			UserFunc:        tm.Func,
			UserFuncErr:     tm.FuncReturnsError,
			RoutineName:     tm.Name,
			Loc:             tm.Loc,
		})
	}

	return requests, res
}

func directivesOf(tm *TypeMapping) Directives {
	d := Directives{
		Reverse:       tm.Reverse,
		IgnoreMissing: tm.IgnoreMissing,
		DeepCopy:      tm.DeepCopy,
		ReverseLoc:    tm.ReverseLoc.Or(tm.Loc),
	}

	for _, e := range tm.Members {
		d.MemberRenames = append(d.MemberRenames, Rename{Source: e.Source, Target: e.Target, Loc: e.Loc})
	}

	for _, e := range tm.EnumValues {
		d.EnumRenames = append(d.EnumRenames, Rename{Source: e.Source, Target: e.Target, Loc: e.Loc})
	}

	return d
}

// Swapped returns the directives of the inverse pair: every rename has its
// source and target exchanged and the reverse flag is cleared.
func (d Directives) Swapped() Directives {
	out := Directives{
		IgnoreMissing: d.IgnoreMissing,
		DeepCopy:      d.DeepCopy,
	}

	for _, r := range d.MemberRenames {
		out.MemberRenames = append(out.MemberRenames, Rename{Source: r.Target, Target: r.Source, Loc: r.Loc, Derived: r.Derived})
	}

	for _, r := range d.EnumRenames {
		out.EnumRenames = append(out.EnumRenames, Rename{Source: r.Target, Target: r.Source, Loc: r.Loc, Derived: r.Derived})
	}

	return out
}
