package mapping

import (
	"fmt"
	"strings"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
)

// DeclareTypes adds the types declared in mf to graph.
// All names are registered before any member is resolved, so declarations may
// reference each other in any order, cycles included.
func DeclareTypes(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil || len(mf.Types) == 0 {
		return res
	}

	declared := make([]*analyze.TypeInfo, len(mf.Types))

	for i := range mf.Types {
		td := &mf.Types[i]

		id := declID(td.Name)
		if graph.GetType(id) != nil {
			res.AddError(diagnostic.KindInvalidDirective,
				fmt.Sprintf("type %s declared more than once", id), td.Loc, "", td.Name)

			continue
		}

		t := &analyze.TypeInfo{ID: id, Loc: td.Loc.Or(diagnostic.Location{Label: id.Short()})}
		graph.Add(t)
		declared[i] = t
	}

	resolver := NewTypeResolver(graph)

	for i := range mf.Types {
		if declared[i] == nil {
			continue
		}

		fillDecl(&mf.Types[i], declared[i], resolver, res)
	}

	return res
}

func declID(name string) analyze.TypeID {
	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		return analyze.TypeID{Name: name}
	}

	return analyze.TypeID{PkgPath: name[:lastDot], Name: name[lastDot+1:]}
}

func fillDecl(td *TypeDecl, t *analyze.TypeInfo, resolver *TypeResolver, res *diagnostic.Diagnostics) {
	switch td.Kind {
	case DeclKindEnum:
		t.Kind = analyze.TypeKindEnum
		for _, v := range td.Values {
			t.EnumMembers = append(t.EnumMembers, analyze.EnumMember{
				Name:    v.Name,
				Ordinal: v.Ordinal,
				Literal: fmt.Sprint(v.Ordinal),
				Loc:     v.Loc,
			})
		}

	case DeclKindAlias:
		u, err := resolver.Resolve(td.Underlying)
		if err != nil {
			res.AddError(diagnostic.KindTypeNotFound, err.Error(), td.Loc, "", td.Name)
			return
		}

		id, loc := t.ID, t.Loc
		*t = *u
		t.ID, t.Loc = id, loc

	case DeclKindStruct, "":
		t.Kind = analyze.TypeKindStruct
		fillStruct(td, t, resolver, res)

	default:
		res.AddError(diagnostic.KindInvalidDirective,
			fmt.Sprintf("unknown type kind %q", td.Kind), td.Loc, "", td.Name)
	}
}

func fillStruct(td *TypeDecl, t *analyze.TypeInfo, resolver *TypeResolver, res *diagnostic.Diagnostics) {
	for i, fd := range td.Fields {
		ft, err := resolver.Resolve(fd.Type)
		if err != nil {
			res.AddError(diagnostic.KindTypeNotFound, err.Error(), fd.Loc, "", td.Name+"."+fd.Name)
			continue
		}

		slot, ok := parseSlot(fd.Slot)
		if !ok {
			res.AddError(diagnostic.KindInvalidDirective,
				fmt.Sprintf("unknown slot %q", fd.Slot), fd.Loc, "", td.Name+"."+fd.Name)
		}

		t.Fields = append(t.Fields, analyze.FieldInfo{
			Name:     fd.Name,
			Exported: slot == analyze.SlotSettable,
			Type:     ft,
			Slot:     slot,
			Index:    i,
			Loc:      fd.Loc.Or(diagnostic.Location{Label: t.ID.Short() + "." + fd.Name}),
		})
	}

	if len(td.Constructors) == 0 {
		t.Constructors = []analyze.Constructor{{Loc: t.Loc}}
		return
	}

	for i, cd := range td.Constructors {
		ctor := analyze.Constructor{Name: cd.Name, Index: i, Loc: cd.Loc}

		for _, pd := range cd.Params {
			pt, err := resolver.Resolve(pd.Type)
			if err != nil {
				res.AddError(diagnostic.KindTypeNotFound, err.Error(), pd.Loc, "", td.Name+"."+cd.Name)
				continue
			}

			ctor.Params = append(ctor.Params, analyze.Param{Name: pd.Name, Type: pt})
		}

		t.Constructors = append(t.Constructors, ctor)
	}
}

func parseSlot(s string) (analyze.SlotKind, bool) {
	switch s {
	case "", SlotNameSettable:
		return analyze.SlotSettable, true
	case SlotNameReadOnly:
		return analyze.SlotReadOnly, true
	case SlotNameConstructorOnly:
		return analyze.SlotConstructorOnly, true
	default:
		return analyze.SlotSettable, false
	}
}
