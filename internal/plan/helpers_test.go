package plan

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
)

var (
	tInt    = &analyze.TypeInfo{ID: analyze.TypeID{Name: "int"}, Kind: analyze.TypeKindBasic}
	tInt64  = &analyze.TypeInfo{ID: analyze.TypeID{Name: "int64"}, Kind: analyze.TypeKindBasic}
	tString = &analyze.TypeInfo{ID: analyze.TypeID{Name: "string"}, Kind: analyze.TypeKindBasic, Textual: true}
)

func field(name string, t *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Exported: true, Type: t, Slot: analyze.SlotSettable}
}

func readOnly(name string, t *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Type: t, Slot: analyze.SlotReadOnly, Getter: "Get" + name}
}

// object declares a struct type buildable with a composite literal.
func object(pkg, name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	t := &analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:   analyze.TypeKindStruct,
		Fields: fields,
	}

	for i := range t.Fields {
		t.Fields[i].Index = i
	}

	t.Constructors = []analyze.Constructor{{}}

	return t
}

func withCtors(t *analyze.TypeInfo, ctors ...analyze.Constructor) *analyze.TypeInfo {
	for i := range ctors {
		ctors[i].Index = i
	}

	t.Constructors = ctors

	return t
}

func ctor(name string, params ...analyze.Param) analyze.Constructor {
	return analyze.Constructor{Name: name, Params: params, ReturnsPointer: true}
}

func enum(pkg, name string, values ...string) *analyze.TypeInfo {
	t := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: pkg, Name: name},
		Kind: analyze.TypeKindEnum,
	}

	for i, v := range values {
		t.EnumMembers = append(t.EnumMembers, analyze.EnumMember{Name: v, Ordinal: int64(i)})
	}

	return t
}

func ptr(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindPointer, Nullable: t}
}

func list(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: t, Container: analyze.ContainerList}
}

func set(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSet, ElemType: t, Container: analyze.ContainerSet}
}

func seq(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindInterface, ElemType: t, Container: analyze.ContainerSequenceContract}
}

func setOf(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindInterface, ElemType: t, Container: analyze.ContainerSetContract}
}

func dict(k, v *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindMap, ElemType: k, KeyType: k, ValueType: v, Container: analyze.ContainerMap}
}

func request(src, dst *analyze.TypeInfo) mapping.Request {
	return mapping.Request{Source: src, Target: dst, Origin: mapping.OriginExplicit}
}

func renamed(src, dst *analyze.TypeInfo, pairs ...string) mapping.Request {
	r := request(src, dst)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Directives.MemberRenames = append(r.Directives.MemberRenames,
			mapping.Rename{Source: pairs[i], Target: pairs[i+1], Loc: diagnostic.Location{File: "map.yaml", Line: i + 1}})
	}

	return r
}

func resolveAll(t *testing.T, cfg ResolutionConfig, reqs ...mapping.Request) *Plan {
	t.Helper()

	p := NewResolver(analyze.NewTypeGraph(), reqs, cfg).Resolve()
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("diagnostics:\n%s", spew.Sdump(p.Diagnostics.Entries))
		}
	})

	return p
}

func kinds(p *Plan) []diagnostic.Kind {
	var out []diagnostic.Kind
	for _, d := range p.Diagnostics.Errors() {
		out = append(out, d.Kind)
	}

	return out
}

func member(n *Node, source string) *MemberMapping {
	for i := range n.Members {
		if n.Members[i].SourceName == source {
			return &n.Members[i]
		}
	}

	return nil
}
