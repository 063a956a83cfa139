package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsynth/internal/analyze"
	"mapsynth/internal/mapping"
	"mapsynth/internal/plan"
)

var (
	tInt    = &analyze.TypeInfo{ID: analyze.TypeID{Name: "int"}, Kind: analyze.TypeKindBasic}
	tString = &analyze.TypeInfo{ID: analyze.TypeID{Name: "string"}, Kind: analyze.TypeKindBasic, Textual: true}
)

func object(pkg, name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:           analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:         analyze.TypeKindStruct,
		Fields:       fields,
		Constructors: []analyze.Constructor{{}},
	}
}

func field(name string, t *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Exported: true, Type: t}
}

func enum(pkg, name string, values ...string) *analyze.TypeInfo {
	t := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: name}, Kind: analyze.TypeKindEnum}
	for i, v := range values {
		t.EnumMembers = append(t.EnumMembers, analyze.EnumMember{Name: v, Ordinal: int64(i)})
	}

	return t
}

func list(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: t, Container: analyze.ContainerList}
}

func set(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSet, ElemType: t, Container: analyze.ContainerSet}
}

func synthesize(t *testing.T, reqs ...mapping.Request) *Program {
	t.Helper()

	p := plan.NewResolver(analyze.NewTypeGraph(), reqs, plan.DefaultConfig()).Resolve()

	return Synthesize(p)
}

func TestSynthesize_Object(t *testing.T) {
	src := object("example.com/store", "Order", field("Id", tInt), field("Name", tString))
	dst := object("example.com/warehouse", "Order", field("Id", tInt), field("Name", tString))

	prog := synthesize(t, mapping.Request{Source: src, Target: dst})

	require.Len(t, prog.Routines, 1)
	r := prog.Routines[0]
	assert.Equal(t, "MapStoreOrderToWarehouseOrder", r.Name)
	assert.True(t, r.NullGuard)

	call, ok := r.Body.(*ConstructorCall)
	require.True(t, ok)
	assert.True(t, call.Constructor.IsLiteral())
	assert.Empty(t, call.Args)
	require.Len(t, call.Inits, 2)
	assert.Equal(t, "Id", call.Inits[0].Member.Name)

	read, ok := call.Inits[1].Value.(*MemberRead)
	require.True(t, ok)
	assert.Equal(t, "Name", read.Member.Name)
	assert.Empty(t, read.Getter())

	require.Len(t, prog.Signatures, 1)
	assert.Equal(t, r.Name, prog.Signatures[0].Name)
	assert.Same(t, r, prog.Routine(r.Key))
}

func TestSynthesize_EnumAndNested(t *testing.T) {
	e1 := enum("example.com/store", "Status", "Open", "Closed")
	e2 := enum("example.com/warehouse", "Status", "Open", "Closed")
	src := object("example.com/store", "Order", field("Status", e1))
	dst := object("example.com/warehouse", "Order", field("Status", e2))

	prog := synthesize(t, mapping.Request{Source: src, Target: dst})

	require.Len(t, prog.Routines, 2)

	enumRoutine := prog.Routines[1]
	assert.Equal(t, "MapStoreStatusToWarehouseStatus", enumRoutine.Name)
	assert.False(t, enumRoutine.NullGuard)

	dispatch, ok := enumRoutine.Body.(*EnumDispatch)
	require.True(t, ok)
	assert.Len(t, dispatch.Cases, 2)

	call := prog.Routines[0].Body.(*ConstructorCall)
	rc, ok := call.Inits[0].Value.(*RoutineCall)
	require.True(t, ok)
	assert.Equal(t, enumRoutine.Name, rc.Routine)
	assert.IsType(t, &MemberRead{}, rc.Arg)

	assert.Len(t, prog.Signatures, 1)
}

func TestSynthesize_ContainerProjection(t *testing.T) {
	foo := object("example.com/a", "Foo", field("Id", tInt))
	bar := object("example.com/b", "Bar", field("Id", tInt))

	prog := synthesize(t, mapping.Request{Source: list(foo), Target: set(bar)})

	require.Len(t, prog.Routines, 2)
	r := prog.Routines[0]
	assert.Equal(t, "MapAFooListToBBarSet", r.Name)

	build, ok := r.Body.(*ContainerBuild)
	require.True(t, ok)
	assert.True(t, build.Projects())
	assert.Equal(t, analyze.ContainerSet, build.Concrete)
	assert.Equal(t, plan.CopyFresh, build.Copy)

	rc := build.Elem.(*RoutineCall)
	assert.Equal(t, &Element{Role: RoleElem}, rc.Arg)
	assert.Equal(t, "MapAFooToBBar", rc.Routine)
}

func TestSynthesize_PlaceholderAndUserCall(t *testing.T) {
	src := object("example.com/a", "S", field("Id", tInt), field("Extra", tInt))
	dst := object("example.com/b", "T", field("Id", tInt))

	user := mapping.Request{Source: tInt, Target: tString, UserImplemented: true, UserFunc: "strconv.Itoa"}

	prog := synthesize(t, mapping.Request{Source: src, Target: dst}, user)

	require.Len(t, prog.Routines, 2)

	ph, ok := prog.Routines[0].Body.(*Placeholder)
	require.True(t, ok)
	assert.Contains(t, ph.Reason, "Extra")

	uc, ok := prog.Routines[1].Body.(*UserCall)
	require.True(t, ok)
	assert.Equal(t, "strconv.Itoa", uc.Func)
	assert.Equal(t, "MapIntToString", prog.Routines[1].Name)
}

func TestSynthesize_ReverseSignature(t *testing.T) {
	src := object("example.com/a", "S", field("Id", tInt))
	dst := object("example.com/b", "T", field("Id", tInt))

	req := mapping.Request{Source: src, Target: dst}
	req.Directives.Reverse = true

	prog := synthesize(t, req)

	require.Len(t, prog.Signatures, 2)
	assert.Equal(t, "MapASToBT", prog.Signatures[0].Name)
	assert.Equal(t, "MapBTToAS", prog.Signatures[1].Name)
}

func TestNamer_Dedup(t *testing.T) {
	nm := newNamer()
	a := &plan.Node{Key: "a", RoutineName: "Convert"}
	b := &plan.Node{Key: "b", RoutineName: "Convert"}
	c := &plan.Node{Key: "c", RoutineName: "Convert"}

	assert.Equal(t, "Convert", nm.assign(a))
	assert.Equal(t, "Convert2", nm.assign(b))
	assert.Equal(t, "Convert3", nm.assign(c))
}
