package eval

import (
	"strconv"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
	"mapsynth/internal/mapping"
	"mapsynth/internal/plan"
	"mapsynth/registry"
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

func array(n int, t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindArray, ElemType: t, Len: n, Container: analyze.ContainerArray}
}

func dict(k, v *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindMap, ElemType: k, KeyType: k, ValueType: v, Container: analyze.ContainerMap}
}

func tag(t *analyze.TypeInfo) registry.Tag {
	return registry.NamedTag(analyze.TypeKey(t))
}

func build(t *testing.T, cfg plan.ResolutionConfig, funcs map[string]any, reqs ...mapping.Request) *registry.Dispatcher {
	t.Helper()

	p := plan.NewResolver(analyze.NewTypeGraph(), reqs, cfg).Resolve()
	prog := emit.Synthesize(p)

	b := registry.NewBuilder()
	require.NoError(t, Install(b, prog, funcs))

	d, err := b.Build()
	require.NoError(t, err)

	return d
}

func newObject(t *analyze.TypeInfo, kv ...any) *Object {
	o := NewObject(t)
	for i := 0; i+1 < len(kv); i += 2 {
		o.Fields[kv[i].(string)] = kv[i+1]
	}

	return o
}

func TestEval_IdenticalMembers(t *testing.T) {
	src := object("app/a", "Source", field("Id", tInt), field("Name", tString))
	dst := object("app/b", "Target", field("Id", tInt), field("Name", tString))

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: src, Target: dst})

	out, err := d.Dispatch(newObject(src, "Id", 1, "Name", "John"), tag(dst))
	require.NoError(t, err)

	want := newObject(dst, "Id", 1, "Name", "John")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEval_RoundTrip(t *testing.T) {
	addr := object("app/a", "Address", field("City", tString))
	addrDTO := object("app/b", "Address", field("City", tString))
	src := object("app/a", "Person", field("ID", tInt), field("Name", tString), field("Home", addr))
	dst := object("app/b", "Person", field("Id", tInt), field("FullName", tString), field("Home", addrDTO))

	req := mapping.Request{Source: src, Target: dst}
	req.Directives.MemberRenames = []mapping.Rename{{Source: "Name", Target: "FullName"}}
	req.Directives.Reverse = true

	addrReq := mapping.Request{Source: addr, Target: addrDTO}
	addrReq.Directives.Reverse = true

	d := build(t, plan.DefaultConfig(), nil, req, addrReq)

	in := newObject(src, "ID", 7, "Name", "Ada", "Home", newObject(addr, "City", "London"))

	forward, err := d.Dispatch(in, tag(dst))
	require.NoError(t, err)

	back, err := d.Dispatch(forward, tag(src))
	require.NoError(t, err)

	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\nforward: %s", diff, spew.Sdump(forward))
	}
}

func TestEval_AbsentSource(t *testing.T) {
	inner := object("app/a", "Inner", field("Id", tInt))
	innerDTO := object("app/b", "Inner", field("Id", tInt))
	src := object("app/a", "Outer", field("Inner", &analyze.TypeInfo{Kind: analyze.TypeKindPointer, Nullable: inner}))
	dst := object("app/b", "Outer", field("Inner", &analyze.TypeInfo{Kind: analyze.TypeKindPointer, Nullable: innerDTO}))

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: src, Target: dst})

	out, err := d.Dispatch(nil, tag(dst))
	require.NoError(t, err)
	assert.Nil(t, out)

	var absent *Object
	out, err = d.Dispatch(absent, tag(dst))
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = d.Dispatch(newObject(src, "Inner", nil), tag(dst))
	require.NoError(t, err)
	assert.Nil(t, out.(*Object).Fields["Inner"])
}

func TestEval_EnumDispatch(t *testing.T) {
	e1 := enum("app/a", "E1", "X", "Y")
	e2 := enum("app/b", "E2", "P", "Q")

	req := mapping.Request{Source: e1, Target: e2}
	req.Directives.EnumRenames = []mapping.Rename{{Source: "X", Target: "P"}, {Source: "Y", Target: "Q"}}

	d := build(t, plan.DefaultConfig(), nil, req)

	x, _ := NewEnum(e1, "X")
	out, err := d.Dispatch(x, tag(e2))
	require.NoError(t, err)
	assert.Equal(t, Enum{Type: "app/b.E2", Name: "P", Ordinal: 0}, out)

	y, _ := NewEnum(e1, "Y")
	out, err = d.Dispatch(y, tag(e2))
	require.NoError(t, err)
	assert.Equal(t, "Q", out.(Enum).Name)

	_, err = d.Dispatch(Enum{Type: "app/a.E1", Name: "W"}, tag(e2))
	assert.ErrorIs(t, err, registry.ErrInvalidEnumValue)
}

func TestEval_ListToSetProjection(t *testing.T) {
	foo := object("app/a", "Foo", field("Id", tInt))
	bar := object("app/b", "Bar", field("Id", tInt))

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: list(foo), Target: set(bar)})

	in := &List{Type: analyze.TypeKey(list(foo)), Items: []any{newObject(foo, "Id", 1), newObject(foo, "Id", 2)}}

	out, err := d.Dispatch(in, tag(set(bar)))
	require.NoError(t, err)

	s, ok := out.(*Set)
	require.True(t, ok)
	require.Len(t, s.Items, 2)
	assert.Equal(t, newObject(bar, "Id", 2), s.Items[1])

	empty, err := d.Dispatch(&List{Type: in.Type, Items: []any{}}, tag(set(bar)))
	require.NoError(t, err)
	assert.Empty(t, empty.(*Set).Items)
	assert.IsType(t, &Set{}, empty)
}

func TestEval_CopyPolicy(t *testing.T) {
	ints := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "app/b", Name: "Ints"}, Kind: analyze.TypeKindSlice, ElemType: tInt, Container: analyze.ContainerList}
	in := &List{Type: "[]int", Items: []any{1, 2, 3}}

	shallow := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: list(tInt), Target: ints})
	out, err := shallow.Dispatch(in, tag(ints))
	require.NoError(t, err)
	assert.Same(t, &in.Items[0], &out.(*List).Items[0])

	cfg := plan.DefaultConfig()
	cfg.DeepCopy = true

	deep := build(t, cfg, nil, mapping.Request{Source: list(tInt), Target: ints})
	out, err = deep.Dispatch(in, tag(ints))
	require.NoError(t, err)
	assert.Equal(t, in.Items, out.(*List).Items)
	assert.NotSame(t, &in.Items[0], &out.(*List).Items[0])
}

func TestEval_ProjectionAllocatesEvenWhenShallow(t *testing.T) {
	foo := object("app/a", "Foo", field("Id", tInt))
	bar := object("app/b", "Bar", field("Id", tInt))

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: list(foo), Target: list(bar)})

	in := &List{Type: analyze.TypeKey(list(foo)), Items: []any{newObject(foo, "Id", 1)}}
	out, err := d.Dispatch(in, tag(list(bar)))
	require.NoError(t, err)
	assert.NotSame(t, &in.Items[0], &out.(*List).Items[0])
}

func TestEval_ArrayLengthMustMatch(t *testing.T) {
	foo := object("app/a", "Foo", field("Id", tInt))
	bar := object("app/b", "Bar", field("Id", tInt))

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: list(foo), Target: array(2, bar)})

	items := func(n int) *List {
		l := &List{Type: analyze.TypeKey(list(foo))}
		for i := range n {
			l.Items = append(l.Items, newObject(foo, "Id", i))
		}

		return l
	}

	out, err := d.Dispatch(items(2), tag(array(2, bar)))
	require.NoError(t, err)
	assert.Len(t, out.(*List).Items, 2)

	for _, n := range []int{1, 3} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			_, err := d.Dispatch(items(n), tag(array(2, bar)))
			require.ErrorIs(t, err, registry.ErrLengthMismatch)
		})
	}
}

func TestEval_DictionaryLastWriteWins(t *testing.T) {
	e1 := enum("app/a", "E1", "X", "Y")
	e2 := enum("app/b", "E2", "P")

	enumReq := mapping.Request{Source: e1, Target: e2}
	enumReq.Directives.EnumRenames = []mapping.Rename{{Source: "X", Target: "P"}, {Source: "Y", Target: "P"}}

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: dict(e1, tInt), Target: dict(e2, tInt)}, enumReq)

	in := NewDict(analyze.TypeKey(dict(e1, tInt)))
	x, _ := NewEnum(e1, "X")
	y, _ := NewEnum(e1, "Y")
	in.Put(x, 1)
	in.Put(y, 2)

	out, err := d.Dispatch(in, tag(dict(e2, tInt)))
	require.NoError(t, err)

	got := out.(*Dict)
	p, _ := NewEnum(e2, "P")
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 2, got.Entries[p])
}

func TestEval_UserCallAndPlaceholder(t *testing.T) {
	src := object("app/a", "S", field("Count", tInt))
	dst := object("app/b", "T", field("Count", tString))
	bad := object("app/a", "Bad", field("Missing", tInt))

	user := mapping.Request{Source: tInt, Target: tString, UserImplemented: true, UserFunc: "strconv.Itoa"}

	d := build(t, plan.DefaultConfig(), map[string]any{"strconv.Itoa": strconv.Itoa},
		mapping.Request{Source: src, Target: dst}, user, mapping.Request{Source: bad, Target: dst})

	out, err := d.Dispatch(newObject(src, "Count", 42), tag(dst))
	require.NoError(t, err)
	assert.Equal(t, "42", out.(*Object).Fields["Count"])

	_, err = d.Dispatch(newObject(bad, "Missing", 1), tag(dst))
	assert.ErrorIs(t, err, registry.ErrPlaceholder)
}

func TestEval_NoMapping(t *testing.T) {
	src := object("app/a", "Source", field("Id", tInt))
	dst := object("app/b", "Target", field("Id", tInt))
	unrelated := object("app/c", "Unrelated")

	d := build(t, plan.DefaultConfig(), nil, mapping.Request{Source: src, Target: dst})

	_, err := d.Dispatch(NewObject(unrelated), tag(dst))

	var nm *registry.NoMappingError
	require.ErrorAs(t, err, &nm)
	assert.Contains(t, err.Error(), "app/c.Unrelated")
	assert.Contains(t, err.Error(), "app/b.Target")
}

func TestInstall_MissingUserFunc(t *testing.T) {
	user := mapping.Request{Source: tInt, Target: tString, UserImplemented: true, UserFunc: "strconv.Itoa"}
	p := plan.NewResolver(analyze.NewTypeGraph(), []mapping.Request{user}, plan.DefaultConfig()).Resolve()

	err := Install(registry.NewBuilder(), emit.Synthesize(p), nil)
	assert.ErrorContains(t, err, "strconv.Itoa")
}
