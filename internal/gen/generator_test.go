package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
	"mapsynth/internal/mapping"
	"mapsynth/internal/plan"
)

const (
	storePkg     = "example.com/store"
	warehousePkg = "example.com/warehouse"
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

func ptr(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindPointer, Nullable: t}
}

func list(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: t, Container: analyze.ContainerList}
}

func array(n int, t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindArray, ElemType: t, Len: n, Container: analyze.ContainerArray}
}

func seq(t *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindInterface, ElemType: t, Container: analyze.ContainerSequenceContract}
}

func dict(k, v *analyze.TypeInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{Kind: analyze.TypeKindMap, ElemType: k, KeyType: k, ValueType: v, Container: analyze.ContainerMap}
}

func request(src, dst *analyze.TypeInfo) mapping.Request {
	return mapping.Request{Source: src, Target: dst, Origin: mapping.OriginExplicit}
}

func generate(t *testing.T, reqs ...mapping.Request) map[string]string {
	t.Helper()

	p := plan.NewResolver(analyze.NewTypeGraph(), reqs, plan.DefaultConfig()).Resolve()
	prog := emit.Synthesize(p)

	files, err := NewGenerator(nil, DefaultGeneratorConfig()).Generate(prog)
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	fset := token.NewFileSet()

	for _, f := range files {
		_, err := parser.ParseFile(fset, f.Filename, f.Content, parser.AllErrors)
		require.NoError(t, err, "file %s:\n%s", f.Filename, f.Content)

		out[f.Filename] = string(f.Content)
	}

	return out
}

func orderPair() (*analyze.TypeInfo, *analyze.TypeInfo) {
	srcStatus := enum(storePkg, "Status", "Pending", "Paid")
	dstStatus := enum(warehousePkg, "Status", "Pending", "Paid")
	srcLine := object(storePkg, "Line", field("Sku", tString), field("Qty", tInt))
	dstLine := object(warehousePkg, "Line", field("Sku", tString), field("Qty", tInt))
	srcCustomer := object(storePkg, "Customer", field("Name", tString))
	dstCustomer := object(warehousePkg, "Customer", field("Name", tString))

	src := object(storePkg, "Order",
		field("Id", tInt),
		field("Status", srcStatus),
		field("Lines", list(srcLine)),
		field("Customer", srcCustomer),
		field("Note", ptr(srcCustomer)),
	)
	dst := object(warehousePkg, "Order",
		field("Id", tInt),
		field("Status", dstStatus),
		field("Lines", list(dstLine)),
		field("Customer", dstCustomer),
		field("Note", ptr(dstCustomer)),
	)

	return src, dst
}

func TestGenerate_ObjectGraph(t *testing.T) {
	src, dst := orderPair()
	files := generate(t, request(src, dst))

	order := files["map_store_order_to_warehouse_order.go"]
	require.NotEmpty(t, order)

	assert.Contains(t, order, "// Code generated by mapsynth. DO NOT EDIT.")
	assert.Contains(t, order, "package mappers")
	assert.Contains(t, order, `"example.com/store"`)
	assert.Contains(t, order, `"example.com/warehouse"`)
	assert.Contains(t, order, "func MapStoreOrderToWarehouseOrder(in *store.Order) (*warehouse.Order, error) {")
	assert.Contains(t, order, "if in == nil {")
	assert.Contains(t, order, "out := &warehouse.Order{}")
	assert.Contains(t, order, "out.Id = in.Id")
	assert.Contains(t, order, "MapStoreStatusToWarehouseStatus(in.Status)")
	assert.Contains(t, order, "MapStoreLineListToWarehouseLineList(in.Lines)")
	assert.Contains(t, order, "MapStoreCustomerToWarehouseCustomer(in.Note)")
	assert.Contains(t, order, "return out, nil")

	status := files["map_store_status_to_warehouse_status.go"]
	assert.Contains(t, status, "func MapStoreStatusToWarehouseStatus(in store.Status) (warehouse.Status, error) {")
	assert.Contains(t, status, "case store.Paid:")
	assert.Contains(t, status, "return warehouse.Paid, nil")
	assert.Contains(t, status, "registry.ErrInvalidEnumValue")
	assert.NotContains(t, status, "if in == nil")

	lines := files["map_store_line_list_to_warehouse_line_list.go"]
	assert.Contains(t, lines, "make([]warehouse.Line, 0, len(in))")
	assert.Contains(t, lines, "for _, v := range in {")
	assert.Contains(t, lines, "out = append(out, ")
}

func TestGenerate_RegisterFile(t *testing.T) {
	src, dst := orderPair()
	files := generate(t, request(src, dst))

	reg := files[RegisterFile]
	require.NotEmpty(t, reg)
	assert.Contains(t, reg, "func Register(b *registry.Builder) {")
	assert.Contains(t, reg, "registry.TagFor[*store.Order](), registry.TagFor[*warehouse.Order]()")
	assert.Contains(t, reg, "registry.TagFor[store.Order](), registry.TagFor[warehouse.Order]()")
	assert.Contains(t, reg, "return MapStoreOrderToWarehouseOrder(src.(*store.Order))")
	assert.NotContains(t, reg, "MapStoreStatusToWarehouseStatus", "only public pairs are registered")
}

func TestGenerate_Placeholder(t *testing.T) {
	src := object(storePkg, "Box", field("Size", tInt))
	dst := object(warehousePkg, "Box", field("Size", tString))
	files := generate(t, request(src, dst))

	box := files["map_store_box_to_warehouse_box.go"]
	assert.Contains(t, box, "registry.ErrPlaceholder")
	assert.Contains(t, box, "It always fails:")
	assert.NotContains(t, box, "out :=")
}

func TestGenerate_ContractTarget(t *testing.T) {
	srcLine := object(storePkg, "Line", field("Qty", tInt))
	dstLine := object(warehousePkg, "Line", field("Qty", tInt))
	files := generate(t, request(list(srcLine), seq(dstLine)))

	body := files["map_store_line_list_to_warehouse_line_seq.go"]
	require.NotEmpty(t, body)
	assert.Contains(t, body, `"iter"`)
	assert.Contains(t, body, "make([]warehouse.Line, 0, len(in))")
	assert.Contains(t, body, "slices.Values(out)")
}

func TestGenerate_SharedDictionary(t *testing.T) {
	named := &analyze.TypeInfo{
		ID:        analyze.TypeID{PkgPath: warehousePkg, Name: "Counts"},
		Kind:      analyze.TypeKindMap,
		ElemType:  tString,
		KeyType:   tString,
		ValueType: tInt,
		Container: analyze.ContainerMap,
	}
	files := generate(t, request(dict(tString, tInt), named))

	body := files["map_string_int_map_to_warehouse_counts.go"]
	require.NotEmpty(t, body)
	assert.Contains(t, body, "return warehouse.Counts(in), nil")
}

func TestGenerate_ArrayRejectsLengthMismatch(t *testing.T) {
	foo := object(storePkg, "Foo", field("Id", tInt))
	bar := object(warehousePkg, "Bar", field("Id", tInt))

	files := generate(t, request(list(foo), array(2, bar)))

	var body string
	for _, content := range files {
		if strings.Contains(content, "var out [2]warehouse.Bar") {
			body = content
		}
	}

	require.NotEmpty(t, body)
	assert.Contains(t, body, "registry.ErrLengthMismatch, len(out))")
	assert.Contains(t, body, "registry.ErrLengthMismatch, i, len(out))")
	assert.NotContains(t, body, "break")
}

func TestGenerate_UserCall(t *testing.T) {
	req := request(tInt, tString)
	req.UserImplemented = true
	req.UserFunc = "strconv.Itoa"

	files := generate(t, req)

	body := files["map_int_to_string.go"]
	require.NotEmpty(t, body)
	assert.Contains(t, body, `"strconv"`)
	assert.Contains(t, body, "return strconv.Itoa(in), nil")
}

func TestGenerate_SelfPackageIsUnqualified(t *testing.T) {
	src := object(storePkg, "Item", field("Id", tInt))
	dst := object(warehousePkg, "Item", field("Id", tInt))

	p := plan.NewResolver(analyze.NewTypeGraph(), []mapping.Request{request(src, dst)}, plan.DefaultConfig()).Resolve()

	cfg := DefaultGeneratorConfig()
	cfg.PackageName = "warehouse"
	cfg.PackagePath = warehousePkg

	files, err := NewGenerator(nil, cfg).Generate(emit.Synthesize(p))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content := string(files[0].Content)
	assert.Contains(t, content, "(*Item, error)")
	assert.NotContains(t, content, `"example.com/warehouse"`)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"MapStoreOrderToWarehouseOrder", "map_store_order_to_warehouse_order.go"},
		{"MapASToBT", "map_as_to_bt.go"},
		{"Convert2", "convert2.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(tt.name))
		})
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	err := WriteFiles([]GeneratedFile{{Filename: "a.go", Content: []byte("package a\n")}}, dir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(content))
}

func TestWriteDebugUnformatted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeDebugUnformatted(dir, "broken.go", []byte("package x\nfunc {")))

	_, err := os.Stat(filepath.Join(dir, "broken.unformatted.go"))
	require.NoError(t, err)

	assert.NoError(t, writeDebugUnformatted("", "broken.go", nil))
}
