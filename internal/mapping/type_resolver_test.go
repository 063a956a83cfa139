package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsynth/internal/analyze"
)

func sampleGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	g.Add(&analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "mapsynth/store", Name: "Order"}, Kind: analyze.TypeKindStruct})
	g.Add(&analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "mapsynth/warehouse", Name: "Order"}, Kind: analyze.TypeKindStruct})
	g.Add(&analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "mapsynth/store", Name: "Item"}, Kind: analyze.TypeKindStruct})

	return g
}

func TestTypeResolver_Resolve(t *testing.T) {
	r := NewTypeResolver(sampleGraph())

	tests := []struct {
		expr string
		key  string
	}{
		{"int", "int"},
		{"store.Order", "mapsynth/store.Order"},
		{"mapsynth/warehouse.Order", "mapsynth/warehouse.Order"},
		{"Item", "mapsynth/store.Item"},
		{"*store.Item", "*mapsynth/store.Item"},
		{"[]store.Item", "[]mapsynth/store.Item"},
		{"[3]int", "[3]int"},
		{"map[string][]store.Item", "map[string][]mapsynth/store.Item"},
		{"set[string]", "set[string]"},
		{"setof[int]", "setof[int]"},
		{"seq[*store.Item]", "seq[*mapsynth/store.Item]"},
		{"seq2[string]int", "seq2[string]int"},
		{" map[set[int]]string ", "map[set[int]]string"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			ti, err := r.Resolve(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.key, analyze.TypeKey(ti))
		})
	}
}

func TestTypeResolver_Caches(t *testing.T) {
	r := NewTypeResolver(sampleGraph())

	a, err := r.Resolve("[]store.Item")
	require.NoError(t, err)

	b, err := r.Resolve("[]store.Item")
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestTypeResolver_Errors(t *testing.T) {
	r := NewTypeResolver(sampleGraph())

	for _, expr := range []string{"", "Order", "store.Missing", "[x]int", "map[string", "set[int]x", "[]"} {
		t.Run(expr, func(t *testing.T) {
			_, err := r.Resolve(expr)
			assert.Error(t, err)
		})
	}
}

func TestResolveTypeID(t *testing.T) {
	g := sampleGraph()

	assert.Equal(t, "Order", ResolveTypeID("store.Order", g).ID.Name)
	assert.Nil(t, ResolveTypeID("Order", g), "ambiguous")
	assert.Nil(t, ResolveTypeID("", g))
	assert.Nil(t, ResolveTypeID("store.Order", nil))
}
