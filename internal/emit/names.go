package emit

import (
	"strconv"

	"mapsynth/internal/analyze"
	"mapsynth/internal/common"
	"mapsynth/internal/plan"
)

// namer hands out unique routine names.
type namer struct {
	used  map[string]int
	byKey map[plan.PairKey]string
}

func newNamer() *namer {
	return &namer{
		used:  make(map[string]int),
		byKey: make(map[plan.PairKey]string),
	}
}

// assign names the routine of n. A requested name is kept when still free;
// a clash gets the next numeric suffix ("MapAToB", "MapAToB2", ...).
func (nm *namer) assign(n *plan.Node) string {
	base := n.RoutineName
	if base == "" {
		base = RoutineName(n.Source, n.Target)
	}

	name := base
	for nm.used[name] > 0 {
		nm.used[base]++
		name = base + strconv.Itoa(nm.used[base])
	}

	nm.used[name]++
	nm.byKey[n.Key] = name

	return name
}

// RoutineName returns the default routine name of src -> dst,
// e.g. MapStoreOrderToWarehouseOrder.
func RoutineName(src, dst *analyze.TypeInfo) string {
	return "Map" + stem(src) + "To" + stem(dst)
}

func stem(t *analyze.TypeInfo) string {
	if t == nil {
		return "Nil"
	}

	if t.IsNamed() {
		return common.Identifier(common.PkgAlias(t.ID.PkgPath)) + common.Capitalize(t.ID.Name)
	}

	switch {
	case t.Nullable != nil:
		return "Ptr" + stem(t.Nullable)
	case t.Container == analyze.ContainerMapContract:
		return stem(t.KeyType) + stem(t.ValueType) + "Seq2"
	case t.KeyType != nil && t.ValueType != nil:
		return stem(t.KeyType) + stem(t.ValueType) + "Map"
	case t.Container == analyze.ContainerArray:
		return stem(t.ElemType) + "Array" + strconv.Itoa(t.Len)
	case t.Container == analyze.ContainerSet:
		return stem(t.ElemType) + "Set"
	case t.Container == analyze.ContainerSetContract:
		return stem(t.ElemType) + "SetOf"
	case t.Container == analyze.ContainerSequenceContract:
		return stem(t.ElemType) + "Seq"
	case t.ElemType != nil:
		return stem(t.ElemType) + "List"
	default:
		return common.Identifier(analyze.TypeString(t))
	}
}
