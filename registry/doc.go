// Package registry is the runtime side of mapsynth: a table of conversion
// routines keyed by (source type, target type) and a dispatcher that selects
// one by the runtime type of a value.
//
// A Builder collects routines, Build freezes them into a Dispatcher that is
// safe for concurrent use and never changes afterwards:
//
//	b := registry.NewBuilder()
//	b.Add(registry.TagFor[store.Order](), registry.TagFor[warehouse.Order](), mapOrder)
//	_ = b.Register(strconv.Itoa)
//	d, err := b.Build()
//	...
//	out, err := registry.Convert[warehouse.Order](d, order)
package registry
