// Package mapping provides the YAML directive front-end: schema definitions,
// parsing, validation and the normalized request list consumed by the resolver.
//
// # Schema Overview
//
//	version: "1"
//	defaults:
//	  ignore_missing: false   # class-level default, overridable per mapping
//	  deep_copy: true         # class-level default, overridable per mapping
//	types:                    # optional language-neutral declarations
//	  - name: model.Person
//	    kind: struct
//	    fields:
//	      - {name: Id, type: int}
//	      - {name: Name, type: string, slot: readonly}
//	    constructors:
//	      - name: NewPerson
//	        params: [{name: name, type: string}]
//	  - name: model.Color
//	    kind: enum
//	    values: [Red, Green, Blue]
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    members:              # source member: target member
//	      Number: Number
//	    enum_values:          # source value: target value (enum pairs)
//	      X: P
//	    reverse: true         # also synthesize target -> source
//	    ignore_missing: true
//	    deep_copy: false
//	  - source: int
//	    target: string
//	    func: strconv.Itoa    # user-authored routine, treated as solved
//
// # Type expressions
//
// Source and target references accept named types ("store.Order",
// "mapsynth/store.Order", "Order") and composites:
//   - "*T" nullable wrapper
//   - "[]T" list, "[N]T" array, "set[T]" hash set
//   - "map[K]V" hash map
//   - "seq[T]", "setof[T]", "seq2[K]V" sequence, set and dictionary contracts
//
// Every directive keeps its YAML position so diagnostics can point at it.
package mapping
