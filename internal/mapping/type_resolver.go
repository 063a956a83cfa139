package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"mapsynth/internal/analyze"
)

var basicNames = map[string]bool{
	"bool": true, "string": true, "rune": true, "byte": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "any": true,
}

// TypeResolver resolves type expressions against a type graph.
// Composite expressions are cached so repeated references share one descriptor.
type TypeResolver struct {
	graph *analyze.TypeGraph
	cache map[string]*analyze.TypeInfo
}

// NewTypeResolver creates a TypeResolver over graph.
func NewTypeResolver(graph *analyze.TypeGraph) *TypeResolver {
	return &TypeResolver{
		graph: graph,
		cache: make(map[string]*analyze.TypeInfo),
	}
}

// Resolve resolves a type expression such as "[]store.Item" or "map[string]*store.Item".
func (r *TypeResolver) Resolve(expr string) (*analyze.TypeInfo, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if t, ok := r.cache[expr]; ok {
		return t, nil
	}

	t, err := r.resolve(expr)
	if err != nil {
		return nil, err
	}

	r.cache[expr] = t

	return t, nil
}

func (r *TypeResolver) resolve(expr string) (*analyze.TypeInfo, error) {
	switch {
	case strings.HasPrefix(expr, "*"):
		inner, err := r.Resolve(expr[1:])
		if err != nil {
			return nil, err
		}

		return &analyze.TypeInfo{Kind: analyze.TypeKindPointer, Nullable: inner}, nil

	case strings.HasPrefix(expr, "[]"):
		elem, err := r.Resolve(expr[2:])
		if err != nil {
			return nil, err
		}

		return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, Container: analyze.ContainerList, ElemType: elem}, nil

	case strings.HasPrefix(expr, "["):
		return r.resolveArray(expr)

	case strings.HasPrefix(expr, "map["):
		return r.resolveKeyed(expr, "map[", analyze.TypeKindMap, analyze.ContainerMap)

	case strings.HasPrefix(expr, "seq2["):
		return r.resolveKeyed(expr, "seq2[", analyze.TypeKindInterface, analyze.ContainerMapContract)

	case strings.HasPrefix(expr, "set["):
		return r.resolveWrapped(expr, "set[", analyze.TypeKindSet, analyze.ContainerSet)

	case strings.HasPrefix(expr, "setof["):
		return r.resolveWrapped(expr, "setof[", analyze.TypeKindInterface, analyze.ContainerSetContract)

	case strings.HasPrefix(expr, "seq["):
		return r.resolveWrapped(expr, "seq[", analyze.TypeKindInterface, analyze.ContainerSequenceContract)

	case basicNames[expr]:
		return r.basic(expr), nil
	}

	if t := ResolveTypeID(expr, r.graph); t != nil {
		return t, nil
	}

	return nil, fmt.Errorf("type %q not found", expr)
}

func (r *TypeResolver) basic(name string) *analyze.TypeInfo {
	t := &analyze.TypeInfo{ID: analyze.TypeID{Name: name}, Kind: analyze.TypeKindBasic}
	if name == "string" {
		t.Textual = true
		t.ElemType = &analyze.TypeInfo{ID: analyze.TypeID{Name: "rune"}, Kind: analyze.TypeKindBasic}
	}

	return t
}

func (r *TypeResolver) resolveArray(expr string) (*analyze.TypeInfo, error) {
	end := strings.IndexByte(expr, ']')
	if end < 0 {
		return nil, fmt.Errorf("malformed array type %q", expr)
	}

	n, err := strconv.Atoi(expr[1:end])
	if err != nil {
		return nil, fmt.Errorf("malformed array length in %q: %w", expr, err)
	}

	elem, err := r.Resolve(expr[end+1:])
	if err != nil {
		return nil, err
	}

	return &analyze.TypeInfo{
		Kind:      analyze.TypeKindArray,
		Container: analyze.ContainerArray,
		Len:       n,
		ElemType:  elem,
	}, nil
}

func (r *TypeResolver) resolveWrapped(
	expr, prefix string,
	kind analyze.TypeKind,
	container analyze.ContainerKind,
) (*analyze.TypeInfo, error) {
	end := matchBracket(expr, len(prefix)-1)
	if end != len(expr)-1 {
		return nil, fmt.Errorf("malformed type %q", expr)
	}

	elem, err := r.Resolve(expr[len(prefix):end])
	if err != nil {
		return nil, err
	}

	return &analyze.TypeInfo{Kind: kind, Container: container, ElemType: elem}, nil
}

func (r *TypeResolver) resolveKeyed(
	expr, prefix string,
	kind analyze.TypeKind,
	container analyze.ContainerKind,
) (*analyze.TypeInfo, error) {
	end := matchBracket(expr, len(prefix)-1)
	if end < 0 || end == len(expr)-1 {
		return nil, fmt.Errorf("malformed keyed type %q", expr)
	}

	key, err := r.Resolve(expr[len(prefix):end])
	if err != nil {
		return nil, err
	}

	value, err := r.Resolve(expr[end+1:])
	if err != nil {
		return nil, err
	}

	return &analyze.TypeInfo{
		Kind:      kind,
		Container: container,
		ElemType:  key,
		KeyType:   key,
		ValueType: value,
	}, nil
}

// matchBracket returns the index of the ']' closing the '[' at open, or -1.
func matchBracket(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// ResolveTypeID resolves a named type reference like:
// - "store.Order" (short)
// - "mapsynth/store.Order" (full)
// - "Order" (name only, when unambiguous).
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	if !strings.Contains(typeIDStr, ".") {
		return graph.Lookup(typeIDStr)
	}

	lastDot := strings.LastIndex(typeIDStr, ".")
	pkgStr := typeIDStr[:lastDot]

	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order" vs "mapsynth/store.Order")
	var found *analyze.TypeInfo

	for id, t := range graph.Types {
		if id.Name != name {
			continue
		}

		if id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			if found != nil {
				return nil
			}

			found = t
		}
	}

	return found
}
