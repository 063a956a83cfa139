package gen

import (
	"go/types"
	"slices"
	"strconv"
	"strings"

	"mapsynth/internal/analyze"
	"mapsynth/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
	// Named is set when Alias differs from the last path element.
	Named bool
}

// scope tracks the imports one generated file needs.
type scope struct {
	graph    *analyze.TypeGraph
	self     string
	registry string
	imports  map[string]importSpec
}

func newScope(graph *analyze.TypeGraph, cfg GeneratorConfig) *scope {
	return &scope{
		graph:    graph,
		self:     cfg.PackagePath,
		registry: cfg.RegistryImport,
		imports:  make(map[string]importSpec),
	}
}

// pkgName returns the package name for a given package path.
// It tries to look up the name from the type graph, falling back to the path base alias.
func (s *scope) pkgName(pkgPath string) string {
	if s.graph != nil {
		if pkgInfo, ok := s.graph.Packages[pkgPath]; ok && pkgInfo.Name != "" {
			return pkgInfo.Name
		}
	}

	return common.PkgAlias(pkgPath)
}

// use records pkgPath as imported and returns its alias.
func (s *scope) use(pkgPath string) string {
	if spec, ok := s.imports[pkgPath]; ok {
		return spec.Alias
	}

	alias := s.pkgName(pkgPath)
	s.imports[pkgPath] = importSpec{Alias: alias, Path: pkgPath, Named: alias != common.PkgAlias(pkgPath)}

	return alias
}

// sortedImports returns the recorded imports ordered by path.
func (s *scope) sortedImports() []importSpec {
	out := make([]importSpec, 0, len(s.imports))
	for _, spec := range s.imports {
		out = append(out, spec)
	}

	slices.SortFunc(out, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return out
}

// qualified spells a package-level identifier of pkgPath.
func (s *scope) qualified(pkgPath, name string) string {
	if pkgPath == "" || pkgPath == s.self {
		return name
	}

	return s.use(pkgPath) + "." + name
}

// funcRef resolves a user routine reference such as "strconv.Itoa" or
// "mapsynth/store.FormatStatus". The last dot separates the import path.
func (s *scope) funcRef(ref string) string {
	i := strings.LastIndex(ref, ".")
	if i < 0 {
		return ref
	}

	return s.qualified(ref[:i], ref[i+1:])
}

// typeExpr spells t as Go source, e.g. "*store.Order" or "iter.Seq[int]".
func (s *scope) typeExpr(t *analyze.TypeInfo) string {
	if t == nil {
		return "any"
	}

	if t.IsNamed() {
		return s.qualified(t.ID.PkgPath, t.ID.Name)
	}

	switch {
	case t.Nullable != nil:
		return "*" + s.typeExpr(t.Nullable)
	case t.Container == analyze.ContainerMapContract:
		return s.use("iter") + ".Seq2[" + s.typeExpr(t.KeyType) + ", " + s.typeExpr(t.ValueType) + "]"
	case t.KeyType != nil && t.ValueType != nil:
		return "map[" + s.typeExpr(t.KeyType) + "]" + s.typeExpr(t.ValueType)
	case t.Container == analyze.ContainerSequenceContract, t.Container == analyze.ContainerSetContract:
		return s.use("iter") + ".Seq[" + s.typeExpr(t.ElemType) + "]"
	}

	return s.concreteExpr(t, t.Container)
}

// concreteExpr spells the unnamed concrete container of family c holding the
// elements of t. Non-container types fall back to their go/types spelling.
func (s *scope) concreteExpr(t *analyze.TypeInfo, c analyze.ContainerKind) string {
	switch c {
	case analyze.ContainerArray:
		return "[" + strconv.Itoa(t.Len) + "]" + s.typeExpr(t.ElemType)
	case analyze.ContainerSet:
		return "map[" + s.typeExpr(t.ElemType) + "]struct{}"
	case analyze.ContainerMap:
		return "map[" + s.typeExpr(t.KeyType) + "]" + s.typeExpr(t.ValueType)
	case analyze.ContainerList:
		return "[]" + s.typeExpr(t.ElemType)
	}

	if t.GoType != nil {
		return types.TypeString(t.GoType, func(p *types.Package) string { return s.use(p.Path()) })
	}

	return "any"
}
