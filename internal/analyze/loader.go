package analyze

import (
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"mapsynth/internal/common"
	"mapsynth/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	fset      *token.FileSet
	loading   map[string]bool
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		loading:   make(map[string]bool),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "mapsynth/warehouse").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register every package first so named types from sibling packages are
	// analyzed as ours rather than external.
	for _, pkg := range pkgs {
		a.loading[pkg.PkgPath] = true
	}

	for _, pkg := range pkgs {
		a.fset = pkg.Fset
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = dirOf(pkg.GoFiles[0])
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		typeInfo := a.analyzeType(typeName.Type())

		a.graph.Types[typeInfo.ID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeInfo.ID)
	}

	return nil
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Alias:
		*info = *a.analyzeType(types.Unalias(tt))

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.ID = TypeID{Name: tt.Name()}
		a.analyzeBasic(tt, info)

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.Nullable = a.analyzeType(tt.Elem())

	default:
		a.analyzeStructure(t, info)
	}

	return info
}

// analyzeStructure fills capabilities for unnamed composite types.
func (a *Analyzer) analyzeStructure(t types.Type, info *TypeInfo) {
	switch tt := t.(type) {
	case *types.Slice:
		info.Kind = TypeKindSlice
		info.Container = ContainerList
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.Container = ContainerArray
		info.Len = int(tt.Len())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		key := a.analyzeType(tt.Key())
		if isEmptyStruct(tt.Elem()) {
			info.Kind = TypeKindSet
			info.Container = ContainerSet
			info.ElemType = key

			return
		}

		// Ranging over a map yields its keys, so a map also enumerates.
		info.Kind = TypeKindMap
		info.Container = ContainerMap
		info.ElemType = key
		info.KeyType = key
		info.ValueType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		a.analyzeBasic(tt, info)

	default:
		// Channels, funcs and general interfaces are unsupported.
		info.Kind = TypeKindUnknown
	}
}

func (a *Analyzer) analyzeBasic(b *types.Basic, info *TypeInfo) {
	if b.Info()&types.IsString != 0 {
		info.Textual = true
		info.ElemType = a.analyzeType(types.Typ[types.Rune])
	}
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Predeclared named types such as error.
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindExternal

		return
	}

	pkgPath := obj.Pkg().Path()
	info.ID = TypeID{PkgPath: pkgPath, Name: obj.Name()}
	info.Loc = a.location(obj.Pos(), info.ID.Short())

	if pkgPath == "iter" && named.TypeArgs().Len() > 0 {
		a.analyzeIterContract(named, info)
		return
	}

	if a.isExternalPackage(pkgPath) {
		info.Kind = TypeKindExternal
		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)
		a.analyzeGetters(named, info)
		a.analyzeConstructors(named, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		a.analyzeBasic(ut, info)

		if members := a.enumMembers(named); len(members) > 0 {
			info.Kind = TypeKindEnum
			info.EnumMembers = members
			info.Textual = false
			info.ElemType = nil
		}

	default:
		a.analyzeStructure(ut, info)
	}
}

// analyzeIterContract maps iter.Seq[T] and iter.Seq2[K,V] to container contracts.
func (a *Analyzer) analyzeIterContract(named *types.Named, info *TypeInfo) {
	args := named.TypeArgs()
	info.Kind = TypeKindInterface
	// Instantiations are unnamed for identity purposes; seq[T] is spelled structurally.
	info.ID = TypeID{}

	switch named.Obj().Name() {
	case "Seq":
		info.Container = ContainerSequenceContract
		info.ElemType = a.analyzeType(args.At(0))
	case "Seq2":
		info.Container = ContainerMapContract
		info.KeyType = a.analyzeType(args.At(0))
		info.ElemType = info.KeyType
		info.ValueType = a.analyzeType(args.At(1))
	default:
		info.Kind = TypeKindUnknown
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	return !a.loading[pkgPath]
}

// analyzeStructFields extracts members from a struct type.
// Unexported fields are recorded as constructor-only until analyzeGetters finds an accessor.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		slot := SlotSettable
		if !field.Exported() {
			slot = SlotConstructorOnly
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Slot:     slot,
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
			Loc:      a.location(field.Pos(), info.ID.Short()+"."+field.Name()),
		})
	}
}

// analyzeGetters upgrades unexported fields that have an exported accessor
// method (field "name" with method "Name() T") to read-only members.
func (a *Analyzer) analyzeGetters(named *types.Named, info *TypeInfo) {
	mset := types.NewMethodSet(types.NewPointer(named))

	for i := range info.Fields {
		f := &info.Fields[i]
		if f.Exported {
			continue
		}

		getter := common.Capitalize(f.Name)

		sel := mset.Lookup(named.Obj().Pkg(), getter)
		if sel == nil {
			continue
		}

		sig, ok := sel.Type().(*types.Signature)
		if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}

		f.Slot = SlotReadOnly
		f.Getter = getter
	}
}

// analyzeConstructors collects package-level functions named New<Type>... that
// return the type (optionally by pointer, optionally with an error).
// The composite literal is appended last when every field is exported.
func (a *Analyzer) analyzeConstructors(named *types.Named, info *TypeInfo) {
	scope := named.Obj().Pkg().Scope()
	prefix := "New" + named.Obj().Name()

	var funcs []*types.Func

	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !strings.HasPrefix(name, prefix) || !fn.Exported() {
			continue
		}

		funcs = append(funcs, fn)
	}

	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Pos() < funcs[j].Pos() })

	for _, fn := range funcs {
		ctor, ok := a.constructorOf(fn, named)
		if !ok {
			continue
		}

		ctor.Index = len(info.Constructors)
		info.Constructors = append(info.Constructors, ctor)
	}

	for _, f := range info.Fields {
		if !f.Exported {
			return
		}
	}

	info.Constructors = append(info.Constructors, Constructor{Index: len(info.Constructors), Loc: info.Loc})
}

func (a *Analyzer) constructorOf(fn *types.Func, named *types.Named) (Constructor, bool) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || sig.Variadic() {
		return Constructor{}, false
	}

	results := sig.Results()
	if results.Len() == 0 || results.Len() > 2 {
		return Constructor{}, false
	}

	ctor := Constructor{Name: fn.Name(), Loc: a.location(fn.Pos(), fn.Name())}

	ret := results.At(0).Type()
	if ptr, ok := ret.(*types.Pointer); ok {
		ctor.ReturnsPointer = true
		ret = ptr.Elem()
	}

	if !types.Identical(ret, named) {
		return Constructor{}, false
	}

	if results.Len() == 2 {
		if !isErrorType(results.At(1).Type()) {
			return Constructor{}, false
		}

		ctor.ReturnsError = true
	}

	params := sig.Params()
	for i := range params.Len() {
		p := params.At(i)
		ctor.Params = append(ctor.Params, Param{Name: p.Name(), Type: a.analyzeType(p.Type())})
	}

	return ctor, true
}

// enumMembers returns the constants declared with the named type, in source order.
func (a *Analyzer) enumMembers(named *types.Named) []EnumMember {
	scope := named.Obj().Pkg().Scope()

	var consts []*types.Const

	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), named) {
			continue
		}

		consts = append(consts, c)
	}

	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

	members := make([]EnumMember, 0, len(consts))
	for i, c := range consts {
		ordinal := int64(i)
		if v, exact := constantInt(c); exact {
			ordinal = v
		}

		members = append(members, EnumMember{
			Name:    c.Name(),
			Ordinal: ordinal,
			Literal: c.Val().ExactString(),
			Loc:     a.location(c.Pos(), c.Name()),
		})
	}

	return members
}

func (a *Analyzer) location(pos token.Pos, label string) diagnostic.Location {
	loc := diagnostic.Location{Label: label}
	if a.fset == nil || !pos.IsValid() {
		return loc
	}

	p := a.fset.Position(pos)
	loc.File = p.Filename
	loc.Line = p.Line
	loc.Column = p.Column

	return loc
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}
	return info, nil
}
