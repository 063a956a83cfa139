package emit

import (
	"fmt"

	"mapsynth/internal/plan"
)

// Synthesize builds the routine of every node of p. Invalid nodes become
// placeholders so the rest of the program stays usable.
func Synthesize(p *plan.Plan) *Program {
	prog := &Program{byKey: make(map[plan.PairKey]*Routine)}
	names := newNamer()

	for _, n := range p.Nodes {
		names.assign(n)
	}

	reasons := placeholderReasons(p)

	for _, n := range p.Nodes {
		r := &Routine{
			Name:      names.byKey[n.Key],
			Key:       n.Key,
			Source:    n.Source,
			Target:    n.Target,
			NullGuard: n.Kind != plan.EnumMapping && n.Kind != plan.UserSupplied,
		}

		switch {
		case !n.Valid:
			r.Body = &Placeholder{Reason: reasons[n.TypePair()]}
		case n.Kind == plan.UserSupplied:
			r.Body = &UserCall{Func: n.UserFunc, ReturnsError: n.UserFuncErr}
		case n.Kind == plan.EnumMapping:
			r.Body = enumDispatch(n)
		case n.Kind == plan.ObjectMapping:
			r.Body = constructorCall(n, names)
		default:
			r.Body = containerBuild(n, names)
		}

		prog.Routines = append(prog.Routines, r)
		prog.byKey[n.Key] = r
	}

	public := make(map[plan.PairKey]bool)
	addSignature := func(r *Routine) {
		if r != nil && !public[r.Key] {
			public[r.Key] = true
			prog.Signatures = append(prog.Signatures, signature(r))
		}
	}

	for _, n := range p.Explicit() {
		addSignature(prog.byKey[n.Key])

		if n.Reverse {
			addSignature(prog.byKey[plan.KeyOf(n.Target, n.Source)])
		}
	}

	return prog
}

func signature(r *Routine) Signature {
	return Signature{Name: r.Name, Key: r.Key, Source: r.Source, Target: r.Target}
}

// placeholderReasons keeps the first error message of every pair.
func placeholderReasons(p *plan.Plan) map[string]string {
	out := make(map[string]string)

	for _, d := range p.Diagnostics.Errors() {
		if _, ok := out[d.TypePair]; !ok && d.TypePair != "" {
			out[d.TypePair] = d.Message
		}
	}

	return out
}

func enumDispatch(n *plan.Node) *EnumDispatch {
	d := &EnumDispatch{Cases: make([]EnumCase, 0, len(n.Cases))}
	for _, c := range n.Cases {
		d.Cases = append(d.Cases, EnumCase{Source: c.Source, Target: c.Target})
	}

	return d
}

func constructorCall(n *plan.Node, names *namer) *ConstructorCall {
	call := &ConstructorCall{Constructor: n.Constructor}

	for _, a := range n.Args {
		call.Args = append(call.Args, convert(&MemberRead{Member: a.Member}, a.Conversion, names))
	}

	for _, m := range n.Initializers() {
		call.Inits = append(call.Inits, Assign{
			Member: m.Target,
			Value:  convert(&MemberRead{Member: m.Source}, m.Conversion, names),
		})
	}

	return call
}

func containerBuild(n *plan.Node, names *namer) *ContainerBuild {
	cp := n.Container
	b := &ContainerBuild{
		Source:   cp.SourceContainer,
		Concrete: cp.Concrete,
		Len:      cp.Len,
		Copy:     cp.Copy,
	}

	if n.Kind == plan.DictionaryMapping {
		b.Key = convert(&Element{Role: RoleKey}, cp.Key, names)
		b.Value = convert(&Element{Role: RoleValue}, cp.Value, names)
	} else {
		b.Elem = convert(&Element{Role: RoleElem}, cp.Elem, names)
	}

	return b
}

func convert(arg Expr, c plan.Conversion, names *namer) Expr {
	if c.IsIdentity() {
		return arg
	}

	name, ok := names.byKey[c.Pair]
	if !ok {
		panic(fmt.Sprintf("emit: no routine for pair %s", c.Pair))
	}

	return &RoutineCall{Routine: name, Key: c.Pair, Arg: arg, Nullable: c.Nullable}
}
