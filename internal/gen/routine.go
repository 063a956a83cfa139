package gen

import (
	"fmt"
	"strconv"
	"strings"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
	"mapsynth/internal/plan"
)

// byPointer reports whether r takes and returns pointers.
// Object routines do; every other routine works on values.
func byPointer(r *emit.Routine) bool {
	return analyze.Classify(r.Source).Kind == analyze.ShapeObject &&
		analyze.Classify(r.Target).Kind == analyze.ShapeObject
}

// nilable reports whether the zero value of t can be compared with nil.
func nilable(t *analyze.TypeInfo) bool {
	if t.Nullable != nil {
		return true
	}

	switch t.Container {
	case analyze.ContainerList, analyze.ContainerSet, analyze.ContainerMap,
		analyze.ContainerSequenceContract, analyze.ContainerSetContract, analyze.ContainerMapContract:
		return true
	}

	return false
}

// routineWriter renders the statements of one routine.
type routineWriter struct {
	*scope

	prog  *emit.Program
	r     *emit.Routine
	lines []string
	temps int
}

func (w *routineWriter) emit(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *routineWriter) temp(prefix string) string {
	name := prefix + strconv.Itoa(w.temps)
	w.temps++

	return name
}

func (w *routineWriter) inType() string {
	if byPointer(w.r) {
		return "*" + w.typeExpr(w.r.Source)
	}

	return w.typeExpr(w.r.Source)
}

func (w *routineWriter) outType() string {
	if byPointer(w.r) {
		return "*" + w.typeExpr(w.r.Target)
	}

	return w.typeExpr(w.r.Target)
}

func (w *routineWriter) zero() string {
	if byPointer(w.r) || nilable(w.r.Target) {
		return "nil"
	}

	return "*new(" + w.typeExpr(w.r.Target) + ")"
}

func (w *routineWriter) checkErr(context string) {
	w.emit("if err != nil {")
	w.emit("return %s, %s.Errorf(%s, err)", w.zero(), w.use("fmt"), strconv.Quote(context+": %w"))
	w.emit("}")
}

func (w *routineWriter) render() {
	if w.r.NullGuard && nilable(w.r.Source) || byPointer(w.r) {
		w.emit("if in == nil {")
		w.emit("return %s, nil", w.zero())
		w.emit("}")
	}

	switch b := w.r.Body.(type) {
	case *emit.Placeholder:
		w.emit("return %s, %s.Errorf(\"%%w: %%s\", %s.ErrPlaceholder, %s)",
			w.zero(), w.use("fmt"), w.use(w.registry), strconv.Quote(b.Reason))
	case *emit.UserCall:
		w.userCall(b)
	case *emit.EnumDispatch:
		w.enumDispatch(b)
	case *emit.ConstructorCall:
		w.constructorCall(b)
	case *emit.ContainerBuild:
		w.containerBuild(b)
	}
}

func (w *routineWriter) userCall(b *emit.UserCall) {
	fn := w.funcRef(b.Func)

	if !byPointer(w.r) {
		if b.ReturnsError {
			w.emit("return %s(in)", fn)
		} else {
			w.emit("return %s(in), nil", fn)
		}

		return
	}

	if b.ReturnsError {
		w.emit("out, err := %s(*in)", fn)
		w.emit("if err != nil {")
		w.emit("return nil, err")
		w.emit("}")
	} else {
		w.emit("out := %s(*in)", fn)
	}

	w.emit("return &out, nil")
}

func (w *routineWriter) enumDispatch(b *emit.EnumDispatch) {
	w.emit("switch in {")

	for _, c := range b.Cases {
		w.emit("case %s:", w.qualified(w.r.Source.ID.PkgPath, c.Source.Name))
		w.emit("return %s, nil", w.qualified(w.r.Target.ID.PkgPath, c.Target.Name))
	}

	w.emit("}")
	w.emit("return %s, %s.Errorf(\"%%w: %%v\", %s.ErrInvalidEnumValue, in)",
		w.zero(), w.use("fmt"), w.use(w.registry))
}

func (w *routineWriter) constructorCall(b *emit.ConstructorCall) {
	ctor := b.Constructor
	target := w.typeExpr(w.r.Target)

	if ctor == nil || ctor.IsLiteral() {
		w.emit("out := &%s{}", target)
	} else {
		args := make([]string, 0, len(b.Args))
		for i, arg := range b.Args {
			args = append(args, w.value(arg, ctor.Params[i].Name))
		}

		call := w.qualified(w.r.Target.ID.PkgPath, ctor.Name) + "(" + strings.Join(args, ", ") + ")"

		switch {
		case ctor.ReturnsError && ctor.ReturnsPointer:
			w.emit("out, err := %s", call)
			w.checkErr(ctor.Name)
		case ctor.ReturnsError:
			w.emit("built, err := %s", call)
			w.checkErr(ctor.Name)
			w.emit("out := &built")
		case ctor.ReturnsPointer:
			w.emit("out := %s", call)
		default:
			w.emit("built := %s", call)
			w.emit("out := &built")
		}
	}

	for _, a := range b.Inits {
		w.emit("out.%s = %s", a.Member.Name, w.value(a.Value, a.Member.Name))
	}

	w.emit("return out, nil")
}

func (w *routineWriter) containerBuild(b *emit.ContainerBuild) {
	target := w.r.Target

	if b.Copy == plan.CopyShare && !b.Projects() && (b.Concrete != analyze.ContainerArray || b.Len == w.r.Source.Len) {
		w.emit("return %s, nil", w.wrap(target, b.Concrete, "in"))
		return
	}

	concrete := w.typeExpr(target)
	if target.Container.IsAbstract() {
		concrete = w.concreteExpr(target, b.Concrete)
	}

	size := ""
	switch b.Source {
	case analyze.ContainerList, analyze.ContainerArray, analyze.ContainerSet, analyze.ContainerMap:
		size = ", len(in)"
	}

	switch b.Concrete {
	case analyze.ContainerMap:
		w.emit("out := make(%s%s)", concrete, size)
		w.emit("for k, v := range in {")
		key := w.value(b.Key, "key")
		val := w.value(b.Value, "value")
		w.emit("out[%s] = %s", key, val)
	case analyze.ContainerSet:
		w.emit("out := make(%s%s)", concrete, size)
		w.rangeElems(b.Source)
		w.emit("out[%s] = struct{}{}", w.value(b.Elem, "element"))
	case analyze.ContainerArray:
		w.emit("var out %s", concrete)
		w.emit("i := 0")
		w.rangeElems(b.Source)
		w.emit("if i == len(out) {")
		w.emit("return %s, %s.Errorf(\"%%w: more than %%d elements\", %s.ErrLengthMismatch, len(out))",
			w.zero(), w.use("fmt"), w.use(w.registry))
		w.emit("}")
		w.emit("out[i] = %s", w.value(b.Elem, "element"))
		w.emit("i++")
	default:
		if size == "" {
			size = ", 0"
		} else {
			size = ", 0" + size
		}

		w.emit("out := make(%s%s)", concrete, size)
		w.rangeElems(b.Source)
		w.emit("out = append(out, %s)", w.value(b.Elem, "element"))
	}

	w.emit("}")

	if b.Concrete == analyze.ContainerArray {
		w.emit("if i != len(out) {")
		w.emit("return %s, %s.Errorf(\"%%w: got %%d elements, want %%d\", %s.ErrLengthMismatch, i, len(out))",
			w.zero(), w.use("fmt"), w.use(w.registry))
		w.emit("}")
	}

	w.emit("return %s, nil", w.wrap(target, b.Concrete, "out"))
}

// rangeElems opens a loop binding v to each element of in.
func (w *routineWriter) rangeElems(c analyze.ContainerKind) {
	if c == analyze.ContainerList || c == analyze.ContainerArray {
		w.emit("for _, v := range in {")
	} else {
		w.emit("for v := range in {")
	}
}

// wrap adapts container v to target, which is either a concrete type
// v converts to or a contract over the concrete family c.
func (w *routineWriter) wrap(target *analyze.TypeInfo, c analyze.ContainerKind, v string) string {
	if !target.Container.IsAbstract() {
		if v == "out" {
			return v
		}

		return w.typeExpr(target) + "(" + v + ")"
	}

	switch c {
	case analyze.ContainerSet:
		return w.use("maps") + ".Keys(" + v + ")"
	case analyze.ContainerMap:
		return w.use("maps") + ".All(" + v + ")"
	default:
		return w.use("slices") + ".Values(" + v + ")"
	}
}

// value renders e and returns the expression holding its result.
// Conversions that can fail are hoisted into statements.
func (w *routineWriter) value(e emit.Expr, context string) string {
	switch x := e.(type) {
	case *emit.MemberRead:
		if g := x.Getter(); g != "" {
			return "in." + g + "()"
		}

		return "in." + x.Member.Name
	case *emit.Element:
		if x.Role == emit.RoleKey {
			return "k"
		}

		return "v"
	case *emit.RoutineCall:
		return w.call(x, context)
	}

	panic(fmt.Sprintf("gen: unexpected expression %T", e))
}

func (w *routineWriter) call(x *emit.RoutineCall, context string) string {
	arg := w.value(x.Arg, context)
	callee := w.prog.Routine(x.Key)
	out := w.temp("c")

	switch {
	case byPointer(callee) && x.Nullable:
		w.emit("%s, err := %s(%s)", out, x.Routine, arg)
		w.checkErr(context)

		return out
	case byPointer(callee):
		src := w.temp("s")
		w.emit("%s := %s", src, arg)
		w.emit("%s, err := %s(&%s)", out, x.Routine, src)
		w.checkErr(context)

		return "*" + out
	case x.Nullable:
		w.emit("var %s *%s", out, w.typeExpr(callee.Target))
		w.emit("if p := %s; p != nil {", arg)
		w.emit("converted, err := %s(*p)", x.Routine)
		w.checkErr(context)
		w.emit("%s = &converted", out)
		w.emit("}")

		return out
	default:
		w.emit("%s, err := %s(%s)", out, x.Routine, arg)
		w.checkErr(context)

		return out
	}
}
