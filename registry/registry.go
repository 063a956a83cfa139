package registry

import (
	"errors"
	"fmt"
	"reflect"
)

// Routine converts src into a value of the routine's target type. The
// dispatcher is passed along so routines can convert nested values.
type Routine func(d *Dispatcher, src any) (any, error)

type pair struct {
	src, dst Tag
}

// Builder collects routines before they are frozen into a Dispatcher.
// A Builder is not safe for concurrent use.
type Builder struct {
	routines map[pair]Routine
	order    []pair
	errs     []error
	built    bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{routines: make(map[pair]Routine)}
}

// Add registers fn for src -> dst. Registering a pair twice makes Build fail.
func (b *Builder) Add(src, dst Tag, fn Routine) *Builder {
	if b.built {
		b.errs = append(b.errs, ErrFrozen)

		return b
	}

	p := pair{src: src, dst: dst}
	if _, exists := b.routines[p]; exists {
		b.errs = append(b.errs, &DuplicateError{Source: src, Target: dst})

		return b
	}

	b.routines[p] = fn
	b.order = append(b.order, p)

	return b
}

// Register adds a user-authored Go function as the routine of its parameter
// and first result types. Supported shapes:
//   - func(S) T
//   - func(S) (T, error)
//   - func(S) (T, bool)
//   - func(S) (T, bool, error)
func (b *Builder) Register(fn any) error {
	c, err := ParseRoutine(fn)
	if err != nil {
		return err
	}

	b.Add(TypeTag(c.Src), TypeTag(c.Dst), c.Routine())

	return nil
}

// Build freezes the registered routines. The Builder cannot be used afterwards.
func (b *Builder) Build() (*Dispatcher, error) {
	if b.built {
		return nil, ErrFrozen
	}

	b.built = true

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	d := &Dispatcher{
		routines: make(map[pair]Routine, len(b.routines)),
		order:    append([]pair(nil), b.order...),
	}

	for p, fn := range b.routines {
		d.routines[p] = fn
	}

	return d, nil
}

// Dispatcher selects routines by runtime type. It is immutable and safe for
// concurrent use.
type Dispatcher struct {
	routines map[pair]Routine
	order    []pair
}

// Dispatch converts src into a value tagged target. An absent source
// (nil, or a nil pointer, slice or map) yields nil without any lookup.
func (d *Dispatcher) Dispatch(src any, target Tag) (any, error) {
	if isAbsent(src) {
		return nil, nil
	}

	return d.dispatch(TagOf(src), src, target)
}

// DispatchAs is Dispatch with an explicit source tag.
func (d *Dispatcher) DispatchAs(src any, source, target Tag) (any, error) {
	if isAbsent(src) {
		return nil, nil
	}

	return d.dispatch(source, src, target)
}

func (d *Dispatcher) dispatch(source Tag, src any, target Tag) (any, error) {
	fn, ok := d.routines[pair{src: source, dst: target}]
	if !ok {
		return nil, &NoMappingError{Source: source, Target: target}
	}

	return fn(d, src)
}

// Has reports whether a routine is registered for src -> dst.
func (d *Dispatcher) Has(src, dst Tag) bool {
	_, ok := d.routines[pair{src: src, dst: dst}]

	return ok
}

// Pairs lists the registered pairs in registration order.
func (d *Dispatcher) Pairs() [][2]Tag {
	out := make([][2]Tag, 0, len(d.order))
	for _, p := range d.order {
		out = append(out, [2]Tag{p.src, p.dst})
	}

	return out
}

// Convert converts src into a T, selecting the routine by the runtime type of src.
func Convert[T any](d *Dispatcher, src any) (T, error) {
	var zero T

	out, err := d.Dispatch(src, TagFor[T]())
	if err != nil || out == nil {
		return zero, err
	}

	v, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("mapping to %s returned %T", TagFor[T](), out)
	}

	return v, nil
}

// ConvertFrom converts src into a T, selecting the routine by the static type S.
func ConvertFrom[S, T any](d *Dispatcher, src S) (T, error) {
	var zero T

	out, err := d.DispatchAs(src, TagFor[S](), TagFor[T]())
	if err != nil || out == nil {
		return zero, err
	}

	v, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("mapping to %s returned %T", TagFor[T](), out)
	}

	return v, nil
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
