package registry_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsynth/registry"
)

type source struct {
	ID   int
	Name string
}

type target struct {
	ID   int
	Name string
}

type unrelated struct{}

func mapSource(_ *registry.Dispatcher, src any) (any, error) {
	s := src.(source)

	return target{ID: s.ID, Name: s.Name}, nil
}

func newDispatcher(t *testing.T) *registry.Dispatcher {
	t.Helper()

	b := registry.NewBuilder()
	b.Add(registry.TagFor[source](), registry.TagFor[target](), mapSource)
	require.NoError(t, b.Register(strconv.Itoa))
	require.NoError(t, b.Register(strconv.Atoi))

	d, err := b.Build()
	require.NoError(t, err)

	return d
}

func TestConvert(t *testing.T) {
	d := newDispatcher(t)

	got, err := registry.Convert[target](d, source{ID: 1, Name: "John"})
	require.NoError(t, err)
	assert.Equal(t, target{ID: 1, Name: "John"}, got)

	s, err := registry.ConvertFrom[int, string](d, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", s)
}

func TestConvert_NoMapping(t *testing.T) {
	d := newDispatcher(t)

	_, err := registry.Convert[target](d, unrelated{})
	require.Error(t, err)

	var nm *registry.NoMappingError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, registry.TagFor[unrelated](), nm.Source)
	assert.Equal(t, registry.TagFor[target](), nm.Target)
	assert.Equal(t, "no mapping defined from mapsynth/registry_test.unrelated to mapsynth/registry_test.target", err.Error())
}

func TestDispatch_AbsentSource(t *testing.T) {
	d := newDispatcher(t)

	out, err := d.Dispatch(nil, registry.TagFor[target]())
	require.NoError(t, err)
	assert.Nil(t, out)

	var p *source
	out, err = d.Dispatch(p, registry.TagFor[target]())
	require.NoError(t, err)
	assert.Nil(t, out)

	got, err := registry.Convert[target](d, nil)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestUserRoutineErrors(t *testing.T) {
	d := newDispatcher(t)

	_, err := registry.Convert[int](d, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strconv.Atoi")

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestUserRoutine_Rejected(t *testing.T) {
	b := registry.NewBuilder()
	require.NoError(t, b.Register(func(s string) (int, bool) { return len(s), s != "" }))

	d, err := b.Build()
	require.NoError(t, err)

	n, err := registry.Convert[int](d, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = registry.Convert[int](d, "")
	assert.ErrorIs(t, err, registry.ErrRejected)
}

func TestBuilder_Duplicate(t *testing.T) {
	b := registry.NewBuilder()
	b.Add(registry.TagFor[source](), registry.TagFor[target](), mapSource)
	b.Add(registry.TagFor[source](), registry.TagFor[target](), mapSource)

	_, err := b.Build()

	var dup *registry.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, registry.TagFor[source](), dup.Source)
}

func TestBuilder_Frozen(t *testing.T) {
	b := registry.NewBuilder()
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.ErrorIs(t, err, registry.ErrFrozen)
}

func TestTags(t *testing.T) {
	assert.Equal(t, registry.TagFor[source](), registry.NamedTag("mapsynth/registry_test.source"))
	assert.Equal(t, "*mapsynth/registry_test.source", registry.TagFor[*source]().String())
	assert.Equal(t, "[]int", registry.TagFor[[]int]().String())
	assert.Equal(t, "map[string]int", registry.TagFor[map[string]int]().String())
	assert.Equal(t, "int", registry.TagOf(1).String())
	assert.True(t, registry.Tag{}.IsZero())
	assert.Equal(t, "<nil>", registry.Tag{}.String())
	assert.NotEqual(t, registry.TagFor[source](), registry.TagFor[target]())
}

type dynamic struct{ tag registry.Tag }

func (d dynamic) TypeTag() registry.Tag { return d.tag }

func TestDispatch_TaggedValue(t *testing.T) {
	from, to := registry.NamedTag("dyn.From"), registry.NamedTag("dyn.To")

	b := registry.NewBuilder()
	b.Add(from, to, func(_ *registry.Dispatcher, src any) (any, error) {
		return dynamic{tag: to}, nil
	})

	d, err := b.Build()
	require.NoError(t, err)

	out, err := d.Dispatch(dynamic{tag: from}, to)
	require.NoError(t, err)
	assert.Equal(t, to, registry.TagOf(out))
	assert.True(t, d.Has(from, to))
	assert.Equal(t, [][2]registry.Tag{{from, to}}, d.Pairs())
}

func TestDispatch_Concurrent(t *testing.T) {
	d := newDispatcher(t)

	var wg sync.WaitGroup

	errs := make(chan error, 64)

	for i := range 64 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := registry.Convert[target](d, source{ID: i})
			if err != nil {
				errs <- err

				return
			}

			if got.ID != i {
				errs <- errors.New("wrong result")
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
