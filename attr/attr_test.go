// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr_test

import (
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/drawing/attr"
)

type node struct{ name string }

func TestKeyGetPut(t *testing.T) {
	width := New("width", 0.0)
	var s Store

	assert.Equal(t, 0.0, width.Get(&s))
	assert.False(t, width.ContainsKey(&s))

	// putting the default into an empty store does not create an entry
	assert.Equal(t, 0.0, width.Put(&s, 0))
	assert.False(t, width.ContainsKey(&s))
	assert.Equal(t, 0, s.Len())

	assert.Equal(t, 0.0, width.Put(&s, 10))
	assert.True(t, width.ContainsKey(&s))
	assert.Equal(t, 10.0, width.Get(&s))

	// once there is an entry, the default is stored like any value
	assert.Equal(t, 10.0, width.Put(&s, 0))
	assert.True(t, width.ContainsKey(&s))

	assert.Equal(t, 0.0, width.Remove(&s))
	assert.False(t, width.ContainsKey(&s))
	assert.Equal(t, 0.0, width.Remove(&s))
}

func TestKeyIdentity(t *testing.T) {
	a := New("x", 1)
	b := New("x", 1)
	var s Store
	a.Put(&s, 5)
	assert.Equal(t, 5, a.Get(&s))
	assert.Equal(t, 1, b.Get(&s))
	assert.False(t, b.ContainsKey(&s))
}

func TestNullable(t *testing.T) {
	assert.Panics(t, func() { New[*node]("parent", nil) })

	ref := New[*node]("ref", nil, Nullable())
	var s Store
	assert.Nil(t, ref.Get(&s))
	n := &node{"a"}
	ref.Put(&s, n)
	assert.Same(t, n, ref.Get(&s))
	old, err := ref.PutValue(&s, nil)
	assert.NoError(t, err)
	assert.Same(t, n, old)
	assert.Nil(t, ref.Get(&s))

	name := New("name", "")
	_, err = name.PutValue(&s, nil)
	var ae *AssignError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "name", ae.Accessor)

	_, err = name.PutValue(&s, 12)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 12, ae.Value)
}

func TestReferenceEquality(t *testing.T) {
	ref := New[*node]("ref", nil, Reference())
	assert.True(t, ref.IsNullable())
	assert.True(t, ref.IsReference())
	a, b := &node{"x"}, &node{"x"}
	assert.False(t, ref.Equal(a, b))
	assert.True(t, ref.Equal(a, a))
	assert.True(t, ref.IsDefault(nil))
}

func TestEmptySliceIsDefault(t *testing.T) {
	tags := New[[]string]("tags", nil)
	assert.True(t, tags.IsDefault([]string{}))
	assert.True(t, tags.IsDefaultValue([]string{}))
	assert.False(t, tags.IsDefault([]string{"a"}))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "float64", TypeOf[float64]().String())
	assert.Equal(t, "slice<string>", TypeOf[[]string]().String())
	assert.Equal(t, "map<string,slice<int>>", TypeOf[map[string][]int]().String())
	assert.Equal(t, "image/color.RGBA", TypeOf[color.RGBA]().String())
	assert.Equal(t, "*cogentcore.org/drawing/attr_test.node", TypeOf[*node]().String())
	assert.Equal(t, "list<float64>", Type("list", "float64").String())

	k := New("points", []float64{}, WithType(Type("points")))
	assert.Equal(t, "points", k.Type().String())
}

func TestSetMember(t *testing.T) {
	style := New[[]string]("fontStyle", nil)
	bold := NewSetMember("bold", style, "bold")
	italic := NewSetMember("italic", style, "italic")
	var s Store

	assert.False(t, bold.ContainsKey(&s))
	assert.False(t, bold.Get(&s))
	assert.Equal(t, []Accessor{style}, bold.Subs())

	assert.False(t, bold.Put(&s, true))
	assert.True(t, bold.Get(&s))
	assert.True(t, bold.ContainsKey(&s))
	italic.Put(&s, true)
	assert.Equal(t, []string{"bold", "italic"}, style.Get(&s))

	assert.True(t, bold.Put(&s, false))
	assert.Equal(t, []string{"italic"}, style.Get(&s))
	assert.True(t, italic.IsDefaultValue(false))

	old, err := bold.PutValue(&s, "yes")
	assert.Nil(t, old)
	assert.Error(t, err)
}

func TestComposite(t *testing.T) {
	x := New("x", 0.0)
	y := New("y", 0.0)
	type point struct{ X, Y float64 }
	origin := NewComposite("origin", point{}, []Accessor{x, y},
		func(s *Store) point { return point{x.Get(s), y.Get(s)} },
		func(s *Store, p point) { x.Put(s, p.X); y.Put(s, p.Y) })

	var s Store
	x.Put(&s, 3)
	assert.False(t, origin.ContainsKey(&s))
	y.Put(&s, 4)
	assert.True(t, origin.ContainsKey(&s))
	assert.Equal(t, point{3, 4}, origin.Get(&s))

	assert.Equal(t, point{3, 4}, origin.Put(&s, point{1, 2}))
	assert.Equal(t, 1.0, x.Get(&s))
	assert.Equal(t, point{1, 2}, origin.Remove(&s))
	assert.Equal(t, 0, s.Len())

	assert.Panics(t, func() {
		NewComposite[int]("empty", 0, nil, nil, nil)
	})
}

func TestStoreConcurrent(t *testing.T) {
	keys := make([]*Key[int], 32)
	for i := range keys {
		keys[i] = New("k", 0)
	}
	var s Store
	var wg sync.WaitGroup
	for i, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Put(&s, i+1)
		}()
	}
	wg.Wait()
	assert.Equal(t, len(keys), s.Len())
	for i, k := range keys {
		assert.Equal(t, i+1, k.Get(&s))
	}
}
