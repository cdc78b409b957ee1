// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ident_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/drawing/docerr"
	. "cogentcore.org/drawing/ident"
)

type Rect struct{ n int }

type LineFigure struct{ n int }

type tagged struct{ n int }

func (t *tagged) TypeTag() string { return "shape" }

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "rect", TypeTag(&Rect{}))
	assert.Equal(t, "line", TypeTag(&LineFigure{}))
	assert.Equal(t, "shape", TypeTag(&tagged{}))
	assert.Equal(t, "obj", TypeTag(nil))
}

func TestCreateID(t *testing.T) {
	f := New(DuplicateError, NamingSequence)
	r0, r1, l0 := &Rect{}, &Rect{}, &LineFigure{}
	assert.Equal(t, "rect0", f.CreateID(r0))
	assert.Equal(t, "line0", f.CreateID(l0))
	assert.Equal(t, "rect1", f.CreateID(r1))
	assert.Equal(t, "rect0", f.CreateID(r0))

	obj, ok := f.Object("rect1")
	assert.True(t, ok)
	assert.Same(t, r1, obj)
	id, ok := f.ID(l0)
	assert.True(t, ok)
	assert.Equal(t, "line0", id)
	assert.Equal(t, 3, f.Len())

	f.Reset()
	assert.Equal(t, 0, f.Len())
	_, ok = f.Object("rect0")
	assert.False(t, ok)
	assert.Equal(t, "rect0", f.CreateID(r1))
}

func TestCreateIDSkipsTaken(t *testing.T) {
	f := New(DuplicateError, NamingSequence)
	a, b := &Rect{}, &Rect{}
	require.NoError(t, f.PutIDAndObject("rect0", a))
	assert.Equal(t, "rect1", f.CreateID(b))
}

func TestDuplicate(t *testing.T) {
	f := New(DuplicateError, NamingSequence)
	a, b := &Rect{}, &Rect{}
	require.NoError(t, f.PutIDAndObject("x", a))
	require.NoError(t, f.PutIDAndObject("x", a))
	err := f.PutIDAndObject("x", b)
	assert.True(t, errors.Is(err, docerr.Structural))
	obj, _ := f.Object("x")
	assert.Same(t, a, obj)

	f = New(DuplicateOverwrite, NamingSequence)
	require.NoError(t, f.PutIDAndObject("x", a))
	require.NoError(t, f.PutIDAndObject("x", b))
	obj, _ = f.Object("x")
	assert.Same(t, b, obj)
	_, ok := f.ID(a)
	assert.False(t, ok)
}

func TestRebind(t *testing.T) {
	f := New(DuplicateError, NamingSequence)
	a := &Rect{}
	require.NoError(t, f.PutIDAndObject("x", a))
	require.NoError(t, f.PutIDAndObject("y", a))
	_, ok := f.Object("x")
	assert.False(t, ok)
	id, _ := f.ID(a)
	assert.Equal(t, "y", id)
}

func TestNamingUUID(t *testing.T) {
	f := New(DuplicateError, NamingUUID)
	id := f.CreateID(&Rect{})
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, f.CreateID(&Rect{}))
}

func TestPolicyText(t *testing.T) {
	var p DuplicatePolicy
	require.NoError(t, p.UnmarshalText([]byte("overwrite")))
	assert.Equal(t, DuplicateOverwrite, p)
	assert.Error(t, p.UnmarshalText([]byte("ignore")))

	var n Naming
	require.NoError(t, n.UnmarshalText([]byte("uuid")))
	assert.Equal(t, NamingUUID, n)
	b, _ := NamingSequence.MarshalText()
	assert.Equal(t, "sequence", string(b))
}

func TestConcurrentLookup(t *testing.T) {
	f := New(DuplicateError, NamingSequence)
	objs := make([]*Rect, 100)
	for i := range objs {
		objs[i] = &Rect{n: i}
		f.CreateID(objs[i])
	}
	var wg sync.WaitGroup
	for _, o := range objs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ok := f.ID(o)
			assert.True(t, ok)
			back, _ := f.Object(id)
			assert.Same(t, o, back)
		}()
	}
	wg.Wait()
}
