// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package figure provides the tree of drawing figures that documents are
// read into and written from.
//
// All figure types embed [Base], which holds the tree structure and the
// attribute [attr.Store] of the figure. A figure is created by a factory
// function and must be passed to [Init] before it is used, which sets
// [Base.This] to the concrete figure.
package figure

import (
	"reflect"
	"slices"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/docerr"
)

// Figure is implemented by all figure types, by embedding [Base].
type Figure interface {

	// AsBase returns the [Base] of the figure.
	AsBase() *Base

	// CanHaveChild returns whether the given figure can be
	// a child of this figure. It is false for [Base].
	CanHaveChild(child Figure) bool

	// CanBeChildOf returns whether this figure can be a child
	// of the given figure. It is true for [Base].
	CanBeChildOf(parent Figure) bool
}

// Base is the base type of all figures. It holds the position of the
// figure in the tree and its attribute values.
type Base struct {

	// This is the concrete figure that embeds this Base,
	// which is set by [Init].
	This Figure `copier:"-" json:"-" xml:"-"`

	// Parent is the parent figure, which is nil for a root.
	Parent Figure `copier:"-" json:"-" xml:"-"`

	// Children are the child figures, in document order.
	Children []Figure `copier:"-" json:"-" xml:"-"`

	// Attrs holds the attribute values of the figure,
	// accessed through [attr.Key]s.
	Attrs attr.Store `copier:"-" json:"-" xml:"-"`

	// ID is the document id of the figure, as read from a document.
	// It is written back when it is unique in the written document.
	ID string `copier:"-" json:"-" xml:"-"`

	// index is the last index of the figure in its parent,
	// used to speed up [Base.IndexInParent].
	index int
}

// Init sets the [Base.This] of the given figure and returns it.
func Init[T Figure](f T) T {
	f.AsBase().This = f
	return f
}

// AsBase returns the [Base] of the figure.
func (b *Base) AsBase() *Base {
	return b
}

// CanHaveChild returns false: figures are leaves by default.
func (b *Base) CanHaveChild(child Figure) bool {
	return false
}

// CanBeChildOf returns true: figures can be children of any figure
// that accepts them by default.
func (b *Base) CanBeChildOf(parent Figure) bool {
	return true
}

// String returns the class of the figure.
func (b *Base) String() string {
	if b.This == nil {
		return "nil"
	}
	return string(ClassOf(b.This))
}

// NumChildren returns the number of children.
func (b *Base) NumChildren() int {
	return len(b.Children)
}

// Child returns the child at the given index, or nil if there is none.
func (b *Base) Child(i int) Figure {
	if i < 0 || i >= len(b.Children) {
		return nil
	}
	return b.Children[i]
}

// IndexInParent returns the index of the figure within its parent,
// or -1 if it has no parent.
func (b *Base) IndexInParent() int {
	if b.Parent == nil {
		return -1
	}
	kids := b.Parent.AsBase().Children
	if b.index < len(kids) && kids[b.index] == b.This {
		return b.index
	}
	b.index = slices.Index(kids, b.This)
	return b.index
}

// AddChild adds the given child at the end of the children.
// The child must not be in another tree (see [MoveToParent]).
// Compatibility is not checked here (see [Attach]).
func (b *Base) AddChild(kid Figure) {
	kb := kid.AsBase()
	if kb.This == nil {
		kb.This = kid
	}
	b.Children = append(b.Children, kid)
	kb.Parent = b.This
	kb.index = len(b.Children) - 1
}

// InsertChild inserts the given child at the given index.
func (b *Base) InsertChild(kid Figure, index int) {
	kb := kid.AsBase()
	if kb.This == nil {
		kb.This = kid
	}
	b.Children = slices.Insert(b.Children, index, kid)
	kb.Parent = b.This
	kb.index = index
}

// DeleteChildAt removes the child at the given index, returning
// false if there is none. The child keeps its own children.
func (b *Base) DeleteChildAt(index int) bool {
	kid := b.Child(index)
	if kid == nil {
		return false
	}
	b.Children = slices.Delete(b.Children, index, index+1)
	kid.AsBase().Parent = nil
	return true
}

// DeleteChild removes the given child, returning false
// if it is not a child of this figure.
func (b *Base) DeleteChild(kid Figure) bool {
	if kid == nil || kid.AsBase().Parent != b.This {
		return false
	}
	return b.DeleteChildAt(kid.AsBase().IndexInParent())
}

// DeleteChildren removes all children.
func (b *Base) DeleteChildren() {
	for _, kid := range b.Children {
		kid.AsBase().Parent = nil
	}
	b.Children = b.Children[:0]
}

// Attach checks that child can be nested in parent, in both directions,
// and then adds it as the last child of parent. It returns a
// [docerr.Structural] error if the figures are not compatible.
func Attach(parent, child Figure) error {
	if !parent.CanHaveChild(child) || !child.CanBeChildOf(parent) {
		return docerr.New(docerr.Structural, "%s can not be a child of %s", ClassOf(child), ClassOf(parent))
	}
	parent.AsBase().AddChild(child)
	return nil
}

// MoveToParent removes the figure from its current parent, if any,
// and adds it as the last child of the given parent.
func MoveToParent(f, parent Figure) {
	if p := f.AsBase().Parent; p != nil {
		p.AsBase().DeleteChild(f)
	}
	parent.AsBase().AddChild(f)
}

// Root returns the root of the tree that the figure is in.
func Root(f Figure) Figure {
	for {
		p := f.AsBase().Parent
		if p == nil {
			return f
		}
		f = p
	}
}

// WalkDown calls the given function on the figure and all of its
// descendants in depth-first pre-order. It does not descend into the
// children of a figure for which the function returns false.
func WalkDown(f Figure, fun func(f Figure) bool) {
	if !fun(f) {
		return
	}
	for _, kid := range f.AsBase().Children {
		WalkDown(kid, fun)
	}
}

// SortInTreeOrder returns the given figures of the tree with the given
// root, sorted in pre-order. Figures that are not in the tree are dropped.
func SortInTreeOrder(root Figure, figs []Figure) []Figure {
	want := make(map[Figure]bool, len(figs))
	for _, f := range figs {
		want[f] = true
	}
	sorted := make([]Figure, 0, len(figs))
	WalkDown(root, func(f Figure) bool {
		if want[f] {
			sorted = append(sorted, f)
			delete(want, f)
		}
		return true
	})
	return sorted
}

// IsAncestor returns whether anc is f or one of its ancestors.
func IsAncestor(anc, f Figure) bool {
	for f != nil {
		if f == anc {
			return true
		}
		f = f.AsBase().Parent
	}
	return false
}

// Class identifies a concrete figure type, as its package qualified
// type name, for example cogentcore.org/drawing/shapes.Rect.
type Class string

// ClassOf returns the [Class] of the given figure.
func ClassOf(f Figure) Class {
	if f == nil {
		return ""
	}
	return classOfType(reflect.TypeOf(f))
}

// ClassFor returns the [Class] of figure type T,
// which is usually a pointer type such as *shapes.Rect.
func ClassFor[T Figure]() Class {
	return classOfType(reflect.TypeFor[T]())
}

func classOfType(rt reflect.Type) Class {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() == "" {
		return Class(rt.Name())
	}
	return Class(rt.PkgPath() + "." + rt.Name())
}

// Name returns the unqualified type name of the class.
func (c Class) Name() string {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i] == '.' {
			return string(c[i+1:])
		}
	}
	return string(c)
}
