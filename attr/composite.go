// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"slices"
)

// Composite is an [Accessor] whose value is derived from a fixed,
// ordered list of sub-accessors.
type Composite interface {
	Accessor

	// Subs returns the sub-accessors, in order.
	Subs() []Accessor
}

// CompositeKey is a typed [Composite] accessor. It has no slot of its own:
// Get and Put are defined only in terms of its sub-accessors.
type CompositeKey[T any] struct {
	name  string
	typ   TypeToken
	def   T
	subs  []Accessor
	get   func(s *Store) T
	set   func(s *Store, v T)
	equal func(a, b T) bool
}

// NewComposite returns a new [CompositeKey] over the given sub-accessors.
// The get function derives the value from the store, and the set function
// writes a value through to the sub-accessors. It panics if there are
// no sub-accessors.
func NewComposite[T any](name string, def T, subs []Accessor, get func(s *Store) T, set func(s *Store, v T), opts ...Option) *CompositeKey[T] {
	if len(subs) == 0 {
		panic("attr.NewComposite: composite " + name + " needs at least one sub-accessor")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	k := &CompositeKey[T]{name: name, typ: o.typ, def: def, subs: slices.Clone(subs), get: get, set: set}
	if k.typ.IsZero() {
		k.typ = TypeOf[T]()
	}
	k.equal = func(a, b T) bool { return equalValues(a, b) }
	return k
}

// NewSetMember returns a bool [CompositeKey] that is true when elem is
// a member of the set stored under the given key. Putting true adds elem
// to the set and putting false removes it.
func NewSetMember[E comparable](name string, set *Key[[]E], elem E) *CompositeKey[bool] {
	get := func(s *Store) bool {
		return slices.Contains(set.Get(s), elem)
	}
	put := func(s *Store, v bool) {
		cur := set.Get(s)
		has := slices.Contains(cur, elem)
		switch {
		case v && !has:
			set.Put(s, append(slices.Clone(cur), elem))
		case !v && has:
			set.Put(s, slices.DeleteFunc(slices.Clone(cur), func(e E) bool { return e == elem }))
		}
	}
	return NewComposite(name, false, []Accessor{set}, get, put)
}

func (k *CompositeKey[T]) String() string {
	return k.name
}

func (k *CompositeKey[T]) Name() string { return k.name }
func (k *CompositeKey[T]) Type() TypeToken { return k.typ }
func (k *CompositeKey[T]) Default() T { return k.def }
func (k *CompositeKey[T]) DefaultValue() any { return k.def }
func (k *CompositeKey[T]) IsNullable() bool { return false }
func (k *CompositeKey[T]) IsTransient() bool { return false }
func (k *CompositeKey[T]) IsReference() bool { return false }
func (k *CompositeKey[T]) IsDefault(v T) bool { return k.equal(v, k.def) }
func (k *CompositeKey[T]) Subs() []Accessor { return k.subs }

// ContainsKey returns true only if every sub-accessor has a value in s.
func (k *CompositeKey[T]) ContainsKey(s *Store) bool {
	for _, sub := range k.subs {
		if !sub.ContainsKey(s) {
			return false
		}
	}
	return true
}

// Get returns the value derived from the sub-accessors.
func (k *CompositeKey[T]) Get(s *Store) T {
	return k.get(s)
}

// Put writes the value through to the sub-accessors
// and returns the previously derived value.
func (k *CompositeKey[T]) Put(s *Store, v T) T {
	old := k.get(s)
	k.set(s, v)
	return old
}

// Remove removes the values of all sub-accessors
// and returns the previously derived value.
func (k *CompositeKey[T]) Remove(s *Store) T {
	old := k.get(s)
	for _, sub := range k.subs {
		sub.RemoveValue(s)
	}
	return old
}

func (k *CompositeKey[T]) GetValue(s *Store) any {
	return k.Get(s)
}

func (k *CompositeKey[T]) PutValue(s *Store, v any) (any, error) {
	tv, ok := v.(T)
	if !ok {
		return nil, &AssignError{Accessor: k.name, Type: k.typ, Value: v}
	}
	return k.Put(s, tv), nil
}

func (k *CompositeKey[T]) RemoveValue(s *Store) any {
	return k.Remove(s)
}

func (k *CompositeKey[T]) IsDefaultValue(v any) bool {
	tv, ok := v.(T)
	return ok && k.IsDefault(tv)
}

func (k *CompositeKey[T]) EqualValues(a, b any) bool {
	ta, ok := a.(T)
	if !ok {
		return false
	}
	tb, ok := b.(T)
	return ok && k.equal(ta, tb)
}
