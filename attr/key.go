// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package attr provides typed accessors ([Key]) over the heterogeneous
// attribute [Store] that every figure owns.
//
// A [Key] is a stateless descriptor shared by all figures: it knows the
// name, value type, default value and flags of one logical property, and
// turns untyped store access into typed Get / Put operations. Keys are
// compared by identity, so two keys with the same name are still distinct
// properties; names are only for display and for default bindings.
//
// A [CompositeKey] derives its value from a fixed list of other accessors,
// for example [NewSetMember], which views membership of one element in a
// set-valued key as a bool.
package attr

import (
	"fmt"
	"reflect"
)

// Accessor is the untyped view of a [Key] or [CompositeKey],
// used by the schema registry, converters, and document reader and writer.
type Accessor interface {

	// Name is the display name of the accessor. It is not its identity.
	Name() string

	// Type is the value type token used to look up converters.
	Type() TypeToken

	// DefaultValue returns the default value of the accessor.
	DefaultValue() any

	// IsNullable returns whether nil is a legal value.
	IsNullable() bool

	// IsTransient returns whether the accessor is never persisted.
	IsTransient() bool

	// IsReference returns whether values are references to other
	// figures, persisted by document id instead of by a converter.
	IsReference() bool

	// GetValue returns the stored value, or the default if there is none.
	GetValue(s *Store) any

	// PutValue stores the given value, returning the previous value.
	// It returns an [*AssignError] if the value is not assignable.
	PutValue(s *Store, v any) (any, error)

	// RemoveValue removes the stored value, returning the previous value.
	RemoveValue(s *Store) any

	// ContainsKey returns whether the store holds a value for the accessor.
	ContainsKey(s *Store) bool

	// IsDefaultValue returns whether the given value equals the default.
	IsDefaultValue(v any) bool

	// EqualValues returns whether two values of the accessor type are equal.
	EqualValues(a, b any) bool
}

// AssignError is returned for a value that can not be assigned to an accessor:
// nil for a non-nullable accessor, or a value of the wrong type.
type AssignError struct {
	Accessor string
	Type     TypeToken
	Value    any
}

func (e *AssignError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("attr: nil is not assignable to non-nullable %q of type %s", e.Accessor, e.Type)
	}
	return fmt.Sprintf("attr: value of type %T is not assignable to %q of type %s", e.Value, e.Accessor, e.Type)
}

// Option configures a [Key] when it is created.
type Option func(o *options)

type options struct {
	nullable  bool
	transient bool
	reference bool
	typ       TypeToken
}

// Nullable makes nil a legal value for the key.
func Nullable() Option {
	return func(o *options) { o.nullable = true }
}

// Transient marks the key as never persisted.
func Transient() Option {
	return func(o *options) { o.transient = true }
}

// Reference marks the key values as references to other figures, which
// are persisted as document ids. Reference keys are always nullable and
// compare values by identity.
func Reference() Option {
	return func(o *options) {
		o.reference = true
		o.nullable = true
	}
}

// WithType overrides the [TypeToken] derived from the Go type,
// for example to select a specific converter.
func WithType(t TypeToken) Option {
	return func(o *options) { o.typ = t }
}

// Key is a typed accessor for one attribute slot of a [Store].
type Key[T any] struct {
	name      string
	typ       TypeToken
	def       T
	nullable  bool
	transient bool
	reference bool
	equal     func(a, b T) bool
}

// New returns a new [Key] with the given name and default value.
// It panics if the default is nil and the key is not nullable.
func New[T any](name string, def T, opts ...Option) *Key[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	k := &Key[T]{name: name, typ: o.typ, def: def, nullable: o.nullable, transient: o.transient, reference: o.reference}
	if k.typ.IsZero() {
		k.typ = TypeOf[T]()
	}
	if k.reference {
		k.equal = func(a, b T) bool { return any(a) == any(b) }
	} else {
		k.equal = func(a, b T) bool { return equalValues(a, b) }
	}
	if !k.nullable && isNil(def) {
		panic(&AssignError{Accessor: name, Type: k.typ})
	}
	return k
}

// SetEqual sets the function used to compare values of the key,
// which defaults to a deep comparison (identity for reference keys).
// It returns the key for chaining.
func (k *Key[T]) SetEqual(fun func(a, b T) bool) *Key[T] {
	k.equal = fun
	return k
}

func (k *Key[T]) String() string {
	return k.name
}

func (k *Key[T]) Name() string { return k.name }
func (k *Key[T]) Type() TypeToken { return k.typ }
func (k *Key[T]) Default() T { return k.def }
func (k *Key[T]) DefaultValue() any { return k.def }
func (k *Key[T]) IsNullable() bool { return k.nullable }
func (k *Key[T]) IsTransient() bool { return k.transient }
func (k *Key[T]) IsReference() bool { return k.reference }
func (k *Key[T]) IsDefault(v T) bool { return k.equal(v, k.def) }
func (k *Key[T]) Equal(a, b T) bool { return k.equal(a, b) }
func (k *Key[T]) ContainsKey(s *Store) bool { return s.Has(k) }

// Get returns the value stored in s, or the default value
// if there is none.
func (k *Key[T]) Get(s *Store) T {
	v, ok := s.Get(k)
	if !ok {
		return k.def
	}
	if v == nil {
		var zv T
		return zv
	}
	return v.(T)
}

// Put stores the given value in s and returns the previous value
// (the default if there was none). Storing the default value in a store
// that has no entry for the key does nothing. It panics with an
// [*AssignError] if v is nil and the key is not nullable.
func (k *Key[T]) Put(s *Store, v T) T {
	old, err := k.put(s, v)
	if err != nil {
		panic(err)
	}
	return old
}

func (k *Key[T]) put(s *Store, v T) (T, error) {
	if !k.nullable && isNil(v) {
		return v, &AssignError{Accessor: k.name, Type: k.typ}
	}
	if !s.Has(k) && k.IsDefault(v) {
		return v, nil
	}
	old, had := s.Set(k, v)
	if !had {
		return k.def, nil
	}
	if old == nil {
		var zv T
		return zv, nil
	}
	return old.(T), nil
}

// Remove removes the value from s and returns it
// (the default if there was none).
func (k *Key[T]) Remove(s *Store) T {
	old, had := s.Delete(k)
	if !had {
		return k.def
	}
	if old == nil {
		var zv T
		return zv
	}
	return old.(T)
}

func (k *Key[T]) GetValue(s *Store) any {
	return k.Get(s)
}

func (k *Key[T]) PutValue(s *Store, v any) (any, error) {
	tv, err := k.assignable(v)
	if err != nil {
		return nil, err
	}
	old, err := k.put(s, tv)
	return old, err
}

func (k *Key[T]) RemoveValue(s *Store) any {
	return k.Remove(s)
}

func (k *Key[T]) IsDefaultValue(v any) bool {
	tv, err := k.assignable(v)
	if err != nil {
		return false
	}
	return k.IsDefault(tv)
}

func (k *Key[T]) EqualValues(a, b any) bool {
	ta, err := k.assignable(a)
	if err != nil {
		return false
	}
	tb, err := k.assignable(b)
	if err != nil {
		return false
	}
	return k.equal(ta, tb)
}

// assignable converts v to T, returning an [*AssignError]
// for a nil value on a non-nullable key or a value of another type.
func (k *Key[T]) assignable(v any) (T, error) {
	var zv T
	if v == nil {
		if !k.nullable {
			return zv, &AssignError{Accessor: k.name, Type: k.typ}
		}
		return zv, nil
	}
	tv, ok := v.(T)
	if !ok {
		return zv, &AssignError{Accessor: k.name, Type: k.typ, Value: v}
	}
	return tv, nil
}

// isNil returns whether v is nil. Nil slices and maps are
// valid empty values and do not count as nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// equalValues is the default value comparison: empty slices and maps
// equal nil ones, and everything else is compared deeply.
func equalValues(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.IsValid() && rb.IsValid() && ra.Type() == rb.Type() {
		switch ra.Kind() {
		case reflect.Slice, reflect.Map:
			if ra.Len() == 0 && rb.Len() == 0 {
				return true
			}
		}
	}
	return reflect.DeepEqual(a, b)
}
