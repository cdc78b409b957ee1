// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convert provides the registry of string conversions used to
// persist attribute values as document text.
//
// A [Converter] is found for an accessor by first looking for one
// registered for that specific accessor, and then for one registered for
// the accessor value type string (see [attr.TypeToken]). There is no
// implicit coercion: a value that does not convert is an error.
package convert

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/docerr"
)

// Converter converts values of one type to and from text.
type Converter interface {

	// Format returns the text for the given value.
	Format(v any) (string, error)

	// Parse returns the value for the given text.
	Parse(s string) (any, error)
}

// Funcs is a [Converter] for values of type T defined by two functions.
type Funcs[T any] struct {
	FormatFunc func(v T) (string, error)
	ParseFunc  func(s string) (T, error)
}

// New returns a [Converter] for T using the given functions.
func New[T any](format func(v T) (string, error), parse func(s string) (T, error)) *Funcs[T] {
	return &Funcs[T]{FormatFunc: format, ParseFunc: parse}
}

func (f *Funcs[T]) Format(v any) (string, error) {
	tv, ok := v.(T)
	if !ok {
		if v != nil {
			return "", fmt.Errorf("convert: value of type %T is not a %s", v, attr.TypeOf[T]())
		}
		// nil interface values of nullable accessors
		var zv T
		tv = zv
	}
	return f.FormatFunc(tv)
}

func (f *Funcs[T]) Parse(s string) (any, error) {
	v, err := f.ParseFunc(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Registry maps accessors and value types to converters.
// It is built once at startup and is then safe for concurrent reading.
type Registry struct {
	byAccessor map[attr.Accessor]Converter
	byType     map[string]Converter
}

// NewRegistry returns a new empty [Registry]. See [AddDefaults]
// to add the built-in converters.
func NewRegistry() *Registry {
	return &Registry{
		byAccessor: map[attr.Accessor]Converter{},
		byType:     map[string]Converter{},
	}
}

// AddForAccessor registers a converter for one specific accessor,
// which takes priority over any converter for its value type.
func (r *Registry) AddForAccessor(a attr.Accessor, c Converter) {
	r.byAccessor[a] = c
}

// AddForType registers a converter for the given fully-qualified value
// type string, as returned by [attr.TypeToken.String].
func (r *Registry) AddForType(typ string, c Converter) {
	r.byType[typ] = c
}

// RemoveAccessor removes any converter registered for the given accessor.
func (r *Registry) RemoveAccessor(a attr.Accessor) {
	delete(r.byAccessor, a)
}

// Types returns the value type strings that have converters.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.byType))
}

// Lookup returns the converter for the given accessor, or a
// [docerr.MissingConverter] error if there is none.
func (r *Registry) Lookup(a attr.Accessor) (Converter, error) {
	if c, ok := r.byAccessor[a]; ok {
		return c, nil
	}
	typ := a.Type().String()
	if c, ok := r.byType[typ]; ok {
		return c, nil
	}
	return nil, &docerr.Error{Kind: docerr.MissingConverter, Msg: "no converter registered", Accessor: a.Name(), Type: typ}
}

// ToString formats the given value of the given accessor.
func (r *Registry) ToString(a attr.Accessor, v any) (string, error) {
	c, err := r.Lookup(a)
	if err != nil {
		return "", err
	}
	s, err := c.Format(v)
	if err != nil {
		return "", &docerr.Error{Kind: docerr.Conversion, Msg: "can not format value", Accessor: a.Name(), Type: a.Type().String(), Text: fmt.Sprint(v), Err: err}
	}
	return s, nil
}

// FromString parses the given text as a value of the given accessor.
func (r *Registry) FromString(a attr.Accessor, text string) (any, error) {
	c, err := r.Lookup(a)
	if err != nil {
		return nil, err
	}
	v, err := c.Parse(text)
	if err != nil {
		return nil, &docerr.Error{Kind: docerr.Conversion, Msg: "can not parse value", Accessor: a.Name(), Type: a.Type().String(), Text: text, Err: err}
	}
	return v, nil
}
