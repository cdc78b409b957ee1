// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"reflect"
	"strings"
)

// TypeToken identifies the value type of an [Accessor], for converter
// lookup and error messages. It is a name plus optional type parameters,
// formatted as Name<Param1,Param2>.
type TypeToken struct {

	// Name is the package-qualified type name (eg: image/color.RGBA),
	// a builtin name (eg: float64), or a generic name (eg: slice).
	Name string

	// Params are the type parameters, formatted as type strings.
	Params []string
}

// Type returns a [TypeToken] with the given name and parameters.
func Type(name string, params ...string) TypeToken {
	return TypeToken{Name: name, Params: params}
}

// String returns the fully-qualified form of the token, eg: slice<float64>.
func (t TypeToken) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	return t.Name + "<" + strings.Join(t.Params, ",") + ">"
}

// IsZero returns whether the token is unset.
func (t TypeToken) IsZero() bool {
	return t.Name == ""
}

// TypeOf returns the [TypeToken] for the Go type T.
// Slices and arrays become slice<E>, maps become map<K,V>,
// pointers keep a leading *, and named types are qualified
// by their package path.
func TypeOf[T any]() TypeToken {
	return tokenOf(reflect.TypeFor[T]())
}

func tokenOf(rt reflect.Type) TypeToken {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if rt.Name() == "" {
			return Type("slice", tokenOf(rt.Elem()).String())
		}
	case reflect.Map:
		if rt.Name() == "" {
			return Type("map", tokenOf(rt.Key()).String(), tokenOf(rt.Elem()).String())
		}
	case reflect.Pointer:
		if rt.Name() == "" {
			et := tokenOf(rt.Elem())
			et.Name = "*" + et.Name
			return et
		}
	}
	if rt.PkgPath() != "" {
		return Type(rt.PkgPath() + "." + rt.Name())
	}
	return Type(rt.String())
}
