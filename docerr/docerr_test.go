// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package docerr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	e := &Error{Kind: Conversion, Msg: "can not parse value", Accessor: "width", Type: "float64", Text: "wide", Err: io.ErrUnexpectedEOF}
	e.At(Location{Line: 3, Column: 7}).On("rect0")
	assert.Equal(t, `3:7: conversion: can not parse value (figure "rect0") (accessor "width" of type float64) for "wide": unexpected EOF`, e.Error())

	e.At(Location{Line: 9}).On("rect9")
	assert.Equal(t, 3, e.Loc.Line)
	assert.Equal(t, "rect0", e.Figure)
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("reading: %w", New(Structural, "more than one root element"))
	assert.True(t, errors.Is(err, Structural))
	assert.False(t, errors.Is(err, IO))
	k, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, Structural, k)

	_, ok = KindOf(io.EOF)
	assert.False(t, ok)
	assert.Equal(t, IO, As(io.EOF).Kind)
	assert.True(t, errors.Is(As(io.EOF), io.EOF))
	assert.Nil(t, As(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unsupported attribute", UnsupportedAttribute.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
	assert.Equal(t, "docerr: missing binding", MissingBinding.Error())
}
