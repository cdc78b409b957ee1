// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/convert"
	"cogentcore.org/drawing/docerr"
	"cogentcore.org/drawing/figure"
	"cogentcore.org/drawing/nodes"
	. "cogentcore.org/drawing/schema"
)

type rect struct{ figure.Base }

type note struct{ figure.Base }

type marker struct{}

var (
	width   = attr.New("width", 0.0)
	height  = attr.New("height", 0.0)
	fill    = attr.New("fill", "none")
	styles  = attr.New("styles", []string{})
	bold    = attr.NewSetMember("bold", styles, "bold")
	italic  = attr.NewSetMember("italic", styles, "italic")
	cache   = attr.New("cache", 0, attr.Transient())
	link    = attr.New[figure.Figure]("link", nil, attr.Reference())
	content = attr.New("content", nodes.List{})
	extra   = attr.New("extra", nodes.List{})
	opaque  = attr.New("opaque", marker{})
)

func newRect() figure.Figure { return figure.Init(&rect{}) }
func newNote() figure.Figure { return figure.Init(&note{}) }

func testRegistry(t *testing.T) (*Registry, figure.Class) {
	r := New()
	rc := r.AddFigure("rect", newRect)
	r.AddFigure("box", newRect)
	r.AddAttribute(rc, "w", width)
	r.AddAttribute(rc, "width", width)
	r.AddAttribute(rc, "h", height)
	r.AddAttribute(rc, "w", height)
	r.AddAttribute(rc, "fill", fill)
	r.AddAttribute(rc, "styles", styles)
	r.AddAttribute(rc, "bold", bold)
	r.AddAttribute(rc, "italic", italic)
	r.AddAttribute(rc, "cache", cache)
	r.AddAttribute(rc, "link", link)
	return r, rc
}

func TestBindings(t *testing.T) {
	r, rc := testRegistry(t)
	assert.Equal(t, figure.ClassFor[*rect](), rc)

	e, ok := r.ElementName(rc)
	assert.True(t, ok)
	assert.Equal(t, "rect", e)
	_, ok = r.ElementName(figure.ClassFor[*note]())
	assert.False(t, ok)

	f, err := r.NewFigure("box")
	require.NoError(t, err)
	assert.IsType(t, &rect{}, f)
	assert.NotNil(t, f.AsBase().This)

	_, err = r.NewFigure("circle")
	assert.True(t, errors.Is(err, docerr.UnsupportedElement))

	a, ok := r.AttributeAccessor(rc, "w")
	assert.True(t, ok)
	assert.Same(t, width, a)
	a, _ = r.AttributeAccessor(rc, "width")
	assert.Same(t, width, a)
	n, _ := r.AttributeName(rc, width)
	assert.Equal(t, "w", n)
	_, ok = r.AttributeName(rc, opaque)
	assert.False(t, ok)

	keys := r.AttributeKeys(rc)
	assert.Equal(t, []attr.Accessor{width, height, fill, styles, bold, italic, cache, link}, keys)
}

func TestNodeLists(t *testing.T) {
	r := New()
	nc := r.AddFigure("note", newNote)
	require.NoError(t, r.AddNodeList(nc, "", content))
	require.NoError(t, r.AddNodeList(nc, "extra", extra))
	err := r.AddNodeList(nc, "", extra)
	assert.True(t, errors.Is(err, docerr.Structural))

	a, ok := r.NodeListAccessor(nc, "")
	assert.True(t, ok)
	assert.Same(t, content, a)
	n, ok := r.NodeListName(nc, extra)
	assert.True(t, ok)
	assert.Equal(t, "extra", n)
	assert.Equal(t, []attr.Accessor{content, extra}, r.NodeListKeys(nc))
}

func TestDefaults(t *testing.T) {
	r, rc := testRegistry(t)
	r.SetDefault(rc, fill, "white")
	assert.Equal(t, "white", r.DefaultValue(rc, fill))
	assert.Equal(t, 0.0, r.DefaultValue(rc, width))
	assert.True(t, r.IsDefaultValue(rc, fill, "white"))
	assert.False(t, r.IsDefaultValue(rc, fill, "none"))
	assert.True(t, r.IsDefaultValue(rc, styles, []string(nil)))

	f, err := r.NewFigure("rect")
	require.NoError(t, err)
	assert.Equal(t, "white", fill.Get(&f.AsBase().Attrs))
	assert.Equal(t, "none", r.DefaultValue(figure.ClassFor[*note](), fill))
}

func TestRemoveAccessor(t *testing.T) {
	r, rc := testRegistry(t)
	r.SetDefault(rc, width, 3.0)
	r.RemoveAccessor(width)
	_, ok := r.AttributeAccessor(rc, "w")
	assert.False(t, ok)
	_, ok = r.AttributeAccessor(rc, "width")
	assert.False(t, ok)
	_, ok = r.AttributeName(rc, width)
	assert.False(t, ok)
	assert.Equal(t, 0.0, r.DefaultValue(rc, width))
	a, _ := r.AttributeAccessor(rc, "h")
	assert.Same(t, height, a)
}

func TestSkips(t *testing.T) {
	r, rc := testRegistry(t)
	r.SkipAttribute(rc, "class")
	r.SkipElement("metadata")
	r.SkipClass(figure.ClassFor[*note]())
	assert.True(t, r.IsSkipAttribute(rc, "class"))
	assert.False(t, r.IsSkipAttribute(rc, "style"))
	assert.False(t, r.IsSkipAttribute(figure.ClassFor[*note](), "class"))
	assert.True(t, r.IsSkipElement("metadata"))
	assert.True(t, r.IsSkipClass(figure.ClassFor[*note]()))
	assert.False(t, r.IsSkipClass(rc))
}

func TestSeal(t *testing.T) {
	r, rc := testRegistry(t)
	assert.Equal(t, "id", r.IDAttribute())
	r.SetIDAttribute("xml:id")
	r.SetNamespace("urn:drawing")
	r.Seal()
	assert.True(t, r.IsSealed())
	assert.Equal(t, "xml:id", r.IDAttribute())
	assert.Equal(t, "urn:drawing", r.Namespace())
	assert.Panics(t, func() { r.AddAttribute(rc, "x", width) })
	assert.Panics(t, func() { r.SkipElement("x") })
	assert.Panics(t, func() { r.AddFigure("note", newNote) })
}

func TestWriteOrder(t *testing.T) {
	r, rc := testRegistry(t)
	want := []attr.Accessor{bold, italic, width, height, fill, link}
	assert.Equal(t, want, r.WriteOrder(rc))
	r.Seal()
	assert.Equal(t, want, r.WriteOrder(rc))
	assert.Nil(t, r.WriteOrder(figure.ClassFor[*note]()))
}

func TestCheckConverters(t *testing.T) {
	r, rc := testRegistry(t)
	r.AddAttribute(rc, "opaque", opaque)
	missing := r.CheckConverters()
	assert.Equal(t, []attr.Accessor{opaque}, missing)
}

func TestLeftovers(t *testing.T) {
	r, rc := testRegistry(t)
	f := newRect()
	s := &f.AsBase().Attrs
	assert.Empty(t, r.Leftovers(rc, s))

	styles.Put(s, []string{"bold", "italic"})
	assert.Empty(t, r.Leftovers(rc, s))
	styles.Put(s, []string{"italic", "bold"})
	assert.Equal(t, []attr.Accessor{styles}, r.Leftovers(rc, s))
	styles.Put(s, []string{"bold", "small-caps"})
	assert.Equal(t, []attr.Accessor{styles}, r.Leftovers(rc, s))

	r.SetDefault(rc, styles, []string{"small-caps"})
	styles.Put(s, []string{"small-caps", "bold"})
	r.Seal()
	assert.Empty(t, r.Leftovers(rc, s))
	styles.Put(s, []string{"small-caps"})
	assert.Empty(t, r.Leftovers(rc, s))
	assert.Nil(t, r.Leftovers(figure.ClassFor[*note](), s))
}

func TestConvertersPerRegistry(t *testing.T) {
	a, rc := testRegistry(t)
	b, _ := testRegistry(t)
	a.AddConverterForAccessor(opaque, convert.New(
		func(marker) (string, error) { return "m", nil },
		func(string) (marker, error) { return marker{}, nil }))
	a.AddAttribute(rc, "opaque", opaque)
	b.AddAttribute(rc, "opaque", opaque)
	assert.Empty(t, a.CheckConverters())
	assert.Equal(t, []attr.Accessor{opaque}, b.CheckConverters())
}
