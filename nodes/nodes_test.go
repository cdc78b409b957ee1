// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodes

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, src string) *Element {
	d := xml.NewDecoder(strings.NewReader(src))
	tok, err := d.Token()
	require.NoError(t, err)
	var l List
	require.NoError(t, l.Decode(d, tok.(xml.StartElement)))
	require.Len(t, l, 1)
	return l[0].Element
}

func TestDecode(t *testing.T) {
	p := decode(t, `<p> a <b id="x">bold <i>it</i></b>
	 <br/> </p>`)
	assert.Equal(t, "p", p.Name.Local)
	require.Len(t, p.Children, 5)
	assert.Equal(t, Text(" a "), p.Children[0])
	assert.Equal(t, "x", p.Children[1].Element.AttrValue("id"))
	assert.Equal(t, Text("\n\t "), p.Children[2])
	assert.True(t, p.Children[3].Element.Children == nil)
	assert.Equal(t, " a bold it\n\t  ", List{{Element: p}}.PlainText())
}

func TestDecodeLayout(t *testing.T) {
	g := decode(t, `<g>
  <a>one</a>
  <b> two </b>
</g>`)
	require.Len(t, g.Children, 2)
	assert.Equal(t, "one two ", List{{Element: g}}.PlainText())

	s := decode(t, `<s> </s>`)
	assert.Equal(t, List{Text(" ")}, s.Children)

	m := decode(t, `<m>x&amp;<!-- c -->y</m>`)
	assert.Equal(t, List{Text("x&y")}, m.Children)
}

func TestEqual(t *testing.T) {
	a := List{Text("x"), Elem("b", Text("y"))}
	b := List{Text("x"), Elem("b", Text("y"))}
	assert.True(t, a.Equal(b))
	b[1].Element.SetAttr("class", "k")
	assert.False(t, a.Equal(b))
	a[1].Element.SetAttr("class", "j")
	a[1].Element.SetAttr("class", "k")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(a[:1]))
	assert.False(t, List{Text("b")}.Equal(List{Elem("b")}))
}

func TestAppendText(t *testing.T) {
	var l List
	l.AppendText("")
	assert.Empty(t, l)
	l.AppendText(" hi ")
	l.AppendText("there")
	assert.Equal(t, List{Text(" hi there")}, l)
	assert.True(t, l[0].IsText())
	l = append(l, Elem("b"))
	l.AppendText("  ")
	l.TrimLayout()
	assert.Len(t, l, 3)
}
