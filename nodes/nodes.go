// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nodes represents raw document content that is not a figure:
// text and elements that a figure keeps as a flattened node list,
// such as the content of a text figure.
package nodes

import (
	"encoding/xml"
	"slices"
	"strings"
)

// Node is one item of raw content: either text or an element.
type Node struct {

	// Text is the character data, if Element is nil.
	Text string

	// Element is the element, if this is not a text node.
	Element *Element
}

// Element is a raw element with its attributes and content.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children List
}

// List is an ordered list of raw content nodes.
type List []Node

// Text returns a text node.
func Text(s string) Node {
	return Node{Text: s}
}

// Elem returns an element node with the given local name and children.
func Elem(name string, children ...Node) Node {
	return Node{Element: &Element{Name: xml.Name{Local: name}, Children: children}}
}

// IsText returns whether the node is a text node.
func (n Node) IsText() bool {
	return n.Element == nil
}

// SetAttr sets the given attribute on the element, replacing any
// existing attribute with the same local name.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attr {
		if e.Attr[i].Name.Local == name {
			e.Attr[i].Value = value
			return
		}
	}
	e.Attr = append(e.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// AttrValue returns the value of the attribute with the given local name.
func (e *Element) AttrValue(name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// PlainText returns the concatenated text of the list and of all
// nested elements, in document order.
func (l List) PlainText() string {
	var b strings.Builder
	l.plainText(&b)
	return b.String()
}

func (l List) plainText(b *strings.Builder) {
	for _, n := range l {
		if n.IsText() {
			b.WriteString(n.Text)
			continue
		}
		n.Element.Children.plainText(b)
	}
}

// Equal returns whether two lists have the same content.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].equal(o[i]) {
			return false
		}
	}
	return true
}

func (n Node) equal(o Node) bool {
	if n.IsText() || o.IsText() {
		return n.IsText() && o.IsText() && n.Text == o.Text
	}
	ne, oe := n.Element, o.Element
	if ne.Name != oe.Name || len(ne.Attr) != len(oe.Attr) {
		return false
	}
	for i := range ne.Attr {
		if ne.Attr[i] != oe.Attr[i] {
			return false
		}
	}
	return ne.Children.Equal(oe.Children)
}

// Decode reads the content of the element started by start, up to and
// including its end element, appending it as an element node to the list.
// Character data is kept as is, except for the white space of
// element-only content (see [List.TrimLayout]).
func (l *List) Decode(d *xml.Decoder, start xml.StartElement) error {
	el := &Element{Name: start.Name, Attr: start.Copy().Attr}
	for {
		t, err := d.Token()
		if err != nil {
			return err
		}
		switch tt := t.(type) {
		case xml.StartElement:
			if err := el.Children.Decode(d, tt); err != nil {
				return err
			}
		case xml.CharData:
			el.Children.AppendText(string(tt))
		case xml.EndElement:
			el.Children.TrimLayout()
			*l = append(*l, Node{Element: el})
			return nil
		}
	}
}

// AppendText appends the given character data, joining it to the last
// node if that is text.
func (l *List) AppendText(s string) {
	if s == "" {
		return
	}
	if n := len(*l); n > 0 && (*l)[n-1].IsText() {
		(*l)[n-1].Text += s
		return
	}
	*l = append(*l, Text(s))
}

// TrimLayout removes the text nodes of element-only content, where all
// text is white space between elements that only lays them out. Text of
// mixed content and of text-only content is kept as is.
func (l *List) TrimLayout() {
	elems := false
	for _, n := range *l {
		if n.IsText() && strings.TrimSpace(n.Text) != "" {
			return
		}
		elems = elems || !n.IsText()
	}
	if !elems {
		return
	}
	*l = slices.DeleteFunc(*l, func(n Node) bool { return n.IsText() })
}
