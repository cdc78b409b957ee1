// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shapes provides basic drawing figures and the schema
// registry that persists them (see [NewRegistry]).
package shapes

import (
	"cogentcore.org/drawing/figure"
)

// Drawing is the root figure of a drawing.
type Drawing struct {
	figure.Base
}

// NewDrawing returns a new empty [Drawing].
func NewDrawing() *Drawing {
	return figure.Init(&Drawing{})
}

// CanHaveChild accepts any figure other than a [Drawing].
func (d *Drawing) CanHaveChild(child figure.Figure) bool {
	_, ok := child.(*Drawing)
	return !ok
}

// CanBeChildOf returns false: a drawing is always a root.
func (d *Drawing) CanBeChildOf(parent figure.Figure) bool {
	return false
}

// Group is a figure that groups other figures.
type Group struct {
	figure.Base
}

// NewGroup returns a new [Group] added to the given parent, if it is non-nil.
func NewGroup(parent ...figure.Figure) *Group {
	return add(figure.Init(&Group{}), parent)
}

// CanHaveChild accepts any figure other than a [Drawing].
func (g *Group) CanHaveChild(child figure.Figure) bool {
	_, ok := child.(*Drawing)
	return !ok
}

// Rect is a rectangle.
type Rect struct {
	figure.Base
}

// NewRect returns a new [Rect] added to the given parent, if any.
func NewRect(parent ...figure.Figure) *Rect {
	return add(figure.Init(&Rect{}), parent)
}

// Ellipse is an ellipse inscribed in its bounds.
type Ellipse struct {
	figure.Base
}

// NewEllipse returns a new [Ellipse] added to the given parent, if any.
func NewEllipse(parent ...figure.Figure) *Ellipse {
	return add(figure.Init(&Ellipse{}), parent)
}

// Line is a polyline, which can connect a [Start] and [End] figure.
type Line struct {
	figure.Base
}

// NewLine returns a new [Line] added to the given parent, if any.
func NewLine(parent ...figure.Figure) *Line {
	return add(figure.Init(&Line{}), parent)
}

// Text is a text figure, whose [Content] can mix text and
// formatting elements.
type Text struct {
	figure.Base
}

// NewText returns a new [Text] added to the given parent, if any.
// Texts are filled in black and not stroked.
func NewText(parent ...figure.Figure) *Text {
	tx := figure.Init(&Text{})
	Fill.Put(&tx.Attrs, textFill)
	Stroke.Put(&tx.Attrs, textStroke)
	return add(tx, parent)
}

func add[T figure.Figure](f T, parent []figure.Figure) T {
	if len(parent) > 0 && parent[0] != nil {
		parent[0].AsBase().AddChild(f)
	}
	return f
}
