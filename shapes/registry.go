// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapes

import (
	"cogentcore.org/core/base/errors"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/convert"
	"cogentcore.org/drawing/figure"
	"cogentcore.org/drawing/schema"
)

// NewRegistry returns a new sealed registry for the figures of this
// package, with these elements:
//
//	drawing  root, with title and desc elements and stylesheets
//	g        group
//	rect     x y width height
//	ellipse  x y width height
//	line     points start end
//	text     origin (or x y) font-family font-size text-anchor
//	         bold italic underline (or font-style), and mixed content
//
// All figures other than drawings also have fill, stroke, stroke-width,
// dashes, opacity and label attributes. The metadata element and
// class attributes are skipped.
func NewRegistry() *schema.Registry {
	r := schema.New()
	AddToRegistry(r)
	r.Seal()
	return r
}

// AddToRegistry adds the figures of this package to the given registry,
// so that it can be extended with more figures before it is sealed.
func AddToRegistry(r *schema.Registry) {
	drawing := r.AddFigure("drawing", func() figure.Figure { return NewDrawing() })
	group := r.AddFigure("g", func() figure.Figure { return NewGroup() })
	rect := r.AddFigure("rect", func() figure.Figure { return NewRect() })
	ellipse := r.AddFigure("ellipse", func() figure.Figure { return NewEllipse() })
	line := r.AddFigure("line", func() figure.Figure { return NewLine() })
	text := r.AddFigure("text", func() figure.Figure { return NewText() })

	r.AddAttribute(drawing, "width", Width)
	r.AddAttribute(drawing, "height", Height)
	r.AddAttribute(drawing, "selected", Selected)
	errors.Log(r.AddNodeList(drawing, "title", Title))
	errors.Log(r.AddNodeList(drawing, "desc", Description))
	r.SetStylesheets(Stylesheets)

	for _, c := range []figure.Class{rect, ellipse} {
		r.AddAttribute(c, "x", X)
		r.AddAttribute(c, "y", Y)
		r.AddAttribute(c, "width", Width)
		r.AddAttribute(c, "height", Height)
	}

	r.AddAttribute(line, "points", Points)
	r.AddAttribute(line, "start", Start)
	r.AddAttribute(line, "end", End)

	r.AddAttribute(text, "origin", Origin)
	r.AddAttribute(text, "x", X)
	r.AddAttribute(text, "y", Y)
	r.AddAttribute(text, "font-family", FontFamily)
	r.AddAttribute(text, "font-size", FontSize)
	r.AddAttribute(text, "text-anchor", TextAlign)
	r.AddAttribute(text, "bold", Bold)
	r.AddAttribute(text, "italic", Italic)
	r.AddAttribute(text, "underline", Underline)
	r.AddAttribute(text, "font-style", FontStyle)
	errors.Log(r.AddNodeList(text, "", Content))
	r.SetDefault(text, Fill, textFill)
	r.SetDefault(text, Stroke, textStroke)

	for _, c := range []figure.Class{group, rect, ellipse, line, text} {
		r.AddAttribute(c, "fill", Fill)
		r.AddAttribute(c, "stroke", Stroke)
		r.AddAttribute(c, "stroke-width", StrokeWidth)
		r.AddAttribute(c, "dashes", Dashes)
		r.AddAttribute(c, "opacity", Opacity)
		r.AddAttribute(c, "label", Label)
		r.AddAttribute(c, "selected", Selected)
		r.SkipAttribute(c, "class")
	}
	r.SkipAttribute(drawing, "class")
	r.SkipElement("metadata")

	r.AddConverterForType(attr.TypeOf[Point]().String(), convert.New(FormatPoint, ParsePoint))
	r.AddConverterForType(attr.TypeOf[[]Point]().String(), convert.New(FormatPoints, ParsePoints))
	r.AddConverterForAccessor(TextAlign, convert.Enum(alignNames))
}
