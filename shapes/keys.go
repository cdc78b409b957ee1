// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shapes

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/convert"
	"cogentcore.org/drawing/figure"
	"cogentcore.org/drawing/nodes"
	"cogentcore.org/drawing/schema"
)

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Align is the horizontal alignment of text relative to its origin.
type Align int32

const (
	AlignStart Align = iota
	AlignMiddle
	AlignEnd
)

// Font styles that are members of [FontStyle].
const (
	StyleBold      = "bold"
	StyleItalic    = "italic"
	StyleUnderline = "underline"
)

// Geometry.
var (
	X      = attr.New("x", 0.0)
	Y      = attr.New("y", 0.0)
	Width  = attr.New("width", 0.0)
	Height = attr.New("height", 0.0)

	// Origin is X and Y as one point.
	Origin = attr.NewComposite("origin", Point{}, []attr.Accessor{X, Y},
		func(s *attr.Store) Point { return Point{X.Get(s), Y.Get(s)} },
		func(s *attr.Store, p Point) {
			X.Put(s, p.X)
			Y.Put(s, p.Y)
		})

	// Points are the vertices of a [Line].
	Points = attr.New("points", []Point{})
)

// Style.
var (
	Fill        = attr.New("fill", color.RGBA{})
	Stroke      = attr.New("stroke", color.RGBA{A: 0xff})
	StrokeWidth = attr.New("stroke-width", 1.0)
	Dashes      = attr.New("dashes", []float64{})
	Opacity     = attr.New("opacity", 1.0)
	Label       = attr.New("label", "")
)

// The paint of a [Text], which differs from the default paint.
var (
	textFill   = color.RGBA{A: 0xff}
	textStroke = color.RGBA{}
)

// Text.
var (
	FontFamily = attr.New("font-family", "sans-serif")
	FontSize   = attr.New("font-size", 12.0)
	TextAlign  = attr.New("text-anchor", AlignStart)

	// FontStyle is the set of font styles, which is persisted
	// through the [Bold], [Italic] and [Underline] members.
	FontStyle = attr.New("font-style", []string{})

	Bold      = attr.NewSetMember("bold", FontStyle, StyleBold)
	Italic    = attr.NewSetMember("italic", FontStyle, StyleItalic)
	Underline = attr.NewSetMember("underline", FontStyle, StyleUnderline)

	// Content is the text of a [Text], with any formatting elements.
	Content = attr.New("content", nodes.List{})
)

// Connections.
var (
	// Start is the figure that a [Line] starts at.
	Start = attr.New[figure.Figure]("start", nil, attr.Reference())

	// End is the figure that a [Line] ends at.
	End = attr.New[figure.Figure]("end", nil, attr.Reference())
)

// Document.
var (
	// Stylesheets are the stylesheet references of a [Drawing].
	Stylesheets = attr.New("stylesheets", []schema.Stylesheet{})

	Title       = attr.New("title", nodes.List{})
	Description = attr.New("desc", nodes.List{})
)

// Editor state, which is not persisted.
var (
	Selected = attr.New("selected", false, attr.Transient())
)

// alignNames are the names of [Align] values.
var alignNames = map[Align]string{AlignStart: "start", AlignMiddle: "middle", AlignEnd: "end"}

// FormatPoint formats a point as its two coordinates.
func FormatPoint(p Point) (string, error) {
	return convert.FormatFloat(p.X, 64) + " " + convert.FormatFloat(p.Y, 64), nil
}

// ParsePoint parses a point written by [FormatPoint].
func ParsePoint(s string) (Point, error) {
	fs, err := convert.ParseFloats(s)
	if err != nil {
		return Point{}, err
	}
	if len(fs) != 2 {
		return Point{}, fmt.Errorf("point needs 2 coordinates, not %d", len(fs))
	}
	return Point{fs[0], fs[1]}, nil
}

// FormatPoints formats points as x,y pairs separated by spaces.
func FormatPoints(ps []Point) (string, error) {
	strs := make([]string, len(ps))
	for i, p := range ps {
		strs[i] = convert.FormatFloat(p.X, 64) + "," + convert.FormatFloat(p.Y, 64)
	}
	return strings.Join(strs, " "), nil
}

// ParsePoints parses points written by [FormatPoints],
// or any list of an even number of coordinates.
func ParsePoints(s string) ([]Point, error) {
	fs, err := convert.ParseFloats(s)
	if err != nil {
		return nil, err
	}
	if len(fs)%2 != 0 {
		return nil, fmt.Errorf("points need an even number of coordinates, not %d", len(fs))
	}
	ps := make([]Point, len(fs)/2)
	for i := range ps {
		ps[i] = Point{fs[2*i], fs[2*i+1]}
	}
	return ps, nil
}
