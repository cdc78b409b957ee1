// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlio

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"

	"cogentcore.org/core/base/indent"
)

// encoder writes XML tokens with optional indentation. Unlike
// [xml.Encoder], it writes elements with no content as self-closing
// tags, and it writes text inline with no added white space.
type encoder struct {
	w *bufio.Writer

	// ich is the indentation character.
	ich indent.Character

	// width is the indentation width, where zero means no indentation.
	width int

	// depth is the current element depth.
	depth int

	// open is whether the last start tag is still missing its closing >.
	open bool

	// inline is the depth of the outermost element with text content,
	// within which no indentation is added, or zero if there is none.
	inline int

	// started is whether anything was written yet.
	started bool
}

func newEncoder(w io.Writer, opts *Options) *encoder {
	e := &encoder{w: bufio.NewWriter(w), ich: indent.Space, width: opts.Indent}
	if opts.IndentTabs {
		e.ich = indent.Tab
		e.width = 1
	}
	return e
}

// newline starts a new indented line, if indenting.
func (e *encoder) newline() {
	if e.width <= 0 || !e.started || e.inline > 0 {
		return
	}
	e.w.WriteByte('\n')
	e.w.WriteString(indent.String(e.ich, e.depth, e.width))
}

// closeStart writes the closing > of an open start tag.
func (e *encoder) closeStart() {
	if e.open {
		e.w.WriteByte('>')
		e.open = false
	}
}

// procInst writes a processing instruction.
func (e *encoder) procInst(target, inst string) {
	e.closeStart()
	e.newline()
	e.w.WriteString("<?")
	e.w.WriteString(target)
	if inst != "" {
		e.w.WriteByte(' ')
		e.w.WriteString(inst)
	}
	e.w.WriteString("?>")
	e.started = true
}

// start writes a start tag, which is left open so that it can
// become self-closing.
func (e *encoder) start(name string, attrs []xml.Attr) {
	e.closeStart()
	e.newline()
	e.w.WriteByte('<')
	e.w.WriteString(name)
	for _, a := range attrs {
		e.w.WriteByte(' ')
		e.w.WriteString(a.Name.Local)
		e.w.WriteString(`="`)
		xml.EscapeText(e.w, []byte(a.Value))
		e.w.WriteByte('"')
	}
	e.open = true
	e.started = true
	e.depth++
}

// end writes the end tag of the current element.
func (e *encoder) end(name string) {
	e.depth--
	if e.open {
		e.w.WriteString("/>")
		e.open = false
	} else {
		e.newline()
		e.w.WriteString("</")
		e.w.WriteString(name)
		e.w.WriteByte('>')
	}
	if e.depth < e.inline {
		e.inline = 0
	}
}

// startInline stops indentation within the current element,
// so that its content is written as is.
func (e *encoder) startInline() {
	if e.inline == 0 {
		e.inline = e.depth
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// text writes escaped character data.
func (e *encoder) text(s string) {
	if s == "" {
		return
	}
	e.closeStart()
	textEscaper.WriteString(e.w, s)
	e.startInline()
}

// flush ends the document with a newline, if indenting,
// and flushes the output.
func (e *encoder) flush() error {
	if e.width > 0 && e.started {
		e.w.WriteByte('\n')
	}
	return e.w.Flush()
}
