// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlio

import (
	"encoding/xml"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/docerr"
	"cogentcore.org/drawing/figure"
	"cogentcore.org/drawing/ident"
	"cogentcore.org/drawing/nodes"
	"cogentcore.org/drawing/schema"
)

// Writer writes figure trees as documents. A Writer only holds its
// registry and options, so it can be used by several goroutines at once.
type Writer struct {
	reg  *schema.Registry
	opts *Options
}

// NewWriter returns a new [Writer] for the given registry, which should
// be sealed. Nil options mean [DefaultOptions].
func NewWriter(reg *schema.Registry, opts *Options) *Writer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Writer{reg: reg, opts: opts}
}

// Save writes the tree with the given root to the given file.
func (wr *Writer) Save(filename string, root figure.Figure) error {
	f, err := os.Create(filename)
	if err != nil {
		return docerr.Wrap(docerr.IO, err, "can not create document")
	}
	err = wr.Write(f, root)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = docerr.Wrap(docerr.IO, cerr, "can not write document")
	}
	return err
}

// Write writes the tree with the given root. Figures keep the ids they
// were read with when these are unique in the document, and otherwise
// get new ids that only identify them within it. Attributes with their class
// default value are left out, and figures of skipped or unbound classes
// are left out with their children.
func (wr *Writer) Write(w io.Writer, root figure.Figure) error {
	return wr.write(w, root, root.AsBase().Children)
}

// WriteSelection writes the given figures of the tree with the given
// root, in tree order, as the children of a new root figure of the same
// class as root. Selected figures that are inside other selected figures
// are only written as part of them. References to figures that are not
// written are left out.
func (wr *Writer) WriteSelection(w io.Writer, root figure.Figure, figs []figure.Figure) error {
	elem, ok := wr.reg.ElementName(figure.ClassOf(root))
	if !ok {
		return docerr.New(docerr.MissingBinding, "no element name for root class %s", figure.ClassOf(root))
	}
	sel := figure.SortInTreeOrder(root, figs)
	tops := make([]figure.Figure, 0, len(sel))
	for _, f := range sel {
		if len(tops) > 0 && figure.IsAncestor(tops[len(tops)-1], f) {
			continue
		}
		tops = append(tops, f)
	}
	nroot, err := wr.reg.NewFigure(elem)
	if err != nil {
		return err
	}
	return wr.write(w, nroot, tops)
}

// writing is the state of one document being written.
type writing struct {
	*Writer

	enc *encoder
	ids *ident.Factory

	// written is the set of figures that are written,
	// which references can point to.
	written map[figure.Figure]bool

	// namespace is the default namespace of the current element.
	namespace string
}

func (wr *Writer) write(w io.Writer, root figure.Figure, kids []figure.Figure) error {
	class := figure.ClassOf(root)
	if _, ok := wr.reg.ElementName(class); !ok || wr.reg.IsSkipClass(class) {
		return docerr.New(docerr.MissingBinding, "no element name for root class %s", class)
	}
	ws := &writing{
		Writer:  wr,
		enc:     newEncoder(w, wr.opts),
		ids:     ident.New(wr.opts.Duplicates, wr.opts.Naming),
		written: map[figure.Figure]bool{root: true},
	}
	ws.reserve(root)
	for _, kid := range kids {
		ws.collect(kid)
	}
	if wr.opts.Declaration {
		ws.enc.procInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	if key := wr.reg.Stylesheets(); key != nil {
		for _, ss := range key.Get(&root.AsBase().Attrs) {
			inst := `href="` + escapeAttr(ss.Href) + `"`
			if ss.Type != "" {
				inst = `type="` + escapeAttr(ss.Type) + `" ` + inst
			}
			ws.enc.procInst("xml-stylesheet", inst)
		}
	}
	if err := ws.figure(root, kids, true); err != nil {
		return err
	}
	if err := ws.enc.flush(); err != nil {
		return docerr.Wrap(docerr.IO, err, "can not write document")
	}
	return nil
}

// isWritten returns whether figures of the given class are written.
func (ws *writing) isWritten(f figure.Figure) bool {
	class := figure.ClassOf(f)
	if ws.reg.IsSkipClass(class) {
		return false
	}
	if _, ok := ws.reg.ElementName(class); !ok {
		slog.Debug("xmlio: not writing figure with no element name", "class", class)
		return false
	}
	return true
}

// collect adds the given figure and its descendants that are written,
// reserving their ids.
func (ws *writing) collect(f figure.Figure) {
	figure.WalkDown(f, func(f figure.Figure) bool {
		if !ws.isWritten(f) {
			return false
		}
		ws.written[f] = true
		ws.reserve(f)
		return true
	})
}

// reserve binds the id the figure was read with to it, unless an earlier
// figure of the document already has that id. It must be called before
// any new id is created.
func (ws *writing) reserve(f figure.Figure) {
	id := f.AsBase().ID
	if id == "" {
		return
	}
	if _, taken := ws.ids.Object(id); taken {
		slog.Debug("xmlio: not keeping duplicate figure id", "id", id)
		return
	}
	errors.Log(ws.ids.PutIDAndObject(id, f))
}

// figure writes one figure with the given children.
func (ws *writing) figure(f figure.Figure, kids []figure.Figure, root bool) error {
	class := figure.ClassOf(f)
	elem, _ := ws.reg.ElementName(class)
	id := ws.ids.CreateID(f)
	attrs := []xml.Attr{xmlAttr(ws.reg.IDAttribute(), id)}
	if root && ws.reg.Namespace() != "" {
		ws.namespace = ws.reg.Namespace()
		attrs = append(attrs, xmlAttr("xmlns", ws.namespace))
	}
	fb := f.AsBase()
	for _, a := range ws.reg.WriteOrder(class) {
		v := a.GetValue(&fb.Attrs)
		if ws.reg.IsDefaultValue(class, a, v) {
			continue
		}
		var err error
		if attrs, err = ws.attr(attrs, class, a, v, id); err != nil {
			return err
		}
	}
	for _, a := range ws.reg.Leftovers(class, &fb.Attrs) {
		var err error
		if attrs, err = ws.attr(attrs, class, a, a.GetValue(&fb.Attrs), id); err != nil {
			return err
		}
	}
	ws.enc.start(elem, attrs)
	for _, a := range ws.reg.NodeListKeys(class) {
		v := a.GetValue(&fb.Attrs)
		l, ok := v.(nodes.List)
		if !ok {
			return (&docerr.Error{Kind: docerr.Conversion, Msg: "node list value is not a nodes.List", Accessor: a.Name(), Type: a.Type().String()}).On(id)
		}
		if len(l) == 0 {
			continue
		}
		name, _ := ws.reg.NodeListName(class, a)
		if name == "" {
			ws.enc.startInline()
			ws.nodes(l)
			continue
		}
		ws.enc.start(name, nil)
		ws.enc.startInline()
		ws.nodes(l)
		ws.enc.end(name)
	}
	for _, kid := range kids {
		if !ws.written[kid] {
			continue
		}
		if err := ws.figure(kid, kid.AsBase().Children, false); err != nil {
			return err
		}
	}
	ws.enc.end(elem)
	return nil
}

// attr appends the attribute for the given accessor and value
// of the figure with the given id.
func (ws *writing) attr(attrs []xml.Attr, class figure.Class, a attr.Accessor, v any, id string) ([]xml.Attr, error) {
	name, _ := ws.reg.AttributeName(class, a)
	if a.IsReference() {
		target, _ := v.(figure.Figure)
		if target == nil || !ws.written[target] {
			slog.Debug("xmlio: not writing reference to a figure outside of the document", "attribute", name, "figure", id)
			return attrs, nil
		}
		return append(attrs, xmlAttr(name, ws.ids.CreateID(target))), nil
	}
	text, err := ws.reg.Converters().ToString(a, v)
	if err != nil {
		return attrs, docerr.As(err).On(id)
	}
	return append(attrs, xmlAttr(name, text)), nil
}

// nodes writes raw node content.
func (ws *writing) nodes(l nodes.List) {
	for _, n := range l {
		if n.IsText() {
			ws.enc.text(n.Text)
			continue
		}
		el := n.Element
		prev := ws.namespace
		attrs := ws.elementAttrs(el)
		name := el.Name.Local
		ws.enc.start(name, attrs)
		ws.nodes(el.Children)
		ws.enc.end(name)
		ws.namespace = prev
	}
}

// elementAttrs returns the attributes to write for a raw element,
// declaring its namespace if it differs from the current default
// namespace, and giving namespaced attributes declared prefixes.
// The namespace declarations of the element are replaced by these.
func (ws *writing) elementAttrs(el *nodes.Element) []xml.Attr {
	var attrs []xml.Attr
	if el.Name.Space != ws.namespace {
		ws.namespace = el.Name.Space
		attrs = append(attrs, xmlAttr("xmlns", el.Name.Space))
	}
	prefixes := map[string]string{}
	for _, a := range el.Attr {
		switch {
		case isNamespaceDecl(a):
			continue
		case a.Name.Space == "":
			attrs = append(attrs, a)
		case a.Name.Space == xmlNamespace || a.Name.Space == "xml":
			attrs = append(attrs, xmlAttr("xml:"+a.Name.Local, a.Value))
		default:
			p, ok := prefixes[a.Name.Space]
			if !ok {
				p = "ns" + strconv.Itoa(len(prefixes))
				prefixes[a.Name.Space] = p
				attrs = append(attrs, xmlAttr("xmlns:"+p, a.Name.Space))
			}
			attrs = append(attrs, xmlAttr(p+":"+a.Name.Local, a.Value))
		}
	}
	return attrs
}

func xmlAttr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func escapeAttr(s string) string {
	var b strings.Builder
	errors.Log(xml.EscapeText(&b, []byte(s)))
	return b.String()
}
