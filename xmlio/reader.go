// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlio

import (
	"bufio"
	"context"
	"encoding/xml"
	"html"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"cogentcore.org/core/base/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/docerr"
	"cogentcore.org/drawing/figure"
	"cogentcore.org/drawing/ident"
	"cogentcore.org/drawing/nodes"
	"cogentcore.org/drawing/schema"
)

// Reader reads documents into figure trees. A Reader only holds its
// registry and options, so it can be used by several goroutines at once.
type Reader struct {
	reg  *schema.Registry
	opts *Options
}

// NewReader returns a new [Reader] for the given registry, which should
// be sealed. Nil options mean [DefaultOptions].
func NewReader(reg *schema.Registry, opts *Options) *Reader {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Reader{reg: reg, opts: opts}
}

// Open reads the document in the given file.
func (rd *Reader) Open(filename string) (figure.Figure, error) {
	doc, err := rd.OpenDocument(filename)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

// OpenDocument is [Reader.Open] that also returns the ids of the document.
func (rd *Reader) OpenDocument(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, docerr.Wrap(docerr.IO, err, "can not open document")
	}
	defer f.Close()
	return rd.ReadDocument(bufio.NewReader(f))
}

// Read reads a document and returns its root figure. Elements are
// first turned into figures and attributes are queued, then the queued
// attribute values are converted and assigned concurrently, so that
// references to figures further on in the document can be resolved.
// No figures are returned if there is any error.
func (rd *Reader) Read(r io.Reader) (figure.Figure, error) {
	doc, err := rd.ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

// Document is a document that has been read.
type Document struct {

	// Root is the root figure.
	Root figure.Figure

	// IDs maps the ids of the document to its figures.
	IDs *ident.Factory

	// naming is how pasted figures are renamed.
	naming ident.Naming
}

// ReadDocument is [Reader.Read] that also returns the ids of the document.
func (rd *Reader) ReadDocument(r io.Reader) (*Document, error) {
	rs, err := rd.read(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: rs.root, IDs: rs.ids, naming: rd.opts.Naming}, nil
}

// ReadInto reads a document and moves the children of its root figure
// into the given parent, as done to paste or merge a document into
// another one. Ids of the document that are already used in the tree of
// parent are renamed. It returns the moved figures, or none if there is
// any error, including a child that can not be nested in the parent.
func (rd *Reader) ReadInto(r io.Reader, parent figure.Figure) ([]figure.Figure, error) {
	rs, err := rd.read(r)
	if err != nil {
		return nil, err
	}
	return paste(rs.root, parent, rd.opts.Naming)
}

// PasteInto adds a copy of the children of the root figure to the given
// parent, like [Reader.ReadInto], so that one document can be pasted
// several times. References between the copies point to the copies.
func (d *Document) PasteInto(parent figure.Figure) ([]figure.Figure, error) {
	return paste(figure.Clone(d.Root), parent, d.naming)
}

// paste moves the children of root into parent, after checking that they
// can all be nested in it. Ids that are already used in the tree of
// parent, or by an earlier pasted figure, get new ids.
func paste(root, parent figure.Figure, naming ident.Naming) ([]figure.Figure, error) {
	kids := slices.Clone(root.AsBase().Children)
	for _, kid := range kids {
		if !parent.CanHaveChild(kid) || !kid.CanBeChildOf(parent) {
			return nil, docerr.New(docerr.Structural, "%s can not be a child of %s", figure.ClassOf(kid), figure.ClassOf(parent))
		}
	}
	ids := ident.New(ident.DuplicateError, naming)
	claim := func(f figure.Figure) bool {
		fb := f.AsBase()
		if fb.ID == "" {
			return true
		}
		if _, taken := ids.Object(fb.ID); taken {
			return false
		}
		errors.Log(ids.PutIDAndObject(fb.ID, f))
		return true
	}
	figure.WalkDown(figure.Root(parent), func(f figure.Figure) bool {
		claim(f)
		return true
	})
	for _, kid := range kids {
		figure.WalkDown(kid, func(f figure.Figure) bool {
			if !claim(f) {
				old := f.AsBase().ID
				f.AsBase().ID = ids.CreateID(f)
				slog.Debug("xmlio: renamed pasted figure", "id", old, "new", f.AsBase().ID)
			}
			return true
		})
	}
	for _, kid := range kids {
		figure.MoveToParent(kid, parent)
	}
	return kids, nil
}

// reading is the state of one document being read.
type reading struct {
	*Reader

	dec  *xml.Decoder
	ids  *ident.Factory
	root figure.Figure

	// stack is the path of figures down to the current element.
	stack []*frame

	// batches are the queued attributes, one batch per figure.
	batches []*batch

	// stylesheets are the stylesheet references from
	// processing instructions, in order.
	stylesheets []schema.Stylesheet
}

// frame is an open figure element.
type frame struct {
	fig   figure.Figure
	class figure.Class
	loc   docerr.Location

	// content collects the unwrapped content of the element if the
	// class has a node list bound to it, and is nil otherwise.
	content    *nodes.List
	contentKey attr.Accessor

	// named collects the content of node list elements, by accessor.
	named map[attr.Accessor]*nodes.List
}

// batch is the queued attributes of one figure. The tasks of a batch
// are run in order by a single goroutine, so that composite attributes
// that share sub-accessors of the figure do not race.
type batch struct {
	fig   figure.Figure
	class figure.Class
	tasks []task
}

// task is one queued attribute value.
type task struct {
	name string
	text string
	loc  docerr.Location
}

func (rd *Reader) read(r io.Reader) (*reading, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	rs := &reading{Reader: rd, dec: dec, ids: ident.New(rd.opts.Duplicates, rd.opts.Naming)}
	if err := rs.parse(); err != nil {
		return nil, err
	}
	if err := rs.assign(); err != nil {
		return nil, err
	}
	return rs, nil
}

// location returns the current position of the decoder.
func (rs *reading) location() docerr.Location {
	line, col := rs.dec.InputPos()
	return docerr.Location{Line: line, Column: col}
}

// parse is the first phase of reading, which builds the figure tree
// and queues the attribute values.
func (rs *reading) parse() error {
	for {
		loc := rs.location()
		t, err := rs.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return tokenError(err, loc)
		}
		switch tt := t.(type) {
		case xml.StartElement:
			err = rs.startElement(tt, loc)
		case xml.EndElement:
			err = rs.endElement()
		case xml.CharData:
			rs.charData(tt)
		case xml.ProcInst:
			rs.procInst(tt)
		}
		if err != nil {
			return err
		}
	}
	if len(rs.stack) > 0 {
		return docerr.New(docerr.Structural, "unclosed element <%s>", rs.top().fig).At(rs.top().loc)
	}
	if rs.root == nil {
		return docerr.New(docerr.Structural, "document has no root element")
	}
	if key := rs.reg.Stylesheets(); key != nil && len(rs.stylesheets) > 0 {
		key.Put(&rs.root.AsBase().Attrs, rs.stylesheets)
	}
	return nil
}

// tokenError returns the error for a failure to read a token.
func tokenError(err error, loc docerr.Location) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return docerr.Wrap(docerr.Structural, err, "malformed document").At(docerr.Location{Line: se.Line})
	}
	return docerr.Wrap(docerr.IO, err, "can not read document").At(loc)
}

func (rs *reading) top() *frame {
	if len(rs.stack) == 0 {
		return nil
	}
	return rs.stack[len(rs.stack)-1]
}

// isFigureElement returns whether the element is bound to a figure.
func (rs *reading) isFigureElement(name xml.Name) bool {
	if ns := rs.reg.Namespace(); ns != "" && name.Space != ns {
		return false
	}
	return rs.reg.HasFactory(name.Local)
}

func (rs *reading) startElement(se xml.StartElement, loc docerr.Location) error {
	name := se.Name.Local
	if rs.reg.IsSkipElement(name) {
		return rs.skip(loc)
	}
	top := rs.top()
	if !rs.isFigureElement(se.Name) {
		if top != nil {
			if a, ok := rs.reg.NodeListAccessor(top.class, name); ok && name != "" {
				return rs.nodeList(top, a, se, loc)
			}
			if top.content != nil {
				if err := top.content.Decode(rs.dec, se); err != nil {
					return tokenError(err, loc)
				}
				return nil
			}
		}
		return docerr.New(docerr.UnsupportedElement, "unsupported element <%s>", name).At(loc)
	}
	f, err := rs.reg.NewFigure(name)
	if err != nil {
		return docerr.As(err).At(loc)
	}
	if top == nil {
		if rs.root != nil {
			return docerr.New(docerr.Structural, "more than one root element").At(loc)
		}
		rs.root = f
	} else if err := figure.Attach(top.fig, f); err != nil {
		return docerr.As(err).At(loc)
	}
	fr := &frame{fig: f, class: figure.ClassOf(f), loc: loc}
	if a, ok := rs.reg.NodeListAccessor(fr.class, ""); ok {
		fr.content = &nodes.List{}
		fr.contentKey = a
	}
	b := &batch{fig: f, class: fr.class}
	for _, at := range se.Attr {
		if isNamespaceDecl(at) {
			continue
		}
		key := rs.attrName(at.Name)
		if key == rs.reg.IDAttribute() {
			prev, had := rs.ids.Object(at.Value)
			if err := rs.ids.PutIDAndObject(at.Value, f); err != nil {
				return docerr.As(err).At(loc)
			}
			if pf, ok := prev.(figure.Figure); had && ok {
				pf.AsBase().ID = ""
			}
			f.AsBase().ID = at.Value
			continue
		}
		b.tasks = append(b.tasks, task{name: key, text: at.Value, loc: loc})
	}
	if len(b.tasks) > 0 {
		rs.batches = append(rs.batches, b)
	}
	rs.stack = append(rs.stack, fr)
	return nil
}

// skip skips the content of the current element.
func (rs *reading) skip(loc docerr.Location) error {
	if err := rs.dec.Skip(); err != nil {
		return tokenError(err, loc)
	}
	return nil
}

// nodeList reads the content of an element bound to a named node list.
func (rs *reading) nodeList(fr *frame, a attr.Accessor, se xml.StartElement, loc docerr.Location) error {
	var wrap nodes.List
	if err := wrap.Decode(rs.dec, se); err != nil {
		return tokenError(err, loc)
	}
	if fr.named == nil {
		fr.named = map[attr.Accessor]*nodes.List{}
	}
	l, ok := fr.named[a]
	if !ok {
		l = &nodes.List{}
		fr.named[a] = l
	}
	*l = append(*l, wrap[0].Element.Children...)
	return nil
}

func (rs *reading) endElement() error {
	fr := rs.top()
	rs.stack = rs.stack[:len(rs.stack)-1]
	store := &fr.fig.AsBase().Attrs
	if fr.content != nil {
		fr.content.TrimLayout()
	}
	if fr.content != nil && len(*fr.content) > 0 {
		if _, err := fr.contentKey.PutValue(store, *fr.content); err != nil {
			return docerr.Wrap(docerr.Conversion, err, "can not assign content").At(fr.loc)
		}
	}
	for a, l := range fr.named {
		if _, err := a.PutValue(store, *l); err != nil {
			return docerr.Wrap(docerr.Conversion, err, "can not assign node list").At(fr.loc)
		}
	}
	return nil
}

func (rs *reading) charData(cd xml.CharData) {
	if fr := rs.top(); fr != nil && fr.content != nil {
		fr.content.AppendText(string(cd))
	}
}

// pseudoAttr matches the pseudo attributes of a processing instruction.
var pseudoAttr = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

func (rs *reading) procInst(pi xml.ProcInst) {
	if pi.Target != "xml-stylesheet" || rs.reg.Stylesheets() == nil {
		return
	}
	var ss schema.Stylesheet
	for _, m := range pseudoAttr.FindAllStringSubmatch(string(pi.Inst), -1) {
		v := m[2]
		if v == "" {
			v = m[3]
		}
		v = html.UnescapeString(v)
		switch m[1] {
		case "href":
			ss.Href = v
		case "type":
			ss.Type = v
		}
	}
	if ss.Href == "" {
		slog.Warn("xmlio: ignoring stylesheet with no href", "instruction", string(pi.Inst))
		return
	}
	rs.stylesheets = append(rs.stylesheets, ss)
}

// assign is the second phase of reading, which converts and assigns
// the queued attribute values, using a bounded pool of goroutines.
func (rs *reading) assign() error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(rs.opts.workers())
	for _, b := range rs.batches {
		g.Go(func() error {
			for _, t := range b.tasks {
				if ctx.Err() != nil {
					return nil
				}
				if err := rs.apply(b, t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// apply converts and assigns one queued attribute value.
func (rs *reading) apply(b *batch, t task) error {
	a, ok := rs.reg.AttributeAccessor(b.class, t.name)
	if !ok {
		if rs.reg.IsSkipAttribute(b.class, t.name) {
			return nil
		}
		if rs.opts.Strict {
			return rs.figureError(docerr.New(docerr.UnsupportedAttribute, "unsupported attribute %q on %s", t.name, b.class.Name()), b, t)
		}
		slog.Warn("xmlio: ignoring unsupported attribute", "attribute", t.name, "class", b.class.Name(), "line", t.loc.Line)
		return nil
	}
	var v any
	if a.IsReference() {
		obj, ok := rs.ids.Object(t.text)
		if !ok {
			return rs.figureError(&docerr.Error{Kind: docerr.Structural, Msg: "reference to unknown id", Accessor: a.Name(), Text: t.text}, b, t)
		}
		v = obj
	} else {
		var err error
		v, err = rs.reg.Converters().FromString(a, t.text)
		if err != nil {
			return rs.figureError(docerr.As(err), b, t)
		}
	}
	if _, err := a.PutValue(&b.fig.AsBase().Attrs, v); err != nil {
		return rs.figureError(&docerr.Error{Kind: docerr.Conversion, Msg: "can not assign value", Accessor: a.Name(), Type: a.Type().String(), Text: t.text, Err: err}, b, t)
	}
	return nil
}

// figureError adds the location and id of the figure of the task to err.
func (rs *reading) figureError(err *docerr.Error, b *batch, t task) error {
	err.At(t.loc)
	if id, ok := rs.ids.ID(b.fig); ok {
		err.On(id)
	}
	return err
}

// attrName returns the name of an attribute as it is bound in the
// registry: the local name for attributes with no namespace or the
// registry namespace, xml:name for the xml namespace, and
// {space}name otherwise.
func (rs *reading) attrName(n xml.Name) string {
	switch n.Space {
	case "", rs.reg.Namespace():
		return n.Local
	case xmlNamespace, "xml":
		return "xml:" + n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// isNamespaceDecl returns whether the attribute is a namespace declaration.
func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}
