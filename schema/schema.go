// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema provides the [Registry] that binds figure classes to
// element names, attribute names to accessors, and accessors to class
// specific default values and converters. It is the single source of
// truth used by document readers and writers.
//
// A Registry is built once at startup, then [Registry.Seal]ed, after which
// it can be shared by any number of concurrent readers and writers.
package schema

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/base/keylist"

	"cogentcore.org/drawing/attr"
	"cogentcore.org/drawing/convert"
	"cogentcore.org/drawing/docerr"
	"cogentcore.org/drawing/figure"
)

// Factory returns a new initialized figure.
type Factory func() figure.Figure

// bindings are the name bindings of accessors for one class,
// for attributes or for node lists.
type bindings struct {

	// byName maps names to accessors, in registration order.
	byName keylist.List[string, attr.Accessor]

	// names maps accessors to the first name registered for them,
	// which is the name used for writing.
	names map[attr.Accessor]string

	// order is the list of distinct accessors in registration order.
	order []attr.Accessor
}

// add binds the given name to the given accessor, returning false if
// the name is already bound, in which case the first binding wins.
func (b *bindings) add(name string, a attr.Accessor) bool {
	if _, ok := b.byName.AtTry(name); ok {
		return false
	}
	b.byName.Add(name, a)
	if b.names == nil {
		b.names = map[attr.Accessor]string{}
	}
	if _, ok := b.names[a]; !ok {
		b.names[a] = name
		b.order = append(b.order, a)
	}
	return true
}

func (b *bindings) remove(a attr.Accessor) {
	if _, ok := b.names[a]; !ok {
		return
	}
	delete(b.names, a)
	b.order = slices.DeleteFunc(b.order, func(o attr.Accessor) bool { return o == a })
	for i := len(b.byName.Keys) - 1; i >= 0; i-- {
		if b.byName.Values[i] == a {
			b.byName.DeleteByIndex(i, i+1)
		}
	}
}

// class is everything registered for one figure class.
type class struct {
	attrs     bindings
	nodeLists bindings
	defaults  map[attr.Accessor]any
	skipAttrs map[string]bool

	// writeOrder and covers are computed by [Registry.Seal].
	writeOrder []attr.Accessor
	covers     []cover
}

// cover is a bound accessor that bound composites are written through,
// with those composites.
type cover struct {
	sub        attr.Accessor
	composites []attr.Accessor
}

// Registry is the schema registry. Use [New] to create one.
type Registry struct {

	// factories maps element names to figure factories.
	factories map[string]Factory

	// elements maps classes to the element names used for writing.
	elements map[figure.Class]string

	classes      map[figure.Class]*class
	skipElements map[string]bool
	skipClasses  map[figure.Class]bool
	idAttribute  string
	namespace    string
	stylesheets  *attr.Key[[]Stylesheet]
	converters   *convert.Registry
	sealed       bool
}

// New returns a new empty [Registry] whose converter registry
// has the built-in converters (see [convert.AddDefaults]).
func New() *Registry {
	return &Registry{
		factories:    map[string]Factory{},
		elements:     map[figure.Class]string{},
		classes:      map[figure.Class]*class{},
		skipElements: map[string]bool{},
		skipClasses:  map[figure.Class]bool{},
		idAttribute:  "id",
		converters:   convert.Defaults(),
	}
}

// mutable panics if the registry is sealed.
func (r *Registry) mutable(op string) {
	if r.sealed {
		panic("schema.Registry." + op + ": registry is sealed")
	}
}

func (r *Registry) class(c figure.Class) *class {
	cl, ok := r.classes[c]
	if !ok {
		cl = &class{defaults: map[attr.Accessor]any{}, skipAttrs: map[string]bool{}}
		r.classes[c] = cl
	}
	return cl
}

// AddFigure registers the given factory for the given element name.
// The first element name registered for a class is the one used
// for writing figures of that class. It returns the class of the
// figures made by the factory.
func (r *Registry) AddFigure(element string, factory Factory) figure.Class {
	r.mutable("AddFigure")
	c := figure.ClassOf(factory())
	r.factories[element] = factory
	if _, ok := r.elements[c]; !ok {
		r.elements[c] = element
	}
	r.class(c)
	return c
}

// AddAttribute binds the given attribute name to the given accessor for
// the given class. The first accessor registered for a name wins; an
// accessor may have several names, the first of which is used for writing.
func (r *Registry) AddAttribute(c figure.Class, name string, a attr.Accessor) {
	r.mutable("AddAttribute")
	if !r.class(c).attrs.add(name, a) {
		slog.Debug("schema: attribute name already bound", "class", c, "name", name)
	}
}

// AddNodeList binds the given element name to the given node list
// accessor for the given class. The empty name binds the accessor to the
// unwrapped content of the figure element, which at most one accessor
// per class can be bound to.
func (r *Registry) AddNodeList(c figure.Class, name string, a attr.Accessor) error {
	r.mutable("AddNodeList")
	cl := r.class(c)
	if _, ok := cl.nodeLists.byName.AtTry(name); ok {
		if name == "" {
			return docerr.New(docerr.Structural, "class %s already has a node list bound to its content", c)
		}
		return nil
	}
	cl.nodeLists.add(name, a)
	return nil
}

// SetDefault sets the default value of the given accessor for the given
// class, which overrides the default value of the accessor.
// Figures made by [Registry.NewFigure] start with this value.
func (r *Registry) SetDefault(c figure.Class, a attr.Accessor, v any) {
	r.mutable("SetDefault")
	r.class(c).defaults[a] = v
}

// RemoveAccessor removes all bindings, defaults and the accessor
// specific converter of the given accessor.
func (r *Registry) RemoveAccessor(a attr.Accessor) {
	r.mutable("RemoveAccessor")
	for _, cl := range r.classes {
		cl.attrs.remove(a)
		cl.nodeLists.remove(a)
		delete(cl.defaults, a)
	}
	r.converters.RemoveAccessor(a)
}

// AddConverterForAccessor registers a converter for one accessor.
func (r *Registry) AddConverterForAccessor(a attr.Accessor, c convert.Converter) {
	r.mutable("AddConverterForAccessor")
	r.converters.AddForAccessor(a, c)
}

// AddConverterForType registers a converter for a value type string.
func (r *Registry) AddConverterForType(typ string, c convert.Converter) {
	r.mutable("AddConverterForType")
	r.converters.AddForType(typ, c)
}

// SkipAttribute makes the given attribute name silently ignored
// when reading figures of the given class.
func (r *Registry) SkipAttribute(c figure.Class, name string) {
	r.mutable("SkipAttribute")
	r.class(c).skipAttrs[name] = true
}

// SkipElement makes elements with the given name silently skipped,
// with their content, when reading.
func (r *Registry) SkipElement(name string) {
	r.mutable("SkipElement")
	r.skipElements[name] = true
}

// SkipClass makes figures of the given class omitted,
// with their children, when writing.
func (r *Registry) SkipClass(c figure.Class) {
	r.mutable("SkipClass")
	r.skipClasses[c] = true
}

// SetIDAttribute sets the name of the attribute that holds
// figure ids, which is id by default.
func (r *Registry) SetIDAttribute(name string) {
	r.mutable("SetIDAttribute")
	r.idAttribute = name
}

// SetNamespace sets the namespace URI of figure elements.
// The empty default means that elements have no namespace.
func (r *Registry) SetNamespace(uri string) {
	r.mutable("SetNamespace")
	r.namespace = uri
}

// Stylesheet is a stylesheet reference of an xml-stylesheet
// processing instruction.
type Stylesheet struct {

	// Type is the media type, such as text/css or text/xsl.
	// It is not written if empty.
	Type string

	// Href is the location of the stylesheet.
	Href string
}

// SetStylesheets sets the key of the root figure that holds the
// stylesheet references read from and written to xml-stylesheet
// processing instructions.
func (r *Registry) SetStylesheets(key *attr.Key[[]Stylesheet]) {
	r.mutable("SetStylesheets")
	r.stylesheets = key
}

// Seal freezes the registry, after which any registration panics,
// and precomputes the write order of every class.
func (r *Registry) Seal() {
	if r.sealed {
		return
	}
	for _, cl := range r.classes {
		cl.writeOrder = writeOrder(cl)
		cl.covers = covers(cl)
	}
	r.sealed = true
}

// IsSealed returns whether [Registry.Seal] has been called.
func (r *Registry) IsSealed() bool {
	return r.sealed
}

// ElementName returns the element name of the given class,
// and false if it has none.
func (r *Registry) ElementName(c figure.Class) (string, bool) {
	e, ok := r.elements[c]
	return e, ok
}

// NewFigure returns a new figure for the given element name with the
// class specific default values applied. It returns a
// [docerr.UnsupportedElement] error if no factory is registered.
func (r *Registry) NewFigure(element string) (figure.Figure, error) {
	factory, ok := r.factories[element]
	if !ok {
		return nil, docerr.New(docerr.UnsupportedElement, "unsupported element <%s>", element)
	}
	f := factory()
	if f.AsBase().This == nil {
		figure.Init(f)
	}
	if cl, ok := r.classes[figure.ClassOf(f)]; ok {
		fb := f.AsBase()
		for a, v := range cl.defaults {
			if _, err := a.PutValue(&fb.Attrs, v); err != nil {
				return nil, fmt.Errorf("schema: default value of %s for <%s>: %w", a.Name(), element, err)
			}
		}
	}
	return f, nil
}

// HasFactory returns whether a factory is registered for the element name.
func (r *Registry) HasFactory(element string) bool {
	_, ok := r.factories[element]
	return ok
}

// AttributeName returns the name used for writing the given
// accessor of the given class.
func (r *Registry) AttributeName(c figure.Class, a attr.Accessor) (string, bool) {
	cl, ok := r.classes[c]
	if !ok {
		return "", false
	}
	n, ok := cl.attrs.names[a]
	return n, ok
}

// AttributeAccessor returns the accessor bound to the given
// attribute name of the given class.
func (r *Registry) AttributeAccessor(c figure.Class, name string) (attr.Accessor, bool) {
	cl, ok := r.classes[c]
	if !ok {
		return nil, false
	}
	return cl.attrs.byName.AtTry(name)
}

// NodeListName returns the element name of the given node
// list accessor of the given class.
func (r *Registry) NodeListName(c figure.Class, a attr.Accessor) (string, bool) {
	cl, ok := r.classes[c]
	if !ok {
		return "", false
	}
	n, ok := cl.nodeLists.names[a]
	return n, ok
}

// NodeListAccessor returns the node list accessor bound to the given
// element name of the given class, where the empty name is the
// unwrapped content of the figure element.
func (r *Registry) NodeListAccessor(c figure.Class, name string) (attr.Accessor, bool) {
	cl, ok := r.classes[c]
	if !ok {
		return nil, false
	}
	return cl.nodeLists.byName.AtTry(name)
}

// AttributeKeys returns the attribute accessors of the given class,
// in registration order.
func (r *Registry) AttributeKeys(c figure.Class) []attr.Accessor {
	cl, ok := r.classes[c]
	if !ok {
		return nil
	}
	return slices.Clone(cl.attrs.order)
}

// NodeListKeys returns the node list accessors of the given class,
// in registration order.
func (r *Registry) NodeListKeys(c figure.Class) []attr.Accessor {
	cl, ok := r.classes[c]
	if !ok {
		return nil
	}
	return slices.Clone(cl.nodeLists.order)
}

// DefaultValue returns the default value of the given accessor for the
// given class: the class specific one if set, and otherwise the
// default of the accessor.
func (r *Registry) DefaultValue(c figure.Class, a attr.Accessor) any {
	if cl, ok := r.classes[c]; ok {
		if v, ok := cl.defaults[a]; ok {
			return v
		}
	}
	return a.DefaultValue()
}

// IsDefaultValue returns whether v is the default value of the
// given accessor for the given class.
func (r *Registry) IsDefaultValue(c figure.Class, a attr.Accessor, v any) bool {
	return a.EqualValues(v, r.DefaultValue(c, a))
}

// IsSkipAttribute returns whether the given attribute name
// is ignored for the given class.
func (r *Registry) IsSkipAttribute(c figure.Class, name string) bool {
	cl, ok := r.classes[c]
	return ok && cl.skipAttrs[name]
}

// IsSkipElement returns whether elements with the given name are skipped.
func (r *Registry) IsSkipElement(name string) bool {
	return r.skipElements[name]
}

// IsSkipClass returns whether figures of the given class are not written.
func (r *Registry) IsSkipClass(c figure.Class) bool {
	return r.skipClasses[c]
}

// IDAttribute returns the name of the attribute that holds figure ids.
func (r *Registry) IDAttribute() string {
	return r.idAttribute
}

// Namespace returns the namespace URI of figure elements.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Stylesheets returns the key of the stylesheet references of the
// root figure, or nil if there is none.
func (r *Registry) Stylesheets() *attr.Key[[]Stylesheet] {
	return r.stylesheets
}

// Converters returns the converter registry.
func (r *Registry) Converters() *convert.Registry {
	return r.converters
}

// Classes returns the registered classes, sorted.
func (r *Registry) Classes() []figure.Class {
	cs := make([]figure.Class, 0, len(r.classes))
	for c := range r.classes {
		cs = append(cs, c)
	}
	slices.Sort(cs)
	return cs
}

// CheckConverters logs a warning for each persisted attribute accessor
// that has no converter, and returns them. Reference and transient
// accessors do not need converters.
func (r *Registry) CheckConverters() []attr.Accessor {
	var missing []attr.Accessor
	seen := map[attr.Accessor]bool{}
	for _, c := range r.Classes() {
		for _, a := range r.classes[c].attrs.order {
			if seen[a] || a.IsTransient() || a.IsReference() {
				continue
			}
			seen[a] = true
			if _, err := r.converters.Lookup(a); err != nil {
				slog.Warn("schema: no converter for attribute", "class", c, "accessor", a.Name(), "type", a.Type().String())
				missing = append(missing, a)
			}
		}
	}
	return missing
}

// WriteOrder returns the attribute accessors of the given class in the
// order they are written: composite accessors first, then the remaining
// accessors, leaving out transient accessors and the sub-accessors of
// the composites, which are written through their composite.
func (r *Registry) WriteOrder(c figure.Class) []attr.Accessor {
	cl, ok := r.classes[c]
	if !ok {
		return nil
	}
	if r.sealed {
		return cl.writeOrder
	}
	return writeOrder(cl)
}

func writeOrder(cl *class) []attr.Accessor {
	var order []attr.Accessor
	done := map[attr.Accessor]bool{}
	for _, a := range cl.attrs.order {
		cm, ok := a.(attr.Composite)
		if !ok || a.IsTransient() {
			continue
		}
		order = append(order, a)
		for _, sub := range cm.Subs() {
			done[sub] = true
		}
	}
	for _, a := range cl.attrs.order {
		if _, ok := a.(attr.Composite); ok || a.IsTransient() || done[a] {
			continue
		}
		order = append(order, a)
	}
	return order
}

// covers returns the bound accessors that are sub-accessors of bound
// composites, in registration order.
func covers(cl *class) []cover {
	var cs []cover
	for _, a := range cl.attrs.order {
		if a.IsTransient() {
			continue
		}
		var cms []attr.Accessor
		for _, c := range cl.attrs.order {
			if cm, ok := c.(attr.Composite); ok && slices.Contains(cm.Subs(), a) {
				cms = append(cms, c)
			}
		}
		if len(cms) > 0 {
			cs = append(cs, cover{sub: a, composites: cms})
		}
	}
	return cs
}

// Leftovers returns the sub-accessors of the composites of the given
// class that must be written themselves, because the values written
// for the composites do not give back their value in s. For example,
// a set member composite does not write the other members of its set.
// Sub-accessors with their default value are never leftovers.
func (r *Registry) Leftovers(c figure.Class, s *attr.Store) []attr.Accessor {
	cl, ok := r.classes[c]
	if !ok {
		return nil
	}
	cs := cl.covers
	if !r.sealed {
		cs = covers(cl)
	}
	var left []attr.Accessor
	for _, cv := range cs {
		v := cv.sub.GetValue(s)
		if r.IsDefaultValue(c, cv.sub, v) {
			continue
		}
		var scratch attr.Store
		if _, err := cv.sub.PutValue(&scratch, r.DefaultValue(c, cv.sub)); err != nil {
			left = append(left, cv.sub)
			continue
		}
		for _, cm := range cv.composites {
			cmv := cm.GetValue(s)
			if r.IsDefaultValue(c, cm, cmv) {
				continue
			}
			if _, err := cm.PutValue(&scratch, cmv); err != nil {
				slog.Debug("schema: can not put composite value", "class", c, "accessor", cm.Name(), "err", err)
			}
		}
		if !cv.sub.EqualValues(cv.sub.GetValue(&scratch), v) {
			left = append(left, cv.sub)
		}
	}
	return left
}
