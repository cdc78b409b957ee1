// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ident assigns and resolves the document ids of figures,
// which are used to persist references between figures.
//
// A [Factory] is scoped to one document: it is reset when a document is
// read or written, and must not be shared by concurrent document
// operations.
package ident

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"cogentcore.org/core/base/strcase"
	"github.com/google/uuid"

	"cogentcore.org/drawing/docerr"
)

// DuplicatePolicy selects what happens when an id that is already
// bound to one object is registered for another.
type DuplicatePolicy int32

const (
	// DuplicateError rejects the second registration with a
	// [docerr.Structural] error.
	DuplicateError DuplicatePolicy = iota

	// DuplicateOverwrite rebinds the id to the new object
	// and logs a warning.
	DuplicateOverwrite
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateError:
		return "error"
	case DuplicateOverwrite:
		return "overwrite"
	}
	return "DuplicatePolicy(" + strconv.Itoa(int(p)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (p DuplicatePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *DuplicatePolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*p = DuplicateError
	case "overwrite":
		*p = DuplicateOverwrite
	default:
		return fmt.Errorf("ident: unknown duplicate policy %q", text)
	}
	return nil
}

// Naming selects how new ids are synthesized.
type Naming int32

const (
	// NamingSequence names objects by type tag plus a per-tag
	// sequence number, eg: rect0, rect1, line0.
	NamingSequence Naming = iota

	// NamingUUID names objects with random UUIDs.
	NamingUUID
)

func (n Naming) String() string {
	switch n {
	case NamingSequence:
		return "sequence"
	case NamingUUID:
		return "uuid"
	}
	return "Naming(" + strconv.Itoa(int(n)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (n Naming) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (n *Naming) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sequence":
		*n = NamingSequence
	case "uuid":
		*n = NamingUUID
	default:
		return fmt.Errorf("ident: unknown naming %q", text)
	}
	return nil
}

// Tagger is implemented by objects that provide their own type tag,
// the prefix of the ids synthesized for them.
type Tagger interface {
	TypeTag() string
}

// Factory is a bidirectional table between objects and string ids.
// Its methods are safe for concurrent use, so that references can be
// resolved by several goroutines once all ids are registered.
type Factory struct {

	// Duplicates is the policy for an id registered for a second object.
	Duplicates DuplicatePolicy

	// Naming is the strategy for synthesizing new ids.
	Naming Naming

	mu    sync.RWMutex
	byID  map[string]any
	byObj map[any]string
	seq   map[string]int
}

// New returns a new empty [Factory] with the given policies.
func New(dup DuplicatePolicy, naming Naming) *Factory {
	f := &Factory{Duplicates: dup, Naming: naming}
	f.Reset()
	return f
}

// Reset clears all bindings and sequence numbers.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID = map[string]any{}
	f.byObj = map[any]string{}
	f.seq = map[string]int{}
}

// CreateID returns the id of the given object, synthesizing
// and registering a new one if it has none.
func (f *Factory) CreateID(obj any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byObj[obj]; ok {
		return id
	}
	id := f.newID(obj)
	f.byID[id] = obj
	f.byObj[obj] = id
	return id
}

// newID returns an unused id for the given object. It must be
// called with the lock held.
func (f *Factory) newID(obj any) string {
	if f.Naming == NamingUUID {
		return uuid.NewString()
	}
	tag := TypeTag(obj)
	for {
		n := f.seq[tag]
		f.seq[tag] = n + 1
		id := tag + strconv.Itoa(n)
		if _, taken := f.byID[id]; !taken {
			return id
		}
	}
}

// PutIDAndObject binds the given id to the given object, as done for an
// explicit id in a document. If the id is already bound to another object,
// it returns a [docerr.Structural] error or rebinds the id, depending on
// [Factory.Duplicates].
func (f *Factory) PutIDAndObject(id string, obj any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.byID[id]; ok && cur != obj {
		if f.Duplicates == DuplicateError {
			return docerr.New(docerr.Structural, "duplicate id %q", id)
		}
		slog.Warn("ident: overwriting duplicate id", "id", id)
		delete(f.byObj, cur)
	}
	if old, ok := f.byObj[obj]; ok && old != id {
		delete(f.byID, old)
	}
	f.byID[id] = obj
	f.byObj[obj] = id
	return nil
}

// Object returns the object bound to the given id, and whether there is one.
func (f *Factory) Object(id string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	obj, ok := f.byID[id]
	return obj, ok
}

// ID returns the id bound to the given object, and whether there is one.
func (f *Factory) ID(obj any) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.byObj[obj]
	return id, ok
}

// Len returns the number of bound ids.
func (f *Factory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byID)
}

// TypeTag returns the short, human-readable label used as the prefix of
// the ids synthesized for the given object: its [Tagger.TypeTag] if it has
// one, and otherwise its lower camel case type name without any trailing
// Figure, so that *shapes.RectFigure and *shapes.Rect both become rect.
func TypeTag(obj any) string {
	if tg, ok := obj.(Tagger); ok {
		if tag := tg.TypeTag(); tag != "" {
			return tag
		}
	}
	rt := reflect.TypeOf(obj)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Name() == "" {
		return "obj"
	}
	name := rt.Name()
	if trimmed := strings.TrimSuffix(name, "Figure"); trimmed != "" {
		name = trimmed
	}
	return strcase.ToLowerCamel(name)
}
