// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package docerr defines the single error type returned by document
// reading and writing, tagged with a [Kind] that classifies the failure.
//
// Every error carries a human-readable message and, when known, the
// accessor, value type, raw text and source [Location] involved.
// Use [errors.Is] with a [Kind] to test the classification:
//
//	if errors.Is(err, docerr.Structural) { ... }
package docerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a document [Error].
type Kind int32

const (
	// Structural is bad nesting, a duplicate id, or a missing or extra root.
	Structural Kind = iota

	// UnsupportedElement is an element name with no figure binding
	// that is not registered as skippable.
	UnsupportedElement

	// UnsupportedAttribute is an attribute name with no accessor binding,
	// reported only in strict mode.
	UnsupportedAttribute

	// Conversion is a failure to parse or format an attribute value.
	Conversion

	// MissingConverter is an accessor whose value type has no converter.
	MissingConverter

	// MissingBinding is a class or accessor with no registered name.
	MissingBinding

	// IO is a failure of the underlying reader or writer.
	IO
)

var kindNames = [...]string{"structural", "unsupported element", "unsupported attribute", "conversion", "missing converter", "missing binding", "io"}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
	return kindNames[k]
}

// Error implements the error interface so that a Kind can be used
// directly as a target for [errors.Is].
func (k Kind) Error() string {
	return "docerr: " + k.String()
}

// Location is a position in the source document.
// The zero value means the location is unknown.
type Location struct {
	Line   int
	Column int
}

// IsValid returns whether the location is known.
func (l Location) IsValid() bool {
	return l.Line > 0
}

func (l Location) String() string {
	if !l.IsValid() {
		return ""
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Error is the failure type of document reading and writing.
type Error struct {

	// Kind classifies the failure.
	Kind Kind

	// Msg is the human-readable description.
	Msg string

	// Accessor is the name of the accessor involved, if any.
	Accessor string

	// Type is the value type string of the accessor involved, if any.
	Type string

	// Text is the raw attribute text (parsing) or formatted value (writing).
	Text string

	// Figure identifies the figure involved, usually its document id.
	Figure string

	// Loc is the location of the owning element in the source.
	Loc Location

	// Err is the underlying cause.
	Err error
}

// New returns a new [Error] of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a new [Error] of the given kind wrapping the given cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Loc.IsValid() {
		b.WriteString(e.Loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Figure != "" {
		fmt.Fprintf(&b, " (figure %q)", e.Figure)
	}
	if e.Accessor != "" {
		fmt.Fprintf(&b, " (accessor %q", e.Accessor)
		if e.Type != "" {
			fmt.Fprintf(&b, " of type %s", e.Type)
		}
		b.WriteString(")")
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " for %q", e.Text)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target is the [Kind] of this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// At returns the error with its location set, unless one is already set.
func (e *Error) At(loc Location) *Error {
	if !e.Loc.IsValid() {
		e.Loc = loc
	}
	return e
}

// On returns the error with its figure identity set, unless one is already set.
func (e *Error) On(figure string) *Error {
	if e.Figure == "" {
		e.Figure = figure
	}
	return e
}

// KindOf returns the [Kind] of the first [Error] in the chain of err,
// and false if there is none.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// As returns the first [Error] in the chain of err, wrapping err as an
// [IO] error if it does not contain one.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Wrap(IO, err, "i/o failure")
}
