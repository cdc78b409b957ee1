// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlio

import (
	"bufio"
	"io"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/drawing/ident"
)

// Options are the options of a [Reader] or [Writer],
// which can be loaded from a TOML file.
type Options struct {

	// Strict makes attributes with no accessor binding an error
	// when reading, instead of a logged warning.
	Strict bool `toml:"strict"`

	// Duplicates is the policy for an id that is used by more than
	// one element of a document.
	Duplicates ident.DuplicatePolicy `toml:"duplicates"`

	// Naming is how figure ids are synthesized when writing.
	Naming ident.Naming `toml:"naming"`

	// Workers is the maximum number of goroutines that assign
	// attribute values when reading. Zero means [runtime.GOMAXPROCS].
	Workers int `toml:"workers"`

	// Indent is the number of spaces per nesting level when writing,
	// or zero to write everything on one line.
	Indent int `toml:"indent"`

	// IndentTabs makes the writer indent with one tab
	// per nesting level instead of spaces.
	IndentTabs bool `toml:"indent-tabs"`

	// Declaration makes the writer start documents
	// with an XML declaration.
	Declaration bool `toml:"declaration"`
}

// DefaultOptions returns the default [Options]: lenient reading,
// duplicate ids as errors, sequential ids, and two space indentation
// after an XML declaration.
func DefaultOptions() *Options {
	return &Options{
		Duplicates:  ident.DuplicateError,
		Naming:      ident.NamingSequence,
		Indent:      2,
		Declaration: true,
	}
}

// OpenOptions returns the [DefaultOptions] updated
// with the options in the given TOML file.
func OpenOptions(filename string) (*Options, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadOptions(bufio.NewReader(f))
}

// ReadOptions returns the [DefaultOptions] updated with the options
// in the given TOML input. Unknown fields are an error.
func ReadOptions(r io.Reader) (*Options, error) {
	o := DefaultOptions()
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(o); err != nil {
		return nil, err
	}
	return o, nil
}

// WriteTOML writes the options as TOML.
func (o *Options) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(o)
}

// workers returns the number of phase two workers.
func (o *Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
