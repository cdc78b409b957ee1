// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strings"

	"cogentcore.org/drawing/docerr"
	"cogentcore.org/drawing/figure"
)

// Fmt reads each document and writes it back with default values left
// out. The result is printed unless -w is given.
func Fmt(c *Config) error {
	if len(c.Files) == 0 {
		return errors.New("no documents given")
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	for _, file := range c.Files {
		root, err := a.reader().Open(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if c.Write {
			err = a.writer().Save(file, root)
		} else {
			err = a.writer().Write(stdout, root)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// Check reports the first error of each document,
// and fails if any document has one.
func Check(c *Config) error {
	if len(c.Files) == 0 {
		return errors.New("no documents given")
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	failed := 0
	for _, file := range c.Files {
		_, err := a.reader().Open(file)
		if err == nil {
			fmt.Fprintf(stdout, "%s: ok\n", file)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "%s: %v\n", file, docerr.As(err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(c.Files))
	}
	return nil
}

// IDs lists the ids of a document with the class of their figures,
// in tree order.
func IDs(c *Config) error {
	if len(c.Files) != 1 {
		return errors.New("expected one document")
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	doc, err := a.reader().OpenDocument(c.Files[0])
	if err != nil {
		return err
	}
	figure.WalkDown(doc.Root, func(f figure.Figure) bool {
		if id, ok := doc.IDs.ID(f); ok {
			fmt.Fprintf(stdout, "%s\t%s\n", id, figure.ClassOf(f).Name())
		}
		return true
	})
	return nil
}

// Merge pastes the figures of each document after the first one into
// the figures of the first one given by -into, renaming the ids that
// are already used, and writes the result.
func Merge(c *Config) error {
	if len(c.Files) < 2 {
		return errors.New("expected a document and the documents to merge into it")
	}
	a, err := setup(c)
	if err != nil {
		return err
	}
	rd := a.reader()
	doc, err := rd.OpenDocument(c.Files[0])
	if err != nil {
		return fmt.Errorf("%s: %w", c.Files[0], err)
	}
	targets := []figure.Figure{doc.Root}
	if c.Into != "" {
		targets = nil
		for id := range strings.SplitSeq(c.Into, ",") {
			obj, ok := doc.IDs.Object(strings.TrimSpace(id))
			if !ok {
				return fmt.Errorf("%s: no figure with id %q", c.Files[0], id)
			}
			targets = append(targets, obj.(figure.Figure))
		}
	}
	for _, file := range c.Files[1:] {
		part, err := rd.OpenDocument(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		for _, t := range targets {
			if _, err := part.PasteInto(t); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
		}
	}
	if c.Output != "" {
		return a.writer().Save(c.Output, doc.Root)
	}
	return a.writer().Write(stdout, doc.Root)
}

// Options prints the effective options as TOML.
func Options(c *Config) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	return a.opts.WriteTOML(stdout)
}
