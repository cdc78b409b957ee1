// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command drawxml formats, checks, inspects and merges drawing documents.
package main

import (
	"io"
	"log/slog"
	"os"

	clilogx "cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"

	"cogentcore.org/drawing/base/logx"
	"cogentcore.org/drawing/schema"
	"cogentcore.org/drawing/shapes"
	"cogentcore.org/drawing/xmlio"
)

// Config is the configuration information for the drawxml cli.
type Config struct {

	// Files are the documents to operate on.
	Files []string `posarg:"leftover" required:"-"`

	// Options is a TOML file with reader and writer options.
	Options string

	// Strict makes unsupported attributes errors.
	Strict bool

	// Write writes the result back to each file instead of printing it.
	Write bool `cmd:"fmt" flag:"w,write"`

	// Into is the comma separated ids of the figures of the first
	// document to paste the other documents into. The root figure is
	// used if it is empty.
	Into string `cmd:"merge"`

	// Output is the file to write the merged document to,
	// instead of printing it.
	Output string `cmd:"merge" flag:"o,output"`
}

// stdout is where the commands print their results.
var stdout io.Writer = os.Stdout

var cmds = []*cli.Cmd[*Config]{
	{Func: Fmt, Name: "fmt", Doc: "fmt rewrites documents in canonical form, leaving out default values."},
	{Func: Check, Name: "check", Doc: "check reports the first error of each document."},
	{Func: IDs, Name: "ids", Doc: "ids lists the ids of a document in tree order."},
	{Func: Merge, Name: "merge", Doc: "merge pastes the documents after the first one into it."},
	{Func: Options, Name: "options", Doc: "options prints the effective options as TOML."},
}

func main() {
	opts := cli.DefaultOptions("drawxml", "drawxml reads drawing documents through the shapes schema registry and writes them back in canonical form.")
	opts.PrintSuccess = false
	cli.Run(opts, &Config{}, cmds...)
}

// app is the state shared by the commands of one run.
type app struct {
	reg  *schema.Registry
	opts *xmlio.Options
}

// setup sets the logger to the level given by the verbosity flags,
// and loads the options.
func setup(c *Config) (*app, error) {
	logx.UserLevel = clilogx.UserLevel
	logx.SetDefaultLogger()
	a := &app{reg: shapes.NewRegistry(), opts: xmlio.DefaultOptions()}
	if c.Options != "" {
		o, err := xmlio.OpenOptions(c.Options)
		if err != nil {
			return nil, err
		}
		a.opts = o
		slog.Info("loaded options", "file", c.Options)
	}
	if c.Strict {
		a.opts.Strict = true
	}
	return a, nil
}

func (a *app) reader() *xmlio.Reader { return xmlio.NewReader(a.reg, a.opts) }
func (a *app) writer() *xmlio.Writer { return xmlio.NewWriter(a.reg, a.opts) }
