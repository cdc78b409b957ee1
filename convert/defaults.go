// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"fmt"
	"image/color"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-shellwords"

	"cogentcore.org/drawing/attr"
)

// AddDefaults adds the built-in converters for the basic value types:
// string, bool, int, int64, float32, float64, []float64, []string,
// [color.RGBA] and [time.Duration].
func AddDefaults(r *Registry) {
	addType(r, New(func(v string) (string, error) { return v, nil }, func(s string) (string, error) { return s, nil }))
	addType(r, New(func(v bool) (string, error) { return strconv.FormatBool(v), nil }, strconv.ParseBool))
	addType(r, New(func(v int) (string, error) { return strconv.Itoa(v), nil }, strconv.Atoi))
	addType(r, New(func(v int64) (string, error) { return strconv.FormatInt(v, 10), nil },
		func(s string) (int64, error) { return strconv.ParseInt(strings.TrimSpace(s), 10, 64) }))
	addType(r, New(func(v float32) (string, error) { return FormatFloat(float64(v), 32), nil },
		func(s string) (float32, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			return float32(f), err
		}))
	addType(r, New(func(v float64) (string, error) { return FormatFloat(v, 64), nil },
		func(s string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) }))
	addType(r, New(FormatFloats, ParseFloats))
	addType(r, New(FormatStrings, ParseStrings))
	addType(r, New(FormatColor, ParseColor))
	addType(r, New(func(v time.Duration) (string, error) { return v.String(), nil }, time.ParseDuration))
}

// Defaults returns a new [Registry] with the built-in converters.
func Defaults() *Registry {
	r := NewRegistry()
	AddDefaults(r)
	return r
}

func addType[T any](r *Registry, c *Funcs[T]) {
	r.AddForType(attr.TypeOf[T]().String(), c)
}

// FormatFloat formats a float with the fewest digits that represent it
// exactly, always including a decimal point for finite integral values,
// so that 10 is written as 10.0.
func FormatFloat(v float64, bitSize int) string {
	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// FormatFloats formats a list of floats separated by spaces.
func FormatFloats(v []float64) (string, error) {
	strs := make([]string, len(v))
	for i, f := range v {
		strs[i] = FormatFloat(f, 64)
	}
	return strings.Join(strs, " "), nil
}

// ParseFloats parses a list of floats separated by spaces and/or commas.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	fs := make([]float64, len(fields))
	for i, fld := range fields {
		f, err := strconv.ParseFloat(fld, 64)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

// plainWord matches words that need no quoting in a string list.
var plainWord = regexp.MustCompile(`^[A-Za-z0-9_.,:/%+=@-]+$`)

// FormatStrings formats a list of words separated by spaces, quoting
// the words that contain spaces or shell meta characters.
func FormatStrings(v []string) (string, error) {
	strs := make([]string, len(v))
	for i, s := range v {
		if plainWord.MatchString(s) {
			strs[i] = s
			continue
		}
		strs[i] = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace(s) + `"`
	}
	return strings.Join(strs, " "), nil
}

// ParseStrings parses a list of words written by [FormatStrings],
// using shell word splitting rules.
func ParseStrings(s string) ([]string, error) {
	p := shellwords.NewParser()
	words, err := p.Parse(s)
	if err != nil {
		return nil, err
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unexpected %q in word list", s[p.Position:])
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// FormatColor formats a color as #rrggbb, or #rrggbbaa if it is not opaque.
func FormatColor(c color.RGBA) (string, error) {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	s := cf.Hex()
	if c.A != 0xff {
		s += fmt.Sprintf("%02x", c.A)
	}
	return s, nil
}

// ParseColor parses a color in the #rgb, #rrggbb or #rrggbbaa forms.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Enum returns a converter for values of T that are written as
// the names in the given table. Values missing from the table
// and unknown names are errors.
func Enum[T comparable](names map[T]string) *Funcs[T] {
	byName := make(map[string]T, len(names))
	for v, n := range names {
		byName[n] = v
	}
	format := func(v T) (string, error) {
		n, ok := names[v]
		if !ok {
			return "", fmt.Errorf("no name for value %v", v)
		}
		return n, nil
	}
	parse := func(s string) (T, error) {
		v, ok := byName[strings.TrimSpace(s)]
		if !ok {
			var zv T
			known := make([]string, 0, len(byName))
			for n := range byName {
				known = append(known, n)
			}
			slices.Sort(known)
			return zv, fmt.Errorf("unknown name %q (want one of %s)", s, strings.Join(known, ", "))
		}
		return v, nil
	}
	return New(format, parse)
}
