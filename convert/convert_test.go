// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert_test

import (
	"errors"
	"image/color"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/drawing/attr"
	. "cogentcore.org/drawing/convert"
	"cogentcore.org/drawing/docerr"
)

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		10:     "10.0",
		0:      "0.0",
		-3:     "-3.0",
		0.5:    "0.5",
		1.25e3: "1250.0",
		1e-4:   "0.0001",
	}
	for v, want := range tests {
		assert.Equal(t, want, FormatFloat(v, 64))
	}
}

func TestDefaults(t *testing.T) {
	r := Defaults()
	width := attr.New("width", 0.0)
	s, err := r.ToString(width, 10.0)
	require.NoError(t, err)
	assert.Equal(t, "10.0", s)
	v, err := r.FromString(width, "10.0")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	fill := attr.New("fill", color.RGBA{A: 0xff})
	s, err = r.ToString(fill, color.RGBA{R: 0xff, G: 0x80, A: 0xff})
	require.NoError(t, err)
	assert.Equal(t, "#ff8000", s)
	v, err = r.FromString(fill, "#11223380")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, v)
	s, err = r.ToString(fill, v)
	require.NoError(t, err)
	assert.Equal(t, "#11223380", s)

	dur := attr.New("delay", time.Duration(0))
	v, err = r.FromString(dur, "1.5s")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, v)

	hidden := attr.New("hidden", false)
	_, err = r.FromString(hidden, "maybe")
	assert.True(t, errors.Is(err, docerr.Conversion))
}

func TestStrings(t *testing.T) {
	in := []string{"a.css", "with space", `quo"te`, "", "$HOME", "a;b"}
	s, err := FormatStrings(in)
	require.NoError(t, err)
	out, err := ParseStrings(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = ParseStrings("")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = ParseStrings(`"unterminated`)
	assert.Error(t, err)
}

func TestFloats(t *testing.T) {
	fs, err := ParseFloats("1,2 3.5\n-4")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3.5, -4}, fs)
	s, err := FormatFloats(fs)
	require.NoError(t, err)
	assert.Equal(t, "1.0 2.0 3.5 -4.0", s)
	_, err = ParseFloats("1 x")
	assert.Error(t, err)
}

func TestLookupOrder(t *testing.T) {
	r := Defaults()
	count := attr.New("count", 0)
	other := attr.New("other", 0)
	hex := New(func(v int) (string, error) { return strconv.FormatInt(int64(v), 16), nil },
		func(s string) (int, error) {
			i, err := strconv.ParseInt(s, 16, 64)
			return int(i), err
		})
	r.AddForAccessor(count, hex)

	s, err := r.ToString(count, 255)
	require.NoError(t, err)
	assert.Equal(t, "ff", s)
	s, err = r.ToString(other, 255)
	require.NoError(t, err)
	assert.Equal(t, "255", s)

	r.RemoveAccessor(count)
	s, err = r.ToString(count, 255)
	require.NoError(t, err)
	assert.Equal(t, "255", s)
}

func TestMissingConverter(t *testing.T) {
	r := NewRegistry()
	k := attr.New("points", []float64{}, attr.WithType(attr.Type("points")))
	_, err := r.ToString(k, []float64{1})
	var de *docerr.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, docerr.MissingConverter, de.Kind)
	assert.Equal(t, "points", de.Accessor)
	assert.Equal(t, "points", de.Type)

	_, err = r.FromString(k, "1 2")
	assert.True(t, errors.Is(err, docerr.MissingConverter))
}

func TestFormatWrongType(t *testing.T) {
	r := Defaults()
	k := attr.New("width", 0.0)
	_, err := r.ToString(k, "ten")
	var de *docerr.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, docerr.Conversion, de.Kind)
	assert.Equal(t, "ten", de.Text)
	assert.Equal(t, "float64", de.Type)
}

func TestEnum(t *testing.T) {
	type align int
	c := Enum(map[align]string{0: "start", 1: "middle", 2: "end"})
	s, err := c.Format(align(1))
	require.NoError(t, err)
	assert.Equal(t, "middle", s)
	v, err := c.Parse("end")
	require.NoError(t, err)
	assert.Equal(t, align(2), v)
	_, err = c.Parse("left")
	assert.ErrorContains(t, err, "end, middle, start")
	_, err = c.Format(align(7))
	assert.Error(t, err)
}
