// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"log/slog"
	"reflect"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of the tree from the given figure down.
// Exported fields are copied with [copier], skipping fields tagged
// `copier:"-"`, and attribute values are deep copied. Clones keep the
// [Base.ID] of their originals. Reference values
// to figures inside the cloned tree point to their clones in the result,
// while references to figures outside of it are kept as is.
func Clone(f Figure) Figure {
	clones := map[Figure]Figure{}
	c := cloneTree(f, clones)
	WalkDown(c, func(cf Figure) bool {
		cb := cf.AsBase()
		for k, v := range cb.Attrs.Map() {
			if !k.IsReference() {
				continue
			}
			if tf, ok := v.(Figure); ok {
				if tc, ok := clones[tf]; ok {
					cb.Attrs.Set(k, tc)
				}
			}
		}
		return true
	})
	return c
}

func cloneTree(f Figure, clones map[Figure]Figure) Figure {
	fb := f.AsBase()
	c := Init(newInstance(f))
	err := copier.CopyWithOption(c, f, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		slog.Error("figure.Clone", "class", ClassOf(f), "err", err)
	}
	cb := c.AsBase()
	cb.ID = fb.ID
	for k, v := range fb.Attrs.Map() {
		if k.IsReference() {
			cb.Attrs.Set(k, v)
			continue
		}
		cb.Attrs.Set(k, copyValue(v))
	}
	clones[f] = c
	for _, kid := range fb.Children {
		cb.AddChild(cloneTree(kid, clones))
	}
	return c
}

// newInstance returns a new zero figure of the same type as f.
func newInstance(f Figure) Figure {
	return reflect.New(reflect.TypeOf(f).Elem()).Interface().(Figure)
}

// copyValue returns a deep copy of a slice or map attribute value,
// and the value itself otherwise.
func copyValue(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return v
		}
		nv := reflect.New(rv.Type())
		if err := copier.CopyWithOption(nv.Interface(), v, copier.Option{DeepCopy: true}); err != nil {
			slog.Error("figure.Clone: copying attribute value", "type", rv.Type(), "err", err)
			return v
		}
		return nv.Elem().Interface()
	}
	return v
}
