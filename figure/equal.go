// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"cogentcore.org/drawing/attr"
)

// Equal returns whether the trees from a and b down have the same
// structure, classes and attribute values. An absent value equals a
// stored default value. Reference values are equal when they point to
// figures at the same pre-order position in their trees, or to the
// same figure outside of them.
func Equal(a, b Figure) bool {
	pa, pb := positions(a), positions(b)
	return equalTree(a, b, pa, pb)
}

func positions(root Figure) map[Figure]int {
	pos := map[Figure]int{}
	WalkDown(root, func(f Figure) bool {
		pos[f] = len(pos)
		return true
	})
	return pos
}

func equalTree(a, b Figure, pa, pb map[Figure]int) bool {
	if ClassOf(a) != ClassOf(b) {
		return false
	}
	ab, bb := a.AsBase(), b.AsBase()
	if len(ab.Children) != len(bb.Children) {
		return false
	}
	keys := map[attr.Accessor]bool{}
	for _, k := range ab.Attrs.Keys() {
		keys[k] = true
	}
	for _, k := range bb.Attrs.Keys() {
		keys[k] = true
	}
	for k := range keys {
		if k.IsTransient() {
			continue
		}
		av, bv := k.GetValue(&ab.Attrs), k.GetValue(&bb.Attrs)
		if k.IsReference() {
			if !equalRef(av, bv, pa, pb) {
				return false
			}
			continue
		}
		if !k.EqualValues(av, bv) {
			return false
		}
	}
	for i := range ab.Children {
		if !equalTree(ab.Children[i], bb.Children[i], pa, pb) {
			return false
		}
	}
	return true
}

func equalRef(av, bv any, pa, pb map[Figure]int) bool {
	af, _ := av.(Figure)
	bf, _ := bv.(Figure)
	if af == nil || bf == nil {
		return af == nil && bf == nil
	}
	ia, ina := pa[af]
	ib, inb := pb[bf]
	if ina || inb {
		return ina && inb && ia == ib
	}
	return af == bf
}
