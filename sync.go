// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

// fieldRemap returns, for every field of prev, the index it maps to in the
// current field list, or -1. With byName the field now carrying the previous
// name wins, compared case-insensitively with the first match in index
// order; otherwise every field maps to its own current index.
func (pc *PivotCache) fieldRemap(prev []*CacheField, byName bool) []int {
	remap := make([]int, len(prev))
	for i, f := range prev {
		switch {
		case !byName:
			remap[i] = f.Index()
		case f.prevName == "":
			remap[i] = -1
		default:
			remap[i] = pc.fieldIndex(f.prevName)
		}
	}
	return remap
}

// syncFieldViews re-points the field views of every dependent pivot table,
// still laid out as the fields of prev, to the current field list. Views
// which no longer resolve are dropped, together with their axis entries,
// value fields and pivot areas; fresh views take the place of new fields.
func (pc *PivotCache) syncFieldViews(prev []*CacheField, byName bool) {
	remap := pc.fieldRemap(prev, byName)
	m := func(i int) int {
		if i < 0 || i >= len(remap) {
			return -1
		}
		return remap[i]
	}
	pc.remapGroupingBases(func(i int) int {
		if i >= 0 && i < len(prev) {
			if j := prev[i].Index(); j >= 0 {
				return j
			}
		}
		return i
	})
	for _, t := range pc.tables {
		views := make([]*PivotField, len(pc.fields))
		for i, v := range t.fields {
			if j := m(i); j >= 0 && views[j] == nil {
				views[j] = v
			}
		}
		for j := range views {
			if views[j] == nil {
				views[j] = newPivotField(t, j)
			}
		}
		t.fields = views
		t.renumber()
		dropped := t.remapFields(m)
		for _, v := range t.fields {
			if v.axis != AxisNone && v.axis != AxisValues && indexOfInt(*t.axisList(v.axis), v.index) == -1 {
				v.axis, v.items, v.pageItem = AxisNone, nil, -1
			}
		}
		if dropped > 0 {
			pc.log.Warn("pivot table field views dropped after refresh", Fields{
				"cache": pc.uid, "table": t.name, "dropped": dropped,
			})
			pc.hooks.FieldViewsDropped(t.name, dropped)
		}
	}
}
