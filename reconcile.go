// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

// reconcile brings the view's items in line with the new shared items s,
// using the values captured before the refresh:
//
//   - data items whose value is no longer in s, or which repeat an earlier
//     item's value, are removed,
//   - values of s without an item are appended ahead of the trailing
//     default subtotal marker,
//   - a single trailing default marker is kept when the default subtotal is
//     enabled, none otherwise,
//   - the page selection is re-resolved by value, falling back to all
//     items.
//
// Surviving items keep their hidden state and are re-indexed against s.
func (pf *PivotField) reconcile(s *itemSet) {
	if pf.items == nil {
		return
	}
	items := make([]PivotItem, 0, s.len()+1)
	seen := make(map[string]bool, s.len())
	for _, it := range pf.items {
		switch it.Kind {
		case ItemDefault:
			continue
		case ItemSubtotal:
			items = append(items, it)
			continue
		}
		if !it.resolved || !s.contains(it.value) {
			continue
		}
		k := it.value.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		items = append(items, it)
	}
	for _, v := range s.items {
		if !seen[v.key()] {
			items = append(items, PivotItem{Kind: ItemData, value: v, resolved: true})
		}
	}
	if pf.options.DefaultSubtotal {
		items = append(items, PivotItem{CacheIndex: -1, Kind: ItemDefault})
	}
	pf.pageItem = -1
	for i := range items {
		it := &items[i]
		if it.Kind != ItemData {
			it.CacheIndex = -1
			continue
		}
		it.CacheIndex = s.indexOf(it.value)
		if pf.pageValue != nil && it.value.key() == pf.pageValue.key() {
			pf.pageItem = i
		}
	}
	pf.items, pf.pageValue = items, nil
}
