// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

// itemSet owns an ordered sequence of unique values together with the
// case-insensitive lookup from value to position. Both are only changed
// through its methods, so callers never observe one without the other.
type itemSet struct {
	items  []Value
	lookup map[string]int
}

// ingest de-duplicates raw values. When a value repeats (case-insensitively)
// the earlier copy is removed and the later one is appended, so the lookup of
// every value indexes its last occurrence.
func ingest(raw []Value) *itemSet {
	last := make(map[string]int, len(raw))
	for i, v := range raw {
		last[v.key()] = i
	}
	s := &itemSet{items: make([]Value, 0, len(last)), lookup: make(map[string]int, len(last))}
	for i, v := range raw {
		k := v.key()
		if last[k] != i {
			continue
		}
		s.lookup[k] = len(s.items)
		s.items = append(s.items, v)
	}
	return s
}

// newItemSet builds a set from values which are already unique, e.g. group
// labels. Duplicates still follow the last-write-wins rule.
func newItemSet(values []Value) *itemSet {
	return ingest(values)
}

// add appends v, removing a previously stored case-insensitive duplicate.
func (s *itemSet) add(v Value) int {
	k := v.key()
	if idx, ok := s.lookup[k]; ok {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		for j := idx; j < len(s.items); j++ {
			s.lookup[s.items[j].key()] = j
		}
	}
	s.lookup[k] = len(s.items)
	s.items = append(s.items, v)
	return s.lookup[k]
}

// indexOf returns the position of v, or -1.
func (s *itemSet) indexOf(v Value) int {
	if s == nil {
		return -1
	}
	if idx, ok := s.lookup[v.key()]; ok {
		return idx
	}
	return -1
}

// contains reports whether v is a member of the set.
func (s *itemSet) contains(v Value) bool {
	return s.indexOf(v) != -1
}

// len returns the number of unique values.
func (s *itemSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// at returns the value at position i.
func (s *itemSet) at(i int) (Value, bool) {
	if s == nil || i < 0 || i >= len(s.items) {
		return Value{}, false
	}
	return s.items[i], true
}

// values returns a copy of the ordered values.
func (s *itemSet) values() []Value {
	if s == nil {
		return nil
	}
	return append([]Value(nil), s.items...)
}
