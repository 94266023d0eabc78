// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// boolPtr returns a pointer to a bool with the given value.
func boolPtr(b bool) *bool { return &b }

// intPtr returns a pointer to an int with the given value.
func intPtr(i int) *int { return &i }

// toString renders an arbitrary value as text.
func toString(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// newUID returns a braced upper case GUID as used by xr:uid attributes.
func newUID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// uniqueName returns name, or name with the smallest numeric suffix from 2
// that isn't taken.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		if candidate := name + strconv.Itoa(i); !taken(candidate) {
			return candidate
		}
	}
}

// insertInt inserts v into s at position i.
func insertInt(s []int, i int, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// indexOfInt returns the position of v in s, or -1.
func indexOfInt(s []int, v int) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
