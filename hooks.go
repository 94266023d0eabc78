// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

// Hooks are callbacks for high-signal cache events. Implementations must be
// cheap and non-blocking, they run inside cache operations.
type Hooks interface {
	// CacheRefreshed is called after a successful refresh.
	CacheRefreshed(cacheID string, fields, records int, schemaChanged bool)
	// FieldViewsDropped is called when field view sync removes field views
	// from a pivot table's axes because their field no longer exists.
	FieldViewsDropped(table string, dropped int)
	// GroupingApplied is called after a field has been grouped.
	// kind ∈ {"date", "numeric"}
	GroupingApplied(field, kind string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheRefreshed(string, int, int, bool) {}
func (NopHooks) FieldViewsDropped(string, int)         {}
func (NopHooks) GroupingApplied(string, string)        {}
