// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"math/bits"
	"strings"
)

// TypeFlags is a bit set of the value types found in a cache field.
type TypeFlags uint16

// This section defines the type classification bits. Integer and Float are
// sub-classifications of Number, so every number sets Number as well.
const (
	TypeEmpty TypeFlags = 1 << iota
	TypeString
	TypeInteger
	TypeFloat
	TypeNumber
	TypeDateTime
	TypeBoolean
	TypeError
)

// longTextLength is the text length above which shared items are flagged
// as long text.
const longTextLength = 255

// classify scans values and accumulates their type bits.
func classify(values []Value) TypeFlags {
	var flags TypeFlags
	for _, v := range values {
		switch v.Type {
		case ValueEmpty:
			flags |= TypeEmpty
		case ValueString:
			flags |= TypeString
		case ValueInteger:
			flags |= TypeInteger | TypeNumber
		case ValueFloat:
			flags |= TypeFloat | TypeNumber
		case ValueDateTime:
			flags |= TypeDateTime
		case ValueBoolean:
			flags |= TypeBoolean
		case ValueError:
			flags |= TypeError
		}
	}
	return flags
}

// Has reports whether all bits of t are set.
func (f TypeFlags) Has(t TypeFlags) bool { return f&t == t }

// Mixed reports whether the flags describe mixed types. More than one bit
// set is mixed, except the numeric-only combinations (optionally with
// blanks), since Integer and Float only refine Number.
func (f TypeFlags) Mixed() bool {
	if bits.OnesCount16(uint16(f)) <= 1 {
		return false
	}
	switch f &^ TypeEmpty {
	case TypeInteger | TypeNumber, TypeFloat | TypeNumber, TypeInteger | TypeFloat | TypeNumber:
		return false
	}
	return true
}

// CacheField directly maps one column of the pivot cache: the de-duplicated
// shared items of a source column, or the formula of a calculated field,
// plus an optional grouping whose labels replace the shared items as the
// active item sequence.
type CacheField struct {
	cache      *PivotCache
	name       string
	prevName   string
	database   bool
	formula    string
	numFmtID   int
	shared     *itemSet
	groupItems *itemSet
	grouping   *Grouping
}

// newDatabaseField creates a source backed cache field.
func newDatabaseField(pc *PivotCache, name string) *CacheField {
	return &CacheField{cache: pc, name: name, database: true, shared: ingest(nil)}
}

// Name returns the field name.
func (cf *CacheField) Name() string { return cf.name }

// Index returns the position of the field in its cache, or -1 once the field
// has been removed.
func (cf *CacheField) Index() int {
	if cf.cache == nil {
		return -1
	}
	for i, f := range cf.cache.fields {
		if f == cf {
			return i
		}
	}
	return -1
}

// IsDatabaseField reports whether the field is backed by a source column.
func (cf *CacheField) IsDatabaseField() bool { return cf.database }

// Formula returns the formula of a calculated field.
func (cf *CacheField) Formula() string { return cf.formula }

// NumFmtID returns the number format of the field's source cells.
func (cf *CacheField) NumFmtID() int { return cf.numFmtID }

// SetFormula sets the formula of a calculated field. Database fields can't
// carry a formula.
func (cf *CacheField) SetFormula(formula string) error {
	if cf.database {
		return newFormulaOnDatabaseFieldError(cf.name)
	}
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	if strings.TrimSpace(formula) == "" {
		return ErrBlankFormula
	}
	cf.formula = formula
	if cf.cache != nil {
		cf.cache.checkFormulaReferences(cf)
	}
	return nil
}

// FormulaReferences returns the names of the fields the calculated field's
// formula refers to.
func (cf *CacheField) FormulaReferences() []string {
	if cf.formula == "" {
		return nil
	}
	return formulaFieldReferences(cf.formula)
}

// Grouping returns the grouping of the field. The returned kind is
// GroupingNone when the field isn't grouped.
func (cf *CacheField) Grouping() Grouping {
	if cf.grouping == nil {
		return Grouping{BaseIndex: -1}
	}
	return *cf.grouping
}

// IsGrouped reports whether the field carries a grouping.
func (cf *CacheField) IsGrouped() bool {
	return cf.grouping != nil && cf.grouping.Kind != GroupingNone
}

// SharedItems returns the de-duplicated raw values of the field.
func (cf *CacheField) SharedItems() []Value { return cf.shared.values() }

// GroupItems returns the group labels of a grouped field.
func (cf *CacheField) GroupItems() []Value { return cf.groupItems.values() }

// Items returns the active item sequence: the group items of a grouped
// field, otherwise the shared items.
func (cf *CacheField) Items() []Value { return cf.active().values() }

// ItemCount returns the length of the active item sequence.
func (cf *CacheField) ItemCount() int { return cf.active().len() }

// Lookup returns the index of v in the active item sequence.
func (cf *CacheField) Lookup(v Value) (int, bool) {
	idx := cf.active().indexOf(v)
	return idx, idx != -1
}

// TypeFlags classifies the field's shared items.
func (cf *CacheField) TypeFlags() TypeFlags { return classify(cf.shared.items) }

// ContainsMixedTypes reports whether the shared items are of mixed types.
func (cf *CacheField) ContainsMixedTypes() bool { return cf.TypeFlags().Mixed() }

// hasLongText reports whether any shared string exceeds the long text limit.
func (cf *CacheField) hasLongText() bool {
	for _, v := range cf.shared.items {
		if v.Type == ValueString && len([]rune(v.Str)) > longTextLength {
			return true
		}
	}
	return false
}

// active returns the active item set.
func (cf *CacheField) active() *itemSet {
	if cf.IsGrouped() && cf.groupItems != nil {
		return cf.groupItems
	}
	return cf.shared
}

// item returns the value at index i of the active item sequence.
func (cf *CacheField) item(i int) (Value, bool) {
	return cf.active().at(i)
}

// setGrouping replaces the active items with group labels.
func (cf *CacheField) setGrouping(g Grouping, labels []string) {
	values := make([]Value, len(labels))
	for i, l := range labels {
		values[i] = StringValue(l)
	}
	cf.grouping = &g
	cf.groupItems = newItemSet(values)
}

// dateBounds returns the earliest and latest date-time shared item.
func (cf *CacheField) dateBounds() (min, max Value, ok bool) {
	for _, v := range cf.shared.items {
		if v.Type != ValueDateTime {
			continue
		}
		if !ok || v.Time.Before(min.Time) {
			min = v
		}
		if !ok || v.Time.After(max.Time) {
			max = v
		}
		ok = true
	}
	return
}

// numberBounds returns the smallest and largest numeric shared item.
func (cf *CacheField) numberBounds() (min, max float64, ok bool) {
	for _, v := range cf.shared.items {
		if !v.IsNumber() {
			continue
		}
		if !ok || v.Number < min {
			min = v.Number
		}
		if !ok || v.Number > max {
			max = v.Number
		}
		ok = true
	}
	return
}
