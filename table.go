// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Axis is the pivot table axis a field view is placed on.
type Axis byte

// This section defines the pivot table axes.
const (
	AxisNone Axis = iota
	AxisRow
	AxisColumn
	AxisPage
	AxisValues
)

// String returns the persisted name of the axis.
func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "axisRow"
	case AxisColumn:
		return "axisCol"
	case AxisPage:
		return "axisPage"
	case AxisValues:
		return "axisValues"
	}
	return ""
}

// ItemKind is the kind of a pivot item.
type ItemKind byte

// This section defines the pivot item kinds.
const (
	ItemData ItemKind = iota
	ItemSubtotal
	ItemDefault
)

// PivotItem is one visible position of a field view. Data items refer to an
// active cache item by CacheIndex; subtotal and default markers carry -1.
type PivotItem struct {
	CacheIndex int
	Kind       ItemKind
	Hidden     bool
	Label      string

	value    Value
	resolved bool
}

// PivotFieldOptions directly maps the presentation settings of a field view.
type PivotFieldOptions struct {
	Name            string
	Compact         bool
	Outline         bool
	ShowAll         bool
	DefaultSubtotal bool
	InsertBlankRow  bool
	NumFmtID        int
}

// AutoSort describes the automatic sort of a field view. BaseField is the
// cache field index of the data field to sort by, or -1 to sort by labels.
type AutoSort struct {
	Ascending bool
	BaseField int
}

// PivotField is the per pivot table view of a cache field: the axis it is
// placed on, its visible items and presentation options.
type PivotField struct {
	table     *PivotTable
	index     int
	axis      Axis
	dataField bool
	items     []PivotItem
	options   PivotFieldOptions
	pageItem  int
	autoSort  *AutoSort

	pageValue *Value
}

// newPivotField returns a field view of cache field idx on no axis.
func newPivotField(pt *PivotTable, idx int) *PivotField {
	pf := &PivotField{table: pt, index: idx, pageItem: -1}
	pf.options.Compact, pf.options.Outline = true, true
	pf.options.DefaultSubtotal = true
	if pt != nil && pt.cache != nil {
		pf.options.DefaultSubtotal = pt.cache.defaultSubtotal
	}
	return pf
}

// Table returns the pivot table owning the view.
func (pf *PivotField) Table() *PivotTable { return pf.table }

// Index returns the cache field index of the view.
func (pf *PivotField) Index() int { return pf.index }

// CacheField returns the cache field the view presents.
func (pf *PivotField) CacheField() *CacheField {
	if pf.table == nil || pf.table.cache == nil {
		return nil
	}
	cf, _ := pf.table.cache.FieldAt(pf.index)
	return cf
}

// Name returns the name of the cache field the view presents.
func (pf *PivotField) Name() string {
	if cf := pf.CacheField(); cf != nil {
		return cf.name
	}
	return ""
}

// Axis returns the axis of the view.
func (pf *PivotField) Axis() Axis { return pf.axis }

// IsDataField reports whether the field is also used as a value field.
func (pf *PivotField) IsDataField() bool { return pf.dataField }

// Items returns a copy of the view's items.
func (pf *PivotField) Items() []PivotItem {
	return append([]PivotItem(nil), pf.items...)
}

// ItemValue returns the active cache value of the item at position i.
func (pf *PivotField) ItemValue(i int) (Value, bool) {
	if i < 0 || i >= len(pf.items) || pf.items[i].Kind != ItemData {
		return Value{}, false
	}
	if cf := pf.CacheField(); cf != nil {
		return cf.item(pf.items[i].CacheIndex)
	}
	return Value{}, false
}

// Options returns the presentation options of the view.
func (pf *PivotField) Options() PivotFieldOptions { return pf.options }

// SetOptions replaces the presentation options of the view. Toggling the
// default subtotal adds or removes the trailing default marker.
func (pf *PivotField) SetOptions(opts PivotFieldOptions) {
	pf.options = opts
	if pf.items != nil {
		pf.Refresh()
	}
}

// PageItem returns the item position selected on a page field, false when
// all items are shown.
func (pf *PivotField) PageItem() (int, bool) {
	return pf.pageItem, pf.pageItem >= 0
}

// SelectPageItem filters a page field to the item holding v.
func (pf *PivotField) SelectPageItem(v Value) error {
	if pf.axis != AxisPage {
		return newFieldNotOnAxisError(pf.table.name, pf.Name())
	}
	for i, it := range pf.items {
		if it.Kind != ItemData {
			continue
		}
		if iv, ok := pf.ItemValue(i); ok && iv.key() == v.key() {
			pf.pageItem = i
			return nil
		}
	}
	return fmt.Errorf("%w: item %q of field %q", ErrParameterInvalid, v.String(), pf.Name())
}

// SelectAllPageItems clears the page field filter.
func (pf *PivotField) SelectAllPageItems() { pf.pageItem = -1 }

// SetItemHidden hides or shows the item holding v.
func (pf *PivotField) SetItemHidden(v Value, hidden bool) error {
	for i, it := range pf.items {
		if it.Kind != ItemData {
			continue
		}
		if iv, ok := pf.ItemValue(i); ok && iv.key() == v.key() {
			pf.items[i].Hidden = hidden
			return nil
		}
	}
	return fmt.Errorf("%w: item %q of field %q", ErrParameterInvalid, v.String(), pf.Name())
}

// AutoSort returns the automatic sort of the view.
func (pf *PivotField) AutoSort() (AutoSort, bool) {
	if pf.autoSort == nil {
		return AutoSort{BaseField: -1}, false
	}
	return *pf.autoSort, true
}

// SetAutoSort sorts the view's items by label, or by the values of the named
// data field when dataField isn't empty.
func (pf *PivotField) SetAutoSort(ascending bool, dataField string) error {
	s := &AutoSort{Ascending: ascending, BaseField: -1}
	if dataField != "" {
		df, err := pf.table.DataField(dataField)
		if err != nil {
			return err
		}
		s.BaseField = df.field
	}
	pf.autoSort = s
	return nil
}

// ClearAutoSort removes the automatic sort of the view.
func (pf *PivotField) ClearAutoSort() { pf.autoSort = nil }

// Refresh re-synchronizes the view's items with the active items of its
// cache field: stale items are dropped, new items are appended and the
// remaining items are re-indexed by value.
func (pf *PivotField) Refresh() {
	cf := pf.CacheField()
	if cf == nil {
		return
	}
	pf.captureItemValues()
	if pf.items == nil && pf.onItemAxis() {
		pf.resetItems()
		return
	}
	pf.reconcile(cf.active())
}

// onItemAxis reports whether the view's axis carries items.
func (pf *PivotField) onItemAxis() bool {
	return pf.axis == AxisRow || pf.axis == AxisColumn || pf.axis == AxisPage
}

// resetItems rebuilds the items from the active cache items, dropping hidden
// state and the page selection.
func (pf *PivotField) resetItems() {
	pf.pageItem, pf.pageValue = -1, nil
	if !pf.onItemAxis() {
		pf.items = nil
		return
	}
	cf := pf.CacheField()
	if cf == nil {
		pf.items = nil
		return
	}
	n := cf.ItemCount()
	items := make([]PivotItem, 0, n+1)
	for i := 0; i < n; i++ {
		items = append(items, PivotItem{CacheIndex: i, Kind: ItemData})
	}
	if pf.options.DefaultSubtotal {
		items = append(items, PivotItem{CacheIndex: -1, Kind: ItemDefault})
	}
	pf.items = items
}

// captureItemValues records the cache value of every data item and of the
// page selection, so items can be re-resolved by value after the cache
// items change.
func (pf *PivotField) captureItemValues() {
	cf := pf.CacheField()
	pf.pageValue = nil
	for i := range pf.items {
		it := &pf.items[i]
		if it.Kind != ItemData || cf == nil {
			it.resolved = false
			continue
		}
		it.value, it.resolved = cf.item(it.CacheIndex)
		if i == pf.pageItem && it.resolved {
			v := it.value
			pf.pageValue = &v
		}
	}
}

// reindex re-points data items at the positions of their captured values in
// s without adding or removing items.
func (pf *PivotField) reindex(s *itemSet) {
	for i := range pf.items {
		it := &pf.items[i]
		if it.Kind == ItemData && it.resolved {
			if idx := s.indexOf(it.value); idx != -1 {
				it.CacheIndex = idx
			}
		}
	}
}

// PivotArea selects a region of a pivot table for a format. Field is the
// cache field index the area is anchored on, or -1.
type PivotArea struct {
	Field      int
	DataOnly   bool
	LabelOnly  bool
	References []PivotAreaReference
}

// PivotAreaReference restricts a pivot area to items of a field. Items are
// positions in the field view's items.
type PivotAreaReference struct {
	Field int
	Items []int
}

// PivotFormat applies a differential format to a pivot area.
type PivotFormat struct {
	DxfID int
	Area  PivotArea
}

// PivotConditionalFormat applies a conditional format rule to pivot areas.
type PivotConditionalFormat struct {
	Priority int
	Areas    []PivotArea
}

// PivotTable directly maps the layout of a pivot table over a pivot cache:
// one field view per cache field, the axis field lists and the value fields.
type PivotTable struct {
	cache              *PivotCache
	name               string
	uid                string
	fields             []*PivotField
	rowFields          []int
	colFields          []int
	pageFields         []int
	dataFields         []*DataField
	formats            []*PivotFormat
	conditionalFormats []*PivotConditionalFormat
}

// Name returns the pivot table name.
func (pt *PivotTable) Name() string { return pt.name }

// UID returns the unique identifier of the pivot table.
func (pt *PivotTable) UID() string { return pt.uid }

// Cache returns the pivot cache the table depends on, nil once removed.
func (pt *PivotTable) Cache() *PivotCache { return pt.cache }

// Fields returns the field views, aligned with the cache fields.
func (pt *PivotTable) Fields() []*PivotField {
	return append([]*PivotField(nil), pt.fields...)
}

// Field returns the view of the named cache field.
func (pt *PivotTable) Field(name string) (*PivotField, error) {
	if pt.cache == nil {
		return nil, ErrTableNotDependent
	}
	cf, err := pt.cache.Field(name)
	if err != nil {
		return nil, err
	}
	return pt.fields[cf.Index()], nil
}

// viewsAt returns the views at the given cache field indices.
func (pt *PivotTable) viewsAt(indices []int) []*PivotField {
	views := make([]*PivotField, 0, len(indices))
	for _, i := range indices {
		views = append(views, pt.fields[i])
	}
	return views
}

// RowFields returns the views on the row axis in order.
func (pt *PivotTable) RowFields() []*PivotField { return pt.viewsAt(pt.rowFields) }

// ColumnFields returns the views on the column axis in order.
func (pt *PivotTable) ColumnFields() []*PivotField { return pt.viewsAt(pt.colFields) }

// PageFields returns the views on the page axis in order.
func (pt *PivotTable) PageFields() []*PivotField { return pt.viewsAt(pt.pageFields) }

// DataFields returns the value fields in order.
func (pt *PivotTable) DataFields() []*DataField {
	return append([]*DataField(nil), pt.dataFields...)
}

// DataField returns the value field with the given name, or the first value
// field over the named cache field.
func (pt *PivotTable) DataField(name string) (*DataField, error) {
	for _, df := range pt.dataFields {
		if equalFold(df.name, name) {
			return df, nil
		}
	}
	if pt.cache != nil {
		if idx := pt.cache.fieldIndex(name); idx != -1 {
			for _, df := range pt.dataFields {
				if df.field == idx {
					return df, nil
				}
			}
		}
	}
	return nil, newFieldNotFoundError(name)
}

// Formats returns the pivot formats of the table.
func (pt *PivotTable) Formats() []*PivotFormat { return pt.formats }

// ConditionalFormats returns the conditional formats of the table.
func (pt *PivotTable) ConditionalFormats() []*PivotConditionalFormat {
	return pt.conditionalFormats
}

// axisList returns the field list of an axis.
func (pt *PivotTable) axisList(axis Axis) *[]int {
	switch axis {
	case AxisRow:
		return &pt.rowFields
	case AxisColumn:
		return &pt.colFields
	case AxisPage:
		return &pt.pageFields
	}
	return nil
}

// moveToAxis places the named field on an axis, removing it from its
// current axis first.
func (pt *PivotTable) moveToAxis(name string, axis Axis) error {
	pf, err := pt.Field(name)
	if err != nil {
		return err
	}
	if pf.axis == axis {
		return nil
	}
	if list := pt.axisList(pf.axis); list != nil {
		if i := indexOfInt(*list, pf.index); i != -1 {
			*list = append((*list)[:i], (*list)[i+1:]...)
		}
	}
	pf.axis = axis
	if list := pt.axisList(axis); list != nil {
		*list = append(*list, pf.index)
	}
	if pf.onItemAxis() {
		if pf.items == nil {
			pf.resetItems()
		}
	} else {
		pf.items, pf.pageItem = nil, -1
	}
	if pf.axis == AxisNone && pf.dataField {
		pf.axis = AxisValues
	}
	return nil
}

// AddRowField places the named field on the row axis.
func (pt *PivotTable) AddRowField(name string) error { return pt.moveToAxis(name, AxisRow) }

// AddColumnField places the named field on the column axis.
func (pt *PivotTable) AddColumnField(name string) error { return pt.moveToAxis(name, AxisColumn) }

// AddPageField places the named field on the page axis.
func (pt *PivotTable) AddPageField(name string) error { return pt.moveToAxis(name, AxisPage) }

// RemoveField takes the named field off its axis.
func (pt *PivotTable) RemoveField(name string) error { return pt.moveToAxis(name, AxisNone) }

// AddDataField adds a value field summarizing the named cache field with
// the given function. The field keeps its axis; a field on no axis is
// placed on the values axis.
func (pt *PivotTable) AddDataField(name string, fn DataConsolidateFunction) (*DataField, error) {
	pf, err := pt.Field(name)
	if err != nil {
		return nil, err
	}
	if fn == FunctionNone {
		fn = FunctionSum
	}
	cf := pf.CacheField()
	df := &DataField{
		table: pt, field: pf.index, function: fn, baseField: -1,
		name: uniqueName(fn.caption()+" of "+cf.name, func(s string) bool {
			for _, d := range pt.dataFields {
				if equalFold(d.name, s) {
					return true
				}
			}
			return false
		}),
	}
	pt.dataFields = append(pt.dataFields, df)
	pf.dataField = true
	if pf.axis == AxisNone {
		pf.axis = AxisValues
	}
	return df, nil
}

// RemoveDataField removes a value field.
func (pt *PivotTable) RemoveDataField(df *DataField) error {
	for i, d := range pt.dataFields {
		if d != df {
			continue
		}
		pt.dataFields = append(pt.dataFields[:i], pt.dataFields[i+1:]...)
		df.table = nil
		pt.updateDataFlags()
		return nil
	}
	return newFieldNotFoundError(df.name)
}

// updateDataFlags recomputes which views are used as value fields.
func (pt *PivotTable) updateDataFlags() {
	used := make(map[int]bool, len(pt.dataFields))
	for _, df := range pt.dataFields {
		used[df.field] = true
	}
	for _, pf := range pt.fields {
		pf.dataField = used[pf.index]
		if !pf.dataField && pf.axis == AxisValues {
			pf.axis = AxisNone
		}
	}
}

// GroupNumeric groups the named field into numeric buckets, see
// PivotCache.AddNumericGroupField.
func (pt *PivotTable) GroupNumeric(name string, start, end, interval float64) error {
	if pt.cache == nil {
		return ErrTableNotDependent
	}
	return pt.cache.AddNumericGroupField(pt, name, start, end, interval)
}

// GroupDates groups the named date field, see PivotCache.AddDateGroupField.
func (pt *PivotTable) GroupDates(name string, opts DateGroupOptions) error {
	if pt.cache == nil {
		return ErrTableNotDependent
	}
	return pt.cache.AddDateGroupField(pt, name, opts)
}

// AddFormat applies a differential format to a pivot area.
func (pt *PivotTable) AddFormat(dxfID int, area PivotArea) (*PivotFormat, error) {
	if err := pt.checkAreas([]PivotArea{area}); err != nil {
		return nil, err
	}
	f := &PivotFormat{DxfID: dxfID, Area: area}
	pt.formats = append(pt.formats, f)
	return f, nil
}

// AddConditionalFormat applies a conditional format rule to pivot areas.
func (pt *PivotTable) AddConditionalFormat(priority int, areas ...PivotArea) (*PivotConditionalFormat, error) {
	if err := pt.checkAreas(areas); err != nil {
		return nil, err
	}
	f := &PivotConditionalFormat{Priority: priority, Areas: areas}
	pt.conditionalFormats = append(pt.conditionalFormats, f)
	return f, nil
}

// checkAreas verifies the field indices of pivot areas.
func (pt *PivotTable) checkAreas(areas []PivotArea) error {
	valid := func(i int) bool { return i >= -1 && i < len(pt.fields) }
	for _, a := range areas {
		if !valid(a.Field) {
			return fmt.Errorf("%w: pivot area field %d", ErrParameterInvalid, a.Field)
		}
		for _, r := range a.References {
			if r.Field < 0 || !valid(r.Field) {
				return fmt.Errorf("%w: pivot area reference field %d", ErrParameterInvalid, r.Field)
			}
		}
	}
	return nil
}

// renumber re-aligns every view's index with its position.
func (pt *PivotTable) renumber() {
	for i, pf := range pt.fields {
		pf.index = i
	}
}

// addChainedField adds the view of a derived date field on the base field's
// axis, with the base field's options. The view is placed immediately ahead
// of the outer field, the coarsest field of the chain so far.
func (pt *PivotTable) addChainedField(base, outer, idx int) {
	pf := newPivotField(pt, idx)
	src := pt.fields[base]
	var opts PivotFieldOptions
	if err := deepcopy.Copy(&opts, src.options); err == nil {
		opts.Name = ""
		pf.options = opts
	}
	pf.axis = src.axis
	pt.fields = append(pt.fields, pf)
	if list := pt.axisList(src.axis); list != nil {
		if pos := indexOfInt(*list, outer); pos != -1 {
			*list = insertInt(*list, pos, idx)
		} else {
			*list = append(*list, idx)
		}
	}
	pf.resetItems()
}

// remapFields re-points every cache field index held by the table with m. An
// index mapped to -1 removes the axis entry, value field, sort or pivot area
// holding it. It returns the number of removed axis entries and value
// fields.
func (pt *PivotTable) remapFields(m func(int) int) int {
	dropped := 0
	remapList := func(list []int) []int {
		out := list[:0]
		for _, i := range list {
			if j := m(i); j >= 0 {
				out = append(out, j)
				continue
			}
			dropped++
		}
		return out
	}
	pt.rowFields = remapList(pt.rowFields)
	pt.colFields = remapList(pt.colFields)
	pt.pageFields = remapList(pt.pageFields)

	dataFields := pt.dataFields[:0]
	for _, df := range pt.dataFields {
		if df.field = m(df.field); df.field < 0 {
			df.table = nil
			dropped++
			continue
		}
		if df.baseField >= 0 {
			if df.baseField = m(df.baseField); df.baseField < 0 {
				df.showDataAs, df.baseItem = ShowDataAsNormal, 0
			}
		}
		dataFields = append(dataFields, df)
	}
	pt.dataFields = dataFields

	for _, pf := range pt.fields {
		if pf.autoSort != nil && pf.autoSort.BaseField >= 0 {
			if pf.autoSort.BaseField = m(pf.autoSort.BaseField); pf.autoSort.BaseField < 0 {
				pf.autoSort = nil
			}
		}
	}

	formats := pt.formats[:0]
	for _, f := range pt.formats {
		if areas := remapAreas([]PivotArea{f.Area}, m); len(areas) == 1 {
			f.Area = areas[0]
			formats = append(formats, f)
		}
	}
	pt.formats = formats
	condFormats := pt.conditionalFormats[:0]
	for _, f := range pt.conditionalFormats {
		if f.Areas = remapAreas(f.Areas, m); len(f.Areas) > 0 {
			condFormats = append(condFormats, f)
		}
	}
	pt.conditionalFormats = condFormats
	pt.updateDataFlags()
	return dropped
}

// remapAreas re-points the field indices of pivot areas, dropping areas
// anchored on a removed field and references to removed fields.
func remapAreas(areas []PivotArea, m func(int) int) []PivotArea {
	out := areas[:0]
	for _, a := range areas {
		if a.Field >= 0 {
			if a.Field = m(a.Field); a.Field < 0 {
				continue
			}
		}
		refs := a.References[:0]
		for _, r := range a.References {
			if r.Field = m(r.Field); r.Field >= 0 {
				refs = append(refs, r)
			}
		}
		a.References = refs
		out = append(out, a)
	}
	return out
}
