// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// xmlDateTimeLayout is the layout of date-time attributes.
const xmlDateTimeLayout = "2006-01-02T15:04:05"

// This section defines the application versions written to pivot parts.
const (
	pivotTableVersion        = 6
	minRefreshableVersion    = 3
	pivotTableDataCaption    = "Values"
	pivotCacheSourceTypeWksh = "worksheet"
)

// xmlNewDecoder returns a decoder for a pivot part, honoring the encoding
// declared by the part.
func xmlNewDecoder(rdr io.Reader) *xml.Decoder {
	d := xml.NewDecoder(rdr)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// marshalPart encodes a pivot part with the XML declaration.
func marshalPart(v interface{}) ([]byte, error) {
	output, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), output...), nil
}

// cacheItem encodes a value as a typed cache item element.
func cacheItem(v Value) xlsxCacheItem {
	item := xlsxCacheItem{XMLName: xml.Name{Local: v.Type.String()}}
	switch v.Type {
	case ValueString, ValueError:
		item.V = v.Str
	case ValueInteger, ValueFloat:
		item.V = strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueDateTime:
		item.V = v.Time.Format(xmlDateTimeLayout)
	case ValueBoolean:
		item.V = "0"
		if v.Bool {
			item.V = "1"
		}
	}
	return item
}

// cacheItemValue decodes a typed cache item element.
func cacheItemValue(item xlsxCacheItem) (Value, error) {
	switch item.XMLName.Local {
	case "s":
		return StringValue(item.V), nil
	case "n":
		n, err := strconv.ParseFloat(item.V, 64)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(n), nil
	case "d":
		t, err := time.Parse(xmlDateTimeLayout, item.V)
		if err != nil {
			return Value{}, err
		}
		return DateTimeValue(t), nil
	case "b":
		return BoolValue(item.V == "1" || strings.EqualFold(item.V, "true")), nil
	case "e":
		return ErrorValue(item.V), nil
	case "m":
		return EmptyValue(), nil
	}
	return Value{}, fmt.Errorf("%w: cache item element %q", ErrParameterInvalid, item.XMLName.Local)
}

// cacheItemValues decodes a sequence of typed cache item elements.
func cacheItemValues(items []xlsxCacheItem) ([]Value, error) {
	values := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := cacheItemValue(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// sharedItemsDefinition builds the shared items element of a field. Mixed
// types are flagged as such; a sole string type carries no type
// attributes; any other type set clears the string flags and describes its
// numbers and dates. Only fields of a single type carry the long text flag.
func sharedItemsDefinition(cf *CacheField) *xlsxSharedItems {
	items := cf.shared.items
	si := &xlsxSharedItems{Count: len(items)}
	for _, v := range items {
		si.Items = append(si.Items, cacheItem(v))
	}
	flags := classify(items)
	if !flags.Mixed() {
		si.LongText = cf.hasLongText()
	}
	switch {
	case flags.Mixed():
		si.ContainsMixedTypes = true
		if !flags.Has(TypeString) {
			si.ContainsString = boolPtr(false)
		}
	case flags == TypeString, flags == 0:
		return si
	default:
		si.ContainsSemiMixedTypes, si.ContainsString = boolPtr(false), boolPtr(false)
	}
	si.ContainsBlank = flags.Has(TypeEmpty)
	si.ContainsNumber = flags.Has(TypeNumber)
	si.ContainsInteger = flags.Has(TypeInteger) && !flags.Has(TypeFloat)
	if min, max, ok := cf.numberBounds(); ok {
		si.MinValue, si.MaxValue = &min, &max
	}
	if min, max, ok := cf.dateBounds(); ok {
		si.ContainsDate = true
		si.MinDate, si.MaxDate = min.Time.Format(xmlDateTimeLayout), max.Time.Format(xmlDateTimeLayout)
		if flags&^TypeEmpty == TypeDateTime {
			si.ContainsNonDate = boolPtr(false)
		}
	}
	return si
}

// groupParents returns, for every grouped field, the index of the next
// coarser field grouping the same base field, or -1.
func (pc *PivotCache) groupParents() []int {
	parents := make([]int, len(pc.fields))
	chains := make(map[int][]int)
	for i, f := range pc.fields {
		parents[i] = -1
		if f.IsGrouped() && f.grouping.Kind == GroupingDate {
			chains[f.grouping.BaseIndex] = append(chains[f.grouping.BaseIndex], i)
		}
	}
	for _, chain := range chains {
		sort.SliceStable(chain, func(a, b int) bool {
			return pc.fields[chain[a]].grouping.GroupBy < pc.fields[chain[b]].grouping.GroupBy
		})
		for i := 0; i+1 < len(chain); i++ {
			parents[chain[i]] = chain[i+1]
		}
	}
	return parents
}

// fieldGroupDefinition builds the field group element of a grouped field.
func fieldGroupDefinition(cf *CacheField, par int) *xlsxFieldGroup {
	g := cf.grouping
	fg := &xlsxFieldGroup{Base: intPtr(g.BaseIndex), RangePr: &xlsxRangePr{
		AutoStart: boolPtr(g.AutoStart), AutoEnd: boolPtr(g.AutoEnd),
	}}
	if par >= 0 {
		fg.Par = intPtr(par)
	}
	switch g.Kind {
	case GroupingNumeric:
		start, end, interval := g.Start, g.End, g.Interval
		fg.RangePr.StartNum, fg.RangePr.EndNum, fg.RangePr.GroupInterval = &start, &end, &interval
	case GroupingDate:
		fg.RangePr.GroupBy = dateGroupNames[g.GroupBy]
		fg.RangePr.StartDate = g.StartDate.Format(xmlDateTimeLayout)
		fg.RangePr.EndDate = g.EndDate.Format(xmlDateTimeLayout)
		if g.Interval > 1 {
			interval := g.Interval
			fg.RangePr.GroupInterval = &interval
		}
	}
	fg.GroupItems = &xlsxGroupItems{Count: cf.groupItems.len()}
	for _, v := range cf.groupItems.items {
		fg.GroupItems.Items = append(fg.GroupItems.Items, cacheItem(v))
	}
	return fg
}

// MarshalDefinition encodes the cache as a pivotCacheDefinition part.
func (pc *PivotCache) MarshalDefinition() ([]byte, error) {
	def := xlsxPivotCacheDefinition{
		RefreshOnLoad:         true,
		CreatedVersion:        pivotTableVersion,
		RefreshedVersion:      pivotTableVersion,
		MinRefreshableVersion: minRefreshableVersion,
		RecordCount:           len(pc.records),
		UID:                   pc.uid,
		CacheSource:           &xlsxCacheSource{Type: pivotCacheSourceTypeWksh, WorksheetSource: &xlsxWorksheetSource{}},
		CacheFields:           &xlsxCacheFields{Count: len(pc.fields)},
	}
	if !pc.refreshedAt.IsZero() {
		def.RefreshedDate = DateTimeValue(pc.refreshedAt.UTC()).serial()
	}
	switch pc.source.Kind {
	case SourceWorksheet:
		def.CacheSource.WorksheetSource.Sheet = pc.source.Sheet
		def.CacheSource.WorksheetSource.Ref = pc.source.Ref
	default:
		def.CacheSource.WorksheetSource.Name = pc.source.Name
	}
	parents := pc.groupParents()
	for i, cf := range pc.fields {
		field := &xlsxCacheField{Name: cf.name, NumFmtID: cf.numFmtID, Formula: cf.formula}
		if !cf.database {
			field.DatabaseField = boolPtr(false)
		}
		if cf.formula == "" {
			field.SharedItems = sharedItemsDefinition(cf)
		}
		if cf.IsGrouped() {
			field.FieldGroup = fieldGroupDefinition(cf, parents[i])
		}
		def.CacheFields.CacheField = append(def.CacheFields.CacheField, field)
	}
	return marshalPart(def)
}

// MarshalRecords encodes the source rows as a pivotCacheRecords part. Values
// found in a field's shared items are written as shared item indices.
func (pc *PivotCache) MarshalRecords() ([]byte, error) {
	records := xlsxPivotCacheRecords{Count: len(pc.records)}
	db := pc.databaseFields()
	for _, rec := range pc.records {
		var r xlsxPivotCacheRecord
		for c, v := range rec {
			if c < len(db) {
				if idx := db[c].shared.indexOf(v); idx != -1 {
					r.Items = append(r.Items, xlsxCacheItem{XMLName: xml.Name{Local: "x"}, V: strconv.Itoa(idx)})
					continue
				}
			}
			r.Items = append(r.Items, cacheItem(v))
		}
		records.R = append(records.R, r)
	}
	return marshalPart(records)
}

// LoadPivotCache decodes a pivotCacheDefinition part. The cache is bound to
// the reader for later refreshes; records are loaded by LoadRecords.
func LoadPivotCache(definition []byte, reader RangeReader, opts ...Options) (*PivotCache, error) {
	var def xlsxPivotCacheDefinition
	if err := xmlNewDecoder(bytes.NewReader(definition)).Decode(&def); err != nil {
		return nil, err
	}
	var src Source
	if ws := def.CacheSource; ws != nil && ws.WorksheetSource != nil {
		switch {
		case ws.WorksheetSource.Name != "":
			src = NamedRangeSource(ws.WorksheetSource.Name)
		default:
			src = WorksheetSource(ws.WorksheetSource.Sheet, ws.WorksheetSource.Ref)
		}
	}
	pc := newPivotCache(reader, src, opts...)
	if def.UID != "" {
		pc.uid = def.UID
	}
	if def.RefreshedDate > 0 {
		pc.refreshedAt = excelEpoch.Add(time.Duration(def.RefreshedDate * 24 * float64(time.Hour))).Round(time.Second)
	}
	if def.CacheFields == nil {
		return pc, nil
	}
	for _, field := range def.CacheFields.CacheField {
		cf, err := pc.loadCacheField(field)
		if err != nil {
			return nil, err
		}
		pc.fields = append(pc.fields, cf)
	}
	return pc, nil
}

// loadCacheField decodes a cache field element.
func (pc *PivotCache) loadCacheField(field *xlsxCacheField) (*CacheField, error) {
	cf := &CacheField{
		cache: pc, name: field.Name, numFmtID: field.NumFmtID, formula: field.Formula,
		database: field.DatabaseField == nil || *field.DatabaseField, shared: ingest(nil),
	}
	if field.SharedItems != nil {
		values, err := cacheItemValues(field.SharedItems.Items)
		if err != nil {
			return nil, err
		}
		cf.shared = ingest(values)
	}
	fg := field.FieldGroup
	if fg == nil || fg.RangePr == nil {
		return cf, nil
	}
	g := Grouping{BaseIndex: -1, Interval: 1}
	if fg.Base != nil {
		g.BaseIndex = *fg.Base
	}
	rp := fg.RangePr
	g.AutoStart = rp.AutoStart == nil || *rp.AutoStart
	g.AutoEnd = rp.AutoEnd == nil || *rp.AutoEnd
	if rp.GroupInterval != nil {
		g.Interval = *rp.GroupInterval
	}
	if rp.GroupBy == "" || rp.GroupBy == "range" {
		g.Kind = GroupingNumeric
		if rp.StartNum != nil {
			g.Start = *rp.StartNum
		}
		if rp.EndNum != nil {
			g.End = *rp.EndNum
		}
	} else {
		groupBy, err := ParseDateGroupBy(rp.GroupBy)
		if err != nil {
			return nil, err
		}
		g.Kind, g.GroupBy = GroupingDate, groupBy
		if g.StartDate, err = time.Parse(xmlDateTimeLayout, rp.StartDate); err != nil {
			return nil, err
		}
		if g.EndDate, err = time.Parse(xmlDateTimeLayout, rp.EndDate); err != nil {
			return nil, err
		}
	}
	cf.grouping = &g
	if fg.GroupItems != nil {
		values, err := cacheItemValues(fg.GroupItems.Items)
		if err != nil {
			return nil, err
		}
		cf.groupItems = newItemSet(values)
	}
	return cf, nil
}

// LoadRecords decodes a pivotCacheRecords part of the cache.
func (pc *PivotCache) LoadRecords(data []byte) error {
	var records xlsxPivotCacheRecords
	if err := xmlNewDecoder(bytes.NewReader(data)).Decode(&records); err != nil {
		return err
	}
	db := pc.databaseFields()
	out := make([][]Value, 0, len(records.R))
	for _, r := range records.R {
		rec := make([]Value, 0, len(r.Items))
		for c, item := range r.Items {
			if item.XMLName.Local == "x" {
				idx, err := strconv.Atoi(item.V)
				if err != nil {
					return err
				}
				if c >= len(db) {
					return fmt.Errorf("%w: record item %d has no field", ErrParameterInvalid, c)
				}
				v, ok := db[c].shared.at(idx)
				if !ok {
					return fmt.Errorf("%w: shared item %d of field %q", ErrParameterInvalid, idx, db[c].name)
				}
				rec = append(rec, v)
				continue
			}
			v, err := cacheItemValue(item)
			if err != nil {
				return err
			}
			rec = append(rec, v)
		}
		out = append(out, rec)
	}
	pc.records = out
	return nil
}

// subtotalItemTypes lists the item types of subtotal markers.
var subtotalItemTypes = map[string]bool{
	"sum": true, "countA": true, "avg": true, "max": true, "min": true, "product": true,
	"count": true, "stdDev": true, "stdDevP": true, "var": true, "varP": true,
}

// pivotAreaDefinition encodes a pivot area.
func pivotAreaDefinition(a PivotArea) *xlsxPivotArea {
	area := &xlsxPivotArea{LabelOnly: a.LabelOnly}
	if a.Field >= 0 {
		area.Field = intPtr(a.Field)
	}
	if !a.DataOnly {
		area.DataOnly = boolPtr(false)
	}
	if len(a.References) == 0 {
		return area
	}
	area.References = &xlsxReferences{Count: len(a.References)}
	for _, r := range a.References {
		field := uint32(r.Field)
		ref := &xlsxReference{Field: &field, Count: len(r.Items)}
		for _, x := range r.Items {
			ref.X = append(ref.X, &xlsxX{V: x})
		}
		area.References.Reference = append(area.References.Reference, ref)
	}
	return area
}

// pivotAreaValue decodes a pivot area.
func pivotAreaValue(area *xlsxPivotArea) PivotArea {
	a := PivotArea{Field: -1, LabelOnly: area.LabelOnly, DataOnly: area.DataOnly == nil || *area.DataOnly}
	if area.Field != nil {
		a.Field = *area.Field
	}
	if a.LabelOnly {
		a.DataOnly = false
	}
	if area.References == nil {
		return a
	}
	for _, ref := range area.References.Reference {
		if ref.Field == nil || *ref.Field == dataFieldReference {
			continue
		}
		r := PivotAreaReference{Field: int(*ref.Field)}
		for _, x := range ref.X {
			r.Items = append(r.Items, x.V)
		}
		a.References = append(a.References, r)
	}
	return a
}

// axisFields encodes an axis field list.
func axisFields(list []int) []*xlsxField {
	fields := make([]*xlsxField, 0, len(list))
	for _, i := range list {
		fields = append(fields, &xlsxField{X: i})
	}
	return fields
}

// pivotFieldDefinition encodes a field view.
func (pt *PivotTable) pivotFieldDefinition(pf *PivotField) *xlsxPivotField {
	field := &xlsxPivotField{
		Name: pf.options.Name, Axis: pf.axis.String(), DataField: pf.dataField,
		ShowAll: pf.options.ShowAll, InsertBlankRow: pf.options.InsertBlankRow,
	}
	if pf.axis == AxisValues {
		field.Axis = ""
	}
	if !pf.options.Compact {
		field.Compact = boolPtr(false)
	}
	if !pf.options.Outline {
		field.Outline = boolPtr(false)
	}
	if !pf.options.DefaultSubtotal {
		field.DefaultSubtotal = boolPtr(false)
	}
	if pf.options.NumFmtID > 0 {
		field.NumFmtID = strconv.Itoa(pf.options.NumFmtID)
	}
	if pf.autoSort != nil {
		field.SortType = "descending"
		if pf.autoSort.Ascending {
			field.SortType = "ascending"
		}
		if pos := pt.dataFieldPosition(pf.autoSort.BaseField); pos != -1 {
			dataRef := uint32(dataFieldReference)
			field.AutoSortScope = &xlsxAutoSortScope{PivotArea: &xlsxPivotArea{
				DataOnly: boolPtr(false),
				References: &xlsxReferences{Count: 1, Reference: []*xlsxReference{
					{Field: &dataRef, Count: 1, X: []*xlsxX{{V: pos}}},
				}},
			}}
		}
	}
	if pf.items == nil {
		return field
	}
	field.Items = &xlsxItems{Count: len(pf.items)}
	for _, it := range pf.items {
		item := &xlsxItem{N: it.Label, H: it.Hidden}
		switch it.Kind {
		case ItemData:
			item.X = intPtr(it.CacheIndex)
		case ItemDefault:
			item.T = "default"
		case ItemSubtotal:
			item.T = "sum"
		}
		field.Items.Item = append(field.Items.Item, item)
	}
	return field
}

// dataFieldPosition returns the position of the first value field over
// cache field idx, or -1.
func (pt *PivotTable) dataFieldPosition(idx int) int {
	for i, df := range pt.dataFields {
		if df.field == idx {
			return i
		}
	}
	return -1
}

// MarshalDefinition encodes the pivot table as a pivotTableDefinition part.
func (pt *PivotTable) MarshalDefinition() ([]byte, error) {
	if pt.cache == nil {
		return nil, ErrTableNotDependent
	}
	def := xlsxPivotTableDefinition{
		Name: pt.name, CacheID: pt.cache.cacheID, DataCaption: pivotTableDataCaption, UID: pt.uid,
		PivotFields: &xlsxPivotFields{Count: len(pt.fields)},
	}
	for _, pf := range pt.fields {
		def.PivotFields.PivotField = append(def.PivotFields.PivotField, pt.pivotFieldDefinition(pf))
	}
	if len(pt.rowFields) > 0 {
		def.RowFields = &xlsxRowFields{Count: len(pt.rowFields), Field: axisFields(pt.rowFields)}
	}
	if len(pt.colFields) > 0 {
		def.ColFields = &xlsxColFields{Count: len(pt.colFields), Field: axisFields(pt.colFields)}
	}
	if len(pt.pageFields) > 0 {
		def.PageFields = &xlsxPageFields{Count: len(pt.pageFields)}
		for _, i := range pt.pageFields {
			page := &xlsxPageField{Fld: i, Hier: -1}
			if item, ok := pt.fields[i].PageItem(); ok {
				page.Item = intPtr(item)
			}
			def.PageFields.PageField = append(def.PageFields.PageField, page)
		}
	}
	if len(pt.dataFields) > 0 {
		def.DataFields = &xlsxDataFields{Count: len(pt.dataFields)}
		for _, df := range pt.dataFields {
			field := &xlsxDataField{Name: df.name, Fld: df.field, NumFmtID: df.numFmtID}
			if df.function != FunctionSum {
				field.Subtotal = df.function.String()
			}
			if df.showDataAs != ShowDataAsNormal {
				field.ShowDataAs = df.showDataAs.String()
			}
			if df.baseField >= 0 {
				field.BaseField, field.BaseItem = intPtr(df.baseField), intPtr(df.baseItem)
			}
			def.DataFields.DataField = append(def.DataFields.DataField, field)
		}
	}
	if len(pt.formats) > 0 {
		def.Formats = &xlsxFormats{Count: len(pt.formats)}
		for _, f := range pt.formats {
			def.Formats.Format = append(def.Formats.Format, &xlsxFormat{DxfID: f.DxfID, PivotArea: pivotAreaDefinition(f.Area)})
		}
	}
	if len(pt.conditionalFormats) > 0 {
		def.ConditionalFormats = &xlsxConditionalFormats{Count: len(pt.conditionalFormats)}
		for _, f := range pt.conditionalFormats {
			areas := &xlsxPivotAreas{Count: len(f.Areas)}
			for _, a := range f.Areas {
				areas.PivotArea = append(areas.PivotArea, pivotAreaDefinition(a))
			}
			def.ConditionalFormats.ConditionalFormat = append(def.ConditionalFormats.ConditionalFormat,
				&xlsxConditionalFormat{Priority: f.Priority, PivotAreas: areas})
		}
	}
	return marshalPart(def)
}

// LoadPivotTable decodes a pivotTableDefinition part into a pivot table
// depending on the cache. The part must hold one pivot field per cache
// field.
func (pc *PivotCache) LoadPivotTable(definition []byte) (*PivotTable, error) {
	var def xlsxPivotTableDefinition
	if err := xmlNewDecoder(bytes.NewReader(definition)).Decode(&def); err != nil {
		return nil, err
	}
	count := 0
	if def.PivotFields != nil {
		count = len(def.PivotFields.PivotField)
	}
	if count != len(pc.fields) {
		return nil, fmt.Errorf("%w: pivot table %q has %d fields, cache has %d",
			ErrParameterInvalid, def.Name, count, len(pc.fields))
	}
	pt := &PivotTable{cache: pc, name: def.Name, uid: def.UID}
	if pt.uid == "" {
		pt.uid = newUID()
	}
	var sorts []*xlsxPivotField
	for i, field := range def.PivotFields.PivotField {
		pf := newPivotField(pt, i)
		pf.loadDefinition(field)
		pt.fields = append(pt.fields, pf)
		sorts = append(sorts, field)
	}
	inRange := func(i int) bool { return i >= 0 && i < len(pt.fields) }
	if def.RowFields != nil {
		for _, f := range def.RowFields.Field {
			if inRange(f.X) {
				pt.rowFields = append(pt.rowFields, f.X)
			}
		}
	}
	if def.ColFields != nil {
		for _, f := range def.ColFields.Field {
			if inRange(f.X) {
				pt.colFields = append(pt.colFields, f.X)
			}
		}
	}
	if def.PageFields != nil {
		for _, f := range def.PageFields.PageField {
			if !inRange(f.Fld) {
				continue
			}
			pt.pageFields = append(pt.pageFields, f.Fld)
			if f.Item != nil && *f.Item >= 0 && *f.Item < len(pt.fields[f.Fld].items) {
				pt.fields[f.Fld].pageItem = *f.Item
			}
		}
	}
	if def.DataFields != nil {
		for _, f := range def.DataFields.DataField {
			if !inRange(f.Fld) {
				continue
			}
			df := &DataField{table: pt, field: f.Fld, name: f.Name, function: FunctionSum, baseField: -1, numFmtID: f.NumFmtID}
			if f.Subtotal != "" {
				fn, err := ParseDataConsolidateFunction(f.Subtotal)
				if err != nil {
					return nil, err
				}
				df.function = fn
			}
			if f.ShowDataAs != "" {
				mode, err := ParseShowDataAs(f.ShowDataAs)
				if err != nil {
					return nil, err
				}
				df.showDataAs = mode
			}
			if f.BaseField != nil && inRange(*f.BaseField) && df.showDataAs.requiresBaseField() {
				df.baseField = *f.BaseField
				if f.BaseItem != nil {
					df.baseItem = *f.BaseItem
				}
			}
			pt.dataFields = append(pt.dataFields, df)
		}
	}
	for i, field := range sorts {
		if field.SortType == "" || field.SortType == "manual" {
			continue
		}
		s := &AutoSort{Ascending: field.SortType == "ascending", BaseField: -1}
		if scope := field.AutoSortScope; scope != nil && scope.PivotArea != nil && scope.PivotArea.References != nil {
			for _, ref := range scope.PivotArea.References.Reference {
				if ref.Field != nil && *ref.Field == dataFieldReference && len(ref.X) > 0 && ref.X[0].V < len(pt.dataFields) {
					s.BaseField = pt.dataFields[ref.X[0].V].field
				}
			}
		}
		pt.fields[i].autoSort = s
	}
	if def.Formats != nil {
		for _, f := range def.Formats.Format {
			if f.PivotArea != nil {
				pt.formats = append(pt.formats, &PivotFormat{DxfID: f.DxfID, Area: pivotAreaValue(f.PivotArea)})
			}
		}
	}
	if def.ConditionalFormats != nil {
		for _, f := range def.ConditionalFormats.ConditionalFormat {
			cf := &PivotConditionalFormat{Priority: f.Priority}
			if f.PivotAreas != nil {
				for _, a := range f.PivotAreas.PivotArea {
					cf.Areas = append(cf.Areas, pivotAreaValue(a))
				}
			}
			pt.conditionalFormats = append(pt.conditionalFormats, cf)
		}
	}
	pc.tables = append(pc.tables, pt)
	pc.released = false
	return pt, nil
}

// loadDefinition applies a decoded pivot field element to the view.
func (pf *PivotField) loadDefinition(field *xlsxPivotField) {
	pf.options.Name = field.Name
	pf.options.ShowAll = field.ShowAll
	pf.options.InsertBlankRow = field.InsertBlankRow
	pf.options.Compact = field.Compact == nil || *field.Compact
	pf.options.Outline = field.Outline == nil || *field.Outline
	pf.options.DefaultSubtotal = field.DefaultSubtotal == nil || *field.DefaultSubtotal
	if id, err := strconv.Atoi(field.NumFmtID); err == nil {
		pf.options.NumFmtID = id
	}
	pf.dataField = field.DataField
	switch field.Axis {
	case "axisRow":
		pf.axis = AxisRow
	case "axisCol":
		pf.axis = AxisColumn
	case "axisPage":
		pf.axis = AxisPage
	case "axisValues":
		pf.axis = AxisValues
	}
	if pf.axis == AxisNone && pf.dataField {
		pf.axis = AxisValues
	}
	if field.Items == nil {
		return
	}
	pf.items = make([]PivotItem, 0, len(field.Items.Item))
	for _, item := range field.Items.Item {
		it := PivotItem{CacheIndex: -1, Hidden: item.H, Label: item.N}
		switch {
		case item.T == "default":
			it.Kind = ItemDefault
		case subtotalItemTypes[item.T]:
			it.Kind = ItemSubtotal
		default:
			it.Kind = ItemData
			if item.X != nil {
				it.CacheIndex = *item.X
			}
		}
		pf.items = append(pf.items, it)
	}
}
