// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// recordingHooks collects cache events.
type recordingHooks struct {
	refreshes []bool
	dropped   map[string]int
	groupings []string
}

func (h *recordingHooks) CacheRefreshed(_ string, _, _ int, schemaChanged bool) {
	h.refreshes = append(h.refreshes, schemaChanged)
}

func (h *recordingHooks) FieldViewsDropped(table string, dropped int) {
	if h.dropped == nil {
		h.dropped = make(map[string]int)
	}
	h.dropped[table] += dropped
}

func (h *recordingHooks) GroupingApplied(field, kind string) {
	h.groupings = append(h.groupings, field+":"+kind)
}

// writeRows writes rows to Sheet1 from A1 and returns the covered range.
func writeRows(t *testing.T, f *excelize.File, rows [][]interface{}) string {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), len(rows))
	require.NoError(t, err)
	return "A1:" + last
}

// prepareCache builds a cache over rows written to a new workbook.
func prepareCache(t *testing.T, rows [][]interface{}, opts ...Options) (*excelize.File, *PivotCache) {
	f := excelize.NewFile()
	t.Cleanup(func() { assert.NoError(t, f.Close()) })
	ref := writeRows(t, f, rows)
	pc, err := NewPivotCache(NewExcelizeReader(f, opts...), WorksheetSource("Sheet1", ref), opts...)
	require.NoError(t, err)
	return f, pc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func itemStrings(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func TestNewPivotCache(t *testing.T) {
	hooks := &recordingHooks{}
	f := excelize.NewFile()
	defer func() { assert.NoError(t, f.Close()) }()
	writeRows(t, f, [][]interface{}{
		{"Region", "Amount", "Date"},
		{"East", 10, date(2011, 1, 1)},
		{"West", 2.5, date(2011, 6, 30)},
		{"east", 10, date(2012, 12, 31)},
	})
	pc, err := NewPivotCache(NewExcelizeReader(f), WorksheetSource("Sheet1", "A1:C100"), Options{Hooks: hooks})
	require.NoError(t, err)

	assert.Equal(t, "A1:C4", pc.Range().Ref())
	assert.Equal(t, []string{"Region", "Amount", "Date"}, pc.FieldNames())
	assert.Equal(t, []bool{false}, hooks.refreshes)
	assert.False(t, pc.RefreshedAt().IsZero())
	assert.Len(t, pc.ID(), 38)

	region, err := pc.Field("REGION")
	require.NoError(t, err)
	assert.Equal(t, []string{"West", "east"}, itemStrings(region.SharedItems()))
	assert.Equal(t, TypeString, region.TypeFlags())
	idx, ok := region.Lookup(StringValue("EAST"))
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	amount, err := pc.Field("Amount")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5", "10"}, itemStrings(amount.Items()))
	assert.True(t, amount.TypeFlags().Has(TypeInteger|TypeFloat|TypeNumber))
	assert.False(t, amount.ContainsMixedTypes())
	assert.Equal(t, 0, amount.NumFmtID())

	dates, err := pc.Field("Date")
	require.NoError(t, err)
	assert.Equal(t, TypeDateTime, dates.TypeFlags())
	assert.Equal(t, 14, dates.NumFmtID())
	assert.Equal(t, []string{"2011-01-01T00:00:00", "2011-06-30T00:00:00", "2012-12-31T00:00:00"}, itemStrings(dates.Items()))

	records := pc.Records()
	assert.Len(t, records, 3)
	assert.Equal(t, StringValue("East"), records[0][0])
	assert.Equal(t, NumberValue(2.5), records[1][1])

	_, err = pc.Field("Price")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	_, ok = pc.FieldAt(3)
	assert.False(t, ok)
}

func TestNewPivotCacheErrors(t *testing.T) {
	f := excelize.NewFile()
	defer func() { assert.NoError(t, f.Close()) }()
	writeRows(t, f, [][]interface{}{
		{"Region", nil, "Amount"},
		{"East", 1, 10},
	})
	reader := NewExcelizeReader(f)

	_, err := NewPivotCache(reader, WorksheetSource("Sheet1", "A1:C2"))
	assert.ErrorIs(t, err, ErrMissingColumnHeader)
	assert.EqualError(t, err, "source column header is blank: Sheet1!B1")

	_, err = NewPivotCache(reader, WorksheetSource("Sheet1", "A1:A1"))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewPivotCache(reader, WorksheetSource("Sheet1", "A1"))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewPivotCache(reader, TableSource("Sales"))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewPivotCache(reader, NamedRangeSource("Missing"))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewPivotCache(reader, WorksheetSource("SheetN", "A1:A2"))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestPivotCacheSources(t *testing.T) {
	f := excelize.NewFile()
	defer func() { assert.NoError(t, f.Close()) }()
	writeRows(t, f, [][]interface{}{
		{"Region", "Amount"},
		{"East", 1},
		{"West", 2},
	})
	assert.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: "SalesData", RefersTo: "Sheet1!$A$1:$B$3"}))
	assert.NoError(t, f.AddTable("Sheet1", &excelize.Table{Range: "A1:B3", Name: "Sales"}))
	reader := NewExcelizeReader(f)

	pc, err := NewPivotCache(reader, NamedRangeSource("SalesData"))
	assert.NoError(t, err)
	assert.Equal(t, "A1:B3", pc.Range().Ref())
	assert.Equal(t, "name SalesData", pc.Source().String())

	pc, err = NewPivotCache(reader, TableSource("sales"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"Region", "Amount"}, pc.FieldNames())

	// Table names persisted as source names resolve to the table
	pc, err = NewPivotCache(reader, NamedRangeSource("Sales"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(pc.Records()))
}

func TestRefreshFieldsUniqueNames(t *testing.T) {
	hooks := &recordingHooks{}
	_, pc := prepareCache(t, [][]interface{}{
		{"Amount", "Amount", "amount"},
		{1, 2, 3},
	}, Options{Hooks: hooks})
	assert.Equal(t, []string{"Amount", "Amount2", "amount3"}, pc.FieldNames())

	// Suffixed names stay stable because the header is still their prefix
	assert.NoError(t, pc.RefreshFields())
	assert.Equal(t, []string{"Amount", "Amount2", "amount3"}, pc.FieldNames())
	assert.Equal(t, []bool{false, false}, hooks.refreshes)
}

func TestRefreshFieldsRename(t *testing.T) {
	hooks := &recordingHooks{}
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
		{"West", 5},
	}, Options{Hooks: hooks})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Region"))
	_, err = pt.AddDataField("Amount", FunctionSum)
	assert.NoError(t, err)
	_, err = pt.AddFormat(3, PivotArea{Field: 1})
	assert.NoError(t, err)

	assert.NoError(t, f.SetCellValue("Sheet1", "B1", "Qty"))
	assert.NoError(t, pc.RefreshFields())

	assert.Equal(t, []string{"Region", "Qty"}, pc.FieldNames())
	assert.Equal(t, []bool{false, true}, hooks.refreshes)
	assert.Equal(t, map[string]int{"PivotTable1": 1}, hooks.dropped)
	assert.Empty(t, pt.DataFields())
	assert.Empty(t, pt.Formats())
	assert.Len(t, pt.Fields(), 2)
	qty, err := pt.Field("Qty")
	require.NoError(t, err)
	assert.Equal(t, AxisNone, qty.Axis())
	assert.False(t, qty.IsDataField())
	if rows := pt.RowFields(); assert.Len(t, rows, 1) {
		assert.Equal(t, "Region", rows[0].Name())
	}
}

func TestRefreshFieldsSwappedColumns(t *testing.T) {
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Product", "Amount"},
		{"East", "Apple", 10},
		{"West", "Pear", 5},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Region"))
	assert.NoError(t, pt.AddColumnField("Product"))
	assert.NoError(t, pt.Fields()[0].SetItemHidden(StringValue("West"), true))

	writeRows(t, f, [][]interface{}{
		{"Product", "Region", "Amount"},
		{"Apple", "East", 10},
		{"Pear", "West", 5},
	})
	assert.NoError(t, pc.RefreshFields())

	assert.Equal(t, []string{"Product", "Region", "Amount"}, pc.FieldNames())
	// Views follow their field names
	rows, cols := pt.RowFields(), pt.ColumnFields()
	require.Len(t, rows, 1)
	require.Len(t, cols, 1)
	assert.Equal(t, "Region", rows[0].Name())
	assert.Equal(t, 1, rows[0].Index())
	assert.Equal(t, "Product", cols[0].Name())
	items := rows[0].Items()
	require.Len(t, items, 3)
	v, ok := rows[0].ItemValue(1)
	assert.True(t, ok)
	assert.Equal(t, "West", v.String())
	assert.True(t, items[1].Hidden)
}

func TestRefreshFieldsColumnsAddedRemoved(t *testing.T) {
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount", "Price"},
		{"East", 10, 1.5},
		{"West", 5, 2},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddColumnField("Price"))
	_, err = pc.AddFormulaField("Total", "Amount*Price")
	require.NoError(t, err)
	assert.Len(t, pt.Fields(), 4)

	pc.SetSource(WorksheetSource("Sheet1", "A1:B3"))
	assert.NoError(t, pc.RefreshFields())
	assert.Equal(t, []string{"Region", "Amount", "Total"}, pc.FieldNames())
	assert.Empty(t, pt.ColumnFields())
	assert.Len(t, pt.Fields(), 3)
	total, err := pc.Field("Total")
	require.NoError(t, err)
	assert.Equal(t, "Amount*Price", total.Formula())
	assert.Equal(t, 2, total.Index())

	assert.NoError(t, f.SetCellValue("Sheet1", "C1", "Cost"))
	pc.SetSource(WorksheetSource("Sheet1", "A1:C3"))
	assert.NoError(t, pc.RefreshFields())
	assert.Equal(t, []string{"Region", "Amount", "Cost", "Total"}, pc.FieldNames())
	assert.Len(t, pt.Fields(), 4)
	assert.Equal(t, "Total", pt.Fields()[3].Name())
	cost, err := pc.Field("Cost")
	require.NoError(t, err)
	assert.True(t, cost.IsDatabaseField())
	assert.Equal(t, []string{"1.5", "2"}, itemStrings(cost.Items()))
	assert.Len(t, pc.Records()[0], 3)
}

func TestRefreshFieldsMiddleColumnRemoved(t *testing.T) {
	hooks := &recordingHooks{}
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Date", "Amount"},
		{"East", date(2011, 3, 1), 10},
		{"West", date(2011, 7, 9), 5},
	}, Options{Hooks: hooks})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Region"))
	assert.NoError(t, pt.AddColumnField("Amount"))
	_, err = pt.AddDataField("Amount", FunctionSum)
	require.NoError(t, err)

	assert.NoError(t, f.RemoveCol("Sheet1", "B"))
	pc.SetSource(WorksheetSource("Sheet1", "A1:B3"))
	assert.NoError(t, pc.RefreshFields())

	assert.Equal(t, []string{"Region", "Amount"}, pc.FieldNames())
	assert.Equal(t, []bool{false, true}, hooks.refreshes)
	assert.Empty(t, hooks.dropped)
	assert.Len(t, pt.Fields(), 2)
	rows, cols := pt.RowFields(), pt.ColumnFields()
	require.Len(t, rows, 1)
	assert.Equal(t, "Region", rows[0].Name())
	require.Len(t, cols, 1)
	assert.Equal(t, "Amount", cols[0].Name())
	assert.Equal(t, 1, cols[0].Index())
	assert.Len(t, cols[0].Items(), 3)
	dataFields := pt.DataFields()
	require.Len(t, dataFields, 1)
	assert.Equal(t, "Amount", dataFields[0].Field().Name())
	assert.Equal(t, "Sum of Amount", dataFields[0].Name())
	assert.Equal(t, []Value{StringValue("East"), NumberValue(10)}, pc.Records()[0])
}

func TestRefreshFieldsReorderedAndRemoved(t *testing.T) {
	hooks := &recordingHooks{}
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Product", "Amount"},
		{"East", "Apple", 10},
		{"West", "Pear", 5},
	}, Options{Hooks: hooks})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Region"))
	assert.NoError(t, pt.AddColumnField("Product"))
	_, err = pt.AddDataField("Amount", FunctionSum)
	require.NoError(t, err)
	_, err = pc.AddFormulaField("Double", "Amount*2")
	require.NoError(t, err)

	writeRows(t, f, [][]interface{}{
		{"Amount", "Region"},
		{10, "East"},
		{5, "West"},
	})
	pc.SetSource(WorksheetSource("Sheet1", "A1:B3"))
	assert.NoError(t, pc.RefreshFields())

	assert.Equal(t, []string{"Amount", "Region", "Double"}, pc.FieldNames())
	assert.Equal(t, map[string]int{"PivotTable1": 1}, hooks.dropped)
	assert.Len(t, pt.Fields(), 3)
	assert.Empty(t, pt.ColumnFields())
	rows := pt.RowFields()
	require.Len(t, rows, 1)
	assert.Equal(t, "Region", rows[0].Name())
	assert.Equal(t, 1, rows[0].Index())
	v, ok := rows[0].ItemValue(0)
	assert.True(t, ok)
	assert.Equal(t, "East", v.String())
	dataFields := pt.DataFields()
	require.Len(t, dataFields, 1)
	assert.Equal(t, 0, dataFields[0].Field().Index())
	assert.Equal(t, "Double", pt.Fields()[2].Name())
}

func TestRefreshFieldsReadFailureKeepsCache(t *testing.T) {
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
	})
	assert.NoError(t, f.SetCellValue("Sheet1", "B1", ""))
	assert.ErrorIs(t, pc.RefreshFields(), ErrMissingColumnHeader)
	assert.Equal(t, []string{"Region", "Amount"}, pc.FieldNames())
	assert.Len(t, pc.Records(), 1)
}

func TestRefreshFieldsReconcile(t *testing.T) {
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Product", "Amount"},
		{"East", "Apple", 1},
		{"West", "Pear", 2},
		{"North", "Apple", 3},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Region"))
	assert.NoError(t, pt.AddPageField("Product"))
	region, err := pt.Field("Region")
	require.NoError(t, err)
	product, err := pt.Field("Product")
	require.NoError(t, err)
	assert.NoError(t, region.SetItemHidden(StringValue("west"), true))
	assert.NoError(t, product.SelectPageItem(StringValue("Apple")))
	item, ok := product.PageItem()
	assert.True(t, ok)
	assert.Equal(t, 1, item)

	assert.NoError(t, f.SetCellValue("Sheet1", "A2", "South"))
	assert.NoError(t, f.SetCellValue("Sheet1", "B3", "Fig"))
	assert.NoError(t, pc.RefreshFields())

	labels := func(pf *PivotField) []string {
		var out []string
		for i, it := range pf.Items() {
			if v, ok := pf.ItemValue(i); ok {
				out = append(out, v.String())
				continue
			}
			assert.Equal(t, ItemDefault, it.Kind)
			out = append(out, "(default)")
		}
		return out
	}
	assert.Equal(t, []string{"West", "North", "South", "(default)"}, labels(region))
	assert.True(t, region.Items()[0].Hidden)
	assert.False(t, region.Items()[2].Hidden)
	assert.Equal(t, []string{"Apple", "Fig", "(default)"}, labels(product))
	item, ok = product.PageItem()
	assert.True(t, ok)
	assert.Equal(t, 0, item)

	// A removed page selection falls back to all items
	assert.NoError(t, f.SetCellValue("Sheet1", "B2", "Kiwi"))
	assert.NoError(t, f.SetCellValue("Sheet1", "B4", "Kiwi"))
	assert.NoError(t, pc.RefreshFields())
	_, ok = product.PageItem()
	assert.False(t, ok)
	assert.Equal(t, []string{"Fig", "Kiwi", "(default)"}, labels(product))
}

func TestAddFormulaField(t *testing.T) {
	_, pc := prepareCache(t, [][]interface{}{
		{"Qty", "Unit Price"},
		{2, 1.5},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)

	cf, err := pc.AddFormulaField("Total", "='Unit Price'*Qty")
	require.NoError(t, err)
	assert.False(t, cf.IsDatabaseField())
	assert.Equal(t, []string{"Unit Price", "Qty"}, cf.FormulaReferences())
	assert.Len(t, pt.Fields(), 3)
	assert.Equal(t, 0, cf.ItemCount())

	_, err = pc.AddFormulaField("total", "Qty*2")
	assert.ErrorIs(t, err, ErrFieldNameExists)
	_, err = pc.AddFormulaField(" ", "Qty*2")
	assert.ErrorIs(t, err, ErrParameterInvalid)
	_, err = pc.AddFormulaField("Blank", " ")
	assert.ErrorIs(t, err, ErrBlankFormula)

	qty, err := pc.Field("Qty")
	require.NoError(t, err)
	assert.ErrorIs(t, qty.SetFormula("1+1"), ErrFormulaOnDatabaseField)
	assert.NoError(t, cf.SetFormula("Qty*3"))
	assert.Equal(t, "Qty*3", cf.Formula())
	assert.ErrorIs(t, cf.SetFormula(""), ErrBlankFormula)
}

func TestPivotTableLifecycle(t *testing.T) {
	_, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
	})
	_, err := pc.AddPivotTable(" ")
	assert.ErrorIs(t, err, ErrParameterInvalid)

	pt1, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	pt2, err := pc.AddPivotTable("PivotTable2")
	require.NoError(t, err)
	assert.Len(t, pc.PivotTables(), 2)
	assert.NotEqual(t, pt1.UID(), pt2.UID())

	assert.NoError(t, pc.RemovePivotTable(pt1))
	assert.False(t, pc.Released())
	assert.Nil(t, pt1.Cache())
	assert.ErrorIs(t, pc.RemovePivotTable(pt1), ErrTableNotDependent)
	_, err = pt1.Field("Region")
	assert.ErrorIs(t, err, ErrTableNotDependent)

	assert.NoError(t, pc.RemovePivotTable(pt2))
	assert.True(t, pc.Released())
}
