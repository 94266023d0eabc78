// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func recordStrings(records [][]Value) [][]string {
	out := make([][]string, len(records))
	for i, rec := range records {
		for _, v := range rec {
			out[i] = append(out[i], v.String())
		}
	}
	return out
}

func TestCacheDefinitionRoundTrip(t *testing.T) {
	f, pc := prepareCache(t, [][]interface{}{
		{"Region", "Date", "Amount"},
		{"East", date(2011, 3, 1), 10},
		{nil, date(2011, 7, 9), 5},
		{"West", date(2012, 6, 15), 2.5},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddRowField("Date"))
	assert.NoError(t, pt.GroupDates("Date", DateGroupOptions{GroupBy: GroupByMonths | GroupByYears}))
	_, err = pc.AddFormulaField("Total", "Amount*2")
	require.NoError(t, err)

	def, err := pc.MarshalDefinition()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(def, []byte(xml.Header)))
	for _, s := range []string{`groupBy="months"`, `groupBy="years"`, `formula="Amount*2"`, `databaseField="false"`, `containsMixedTypes="true"`} {
		assert.Contains(t, string(def), s)
	}

	loaded, err := LoadPivotCache(def, NewExcelizeReader(f))
	require.NoError(t, err)
	assert.Equal(t, pc.ID(), loaded.ID())
	assert.Equal(t, pc.Source(), loaded.Source())
	assert.WithinDuration(t, pc.RefreshedAt(), loaded.RefreshedAt(), time.Second)
	assert.Equal(t, []string{"Region", "Date", "Amount", "Years", "Total"}, loaded.FieldNames())
	for i, cf := range pc.Fields() {
		got, ok := loaded.FieldAt(i)
		require.True(t, ok)
		assert.Equal(t, itemStrings(cf.SharedItems()), itemStrings(got.SharedItems()), cf.Name())
		assert.Equal(t, itemStrings(cf.Items()), itemStrings(got.Items()), cf.Name())
		assert.Equal(t, cf.TypeFlags(), got.TypeFlags(), cf.Name())
		assert.Equal(t, cf.IsDatabaseField(), got.IsDatabaseField(), cf.Name())
		assert.Equal(t, cf.NumFmtID(), got.NumFmtID(), cf.Name())
		assert.Equal(t, cf.Formula(), got.Formula(), cf.Name())
	}
	dates, err := loaded.Field("Date")
	require.NoError(t, err)
	g := dates.Grouping()
	assert.Equal(t, GroupingDate, g.Kind)
	assert.Equal(t, GroupByMonths, g.GroupBy)
	assert.True(t, g.AutoStart)
	assert.Equal(t, 1, g.BaseIndex)
	assert.Equal(t, "2011-03-01", g.StartDate.Format(time.DateOnly))
	years, err := loaded.Field("Years")
	require.NoError(t, err)
	assert.Equal(t, GroupByYears, years.Grouping().GroupBy)
	assert.Equal(t, []int{-1, 3, -1, -1, -1}, loaded.groupParents())

	data, err := pc.MarshalRecords()
	require.NoError(t, err)
	assert.Contains(t, string(data), `<x v="2"></x>`)
	require.NoError(t, loaded.LoadRecords(data))
	assert.Equal(t, recordStrings(pc.Records()), recordStrings(loaded.Records()))
	assert.Equal(t, ValueEmpty, loaded.Records()[1][0].Type)

	// Loaded caches refresh from their source
	require.NoError(t, loaded.RefreshFields())
	assert.Equal(t, []string{"Region", "Date", "Amount", "Years", "Total"}, loaded.FieldNames())
	assert.Equal(t, "A1:C4", loaded.Range().Ref())
}

func TestNumericGroupingRoundTrip(t *testing.T) {
	_, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
		{"West", 2.5},
	})
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	assert.NoError(t, pt.AddColumnField("Amount"))
	assert.NoError(t, pt.GroupNumeric("Amount", 0, 10, 5))
	def, err := pc.MarshalDefinition()
	require.NoError(t, err)
	assert.Contains(t, string(def), `startNum="0" endNum="10" groupInterval="5"`)

	loaded, err := LoadPivotCache(def, nil)
	require.NoError(t, err)
	amount, err := loaded.Field("Amount")
	require.NoError(t, err)
	g := amount.Grouping()
	assert.Equal(t, GroupingNumeric, g.Kind)
	assert.Equal(t, 0.0, g.Start)
	assert.Equal(t, 10.0, g.End)
	assert.Equal(t, 5.0, g.Interval)
	assert.False(t, g.AutoStart)
	assert.Equal(t, []string{"<0", "0-5", "5-10", ">10"}, itemStrings(amount.Items()))
	assert.Equal(t, TypeInteger|TypeFloat|TypeNumber, amount.TypeFlags())
}

func TestLoadCacheErrors(t *testing.T) {
	_, err := LoadPivotCache([]byte("<pivotCacheDefinition"), nil)
	assert.Error(t, err)

	_, pc := prepareCache(t, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
	})
	def, err := pc.MarshalDefinition()
	require.NoError(t, err)
	_, err = LoadPivotCache(bytes.Replace(def, []byte(`<s v="East"></s>`), []byte(`<q v="East"></q>`), 1), nil)
	assert.ErrorIs(t, err, ErrParameterInvalid)

	data, err := pc.MarshalRecords()
	require.NoError(t, err)
	assert.ErrorIs(t, pc.LoadRecords(bytes.Replace(data, []byte(`<x v="0">`), []byte(`<x v="9">`), 1)), ErrParameterInvalid)
	assert.Error(t, pc.LoadRecords(bytes.Replace(data, []byte(`<x v="0">`), []byte(`<x v="a">`), 1)))
	assert.Len(t, pc.Records(), 1)
}

func TestCacheItem(t *testing.T) {
	for _, v := range []Value{
		StringValue("East"), NumberValue(2.5), NumberValue(-3),
		DateTimeValue(time.Date(2011, 3, 1, 8, 30, 15, 0, time.UTC)),
		BoolValue(true), BoolValue(false), ErrorValue("#DIV/0!"), EmptyValue(),
	} {
		item := cacheItem(v)
		assert.Equal(t, v.Type.String(), item.XMLName.Local)
		got, err := cacheItemValue(item)
		assert.NoError(t, err)
		assert.Equal(t, v.key(), got.key(), v.String())
		assert.Equal(t, v.String(), got.String())
	}
	_, err := cacheItemValue(xlsxCacheItem{XMLName: xml.Name{Local: "n"}, V: "ten"})
	assert.Error(t, err)
	_, err = cacheItemValue(xlsxCacheItem{XMLName: xml.Name{Local: "d"}, V: "yesterday"})
	assert.Error(t, err)
}

func preparePersistTable(t *testing.T) (*PivotCache, *PivotTable) {
	_, pc := prepareCache(t, [][]interface{}{
		{"Region", "Product", "Amount"},
		{"East", "Apple", 10},
		{"West", "Pear", 5},
		{"East", "Fig", 2},
	})
	pc.SetCacheID(7)
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	require.NoError(t, pt.AddRowField("Region"))
	require.NoError(t, pt.AddPageField("Product"))
	region, err := pt.Field("Region")
	require.NoError(t, err)
	product, err := pt.Field("Product")
	require.NoError(t, err)
	require.NoError(t, region.SetItemHidden(StringValue("West"), true))
	require.NoError(t, product.SelectPageItem(StringValue("Pear")))
	region.SetOptions(PivotFieldOptions{Name: "Area", Outline: true, DefaultSubtotal: true})

	sum, err := pt.AddDataField("Amount", FunctionSum)
	require.NoError(t, err)
	require.NoError(t, sum.SetDifference(region, BaseItemPrevious))
	sum.SetNumFmtID(4)
	_, err = pt.AddDataField("Amount", FunctionCount)
	require.NoError(t, err)
	require.NoError(t, region.SetAutoSort(false, "Sum of Amount"))

	_, err = pt.AddFormat(2, PivotArea{Field: 0, LabelOnly: true, References: []PivotAreaReference{{Field: 0, Items: []int{1}}}})
	require.NoError(t, err)
	_, err = pt.AddConditionalFormat(1, PivotArea{Field: -1, DataOnly: true})
	require.NoError(t, err)
	return pc, pt
}

func TestSharedItemsLongText(t *testing.T) {
	long := strings.Repeat("x", 256)
	_, pc := prepareCache(t, [][]interface{}{
		{"Note", "Text", "Short"},
		{long, long, "a"},
		{1, "b", "b"},
	})
	note, err := pc.Field("Note")
	require.NoError(t, err)
	si := sharedItemsDefinition(note)
	assert.True(t, si.ContainsMixedTypes)
	assert.False(t, si.LongText)

	text, err := pc.Field("Text")
	require.NoError(t, err)
	si = sharedItemsDefinition(text)
	assert.False(t, si.ContainsMixedTypes)
	assert.True(t, si.LongText)

	short, err := pc.Field("Short")
	require.NoError(t, err)
	assert.False(t, sharedItemsDefinition(short).LongText)
}

func TestPivotTableDefinitionRoundTrip(t *testing.T) {
	pc, pt := preparePersistTable(t)
	def, err := pt.MarshalDefinition()
	require.NoError(t, err)
	for _, s := range []string{`cacheId="7"`, `name="PivotTable1"`, `axis="axisRow"`, `t="default"`, `h="true"`, `subtotal="count"`, `showDataAs="difference"`, `baseItem="1048828"`, `sortType="descending"`, `dxfId="2"`} {
		assert.Contains(t, string(def), s)
	}

	loaded, err := pc.LoadPivotTable(def)
	require.NoError(t, err)
	assert.Len(t, pc.PivotTables(), 2)
	assert.Equal(t, pt.Name(), loaded.Name())
	assert.Equal(t, pt.UID(), loaded.UID())

	names := func(views []*PivotField) []string {
		var out []string
		for _, v := range views {
			out = append(out, v.Name())
		}
		return out
	}
	assert.Equal(t, names(pt.RowFields()), names(loaded.RowFields()))
	assert.Equal(t, names(pt.PageFields()), names(loaded.PageFields()))
	assert.Empty(t, loaded.ColumnFields())

	for i, pf := range pt.Fields() {
		got := loaded.Fields()[i]
		assert.Equal(t, pf.Axis(), got.Axis(), pf.Name())
		assert.Equal(t, pf.IsDataField(), got.IsDataField(), pf.Name())
		assert.Equal(t, pf.Options(), got.Options(), pf.Name())
		items, gotItems := pf.Items(), got.Items()
		require.Len(t, gotItems, len(items), pf.Name())
		for j := range items {
			assert.Equal(t, items[j].CacheIndex, gotItems[j].CacheIndex)
			assert.Equal(t, items[j].Kind, gotItems[j].Kind)
			assert.Equal(t, items[j].Hidden, gotItems[j].Hidden)
		}
		page, ok := pf.PageItem()
		gotPage, gotOK := got.PageItem()
		assert.Equal(t, ok, gotOK)
		assert.Equal(t, page, gotPage)
		sort, ok := pf.AutoSort()
		gotSort, gotOK := got.AutoSort()
		assert.Equal(t, ok, gotOK)
		assert.Equal(t, sort, gotSort)
	}
	region, err := loaded.Field("Region")
	require.NoError(t, err)
	assert.Equal(t, "Area", region.Options().Name)
	assert.False(t, region.Options().Compact)
	sort, ok := region.AutoSort()
	assert.True(t, ok)
	assert.Equal(t, AutoSort{Ascending: false, BaseField: 2}, sort)

	require.Len(t, loaded.DataFields(), 2)
	for i, df := range pt.DataFields() {
		got := loaded.DataFields()[i]
		assert.Equal(t, df.Name(), got.Name())
		assert.Equal(t, df.Function(), got.Function())
		assert.Equal(t, df.ShowDataAs(), got.ShowDataAs())
		assert.Equal(t, df.BaseItem(), got.BaseItem())
		assert.Equal(t, df.NumFmtID(), got.NumFmtID())
		assert.Equal(t, df.Field().Index(), got.Field().Index())
	}
	assert.Equal(t, 0, loaded.DataFields()[0].BaseField().Index())
	assert.Nil(t, loaded.DataFields()[1].BaseField())

	require.Len(t, loaded.Formats(), 1)
	assert.Equal(t, *pt.Formats()[0], *loaded.Formats()[0])
	require.Len(t, loaded.ConditionalFormats(), 1)
	assert.Equal(t, *pt.ConditionalFormats()[0], *loaded.ConditionalFormats()[0])

	// Loaded tables take part in later refreshes
	require.NoError(t, pc.RefreshFields())
	assert.Len(t, region.Items(), 3)
	assert.True(t, region.Items()[0].Hidden)
}

func TestPivotTableDefinitionErrors(t *testing.T) {
	pc, pt := preparePersistTable(t)
	def, err := pt.MarshalDefinition()
	require.NoError(t, err)

	_, err = pc.LoadPivotTable([]byte("<pivotTableDefinition"))
	assert.Error(t, err)
	_, err = pc.LoadPivotTable(bytes.Replace(def, []byte(`subtotal="count"`), []byte(`subtotal="median"`), 1))
	assert.ErrorIs(t, err, ErrParameterInvalid)

	_, err = pc.AddFormulaField("Double", "Amount*2")
	require.NoError(t, err)
	_, err = pc.LoadPivotTable(def)
	assert.ErrorIs(t, err, ErrParameterInvalid)
	assert.Len(t, pc.PivotTables(), 1)

	require.NoError(t, pc.RemovePivotTable(pt))
	_, err = pt.MarshalDefinition()
	assert.ErrorIs(t, err, ErrTableNotDependent)
}

func TestPivotAreaDefinition(t *testing.T) {
	for _, area := range []PivotArea{
		{Field: -1, DataOnly: true},
		{Field: 2, DataOnly: false},
		{Field: 1, LabelOnly: true},
		{Field: -1, DataOnly: true, References: []PivotAreaReference{{Field: 0, Items: []int{0, 2}}, {Field: 1, Items: []int{1}}}},
	} {
		assert.Equal(t, area, pivotAreaValue(pivotAreaDefinition(area)))
	}
	// References to the values pseudo field are skipped
	ref := uint32(dataFieldReference)
	area := pivotAreaValue(&xlsxPivotArea{References: &xlsxReferences{Reference: []*xlsxReference{{Field: &ref, X: []*xlsxX{{V: 0}}}}}})
	assert.Equal(t, PivotArea{Field: -1, DataOnly: true}, area)
}

func TestWorkbookPivotParts(t *testing.T) {
	// Pivot parts survive a workbook save and reopen alongside the source
	f := excelize.NewFile()
	defer func() { assert.NoError(t, f.Close()) }()
	ref := writeRows(t, f, [][]interface{}{
		{"Region", "Amount"},
		{"East", 10},
		{"West", 5},
	})
	pc, err := NewPivotCache(NewExcelizeReader(f), WorksheetSource("Sheet1", ref))
	require.NoError(t, err)
	pt, err := pc.AddPivotTable("PivotTable1")
	require.NoError(t, err)
	require.NoError(t, pt.AddRowField("Region"))
	cacheDef, err := pc.MarshalDefinition()
	require.NoError(t, err)
	tableDef, err := pt.MarshalDefinition()
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	reopened, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { assert.NoError(t, reopened.Close()) }()

	loaded, err := LoadPivotCache(cacheDef, NewExcelizeReader(reopened))
	require.NoError(t, err)
	loadedTable, err := loaded.LoadPivotTable(tableDef)
	require.NoError(t, err)
	require.NoError(t, loaded.RefreshFields())
	assert.Equal(t, []string{"Region", "Amount"}, loaded.FieldNames())
	require.Len(t, loadedTable.RowFields(), 1)
	v, ok := loadedTable.RowFields()[0].ItemValue(1)
	assert.True(t, ok)
	assert.Equal(t, "West", v.String())
}
