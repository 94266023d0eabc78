// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import "encoding/xml"

// dataFieldReference is the field index pivot areas use to refer to the
// values pseudo field.
const dataFieldReference = 4294967294

// xlsxPivotTableDefinition represents the pivotTableDefinition part. A
// pivot table lays out the fields of a pivot cache on the row, column,
// page and values axes.
type xlsxPivotTableDefinition struct {
	XMLName            xml.Name                `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main pivotTableDefinition"`
	Name               string                  `xml:"name,attr"`
	CacheID            int                     `xml:"cacheId,attr"`
	DataCaption        string                  `xml:"dataCaption,attr"`
	UID                string                  `xml:"http://schemas.microsoft.com/office/spreadsheetml/2014/revision uid,attr,omitempty"`
	PivotFields        *xlsxPivotFields        `xml:"pivotFields"`
	RowFields          *xlsxRowFields          `xml:"rowFields"`
	ColFields          *xlsxColFields          `xml:"colFields"`
	PageFields         *xlsxPageFields         `xml:"pageFields"`
	DataFields         *xlsxDataFields         `xml:"dataFields"`
	Formats            *xlsxFormats            `xml:"formats"`
	ConditionalFormats *xlsxConditionalFormats `xml:"conditionalFormats"`
}

// xlsxPivotFields represents the collection of fields that appear on the
// pivot table.
type xlsxPivotFields struct {
	Count      int               `xml:"count,attr"`
	PivotField []*xlsxPivotField `xml:"pivotField"`
}

// xlsxPivotField represents a single field in the pivot table. This element
// contains information about the field, including the collection of items
// in the field.
type xlsxPivotField struct {
	Name            string             `xml:"name,attr,omitempty"`
	Axis            string             `xml:"axis,attr,omitempty"`
	DataField       bool               `xml:"dataField,attr,omitempty"`
	ShowAll         bool               `xml:"showAll,attr"`
	Compact         *bool              `xml:"compact,attr"`
	Outline         *bool              `xml:"outline,attr"`
	InsertBlankRow  bool               `xml:"insertBlankRow,attr,omitempty"`
	DefaultSubtotal *bool              `xml:"defaultSubtotal,attr"`
	NumFmtID        string             `xml:"numFmtId,attr,omitempty"`
	SortType        string             `xml:"sortType,attr,omitempty"`
	Items           *xlsxItems         `xml:"items"`
	AutoSortScope   *xlsxAutoSortScope `xml:"autoSortScope"`
}

// xlsxItems represents the collection of items in a pivot table field.
type xlsxItems struct {
	Count int         `xml:"count,attr"`
	Item  []*xlsxItem `xml:"item"`
}

// xlsxItem represents a single item in pivot table field: a data item
// referring to a cache item by x, or a subtotal marker typed by t.
type xlsxItem struct {
	N string `xml:"n,attr,omitempty"`
	T string `xml:"t,attr,omitempty"`
	H bool   `xml:"h,attr,omitempty"`
	X *int   `xml:"x,attr"`
}

// xlsxAutoSortScope represents the sorting scope of a pivot table field.
type xlsxAutoSortScope struct {
	PivotArea *xlsxPivotArea `xml:"pivotArea"`
}

// xlsxRowFields represents the collection of row fields for the pivot
// table.
type xlsxRowFields struct {
	Count int          `xml:"count,attr"`
	Field []*xlsxField `xml:"field"`
}

// xlsxColFields represents the collection of fields that are on the column
// axis of the pivot table.
type xlsxColFields struct {
	Count int          `xml:"count,attr"`
	Field []*xlsxField `xml:"field"`
}

// xlsxField represents a generic field that can appear either on the
// column or the row region of the pivot table.
type xlsxField struct {
	X int `xml:"x,attr"`
}

// xlsxPageFields represents the collection of items in the page or report
// filter region of the pivot table.
type xlsxPageFields struct {
	Count     int              `xml:"count,attr"`
	PageField []*xlsxPageField `xml:"pageField"`
}

// xlsxPageField represents a field on the page or report filter of the
// pivot table.
type xlsxPageField struct {
	Fld  int  `xml:"fld,attr"`
	Item *int `xml:"item,attr"`
	Hier int  `xml:"hier,attr"`
}

// xlsxDataFields represents the collection of items in the data region of
// the pivot table.
type xlsxDataFields struct {
	Count     int              `xml:"count,attr"`
	DataField []*xlsxDataField `xml:"dataField"`
}

// xlsxDataField represents a field from a source list, table, or database
// that contains data that is summarized in a pivot table.
type xlsxDataField struct {
	Name       string `xml:"name,attr,omitempty"`
	Fld        int    `xml:"fld,attr"`
	Subtotal   string `xml:"subtotal,attr,omitempty"`
	ShowDataAs string `xml:"showDataAs,attr,omitempty"`
	BaseField  *int   `xml:"baseField,attr"`
	BaseItem   *int   `xml:"baseItem,attr"`
	NumFmtID   int    `xml:"numFmtId,attr,omitempty"`
}

// xlsxFormats represents the collection of formats applied to pivot table.
type xlsxFormats struct {
	Count  int           `xml:"count,attr"`
	Format []*xlsxFormat `xml:"format"`
}

// xlsxFormat represents the format defined in the pivot table.
type xlsxFormat struct {
	DxfID     int            `xml:"dxfId,attr"`
	PivotArea *xlsxPivotArea `xml:"pivotArea"`
}

// xlsxConditionalFormats represents the collection of conditional formats
// applied to a pivot table.
type xlsxConditionalFormats struct {
	Count             int                      `xml:"count,attr"`
	ConditionalFormat []*xlsxConditionalFormat `xml:"conditionalFormat"`
}

// xlsxConditionalFormat represents the conditional formatting defined in
// the pivot table.
type xlsxConditionalFormat struct {
	Priority   int             `xml:"priority,attr"`
	PivotAreas *xlsxPivotAreas `xml:"pivotAreas"`
}

// xlsxPivotAreas represents the collection of pivot areas of a conditional
// format.
type xlsxPivotAreas struct {
	Count     int              `xml:"count,attr"`
	PivotArea []*xlsxPivotArea `xml:"pivotArea"`
}

// xlsxPivotArea represents the rule to describe pivot table selection.
type xlsxPivotArea struct {
	Field      *int            `xml:"field,attr"`
	Type       string          `xml:"type,attr,omitempty"`
	DataOnly   *bool           `xml:"dataOnly,attr"`
	LabelOnly  bool            `xml:"labelOnly,attr,omitempty"`
	References *xlsxReferences `xml:"references"`
}

// xlsxReferences represents the references of a pivot area.
type xlsxReferences struct {
	Count     int              `xml:"count,attr"`
	Reference []*xlsxReference `xml:"reference"`
}

// xlsxReference represents a reference to a field and a set of its items.
type xlsxReference struct {
	Field *uint32  `xml:"field,attr"`
	Count int      `xml:"count,attr"`
	X     []*xlsxX `xml:"x"`
}

// xlsxX represents an array of indexes to cached shared item values.
type xlsxX struct {
	V int `xml:"v,attr"`
}
