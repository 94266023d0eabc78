// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import "encoding/xml"

// This section defines the namespaces of the pivot parts.
const (
	NameSpaceSpreadSheet       = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NameSpaceRelationships     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NameSpaceSpreadSheetXR2014 = "http://schemas.microsoft.com/office/spreadsheetml/2014/revision"
)

// xlsxPivotCacheDefinition represents the pivotCacheDefinition part. This
// part defines each field in the source data, including the name, the
// string resources of the instance data (for shared items), and
// information about the type of data that appears in the field.
type xlsxPivotCacheDefinition struct {
	XMLName               xml.Name         `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main pivotCacheDefinition"`
	RID                   string           `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr,omitempty"`
	RefreshOnLoad         bool             `xml:"refreshOnLoad,attr,omitempty"`
	RefreshedDate         float64          `xml:"refreshedDate,attr,omitempty"`
	CreatedVersion        int              `xml:"createdVersion,attr,omitempty"`
	RefreshedVersion      int              `xml:"refreshedVersion,attr,omitempty"`
	MinRefreshableVersion int              `xml:"minRefreshableVersion,attr,omitempty"`
	RecordCount           int              `xml:"recordCount,attr,omitempty"`
	UID                   string           `xml:"http://schemas.microsoft.com/office/spreadsheetml/2014/revision uid,attr,omitempty"`
	CacheSource           *xlsxCacheSource `xml:"cacheSource"`
	CacheFields           *xlsxCacheFields `xml:"cacheFields"`
}

// xlsxCacheSource represents the description of data source whose data is
// stored in the pivot cache.
type xlsxCacheSource struct {
	Type            string               `xml:"type,attr"`
	WorksheetSource *xlsxWorksheetSource `xml:"worksheetSource"`
}

// xlsxWorksheetSource represents the location of the source of the data that
// is stored in the cache: a range on a sheet, a defined name or a table.
type xlsxWorksheetSource struct {
	RID   string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr,omitempty"`
	Ref   string `xml:"ref,attr,omitempty"`
	Name  string `xml:"name,attr,omitempty"`
	Sheet string `xml:"sheet,attr,omitempty"`
}

// xlsxCacheFields represents the collection of field definitions in the
// source data.
type xlsxCacheFields struct {
	Count      int               `xml:"count,attr"`
	CacheField []*xlsxCacheField `xml:"cacheField"`
}

// xlsxCacheField represent a single field in the pivot cache. This
// definition contains information about the field, such as its source,
// data type, and location within a level or hierarchy. The sharedItems
// element stores additional information about the data in this field. If
// there are no shared items, then values are stored directly in the
// pivotCacheRecords part.
type xlsxCacheField struct {
	Name          string           `xml:"name,attr"`
	Caption       string           `xml:"caption,attr,omitempty"`
	NumFmtID      int              `xml:"numFmtId,attr"`
	Formula       string           `xml:"formula,attr,omitempty"`
	DatabaseField *bool            `xml:"databaseField,attr"`
	SharedItems   *xlsxSharedItems `xml:"sharedItems"`
	FieldGroup    *xlsxFieldGroup  `xml:"fieldGroup"`
}

// xlsxSharedItems represents the collection of unique items for a field in
// the pivot cache definition. The flags describe the types of the items.
type xlsxSharedItems struct {
	ContainsSemiMixedTypes *bool           `xml:"containsSemiMixedTypes,attr"`
	ContainsNonDate        *bool           `xml:"containsNonDate,attr"`
	ContainsDate           bool            `xml:"containsDate,attr,omitempty"`
	ContainsString         *bool           `xml:"containsString,attr"`
	ContainsBlank          bool            `xml:"containsBlank,attr,omitempty"`
	ContainsMixedTypes     bool            `xml:"containsMixedTypes,attr,omitempty"`
	ContainsNumber         bool            `xml:"containsNumber,attr,omitempty"`
	ContainsInteger        bool            `xml:"containsInteger,attr,omitempty"`
	MinValue               *float64        `xml:"minValue,attr"`
	MaxValue               *float64        `xml:"maxValue,attr"`
	MinDate                string          `xml:"minDate,attr,omitempty"`
	MaxDate                string          `xml:"maxDate,attr,omitempty"`
	Count                  int             `xml:"count,attr,omitempty"`
	LongText               bool            `xml:"longText,attr,omitempty"`
	Items                  []xlsxCacheItem `xml:",any"`
}

// xlsxCacheItem represents a single typed item: s (string), n (number),
// d (date-time), b (boolean), e (error), m (missing) or x (shared item
// index in records).
type xlsxCacheItem struct {
	XMLName xml.Name
	V       string `xml:"v,attr,omitempty"`
}

// xlsxFieldGroup represents the collection of properties for a field
// group.
type xlsxFieldGroup struct {
	Par        *int            `xml:"par,attr"`
	Base       *int            `xml:"base,attr"`
	RangePr    *xlsxRangePr    `xml:"rangePr"`
	GroupItems *xlsxGroupItems `xml:"groupItems"`
}

// xlsxRangePr represents the range grouping properties of a field group.
type xlsxRangePr struct {
	AutoStart     *bool    `xml:"autoStart,attr"`
	AutoEnd       *bool    `xml:"autoEnd,attr"`
	GroupBy       string   `xml:"groupBy,attr,omitempty"`
	StartNum      *float64 `xml:"startNum,attr"`
	EndNum        *float64 `xml:"endNum,attr"`
	StartDate     string   `xml:"startDate,attr,omitempty"`
	EndDate       string   `xml:"endDate,attr,omitempty"`
	GroupInterval *float64 `xml:"groupInterval,attr"`
}

// xlsxGroupItems represents the collection of items in a field group.
type xlsxGroupItems struct {
	Count int             `xml:"count,attr"`
	Items []xlsxCacheItem `xml:",any"`
}

// xlsxPivotCacheRecords represents the pivotCacheRecords part, the source
// data rows of the pivot cache.
type xlsxPivotCacheRecords struct {
	XMLName xml.Name               `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main pivotCacheRecords"`
	Count   int                    `xml:"count,attr"`
	R       []xlsxPivotCacheRecord `xml:"r"`
}

// xlsxPivotCacheRecord represents one record: per database field either a
// shared item index (x) or an inline typed value.
type xlsxPivotCacheRecord struct {
	Items []xlsxCacheItem `xml:",any"`
}
