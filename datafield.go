// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"
	"strings"
)

// DataConsolidateFunction is the function summarizing a value field.
type DataConsolidateFunction byte

// This section defines the summarize functions of value fields.
const (
	FunctionNone DataConsolidateFunction = iota
	FunctionSum
	FunctionCount
	FunctionAverage
	FunctionMax
	FunctionMin
	FunctionProduct
	FunctionCountNums
	FunctionStdDev
	FunctionStdDevP
	FunctionVar
	FunctionVarP
)

// dataConsolidateFunctions maps functions to their persisted subtotal names.
var dataConsolidateFunctions = map[DataConsolidateFunction]string{
	FunctionSum:       "sum",
	FunctionCount:     "count",
	FunctionAverage:   "average",
	FunctionMax:       "max",
	FunctionMin:       "min",
	FunctionProduct:   "product",
	FunctionCountNums: "countNums",
	FunctionStdDev:    "stdDev",
	FunctionStdDevP:   "stdDevp",
	FunctionVar:       "var",
	FunctionVarP:      "varp",
}

// String returns the persisted name of the function.
func (fn DataConsolidateFunction) String() string {
	if s, ok := dataConsolidateFunctions[fn]; ok {
		return s
	}
	return "sum"
}

// caption returns the prefix of default value field names, such as "Sum".
func (fn DataConsolidateFunction) caption() string {
	switch fn {
	case FunctionCountNums:
		return "Count"
	case FunctionStdDevP:
		return "StdDevp"
	case FunctionVarP:
		return "Varp"
	}
	s := fn.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseDataConsolidateFunction parses a persisted function name.
func ParseDataConsolidateFunction(name string) (DataConsolidateFunction, error) {
	for fn, s := range dataConsolidateFunctions {
		if strings.EqualFold(s, name) {
			return fn, nil
		}
	}
	return FunctionNone, fmt.Errorf("%w: summarize function %q", ErrParameterInvalid, name)
}

// ShowDataAs is the secondary computation mode of a value field.
type ShowDataAs byte

// This section defines the show data as modes.
const (
	ShowDataAsNormal ShowDataAs = iota
	ShowDataAsPercentOfTotal
	ShowDataAsPercentOfRow
	ShowDataAsPercentOfColumn
	ShowDataAsPercent
	ShowDataAsPercentOfParentRow
	ShowDataAsPercentOfParentColumn
	ShowDataAsPercentOfParent
	ShowDataAsIndex
	ShowDataAsRunningTotal
	ShowDataAsDifference
	ShowDataAsPercentDifference
	ShowDataAsPercentOfRunningTotal
	ShowDataAsRankAscending
	ShowDataAsRankDescending
)

// showDataAsNames maps modes to their persisted names.
var showDataAsNames = map[ShowDataAs]string{
	ShowDataAsNormal:                "normal",
	ShowDataAsPercentOfTotal:        "percentOfTotal",
	ShowDataAsPercentOfRow:          "percentOfRow",
	ShowDataAsPercentOfColumn:       "percentOfCol",
	ShowDataAsPercent:               "percent",
	ShowDataAsPercentOfParentRow:    "percentOfParentRow",
	ShowDataAsPercentOfParentColumn: "percentOfParentCol",
	ShowDataAsPercentOfParent:       "percentOfParent",
	ShowDataAsIndex:                 "index",
	ShowDataAsRunningTotal:          "runTotal",
	ShowDataAsDifference:            "difference",
	ShowDataAsPercentDifference:     "percentDiff",
	ShowDataAsPercentOfRunningTotal: "percentOfRunningTotal",
	ShowDataAsRankAscending:         "rankAscending",
	ShowDataAsRankDescending:        "rankDescending",
}

// String returns the persisted name of the mode.
func (s ShowDataAs) String() string {
	if n, ok := showDataAsNames[s]; ok {
		return n
	}
	return "normal"
}

// ParseShowDataAs parses a persisted mode name.
func ParseShowDataAs(name string) (ShowDataAs, error) {
	for s, n := range showDataAsNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return ShowDataAsNormal, fmt.Errorf("%w: show data as %q", ErrParameterInvalid, name)
}

// requiresBaseField reports whether the mode is relative to a base field.
func (s ShowDataAs) requiresBaseField() bool {
	switch s {
	case ShowDataAsNormal, ShowDataAsPercentOfTotal, ShowDataAsPercentOfRow,
		ShowDataAsPercentOfColumn, ShowDataAsIndex,
		ShowDataAsPercentOfParentRow, ShowDataAsPercentOfParentColumn:
		return false
	}
	return true
}

// requiresBaseItem reports whether the mode is relative to a base item.
func (s ShowDataAs) requiresBaseItem() bool {
	switch s {
	case ShowDataAsPercent, ShowDataAsDifference, ShowDataAsPercentDifference:
		return true
	}
	return false
}

// This section defines the relative base items: the item before or after
// the one being computed.
const (
	BaseItemPrevious = 1048828
	BaseItemNext     = 1048829
)

// DataField is a value field of a pivot table: a cache field summarized by a
// function, optionally shown relative to a base field and item.
type DataField struct {
	table      *PivotTable
	field      int
	name       string
	function   DataConsolidateFunction
	showDataAs ShowDataAs
	baseField  int
	baseItem   int
	numFmtID   int
}

// Table returns the pivot table owning the value field, nil once removed.
func (df *DataField) Table() *PivotTable { return df.table }

// Field returns the view of the summarized cache field.
func (df *DataField) Field() *PivotField {
	if df.table == nil || df.field < 0 || df.field >= len(df.table.fields) {
		return nil
	}
	return df.table.fields[df.field]
}

// Name returns the caption of the value field.
func (df *DataField) Name() string { return df.name }

// SetName sets the caption of the value field.
func (df *DataField) SetName(name string) { df.name = name }

// Function returns the summarize function.
func (df *DataField) Function() DataConsolidateFunction { return df.function }

// SetFunction sets the summarize function.
func (df *DataField) SetFunction(fn DataConsolidateFunction) { df.function = fn }

// NumFmtID returns the number format of the values.
func (df *DataField) NumFmtID() int { return df.numFmtID }

// SetNumFmtID sets the number format of the values.
func (df *DataField) SetNumFmtID(id int) { df.numFmtID = id }

// ShowDataAs returns the secondary computation mode.
func (df *DataField) ShowDataAs() ShowDataAs { return df.showDataAs }

// BaseField returns the base field view, nil when the mode has none.
func (df *DataField) BaseField() *PivotField {
	if df.table == nil || df.baseField < 0 || df.baseField >= len(df.table.fields) {
		return nil
	}
	return df.table.fields[df.baseField]
}

// BaseItem returns the base item: an item position, BaseItemPrevious or
// BaseItemNext.
func (df *DataField) BaseItem() int { return df.baseItem }

// validate checks a base field and an optional base item for the value
// field.
func (df *DataField) validate(base *PivotField, baseItem *int) error {
	if base.table != df.table {
		return ErrCrossTableReference
	}
	if base.index == df.field {
		return ErrSelfReference
	}
	if baseItem == nil || *baseItem == BaseItemPrevious || *baseItem == BaseItemNext {
		return nil
	}
	if *baseItem < 0 || *baseItem >= len(base.items) {
		return newBaseItemOutOfRangeError(*baseItem, len(base.items))
	}
	return nil
}

// SetShowDataAs sets the secondary computation mode. Modes relative to a
// field need base; modes relative to an item need baseItem as well, which is
// an item position of base, BaseItemPrevious or BaseItemNext.
func (df *DataField) SetShowDataAs(mode ShowDataAs, base *PivotField, baseItem int) error {
	if df.table == nil {
		return ErrTableNotDependent
	}
	if _, ok := showDataAsNames[mode]; !ok {
		return fmt.Errorf("%w: show data as %d", ErrParameterInvalid, mode)
	}
	if base == nil {
		if mode.requiresBaseField() {
			return fmt.Errorf("%w: show data as %s requires a base field", ErrParameterInvalid, mode)
		}
		df.showDataAs, df.baseField, df.baseItem = mode, -1, 0
		return nil
	}
	var item *int
	if mode.requiresBaseItem() {
		item = &baseItem
	}
	if err := df.validate(base, item); err != nil {
		return err
	}
	df.showDataAs, df.baseField, df.baseItem = mode, base.index, 0
	if item != nil {
		df.baseItem = baseItem
	}
	return nil
}

// SetNormal shows the plain summarized values.
func (df *DataField) SetNormal() error { return df.SetShowDataAs(ShowDataAsNormal, nil, 0) }

// SetPercentOfTotal shows values as a percentage of the grand total.
func (df *DataField) SetPercentOfTotal() error {
	return df.SetShowDataAs(ShowDataAsPercentOfTotal, nil, 0)
}

// SetPercentOfRow shows values as a percentage of the row total.
func (df *DataField) SetPercentOfRow() error { return df.SetShowDataAs(ShowDataAsPercentOfRow, nil, 0) }

// SetPercentOfColumn shows values as a percentage of the column total.
func (df *DataField) SetPercentOfColumn() error {
	return df.SetShowDataAs(ShowDataAsPercentOfColumn, nil, 0)
}

// SetIndex shows the index of every value.
func (df *DataField) SetIndex() error { return df.SetShowDataAs(ShowDataAsIndex, nil, 0) }

// SetPercent shows values as a percentage of the base item of base.
func (df *DataField) SetPercent(base *PivotField, baseItem int) error {
	return df.SetShowDataAs(ShowDataAsPercent, base, baseItem)
}

// SetDifference shows the difference to the base item of base.
func (df *DataField) SetDifference(base *PivotField, baseItem int) error {
	return df.SetShowDataAs(ShowDataAsDifference, base, baseItem)
}

// SetPercentDifference shows the percentage difference to the base item of
// base.
func (df *DataField) SetPercentDifference(base *PivotField, baseItem int) error {
	return df.SetShowDataAs(ShowDataAsPercentDifference, base, baseItem)
}

// SetPercentOfParent shows values as a percentage of the parent item total
// of base.
func (df *DataField) SetPercentOfParent(base *PivotField) error {
	return df.SetShowDataAs(ShowDataAsPercentOfParent, base, 0)
}

// SetPercentOfParentRow shows values as a percentage of the parent row
// total.
func (df *DataField) SetPercentOfParentRow() error {
	return df.SetShowDataAs(ShowDataAsPercentOfParentRow, nil, 0)
}

// SetPercentOfParentColumn shows values as a percentage of the parent column
// total.
func (df *DataField) SetPercentOfParentColumn() error {
	return df.SetShowDataAs(ShowDataAsPercentOfParentColumn, nil, 0)
}

// SetRunningTotal shows running totals along base.
func (df *DataField) SetRunningTotal(base *PivotField) error {
	return df.SetShowDataAs(ShowDataAsRunningTotal, base, 0)
}

// SetPercentOfRunningTotal shows running totals along base as percentages.
func (df *DataField) SetPercentOfRunningTotal(base *PivotField) error {
	return df.SetShowDataAs(ShowDataAsPercentOfRunningTotal, base, 0)
}

// SetRank ranks values within base.
func (df *DataField) SetRank(base *PivotField, ascending bool) error {
	mode := ShowDataAsRankDescending
	if ascending {
		mode = ShowDataAsRankAscending
	}
	return df.SetShowDataAs(mode, base, 0)
}
