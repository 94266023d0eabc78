// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// styleCacheCapacity bounds the number of memoized style decisions.
const styleCacheCapacity = 256

// ExcelizeReader implements RangeReader over an excelize workbook. Numeric
// cells whose number format is a date or time format are read as
// date-times.
type ExcelizeReader struct {
	file     *excelize.File
	numFmts  NumFmtRegistry
	date1904 bool
	styles   *lruCache[int, bool]
	rows     *sheetDataCache
}

// NewExcelizeReader returns a reader over the workbook. The Date1904 option
// selects the 1904 date system; when unset the workbook properties decide.
func NewExcelizeReader(f *excelize.File, opts ...Options) *ExcelizeReader {
	o := getOptions(opts...)
	r := &ExcelizeReader{file: f, numFmts: o.NumFmts, date1904: o.Date1904, styles: newLRUCache[int, bool](styleCacheCapacity), rows: newSheetDataCache()}
	if !r.date1904 {
		if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			r.date1904 = *props.Date1904
		}
	}
	return r
}

// Reset drops the memoized worksheet rows and style decisions, so the next
// read observes the current workbook content. Pivot caches reset their
// reader before every refresh.
func (r *ExcelizeReader) Reset() {
	r.rows.clear()
	r.styles.Clear()
}

// CellValue returns the typed value of a cell.
func (r *ExcelizeReader) CellValue(sheet string, col, row int) (Value, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Value{}, err
	}
	typ, err := r.file.GetCellType(sheet, cell)
	if err != nil {
		return Value{}, err
	}
	raw, err := r.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, err
	}
	if raw == "" {
		return EmptyValue(), nil
	}
	switch typ {
	case excelize.CellTypeBool:
		return BoolValue(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeError:
		return ErrorValue(raw), nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return DateTimeValue(t), nil
			}
		}
		return StringValue(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return StringValue(raw), nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return StringValue(raw), nil
	}
	isDate, err := r.isDateCell(sheet, cell)
	if err != nil {
		return Value{}, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(n, r.date1904)
		if err == nil {
			// serial conversion carries floating point noise below a millisecond
			return DateTimeValue(t.Round(time.Millisecond)), nil
		}
	}
	return NumberValue(n), nil
}

// isDateCell reports whether the cell's number format is a date or time
// format. Decisions are memoized per style index.
func (r *ExcelizeReader) isDateCell(sheet, cell string) (bool, error) {
	idx, err := r.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if isDate, ok := r.styles.Load(idx); ok {
		return isDate, nil
	}
	style, err := r.file.GetStyle(idx)
	if err != nil {
		return false, err
	}
	var code string
	if style.CustomNumFmt != nil {
		code = *style.CustomNumFmt
	} else {
		code, _ = r.numFmts.FormatCode(style.NumFmt)
	}
	isDate := isDateFormat(code)
	r.styles.Store(idx, isDate)
	return isDate, nil
}

// LastRow returns the last row holding a non-empty cell between the columns.
func (r *ExcelizeReader) LastRow(sheet string, firstCol, lastCol int) (int, error) {
	rows, err := r.rows.rows(r.file, sheet)
	if err != nil {
		return 0, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		for c := firstCol - 1; c < lastCol && c < len(rows[i]); c++ {
			if strings.TrimSpace(rows[i][c]) != "" {
				return i + 1, nil
			}
		}
	}
	return 0, nil
}

// DefinedName returns the reference of a workbook defined name. Workbook
// scoped names take precedence over sheet scoped names.
func (r *ExcelizeReader) DefinedName(name string) (string, error) {
	var found *excelize.DefinedName
	for _, dn := range r.file.GetDefinedName() {
		if !strings.EqualFold(dn.Name, name) {
			continue
		}
		dn := dn
		if found == nil || dn.Scope == "Workbook" {
			found = &dn
		}
	}
	if found == nil {
		return "", fmt.Errorf("defined name %q does not exist", name)
	}
	return found.RefersTo, nil
}

// Table returns the worksheet and range of a table.
func (r *ExcelizeReader) Table(name string) (string, string, error) {
	for _, sheet := range r.file.GetSheetList() {
		tables, err := r.file.GetTables(sheet)
		if err != nil {
			return "", "", err
		}
		for _, t := range tables {
			if strings.EqualFold(t.Name, name) {
				return sheet, t.Range, nil
			}
		}
	}
	return "", "", fmt.Errorf("table %q does not exist", name)
}
