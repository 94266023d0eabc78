// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SourceKind is the kind of a pivot cache source reference.
type SourceKind byte

// This section defines the supported pivot cache source kinds.
const (
	SourceWorksheet SourceKind = iota
	SourceNamedRange
	SourceTable
)

// Source references the tabular data of a pivot cache: a worksheet range, a
// defined name or a table. It is resolved lazily on every refresh.
type Source struct {
	Kind  SourceKind
	Sheet string
	Ref   string
	Name  string
}

// WorksheetSource returns a source referencing a range such as "A1:D20" on
// the given worksheet.
func WorksheetSource(sheet, ref string) Source {
	return Source{Kind: SourceWorksheet, Sheet: sheet, Ref: ref}
}

// NamedRangeSource returns a source referencing a workbook defined name.
func NamedRangeSource(name string) Source {
	return Source{Kind: SourceNamedRange, Name: name}
}

// TableSource returns a source referencing a worksheet table by name.
func TableSource(name string) Source {
	return Source{Kind: SourceTable, Name: name}
}

// String returns the source in reference notation.
func (s Source) String() string {
	switch s.Kind {
	case SourceNamedRange:
		return "name " + s.Name
	case SourceTable:
		return "table " + s.Name
	}
	return fmt.Sprintf("'%s'!%s", s.Sheet, s.Ref)
}

// RangeReader is the worksheet cell store a pivot cache reads its source
// from. Column and row numbers are 1-based.
type RangeReader interface {
	// CellValue returns the typed value of a cell.
	CellValue(sheet string, col, row int) (Value, error)
	// LastRow returns the last row holding data within the columns.
	LastRow(sheet string, firstCol, lastCol int) (int, error)
	// DefinedName returns the reference of a workbook defined name, such as
	// "Sheet1!$A$1:$D$20".
	DefinedName(name string) (string, error)
	// Table returns the worksheet and range of a table.
	Table(name string) (sheet, ref string, err error)
}

// resetter is implemented by readers memoizing workbook content.
type resetter interface {
	Reset()
}

// Rect is a resolved source rectangle. The first row holds headers.
type Rect struct {
	Sheet    string
	FirstCol int
	FirstRow int
	LastCol  int
	LastRow  int
}

// Columns returns the number of columns of the rectangle.
func (r Rect) Columns() int { return r.LastCol - r.FirstCol + 1 }

// Rows returns the number of rows of the rectangle, headers included.
func (r Rect) Rows() int { return r.LastRow - r.FirstRow + 1 }

// Ref returns the rectangle in A1:B2 notation.
func (r Rect) Ref() string {
	tl, _ := excelize.CoordinatesToCellName(r.FirstCol, r.FirstRow)
	br, _ := excelize.CoordinatesToCellName(r.LastCol, r.LastRow)
	return tl + ":" + br
}

// resolveSource resolves a source to a rectangle of at least two rows. The
// last row is clipped to the reader's last row with data.
func resolveSource(reader RangeReader, src Source) (Rect, error) {
	sheet, ref := src.Sheet, src.Ref
	switch src.Kind {
	case SourceNamedRange:
		refersTo, err := reader.DefinedName(src.Name)
		if err != nil {
			// persisted table sources carry the table name only
			if sheet, ref, err = reader.Table(src.Name); err != nil {
				return Rect{}, newInvalidSourceError(src, err.Error())
			}
			break
		}
		if sheet, ref, err = splitSheetRef(refersTo); err != nil {
			return Rect{}, newInvalidSourceError(src, err.Error())
		}
	case SourceTable:
		var err error
		if sheet, ref, err = reader.Table(src.Name); err != nil {
			return Rect{}, newInvalidSourceError(src, err.Error())
		}
	}
	rect, err := parseRect(sheet, ref)
	if err != nil {
		return Rect{}, newInvalidSourceError(src, err.Error())
	}
	last, err := reader.LastRow(rect.Sheet, rect.FirstCol, rect.LastCol)
	if err != nil {
		return Rect{}, newInvalidSourceError(src, err.Error())
	}
	if last < rect.LastRow {
		rect.LastRow = last
	}
	if rect.Rows() < 2 {
		return Rect{}, newInvalidSourceError(src, "range needs a header row and at least one data row")
	}
	return rect, nil
}

// splitSheetRef splits a reference such as "'My Sheet'!$A$1:$B$4".
func splitSheetRef(refersTo string) (string, string, error) {
	refersTo = strings.TrimPrefix(strings.TrimSpace(refersTo), "=")
	i := strings.LastIndex(refersTo, "!")
	if i <= 0 {
		return "", "", ErrParameterInvalid
	}
	sheet := strings.Trim(refersTo[:i], "'")
	return strings.ReplaceAll(sheet, "''", "'"), refersTo[i+1:], nil
}

// parseRect parses a range reference such as "$A$1:$D$20".
func parseRect(sheet, ref string) (Rect, error) {
	if sheet == "" {
		return Rect{}, ErrParameterInvalid
	}
	cells := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	if len(cells) != 2 {
		return Rect{}, fmt.Errorf("%w: range %q", ErrParameterInvalid, ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(cells[0])
	if err != nil {
		return Rect{}, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(cells[1])
	if err != nil {
		return Rect{}, err
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return Rect{Sheet: sheet, FirstCol: c1, FirstRow: r1, LastCol: c2, LastRow: r2}, nil
}

// sourceData is the content of a resolved source read before any cache
// mutation, so a read failure leaves the cache untouched.
type sourceData struct {
	rect    Rect
	headers []string
	columns [][]Value
}

// readSource reads the headers and column values of a rectangle. Blank
// headers fail with ErrMissingColumnHeader.
func readSource(reader RangeReader, rect Rect) (*sourceData, error) {
	data := &sourceData{
		rect:    rect,
		headers: make([]string, rect.Columns()),
		columns: make([][]Value, rect.Columns()),
	}
	for c := 0; c < rect.Columns(); c++ {
		col := rect.FirstCol + c
		header, err := reader.CellValue(rect.Sheet, col, rect.FirstRow)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(header.String())
		if text == "" {
			cell, _ := excelize.CoordinatesToCellName(col, rect.FirstRow)
			return nil, newMissingColumnHeaderError(rect.Sheet, cell)
		}
		data.headers[c] = text
		values := make([]Value, 0, rect.Rows()-1)
		for row := rect.FirstRow + 1; row <= rect.LastRow; row++ {
			v, err := reader.CellValue(rect.Sheet, col, row)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		data.columns[c] = values
	}
	return data, nil
}
