// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrouping defined the error message on invalid grouping start,
	// end or interval.
	ErrInvalidGrouping = errors.New("invalid grouping range or interval")
	// ErrUnsupportedGrouping defined the error message on unrecognized or
	// incomplete grouping granularity.
	ErrUnsupportedGrouping = errors.New("unsupported grouping")
	// ErrGroupingAlreadyExists defined the error message on grouping a field
	// in a pivot table which already contains a grouped field.
	ErrGroupingAlreadyExists = errors.New("pivot table already contains a grouped field")
	// ErrMissingColumnHeader defined the error message on blank source column
	// header.
	ErrMissingColumnHeader = errors.New("source column header is blank")
	// ErrCrossTableReference defined the error message on using a base field
	// from another pivot table.
	ErrCrossTableReference = errors.New("base field belongs to another pivot table")
	// ErrSelfReference defined the error message on using the data field's own
	// field as base field.
	ErrSelfReference = errors.New("base field must not be the data field itself")
	// ErrBaseItemOutOfRange defined the error message on base item index out of
	// the base field items range.
	ErrBaseItemOutOfRange = errors.New("base item is out of range")
	// ErrFormulaOnDatabaseField defined the error message on setting a formula
	// for a source backed cache field.
	ErrFormulaOnDatabaseField = errors.New("cannot set formula on a database field")
	// ErrBlankFormula defined the error message on empty calculated field
	// formula.
	ErrBlankFormula = errors.New("formula must not be blank")
	// ErrInvalidSource defined the error message on pivot cache source which
	// can't be resolved to a range with a header row and at least one data row.
	ErrInvalidSource = errors.New("invalid pivot cache source")
	// ErrFieldNotFound defined the error message on unknown cache field.
	ErrFieldNotFound = errors.New("field not found")
	// ErrFieldNameExists defined the error message on duplicate field name.
	ErrFieldNameExists = errors.New("field name already exists")
	// ErrFieldNotOnAxis defined the error message on grouping a field which
	// isn't on the row or column axis.
	ErrFieldNotOnAxis = errors.New("field must be on the row or column axis")
	// ErrFormulaFieldGrouping defined the error message on grouping a
	// calculated field.
	ErrFormulaFieldGrouping = errors.New("calculated fields can't be grouped")
	// ErrTableNotDependent defined the error message on using a pivot table
	// with a cache it doesn't depend on.
	ErrTableNotDependent = errors.New("pivot table does not use this cache")
	// ErrParameterInvalid defined the error message on receive the invalid
	// parameter.
	ErrParameterInvalid = errors.New("parameter is invalid")
)

// newInvalidNumericGroupingError defined the error message on invalid numeric
// grouping range.
func newInvalidNumericGroupingError(start, end, interval float64) error {
	return fmt.Errorf("%w: start %g, end %g, interval %g", ErrInvalidGrouping, start, end, interval)
}

// newInvalidDateGroupingError defined the error message on invalid date
// grouping range.
func newInvalidDateGroupingError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidGrouping, reason)
}

// newUnsupportedGroupingError defined the error message on unsupported date
// grouping granularity combination.
func newUnsupportedGroupingError(groupBy DateGroupBy) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedGrouping, groupBy)
}

// newGroupingAlreadyExistsError defined the error message on grouping a field
// when another field of the pivot table is grouped.
func newGroupingAlreadyExistsError(table, field string) error {
	return fmt.Errorf("%w: pivot table %q field %q", ErrGroupingAlreadyExists, table, field)
}

// newMissingColumnHeaderError defined the error message on blank header cell.
func newMissingColumnHeaderError(sheet, cell string) error {
	return fmt.Errorf("%w: %s!%s", ErrMissingColumnHeader, sheet, cell)
}

// newInvalidSourceError defined the error message on unresolvable pivot cache
// source.
func newInvalidSourceError(src Source, reason string) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidSource, src, reason)
}

// newFieldNotFoundError defined the error message on unknown field name.
func newFieldNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// newFieldNameExistsError defined the error message on duplicate field name.
func newFieldNameExistsError(name string) error {
	return fmt.Errorf("%w: %q", ErrFieldNameExists, name)
}

// newBaseItemOutOfRangeError defined the error message on base item index out
// of range.
func newBaseItemOutOfRangeError(item, count int) error {
	return fmt.Errorf("%w: item %d, field has %d items", ErrBaseItemOutOfRange, item, count)
}

// newFormulaOnDatabaseFieldError defined the error message on set formula for
// database field.
func newFormulaOnDatabaseFieldError(name string) error {
	return fmt.Errorf("%w: %q", ErrFormulaOnDatabaseField, name)
}

// newFieldNotOnAxisError defined the error message on grouping a field which
// isn't placed on the row or column axis.
func newFieldNotOnAxisError(table, field string) error {
	return fmt.Errorf("%w: pivot table %q field %q", ErrFieldNotOnAxis, table, field)
}
