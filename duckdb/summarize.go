// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xuri/pivotcache"
)

// Row is one line of a summary: a row field label and the aggregated value.
// Valid is false when no value of the group could be aggregated.
type Row struct {
	Label string
	Value float64
	Valid bool
}

// aggregateExpr returns the SQL aggregate of a summarize function over a
// VARCHAR column.
func aggregateExpr(fn pivotcache.DataConsolidateFunction, col string) (string, error) {
	num := fmt.Sprintf("TRY_CAST(%s AS DOUBLE)", col)
	switch fn {
	case pivotcache.FunctionNone, pivotcache.FunctionSum:
		return "SUM(" + num + ")", nil
	case pivotcache.FunctionCount:
		return "COUNT(" + col + ")", nil
	case pivotcache.FunctionCountNums:
		return "COUNT(" + num + ")", nil
	case pivotcache.FunctionAverage:
		return "AVG(" + num + ")", nil
	case pivotcache.FunctionMax:
		return "MAX(" + num + ")", nil
	case pivotcache.FunctionMin:
		return "MIN(" + num + ")", nil
	case pivotcache.FunctionProduct:
		return "PRODUCT(" + num + ")", nil
	case pivotcache.FunctionStdDev:
		return "STDDEV_SAMP(" + num + ")", nil
	case pivotcache.FunctionStdDevP:
		return "STDDEV_POP(" + num + ")", nil
	case pivotcache.FunctionVar:
		return "VAR_SAMP(" + num + ")", nil
	case pivotcache.FunctionVarP:
		return "VAR_POP(" + num + ")", nil
	}
	return "", fmt.Errorf("unsupported summarize function %d", fn)
}

// Summarize aggregates the values of dataField grouped by the values of
// rowField in a loaded snapshot. Groups are ordered by the first record
// holding their label; blank labels are reported as "(blank)".
func (e *Engine) Summarize(ctx context.Context, snapshotID, rowField, dataField string, fn pivotcache.DataConsolidateFunction) ([]Row, error) {
	info, ok := e.Table(snapshotID)
	if !ok {
		return nil, fmt.Errorf("snapshot %s not loaded", snapshotID)
	}
	rowCol, dataCol := columnIndex(info.Columns, rowField), columnIndex(info.Columns, dataField)
	if rowCol == -1 {
		return nil, fmt.Errorf("%w: %q", pivotcache.ErrFieldNotFound, rowField)
	}
	if dataCol == -1 {
		return nil, fmt.Errorf("%w: %q", pivotcache.ErrFieldNotFound, dataField)
	}
	agg, err := aggregateExpr(fn, columnName(dataCol))
	if err != nil {
		return nil, err
	}
	key := strings.Join([]string{snapshotID, columnName(rowCol), agg}, "|")
	if rows, ok := e.results.Get(key); ok {
		return rows, nil
	}
	query := fmt.Sprintf(
		"SELECT COALESCE(%[1]s, '(blank)') AS label, CAST(%[2]s AS DOUBLE) AS value FROM %[3]s GROUP BY %[1]s ORDER BY MIN(rn)",
		columnName(rowCol), agg, info.TableName,
	)
	e.mu.RLock()
	defer e.mu.RUnlock()
	res, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}
	defer res.Close()

	var rows []Row
	for res.Next() {
		var (
			label string
			value sql.NullFloat64
		)
		if err := res.Scan(&label, &value); err != nil {
			return nil, err
		}
		rows = append(rows, Row{Label: label, Value: value.Float64, Valid: value.Valid})
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	e.results.Set(key, rows)
	return rows, nil
}

// columnIndex returns the position of a column name, compared
// case-insensitively, or -1.
func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
