// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestSheetDataCache(t *testing.T) {
	f := excelize.NewFile()
	defer func() { assert.NoError(t, f.Close()) }()
	assert.NoError(t, f.SetCellValue("Sheet1", "A1", "Region"))
	assert.NoError(t, f.SetCellValue("Sheet1", "A2", "East"))

	c := newSheetDataCache()
	rows, err := c.rows(f, "Sheet1")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"Region"}, {"East"}}, rows)
	assert.Equal(t, 1, c.len())

	// Cached rows don't observe later writes until cleared
	assert.NoError(t, f.SetCellValue("Sheet1", "A3", "West"))
	rows, err = c.rows(f, "Sheet1")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	c.clear()
	assert.Equal(t, 0, c.len())
	rows, err = c.rows(f, "Sheet1")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = c.rows(f, "SheetN")
	assert.EqualError(t, err, "sheet SheetN does not exist")
	assert.Equal(t, 1, c.len())
}
