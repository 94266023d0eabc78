// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"sync"

	"github.com/xuri/excelize/v2"
)

// sheetDataCache memoizes the raw rows of worksheets for the duration of a
// refresh, so resolving the last row of several columns of the same sheet
// reads it once.
type sheetDataCache struct {
	mu    sync.RWMutex
	cache map[string][][]string
}

// newSheetDataCache creates an empty sheet data cache.
func newSheetDataCache() *sheetDataCache {
	return &sheetDataCache{cache: make(map[string][][]string)}
}

// rows returns the cached raw rows of a sheet, reading them on a miss.
func (c *sheetDataCache) rows(f *excelize.File, sheet string) ([][]string, error) {
	c.mu.RLock()
	if rows, ok := c.cache[sheet]; ok {
		c.mu.RUnlock()
		return rows, nil
	}
	c.mu.RUnlock()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cache[sheet]; ok {
		return existing, nil
	}
	c.cache[sheet] = rows
	return rows, nil
}

// clear drops every cached sheet.
func (c *sheetDataCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][][]string)
}

// len returns the number of cached sheets.
func (c *sheetDataCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
