// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"strings"

	"github.com/xuri/efp"
)

// formulaFieldReferences extracts the field names a calculated field formula
// refers to, in order of first appearance. Quoted names such as 'Unit Price'
// are unquoted.
func formulaFieldReferences(formula string) []string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	var (
		names []string
		seen  = make(map[string]bool)
	)
	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		name := strings.TrimSpace(token.TValue)
		if len(name) > 1 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
			name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
		}
		if name == "" || seen[foldKey(name)] {
			continue
		}
		seen[foldKey(name)] = true
		names = append(names, name)
	}
	return names
}

// checkFormulaReferences logs a warning for formula references which don't
// name a field of the cache. Unknown names are kept, the formula evaluator
// reports them.
func (pc *PivotCache) checkFormulaReferences(cf *CacheField) {
	for _, name := range cf.FormulaReferences() {
		if pc.fieldIndex(name) == -1 {
			pc.log.Warn("calculated field refers to unknown field", Fields{
				"cache": pc.uid, "field": cf.name, "reference": name,
			})
		}
	}
}
