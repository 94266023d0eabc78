// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"sync"

	"github.com/xuri/nfp"
)

// NumFmtRegistry resolves number format identifiers to format codes and
// registers new codes.
type NumFmtRegistry interface {
	// FormatCode returns the format code of a number format id.
	FormatCode(id int) (string, bool)
	// Register returns the id of a format code, adding it when it is new.
	Register(code string) int
}

// firstCustomNumFmtID is the first id available to custom number formats.
const firstCustomNumFmtID = 164

// builtInNumFmt defined the built-in number format codes of the
// spreadsheet application.
var builtInNumFmt = map[int]string{
	0:  "general",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// numFmtTable is the default NumFmtRegistry: the built-in formats plus
// custom formats numbered from 164.
type numFmtTable struct {
	mu     sync.Mutex
	codes  map[int]string
	ids    map[string]int
	nextID int
}

// NewNumFmtRegistry returns a registry holding the built-in number formats.
func NewNumFmtRegistry() NumFmtRegistry {
	t := &numFmtTable{codes: make(map[int]string), ids: make(map[string]int), nextID: firstCustomNumFmtID}
	for id, code := range builtInNumFmt {
		t.codes[id] = code
		t.ids[code] = id
	}
	return t
}

// FormatCode returns the format code of a number format id.
func (t *numFmtTable) FormatCode(id int) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	code, ok := t.codes[id]
	return code, ok
}

// Register returns the id of a format code, adding it when it is new.
func (t *numFmtTable) Register(code string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[code]; ok {
		return id
	}
	id := t.nextID
	t.nextID++
	t.codes[id], t.ids[code] = code, id
	return id
}

// isDateFormat reports whether a number format code formats date or time
// values. Only the first section decides, as it applies to positive
// numbers.
func isDateFormat(code string) bool {
	if code == "" || code == "general" || code == "@" {
		return false
	}
	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	if len(sections) == 0 {
		return false
	}
	for _, token := range sections[0].Items {
		if token.TType == nfp.TokenTypeDateTimes || token.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	return false
}
