// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ValueType is the type of a cached cell value.
type ValueType byte

// This section defines the currently supported cached value types.
const (
	ValueEmpty ValueType = iota
	ValueString
	ValueInteger
	ValueFloat
	ValueDateTime
	ValueBoolean
	ValueError
)

// String returns the shared item element name of the value type.
func (t ValueType) String() string {
	switch t {
	case ValueString:
		return "s"
	case ValueInteger, ValueFloat:
		return "n"
	case ValueDateTime:
		return "d"
	case ValueBoolean:
		return "b"
	case ValueError:
		return "e"
	}
	return "m"
}

// excelEpoch is the zero point of spreadsheet date serials and the anchor
// durations are stored against.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Value is a typed cell value decided once when the value is read from the
// source. All classification, comparison and serialization logic switches on
// Type.
type Value struct {
	Type   ValueType
	Str    string
	Number float64
	Time   time.Time
	Bool   bool
}

// EmptyValue returns a blank value.
func EmptyValue() Value { return Value{} }

// StringValue returns a text value.
func StringValue(s string) Value { return Value{Type: ValueString, Str: s} }

// NumberValue returns an integer value when the fractional part of n is zero,
// otherwise a float value.
func NumberValue(n float64) Value {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return Value{Type: ValueInteger, Number: n}
	}
	return Value{Type: ValueFloat, Number: n}
}

// DateTimeValue returns a date-time value.
func DateTimeValue(t time.Time) Value { return Value{Type: ValueDateTime, Time: t} }

// DurationValue returns a duration value. Durations are classified as
// date-times, anchored at the spreadsheet epoch.
func DurationValue(d time.Duration) Value {
	return Value{Type: ValueDateTime, Time: excelEpoch.Add(d)}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Type: ValueBoolean, Bool: b} }

// ErrorValue returns a formula error value such as #N/A.
func ErrorValue(code string) Value { return Value{Type: ValueError, Str: code} }

// ValueOf converts a Go value to a cached value. Nil and empty strings become
// blank values; unsupported types are rendered as text.
func ValueOf(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return EmptyValue()
	case Value:
		return val
	case string:
		if val == "" {
			return EmptyValue()
		}
		return StringValue(val)
	case []byte:
		return ValueOf(string(val))
	case int:
		return NumberValue(float64(val))
	case int8:
		return NumberValue(float64(val))
	case int16:
		return NumberValue(float64(val))
	case int32:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case uint:
		return NumberValue(float64(val))
	case uint8:
		return NumberValue(float64(val))
	case uint16:
		return NumberValue(float64(val))
	case uint32:
		return NumberValue(float64(val))
	case uint64:
		return NumberValue(float64(val))
	case float32:
		return NumberValue(float64(val))
	case float64:
		return NumberValue(val)
	case bool:
		return BoolValue(val)
	case time.Time:
		return DateTimeValue(val)
	case time.Duration:
		return DurationValue(val)
	case error:
		return ErrorValue(val.Error())
	}
	return StringValue(strings.TrimSpace(toString(v)))
}

// IsNumber reports whether the value is an integer or a float.
func (v Value) IsNumber() bool {
	return v.Type == ValueInteger || v.Type == ValueFloat
}

// String returns the display text of the value.
func (v Value) String() string {
	switch v.Type {
	case ValueString, ValueError:
		return v.Str
	case ValueInteger, ValueFloat:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueDateTime:
		return v.Time.Format("2006-01-02T15:04:05")
	case ValueBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

// key returns the case-insensitive identity of the value used by cache
// lookups. Date-times are rounded to the nearest whole second so values
// differing only by sub-second floating error share one key.
func (v Value) key() string {
	switch v.Type {
	case ValueString:
		return "s:" + foldKey(v.Str)
	case ValueInteger, ValueFloat:
		return "n:" + strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueDateTime:
		return "d:" + strconv.FormatInt(roundSecond(v.Time).Unix(), 10)
	case ValueBoolean:
		return "b:" + strconv.FormatBool(v.Bool)
	case ValueError:
		return "e:" + strings.ToUpper(v.Str)
	}
	return ""
}

// roundSecond rounds t to the nearest whole second, halfway values round up.
func roundSecond(t time.Time) time.Time {
	return t.Round(time.Second)
}

// serial returns the spreadsheet serial number of a date-time value.
func (v Value) serial() float64 {
	return v.Time.Sub(excelEpoch).Hours() / 24
}

// foldKey returns the Unicode case folded form of s.
func foldKey(s string) string {
	return cases.Fold().String(s)
}

// equalFold reports whether a and b are equal under Unicode case folding.
func equalFold(a, b string) bool {
	return foldKey(a) == foldKey(b)
}

// hasPrefixFold reports whether s begins with prefix under Unicode case
// folding.
func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(foldKey(s), foldKey(prefix))
}
