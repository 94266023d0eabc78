// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

// Options define the options for pivot caches and source readers.
//
// Logger receives structured log entries, nil disables logging.
//
// Hooks receives cache events, nil disables them.
//
// NumFmts resolves number format ids; the built-in formats are used when
// nil.
//
// DefaultSubtotal specifies whether new pivot field views show a default
// subtotal, the default value is true.
//
// Date1904 specifies the workbook uses the 1904 date system.
type Options struct {
	Logger          Logger
	Hooks           Hooks
	NumFmts         NumFmtRegistry
	DefaultSubtotal *bool
	Date1904        bool
}

// getOptions returns the options with defaults applied. The last of opts
// wins.
func getOptions(opts ...Options) Options {
	var o Options
	for _, opt := range opts {
		o = opt
	}
	if o.Logger == nil {
		o.Logger = NopLogger{}
	}
	if o.Hooks == nil {
		o.Hooks = NopHooks{}
	}
	if o.NumFmts == nil {
		o.NumFmts = NewNumFmtRegistry()
	}
	if o.DefaultSubtotal == nil {
		o.DefaultSubtotal = boolPtr(true)
	}
	return o
}
