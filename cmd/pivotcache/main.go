// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command pivotcache builds pivot caches over .xlsx workbooks, groups their
// fields, exports snapshots and summarizes records with DuckDB.
package main

import "github.com/xuri/pivotcache/cmd/pivotcache/cmd"

func main() {
	cmd.Execute()
}
