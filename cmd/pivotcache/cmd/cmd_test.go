// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func prepareWorkbook(t *testing.T) string {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Region", "Date", "Amount"},
		{"East", time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC), 10},
		{"West", time.Date(2011, 7, 9, 0, 0, 0, 0, time.UTC), 5},
		{"East", time.Date(2012, 6, 15, 0, 0, 0, 0, time.UTC), 2.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "Book1.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	path := prepareWorkbook(t)
	out, err := execute(t, "inspect", path, "--sheet", "Sheet1", "--ref", "A1:C4")
	assert.NoError(t, err)
	assert.Contains(t, out, "3 records")
	assert.Regexp(t, `Region\s+string\s+false\s+2`, out)
	assert.Regexp(t, `Date\s+datetime\s+false\s+3`, out)
	assert.Regexp(t, `Amount\s+integer,float\s+false\s+3`, out)

	_, err = execute(t, "inspect", filepath.Join(t.TempDir(), "missing.xlsx"), "--sheet", "Sheet1", "--ref", "A1:C4")
	assert.Error(t, err)
}

func TestGroup(t *testing.T) {
	path := prepareWorkbook(t)
	out, err := execute(t, "group", path, "--sheet", "Sheet1", "--ref", "A1:C4",
		"--field", "Amount", "--start", "0", "--end", "10", "--interval", "5", "--by", "")
	assert.NoError(t, err)
	assert.Equal(t, "Amount: <0, 0-5, 5-10, >10\n", out)

	out, err = execute(t, "group", path, "--sheet", "Sheet1", "--ref", "A1:C4",
		"--field", "Date", "--by", "years", "--start", "", "--end", "", "--interval", "0")
	assert.NoError(t, err)
	assert.Contains(t, out, "2011, 2012")
}

func TestExport(t *testing.T) {
	path := prepareWorkbook(t)
	output := filepath.Join(t.TempDir(), "snapshot.json")
	_, err := execute(t, "export", path, "--sheet", "Sheet1", "--ref", "A1:C4", "--format", "json", "-o", output)
	assert.NoError(t, err)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	var snapshot struct {
		Columns []string   `json:"columns"`
		Records [][]string `json:"records"`
	}
	assert.NoError(t, json.Unmarshal(b, &snapshot))
	assert.Equal(t, []string{"Region", "Date", "Amount"}, snapshot.Columns)
	assert.Len(t, snapshot.Records, 3)

	_, err = execute(t, "export", path, "--sheet", "Sheet1", "--ref", "A1:C4", "--format", "yaml", "-o", output)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	path := prepareWorkbook(t)
	out, err := execute(t, "summarize", path, "--sheet", "Sheet1", "--ref", "A1:C4",
		"--rows", "Region", "--values", "Amount", "--function", "sum")
	assert.NoError(t, err)
	assert.Regexp(t, `East\s+12.5`, out)
	assert.Regexp(t, `West\s+5`, out)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("loud", "", os.Stderr)
	assert.Error(t, err)
	l, err := newLogger("info", filepath.Join(t.TempDir(), "pivotcache.log"), os.Stderr)
	assert.NoError(t, err)
	l.Info("ready")
	assert.NoError(t, l.Sync())
}
