// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xuri/pivotcache"
	"github.com/xuri/pivotcache/duckdb"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE",
	Short: "Summarize a value field by a row field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetString("rows")
		values, _ := cmd.Flags().GetString("values")
		function, _ := cmd.Flags().GetString("function")
		fn, err := pivotcache.ParseDataConsolidateFunction(function)
		if err != nil {
			return err
		}
		f, pc, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		engine, err := duckdb.NewEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		snapshot := pc.Snapshot()
		if _, err = engine.LoadSnapshot(cmd.Context(), snapshot); err != nil {
			return err
		}
		result, err := engine.Summarize(cmd.Context(), snapshot.ID, rows, values, fn)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", rows, fn.String())
		for _, r := range result {
			value := ""
			if r.Valid {
				value = strconv.FormatFloat(r.Value, 'f', -1, 64)
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Label, value)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().String("rows", "", "Row field.")
	summarizeCmd.Flags().String("values", "", "Value field.")
	summarizeCmd.Flags().String("function", "sum", "Summarize function: sum, count, average, max, min, product, countNums, stdDev, stdDevp, var, varp.")
	_ = summarizeCmd.MarkFlagRequired("rows")
	_ = summarizeCmd.MarkFlagRequired("values")
}
