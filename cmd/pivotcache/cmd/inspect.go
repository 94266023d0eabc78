// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xuri/pivotcache"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the fields of a pivot cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, pc, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "source %s, %d records\n", pc.Source(), len(pc.Records()))
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tTYPES\tMIXED\tITEMS")
		for _, cf := range pc.Fields() {
			fmt.Fprintf(w, "%s\t%s\t%t\t%d\n", cf.Name(), typeNames(cf.TypeFlags()), cf.ContainsMixedTypes(), cf.ItemCount())
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

// typeNames lists the value types of a field, "-" for calculated fields.
func typeNames(flags pivotcache.TypeFlags) string {
	var names []string
	for _, t := range []struct {
		flag pivotcache.TypeFlags
		name string
	}{
		{pivotcache.TypeString, "string"},
		{pivotcache.TypeInteger, "integer"},
		{pivotcache.TypeFloat, "float"},
		{pivotcache.TypeDateTime, "datetime"},
		{pivotcache.TypeBoolean, "boolean"},
		{pivotcache.TypeError, "error"},
		{pivotcache.TypeEmpty, "blank"},
	} {
		if flags.Has(t.flag) {
			names = append(names, t.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
