// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/pivotcache"
	"go.uber.org/zap"
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group FILE",
	Short: "Group a field and print its group items",
	Long: `Adds a pivot table with the field on rows and groups it.

Date fields are grouped by one or more granularities (--by years,months);
numeric fields by --start, --end and --interval. Date bounds use the
2006-01-02 layout and default to the earliest and latest dates.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroup,
}

func init() {
	RootCmd.AddCommand(groupCmd)
	groupCmd.Flags().String("field", "", "Field to group.")
	groupCmd.Flags().StringSlice("by", nil, "Date granularities: seconds, minutes, hours, days, months, quarters, years.")
	groupCmd.Flags().String("start", "", "Start of the grouping range.")
	groupCmd.Flags().String("end", "", "End of the grouping range.")
	groupCmd.Flags().Float64("interval", 0, "Bucket size of numeric groups, or days when grouping by days.")
	_ = groupCmd.MarkFlagRequired("field")
}

func runGroup(cmd *cobra.Command, args []string) error {
	f, pc, err := openCache(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	field, _ := cmd.Flags().GetString("field")
	by, _ := cmd.Flags().GetStringSlice("by")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	interval, _ := cmd.Flags().GetFloat64("interval")

	pt, err := pc.AddPivotTable("PivotTable1")
	if err != nil {
		return err
	}
	if err = pt.AddRowField(field); err != nil {
		return err
	}
	if len(by) > 0 {
		opts := pivotcache.DateGroupOptions{Interval: int(interval)}
		for _, name := range by {
			g, err := pivotcache.ParseDateGroupBy(name)
			if err != nil {
				return err
			}
			opts.GroupBy |= g
		}
		if opts.Start, err = parseDate(start); err != nil {
			return err
		}
		if opts.End, err = parseDate(end); err != nil {
			return err
		}
		err = pt.GroupDates(field, opts)
	} else {
		var lo, hi float64
		if _, err = fmt.Sscan(start, &lo); err != nil {
			return fmt.Errorf("%w: start %q", pivotcache.ErrInvalidGrouping, start)
		}
		if _, err = fmt.Sscan(end, &hi); err != nil {
			return fmt.Errorf("%w: end %q", pivotcache.ErrInvalidGrouping, end)
		}
		err = pt.GroupNumeric(field, lo, hi, interval)
	}
	if err != nil {
		return err
	}
	logger.Info("field grouped", zap.String("field", field), zap.Int("fields", len(pc.Fields())))
	for _, pf := range pt.RowFields() {
		var labels []string
		for _, v := range pf.CacheField().Items() {
			labels = append(labels, v.String())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", pf.Name(), strings.Join(labels, ", "))
	}
	return nil
}

// parseDate parses a date flag, the zero time when s is empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", pivotcache.ErrInvalidGrouping, err)
	}
	return t, nil
}
