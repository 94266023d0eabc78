// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// GroupingKind is the kind of a cache field grouping.
type GroupingKind byte

// This section defines the supported grouping kinds.
const (
	GroupingNone GroupingKind = iota
	GroupingDate
	GroupingNumeric
)

// String returns the name of the grouping kind.
func (k GroupingKind) String() string {
	switch k {
	case GroupingDate:
		return "date"
	case GroupingNumeric:
		return "numeric"
	}
	return "none"
}

// DateGroupBy is a set of date grouping granularities.
type DateGroupBy uint8

// This section defines the date grouping granularities, from the finest to
// the coarsest.
const (
	GroupBySeconds DateGroupBy = 1 << iota
	GroupByMinutes
	GroupByHours
	GroupByDays
	GroupByMonths
	GroupByQuarters
	GroupByYears
)

// dateGroupOrder lists granularities in the order they are applied: the
// first requested one groups the field itself, later ones spawn chained
// fields.
var dateGroupOrder = []DateGroupBy{
	GroupBySeconds, GroupByMinutes, GroupByHours, GroupByDays,
	GroupByMonths, GroupByQuarters, GroupByYears,
}

// dateGroupNames maps granularities to the names used in the persisted
// rangePr groupBy attribute and for chained field names.
var dateGroupNames = map[DateGroupBy]string{
	GroupBySeconds:  "seconds",
	GroupByMinutes:  "minutes",
	GroupByHours:    "hours",
	GroupByDays:     "days",
	GroupByMonths:   "months",
	GroupByQuarters: "quarters",
	GroupByYears:    "years",
}

// ParseDateGroupBy parses a granularity name such as "months".
func ParseDateGroupBy(name string) (DateGroupBy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range dateGroupNames {
		if n == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedGrouping, name)
}

// String returns the granularity names joined by "|".
func (g DateGroupBy) String() string {
	var names []string
	for _, o := range dateGroupOrder {
		if g&o != 0 {
			names = append(names, dateGroupNames[o])
		}
	}
	if len(names) == 0 {
		return strconv.Itoa(int(g))
	}
	return strings.Join(names, "|")
}

// granularities splits the set in application order.
func (g DateGroupBy) granularities() []DateGroupBy {
	var out []DateGroupBy
	for _, o := range dateGroupOrder {
		if g&o != 0 {
			out = append(out, o)
		}
	}
	return out
}

// fieldName returns the name of a chained field for a single granularity.
func (g DateGroupBy) fieldName() string {
	n := dateGroupNames[g]
	return strings.ToUpper(n[:1]) + n[1:]
}

// Grouping describes how a cache field buckets its raw values. Date
// groupings carry one granularity each; BaseIndex is the cache field whose
// raw values are bucketed.
type Grouping struct {
	Kind      GroupingKind
	GroupBy   DateGroupBy
	StartDate time.Time
	EndDate   time.Time
	AutoStart bool
	AutoEnd   bool
	Start     float64
	End       float64
	Interval  float64
	BaseIndex int
}

// DateGroupOptions directly maps the settings of a date grouping. Zero Start
// or End requests an automatic bound taken from the field's items. Interval
// is a number of days and only applies when grouping by days alone.
type DateGroupOptions struct {
	GroupBy  DateGroupBy
	Start    time.Time
	End      time.Time
	Interval int
}

// formatGroupNumber renders a numeric bucket bound.
func formatGroupNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// numericGroupLabels generates numeric bucket labels: a leading "<start"
// sentinel, one "a-b" label per interval while a < end, and a trailing
// ">last" sentinel.
func numericGroupLabels(start, end, interval float64) ([]string, error) {
	if !(interval > 0) || start > end || math.IsNaN(start) || math.IsNaN(end) || math.IsInf(end-start, 0) {
		return nil, newInvalidNumericGroupingError(start, end, interval)
	}
	labels := []string{"<" + formatGroupNumber(start)}
	index := start
	for step := 1; index < end; step++ {
		next := start + float64(step)*interval
		labels = append(labels, formatGroupNumber(index)+"-"+formatGroupNumber(next))
		index = next
	}
	return append(labels, ">"+formatGroupNumber(index)), nil
}

// monthLabels and quarterLabels are the fixed labels of month and quarter
// groupings.
var (
	monthLabels   = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	quarterLabels = []string{"Qtr1", "Qtr2", "Qtr3", "Qtr4"}
)

// validateDateGroupBy checks the requested granularity combination.
func validateDateGroupBy(opts DateGroupOptions) error {
	var all DateGroupBy
	for _, g := range dateGroupOrder {
		all |= g
	}
	if opts.GroupBy == 0 || opts.GroupBy&^all != 0 {
		return newUnsupportedGroupingError(opts.GroupBy)
	}
	if opts.Interval < 0 {
		return newInvalidDateGroupingError(fmt.Sprintf("interval %d", opts.Interval))
	}
	if opts.Interval > 1 && opts.GroupBy != GroupByDays {
		return newUnsupportedGroupingError(opts.GroupBy)
	}
	return nil
}

// dateGroupLabels generates the labels of one granularity wrapped with the
// "<start" and ">end" sentinels.
func dateGroupLabels(groupBy DateGroupBy, start, end time.Time, interval int) ([]string, error) {
	if end.Before(start) {
		return nil, newInvalidDateGroupingError(fmt.Sprintf("end %s before start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly)))
	}
	labels := []string{"<" + start.Format(time.DateOnly)}
	switch groupBy {
	case GroupBySeconds, GroupByMinutes:
		labels = append(labels, twoDigitLabels(60)...)
	case GroupByHours:
		labels = append(labels, twoDigitLabels(24)...)
	case GroupByDays:
		if interval <= 1 {
			// canonical leap year
			day := time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 366; i++ {
				labels = append(labels, day.AddDate(0, 0, i).Format("02-Jan"))
			}
			break
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, interval) {
			labels = append(labels, d.Format(time.DateOnly))
		}
	case GroupByMonths:
		labels = append(labels, monthLabels...)
	case GroupByQuarters:
		labels = append(labels, quarterLabels...)
	case GroupByYears:
		for y := start.Year(); y <= end.Year(); y++ {
			labels = append(labels, strconv.Itoa(y))
		}
	default:
		return nil, newUnsupportedGroupingError(groupBy)
	}
	return append(labels, ">"+end.Format(time.DateOnly)), nil
}

// twoDigitLabels returns "00" through n-1.
func twoDigitLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d", i)
	}
	return labels
}

// checkGroupingTarget verifies the preconditions shared by every grouping:
// the table depends on the cache, the field is a database field on the row
// or column axis, and no field of the table is grouped yet.
func (pc *PivotCache) checkGroupingTarget(pt *PivotTable, name string) (*CacheField, *PivotField, error) {
	if pt == nil || pt.cache != pc {
		return nil, nil, ErrTableNotDependent
	}
	cf, err := pc.Field(name)
	if err != nil {
		return nil, nil, err
	}
	if !cf.database {
		return nil, nil, ErrFormulaFieldGrouping
	}
	idx := cf.Index()
	view := pt.fields[idx]
	if view.axis != AxisRow && view.axis != AxisColumn {
		return nil, nil, newFieldNotOnAxisError(pt.name, cf.name)
	}
	for _, f := range pc.fields {
		if f.IsGrouped() {
			return nil, nil, newGroupingAlreadyExistsError(pt.name, f.name)
		}
	}
	return cf, view, nil
}

// AddNumericGroupField groups the named field of the pivot table into
// buckets of interval width between start and end. The bucket labels become
// the field's active items in every dependent pivot table.
func (pc *PivotCache) AddNumericGroupField(pt *PivotTable, name string, start, end, interval float64) error {
	cf, _, err := pc.checkGroupingTarget(pt, name)
	if err != nil {
		return err
	}
	labels, err := numericGroupLabels(start, end, interval)
	if err != nil {
		return err
	}
	idx := cf.Index()
	cf.setGrouping(Grouping{
		Kind: GroupingNumeric, Start: start, End: end, Interval: interval, BaseIndex: idx,
	}, labels)
	for _, t := range pc.tables {
		t.fields[idx].resetItems()
	}
	pc.log.Info("numeric grouping applied", Fields{
		"cache": pc.uid, "field": cf.name, "start": start, "end": end, "interval": interval, "items": len(labels),
	})
	pc.hooks.GroupingApplied(cf.name, GroupingNumeric.String())
	return nil
}

// AddDateGroupField groups the named date field of the pivot table by one or
// more granularities. The finest requested granularity groups the field
// itself; every further granularity appends a chained cache field, with a
// field view in every dependent pivot table placed on the base field's axis
// ahead of it, coarser granularities outermost.
func (pc *PivotCache) AddDateGroupField(pt *PivotTable, name string, opts DateGroupOptions) error {
	cf, _, err := pc.checkGroupingTarget(pt, name)
	if err != nil {
		return err
	}
	if err = validateDateGroupBy(opts); err != nil {
		return err
	}
	start, end := opts.Start, opts.End
	autoStart, autoEnd := start.IsZero(), end.IsZero()
	if autoStart || autoEnd {
		min, max, ok := cf.dateBounds()
		if !ok {
			return newInvalidDateGroupingError(fmt.Sprintf("field %q has no dates for automatic bounds", cf.name))
		}
		if autoStart {
			start = min.Time
		}
		if autoEnd {
			end = max.Time
		}
	}
	steps := opts.GroupBy.granularities()
	labels := make([][]string, len(steps))
	for i, g := range steps {
		if labels[i], err = dateGroupLabels(g, start, end, opts.Interval); err != nil {
			return err
		}
	}
	base := cf.Index()
	interval := float64(opts.Interval)
	if interval < 1 {
		interval = 1
	}
	grouping := func(g DateGroupBy) Grouping {
		return Grouping{
			Kind: GroupingDate, GroupBy: g, StartDate: start, EndDate: end,
			AutoStart: autoStart, AutoEnd: autoEnd, Interval: interval, BaseIndex: base,
		}
	}
	cf.setGrouping(grouping(steps[0]), labels[0])
	for _, t := range pc.tables {
		t.fields[base].resetItems()
	}
	outer := base
	for i, g := range steps[1:] {
		derived := &CacheField{cache: pc, name: pc.uniqueFieldName(g.fieldName()), shared: ingest(nil)}
		derived.setGrouping(grouping(g), labels[i+1])
		pc.fields = append(pc.fields, derived)
		idx := len(pc.fields) - 1
		for _, t := range pc.tables {
			t.addChainedField(base, outer, idx)
		}
		outer = idx
	}
	pc.log.Info("date grouping applied", Fields{
		"cache": pc.uid, "field": cf.name, "groupBy": opts.GroupBy.String(),
		"start": start.Format(time.DateOnly), "end": end.Format(time.DateOnly), "chained": len(steps) - 1,
	})
	pc.hooks.GroupingApplied(cf.name, GroupingDate.String())
	return nil
}
