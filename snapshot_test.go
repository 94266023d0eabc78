// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	pc, pt := prepareGroupingTable(t)
	assert.NoError(t, pt.AddRowField("Amount"))
	assert.NoError(t, pt.GroupNumeric("Amount", 0, 10, 5))
	_, err := pc.AddFormulaField("Double", "=Amount*2")
	require.NoError(t, err)

	s := pc.Snapshot()
	assert.Equal(t, pc.ID(), s.ID)
	assert.Equal(t, "Sheet1!A1:C4", s.Range)
	assert.Equal(t, pc.RefreshedAt(), s.RefreshedAt)
	assert.Equal(t, []string{"Region", "Date", "Amount"}, s.Columns)
	require.Len(t, s.Fields, 4)

	region := s.Fields[0]
	assert.Equal(t, "Region", region.Name)
	assert.True(t, region.Database)
	assert.Equal(t, TypeString, region.Types)
	assert.False(t, region.Mixed)
	// Duplicates keep their last occurrence
	assert.Equal(t, []string{"West", "East"}, region.Items)
	assert.Nil(t, region.Grouping)

	amount := s.Fields[2]
	assert.Equal(t, []string{"<0", "0-5", "5-10", ">10"}, amount.Items)
	require.NotNil(t, amount.Grouping)
	assert.Equal(t, GroupingSnapshot{Kind: "numeric", Start: "0", End: "10", Interval: 5, BaseIndex: 2}, *amount.Grouping)

	double := s.Fields[3]
	assert.False(t, double.Database)
	assert.Equal(t, "Amount*2", double.Formula)

	require.Len(t, s.Records, 3)
	assert.Equal(t, "East", s.Records[0][0])
	assert.Equal(t, "10", s.Records[0][2])
	assert.Equal(t, "2.5", s.Records[2][2])
	assert.Equal(t, 2, s.Column("amount"))
	assert.Equal(t, -1, s.Column("Double"))
}

func TestSnapshotDateGrouping(t *testing.T) {
	pc, pt := prepareGroupingTable(t)
	assert.NoError(t, pt.AddRowField("Date"))
	assert.NoError(t, pt.GroupDates("Date", DateGroupOptions{
		GroupBy: GroupByMonths, Start: date(2011, 1, 1), End: date(2012, 12, 31),
	}))

	g := pc.Snapshot().Fields[1].Grouping
	require.NotNil(t, g)
	assert.Equal(t, "date", g.Kind)
	assert.Equal(t, GroupByMonths.String(), g.GroupBy)
	assert.Equal(t, "2011-01-01T00:00:00", g.Start)
	assert.Equal(t, "2012-12-31T00:00:00", g.End)
	assert.Equal(t, float64(1), g.Interval)
	assert.Equal(t, 1, g.BaseIndex)
}

func TestSnapshotClone(t *testing.T) {
	pc, _ := prepareGroupingTable(t)
	s := pc.Snapshot()
	clone, err := s.Clone()
	require.NoError(t, err)
	assert.Equal(t, s, clone)

	clone.Records[0][0] = "North"
	clone.Fields[0].Items[0] = "North"
	clone.Columns[0] = "Area"
	assert.Equal(t, "East", s.Records[0][0])
	assert.Equal(t, "West", s.Fields[0].Items[0])
	assert.Equal(t, "Region", s.Columns[0])
	assert.Equal(t, 0, s.Column("REGION"))
	assert.Equal(t, -1, clone.Column("Region"))
}
