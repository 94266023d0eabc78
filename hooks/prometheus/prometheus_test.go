// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.CacheRefreshed("{0C5E}", 4, 120, false)
	h.CacheRefreshed("{0C5E}", 3, 80, true)
	h.FieldViewsDropped("PivotTable1", 2)
	h.GroupingApplied("Date", "date")
	h.GroupingApplied("Amount", "numeric")
	h.GroupingApplied("Quarters", "date")

	assert.Equal(t, 1.0, testutil.ToFloat64(h.Refreshes.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Refreshes.WithLabelValues("false")))
	assert.Equal(t, 80.0, testutil.ToFloat64(h.RefreshedRecords.WithLabelValues("{0C5E}")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.DroppedViews.WithLabelValues("PivotTable1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.Groupings.WithLabelValues("date")))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
}
