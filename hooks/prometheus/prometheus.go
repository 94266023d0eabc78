// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package prometheus exports pivot cache events as Prometheus counters. All
// metrics use the "pivotcache" namespace:
//   - refreshes_total{schema_changed}
//   - refreshed_records: records read by the last refresh of each cache
//   - field_views_dropped_total{table}
//   - groupings_total{kind}
package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xuri/pivotcache"
)

const namespace = "pivotcache"

// Hooks implements pivotcache.Hooks with metrics registered on a
// caller-supplied registerer.
type Hooks struct {
	Refreshes         *prometheus.CounterVec
	RefreshedRecords  *prometheus.GaugeVec
	DroppedViews      *prometheus.CounterVec
	Groupings         *prometheus.CounterVec
}

var _ pivotcache.Hooks = (*Hooks)(nil)

// New creates the metrics and registers them on reg. A nil reg leaves the
// metrics unregistered.
func New(reg prometheus.Registerer) *Hooks {
	factory := promauto.With(reg)
	return &Hooks{
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refreshes_total",
				Help:      "Total number of pivot cache refreshes by schema change.",
			},
			[]string{"schema_changed"},
		),
		RefreshedRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "refreshed_records",
				Help:      "Number of source records read by the last refresh of a pivot cache.",
			},
			[]string{"cache"},
		),
		DroppedViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_views_dropped_total",
				Help:      "Total number of pivot field views removed from table axes by field view sync.",
			},
			[]string{"table"},
		),
		Groupings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "groupings_total",
				Help:      "Total number of groupings applied to cache fields by kind.",
			},
			[]string{"kind"},
		),
	}
}

func (h *Hooks) CacheRefreshed(cacheID string, _, records int, schemaChanged bool) {
	h.Refreshes.WithLabelValues(strconv.FormatBool(schemaChanged)).Inc()
	h.RefreshedRecords.WithLabelValues(cacheID).Set(float64(records))
}

func (h *Hooks) FieldViewsDropped(table string, dropped int) {
	h.DroppedViews.WithLabelValues(table).Add(float64(dropped))
}

func (h *Hooks) GroupingApplied(_ string, kind string) {
	h.Groupings.WithLabelValues(kind).Inc()
}
