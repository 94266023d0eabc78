// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"time"

	"github.com/tiendc/go-deepcopy"
)

// CacheSnapshot is a serializable copy of a pivot cache: its fields with
// their active items and groupings, and the source records rendered as
// display text. Columns names the database field of each record value.
type CacheSnapshot struct {
	ID          string          `json:"id" msgpack:"id" cbor:"id"`
	Source      string          `json:"source" msgpack:"source" cbor:"source"`
	Range       string          `json:"range" msgpack:"range" cbor:"range"`
	RefreshedAt time.Time       `json:"refreshedAt" msgpack:"refreshedAt" cbor:"refreshedAt"`
	Fields      []FieldSnapshot `json:"fields" msgpack:"fields" cbor:"fields"`
	Columns     []string        `json:"columns" msgpack:"columns" cbor:"columns"`
	Records     [][]string      `json:"records" msgpack:"records" cbor:"records"`
}

// FieldSnapshot is the serializable form of a cache field.
type FieldSnapshot struct {
	Name     string            `json:"name" msgpack:"name" cbor:"name"`
	Database bool              `json:"database" msgpack:"database" cbor:"database"`
	Formula  string            `json:"formula,omitempty" msgpack:"formula,omitempty" cbor:"formula,omitempty"`
	Types    TypeFlags         `json:"types" msgpack:"types" cbor:"types"`
	Mixed    bool              `json:"mixed" msgpack:"mixed" cbor:"mixed"`
	Items    []string          `json:"items" msgpack:"items" cbor:"items"`
	Grouping *GroupingSnapshot `json:"grouping,omitempty" msgpack:"grouping,omitempty" cbor:"grouping,omitempty"`
}

// GroupingSnapshot is the serializable form of a grouping.
type GroupingSnapshot struct {
	Kind      string  `json:"kind" msgpack:"kind" cbor:"kind"`
	GroupBy   string  `json:"groupBy,omitempty" msgpack:"groupBy,omitempty" cbor:"groupBy,omitempty"`
	Start     string  `json:"start" msgpack:"start" cbor:"start"`
	End       string  `json:"end" msgpack:"end" cbor:"end"`
	Interval  float64 `json:"interval" msgpack:"interval" cbor:"interval"`
	BaseIndex int     `json:"baseIndex" msgpack:"baseIndex" cbor:"baseIndex"`
}

// Snapshot returns a serializable copy of the cache.
func (pc *PivotCache) Snapshot() *CacheSnapshot {
	s := &CacheSnapshot{
		ID: pc.uid, Source: pc.source.String(), RefreshedAt: pc.refreshedAt,
	}
	if pc.rect.Sheet != "" {
		s.Range = pc.rect.Sheet + "!" + pc.rect.Ref()
	}
	for _, cf := range pc.fields {
		fs := FieldSnapshot{
			Name: cf.name, Database: cf.database, Formula: cf.formula,
			Types: cf.TypeFlags(), Mixed: cf.ContainsMixedTypes(),
		}
		for _, v := range cf.active().items {
			fs.Items = append(fs.Items, v.String())
		}
		if cf.IsGrouped() {
			g := cf.grouping
			gs := &GroupingSnapshot{Kind: g.Kind.String(), Interval: g.Interval, BaseIndex: g.BaseIndex}
			switch g.Kind {
			case GroupingDate:
				gs.GroupBy = g.GroupBy.String()
				gs.Start, gs.End = g.StartDate.Format(xmlDateTimeLayout), g.EndDate.Format(xmlDateTimeLayout)
			case GroupingNumeric:
				gs.Start, gs.End = formatGroupNumber(g.Start), formatGroupNumber(g.End)
			}
			fs.Grouping = gs
		}
		s.Fields = append(s.Fields, fs)
		if cf.database {
			s.Columns = append(s.Columns, cf.name)
		}
	}
	for _, rec := range pc.records {
		row := make([]string, len(rec))
		for i, v := range rec {
			row[i] = v.String()
		}
		s.Records = append(s.Records, row)
	}
	return s
}

// Clone returns a deep copy of the snapshot.
func (s *CacheSnapshot) Clone() (*CacheSnapshot, error) {
	var out CacheSnapshot
	if err := deepcopy.Copy(&out, *s); err != nil {
		return nil, err
	}
	return &out, nil
}

// Column returns the position of the named column in the records, compared
// case-insensitively, or -1.
func (s *CacheSnapshot) Column(name string) int {
	for i, c := range s.Columns {
		if equalFold(c, name) {
			return i
		}
	}
	return -1
}
