// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"strings"
	"time"
)

// PivotCache directly maps the deduplicated snapshot of a pivot source which
// one or more pivot tables share. It owns the cache fields; pivot tables own
// one field view per cache field, aligned by index.
//
// A PivotCache is not safe for concurrent use, callers must serialize
// access.
type PivotCache struct {
	uid         string
	cacheID     int
	reader      RangeReader
	source      Source
	rect        Rect
	fields      []*CacheField
	tables      []*PivotTable
	records     [][]Value
	refreshedAt time.Time
	released    bool

	log             Logger
	hooks           Hooks
	numFmts         NumFmtRegistry
	defaultSubtotal bool
}

// NewPivotCache binds a pivot cache to a source and reads it. The source
// must resolve to a range with a header row and at least one data row, and
// every header must be non-blank.
//
// For example, build a cache over Sheet1!A1:C20 of a workbook:
//
//	f, err := excelize.OpenFile("Book1.xlsx")
//	if err != nil {
//	    return err
//	}
//	pc, err := pivotcache.NewPivotCache(pivotcache.NewExcelizeReader(f),
//	    pivotcache.WorksheetSource("Sheet1", "A1:C20"))
func NewPivotCache(reader RangeReader, source Source, opts ...Options) (*PivotCache, error) {
	pc := newPivotCache(reader, source, opts...)
	if err := pc.RefreshFields(); err != nil {
		return nil, err
	}
	return pc, nil
}

// newPivotCache returns an empty cache bound to a source.
func newPivotCache(reader RangeReader, source Source, opts ...Options) *PivotCache {
	o := getOptions(opts...)
	return &PivotCache{
		uid:             newUID(),
		reader:          reader,
		source:          source,
		log:             o.Logger,
		hooks:           o.Hooks,
		numFmts:         o.NumFmts,
		defaultSubtotal: *o.DefaultSubtotal,
	}
}

// ID returns the unique identifier of the cache.
func (pc *PivotCache) ID() string { return pc.uid }

// CacheID returns the workbook level id pivot tables refer to the cache by.
func (pc *PivotCache) CacheID() int { return pc.cacheID }

// SetCacheID sets the workbook level id of the cache.
func (pc *PivotCache) SetCacheID(id int) { pc.cacheID = id }

// Source returns the source the cache is bound to.
func (pc *PivotCache) Source() Source { return pc.source }

// SetSource binds the cache to another source. The new source is read by
// the next RefreshFields.
func (pc *PivotCache) SetSource(src Source) { pc.source = src }

// Range returns the source rectangle resolved by the last refresh.
func (pc *PivotCache) Range() Rect { return pc.rect }

// RefreshedAt returns the time of the last successful refresh.
func (pc *PivotCache) RefreshedAt() time.Time { return pc.refreshedAt }

// Fields returns the cache fields in index order.
func (pc *PivotCache) Fields() []*CacheField {
	return append([]*CacheField(nil), pc.fields...)
}

// FieldNames returns the cache field names in index order.
func (pc *PivotCache) FieldNames() []string {
	names := make([]string, len(pc.fields))
	for i, f := range pc.fields {
		names[i] = f.name
	}
	return names
}

// Field returns the cache field with the given name, compared
// case-insensitively.
func (pc *PivotCache) Field(name string) (*CacheField, error) {
	if idx := pc.fieldIndex(name); idx != -1 {
		return pc.fields[idx], nil
	}
	return nil, newFieldNotFoundError(name)
}

// FieldAt returns the cache field at index i.
func (pc *PivotCache) FieldAt(i int) (*CacheField, bool) {
	if i < 0 || i >= len(pc.fields) {
		return nil, false
	}
	return pc.fields[i], true
}

// fieldIndex returns the index of the first field named name, or -1.
func (pc *PivotCache) fieldIndex(name string) int {
	key := foldKey(name)
	for i, f := range pc.fields {
		if foldKey(f.name) == key {
			return i
		}
	}
	return -1
}

// uniqueFieldName returns name made unique among the cache field names.
func (pc *PivotCache) uniqueFieldName(name string) string {
	return uniqueName(name, func(s string) bool { return pc.fieldIndex(s) != -1 })
}

// databaseFields returns the source backed fields in index order.
func (pc *PivotCache) databaseFields() []*CacheField {
	var fields []*CacheField
	for _, f := range pc.fields {
		if f.database {
			fields = append(fields, f)
		}
	}
	return fields
}

// Records returns the source rows read by the last refresh, one value per
// database field.
func (pc *PivotCache) Records() [][]Value {
	out := make([][]Value, len(pc.records))
	for i, r := range pc.records {
		out[i] = append([]Value(nil), r...)
	}
	return out
}

// PivotTables returns the pivot tables depending on the cache.
func (pc *PivotCache) PivotTables() []*PivotTable {
	return append([]*PivotTable(nil), pc.tables...)
}

// Released reports whether the last dependent pivot table has been removed.
func (pc *PivotCache) Released() bool { return pc.released }

// AddFormulaField appends a calculated field defined by a formula over other
// fields, and a field view for it in every dependent pivot table.
func (pc *PivotCache) AddFormulaField(name, formula string) (*CacheField, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrParameterInvalid
	}
	if pc.fieldIndex(name) != -1 {
		return nil, newFieldNameExistsError(name)
	}
	cf := &CacheField{cache: pc, name: name, shared: ingest(nil)}
	if err := cf.SetFormula(formula); err != nil {
		return nil, err
	}
	pc.fields = append(pc.fields, cf)
	for _, t := range pc.tables {
		t.fields = append(t.fields, newPivotField(t, len(pc.fields)-1))
	}
	pc.log.Info("calculated field added", Fields{"cache": pc.uid, "field": name, "formula": cf.formula})
	return cf, nil
}

// insertDatabaseField inserts a new database field after the last database
// field. Field views and grouping bases are re-pointed by syncFieldViews.
func (pc *PivotCache) insertDatabaseField(cf *CacheField) {
	at := 0
	for i, f := range pc.fields {
		if f.database {
			at = i + 1
		}
	}
	pc.fields = append(pc.fields, nil)
	copy(pc.fields[at+1:], pc.fields[at:])
	pc.fields[at] = cf
}

// removeFields detaches the given fields from the cache. Field views and
// grouping bases are re-pointed by syncFieldViews.
func (pc *PivotCache) removeFields(removed []*CacheField) {
	if len(removed) == 0 {
		return
	}
	drop := make(map[*CacheField]bool, len(removed))
	for _, f := range removed {
		drop[f] = true
	}
	fields := pc.fields[:0]
	for _, f := range pc.fields {
		if drop[f] {
			f.cache = nil
			continue
		}
		fields = append(fields, f)
	}
	pc.fields = fields
}

// remapGroupingBases re-points the base index of every grouping.
func (pc *PivotCache) remapGroupingBases(m func(int) int) {
	for _, f := range pc.fields {
		if f.grouping != nil && f.grouping.BaseIndex >= 0 {
			f.grouping.BaseIndex = m(f.grouping.BaseIndex)
		}
	}
}

// dedupeFieldNames makes database field names unique, suffixing later
// duplicates. Calculated and derived field names are kept.
func (pc *PivotCache) dedupeFieldNames() {
	taken := make(map[string]bool, len(pc.fields))
	for _, f := range pc.fields {
		if !f.database {
			taken[foldKey(f.name)] = true
		}
	}
	for _, f := range pc.fields {
		if !f.database {
			continue
		}
		f.name = uniqueName(f.name, func(s string) bool { return taken[foldKey(s)] })
		taken[foldKey(f.name)] = true
	}
}

// RefreshFields re-reads the source and synchronizes the cache fields and
// every dependent pivot table with it:
//
//   - existing grouped fields are kept unchanged,
//   - columns beyond the current database fields create new fields, with a
//     field view in every dependent pivot table,
//   - other fields have their shared items re-read; a header which is no
//     longer a prefix of the field name renames the field and marks the
//     schema as changed,
//   - database fields beyond the column count are removed, calculated
//     fields are kept,
//   - field views follow their fields, by previous name on schema change,
//     and views of removed fields are dropped,
//   - finally the items of every field view are reconciled with the new
//     shared items.
//
// The source is read completely before the cache is changed, so a read
// failure leaves the cache and its pivot tables untouched.
func (pc *PivotCache) RefreshFields() error {
	if r, ok := pc.reader.(resetter); ok {
		r.Reset()
	}
	rect, err := resolveSource(pc.reader, pc.source)
	if err != nil {
		pc.log.Error("pivot cache source can't be resolved", Fields{"cache": pc.uid, "source": pc.source.String(), "error": err.Error()})
		return err
	}
	data, err := readSource(pc.reader, rect)
	if err != nil {
		pc.log.Error("pivot cache source can't be read", Fields{"cache": pc.uid, "source": pc.source.String(), "error": err.Error()})
		return err
	}
	pc.log.Debug("refreshing pivot cache", Fields{"cache": pc.uid, "range": rect.Ref(), "sheet": rect.Sheet})

	for _, f := range pc.fields {
		f.prevName = f.name
	}
	for _, t := range pc.tables {
		for _, v := range t.fields {
			v.captureItemValues()
		}
	}
	var (
		pending       = make(map[*CacheField]*itemSet, len(data.headers))
		schemaChanged bool
		existing      = pc.databaseFields()
		prev          = append([]*CacheField(nil), pc.fields...)
		orphaned      []*CacheField
	)
	if len(existing) > len(data.headers) {
		orphaned = pc.orphanedFields(existing[len(data.headers):])
	}
	for c, header := range data.headers {
		if c >= len(existing) {
			cf := newDatabaseField(pc, header)
			pc.insertDatabaseField(cf)
			pending[cf] = ingest(data.columns[c])
			continue
		}
		cf := existing[c]
		if cf.IsGrouped() {
			continue
		}
		pending[cf] = ingest(data.columns[c])
		if !hasPrefixFold(cf.name, header) {
			schemaChanged = true
			cf.name = header
		}
	}
	pc.removeFields(orphaned)
	pc.dedupeFieldNames()
	if schemaChanged {
		pc.log.Warn("pivot cache schema changed", Fields{"cache": pc.uid, "fields": pc.FieldNames()})
	}
	pc.syncFieldViews(prev, schemaChanged)
	for _, cf := range pc.fields {
		s, rescanned := pending[cf]
		idx := cf.Index()
		if !rescanned {
			for _, t := range pc.tables {
				t.fields[idx].reindex(cf.active())
			}
			continue
		}
		for _, t := range pc.tables {
			t.fields[idx].reconcile(s)
		}
		cf.shared = s
		cf.numFmtID = 0
		if classify(s.items).Has(TypeDateTime) {
			cf.numFmtID = pc.numFmts.Register(builtInNumFmt[14])
		}
	}
	pc.records = buildRecords(data.columns)
	pc.rect = rect
	pc.refreshedAt = time.Now()
	pc.log.Info("pivot cache refreshed", Fields{
		"cache": pc.uid, "range": rect.Ref(), "fields": len(pc.fields),
		"records": len(pc.records), "schemaChanged": schemaChanged,
	})
	pc.hooks.CacheRefreshed(pc.uid, len(pc.fields), len(pc.records), schemaChanged)
	return nil
}

// orphanedFields returns the removed database fields and the group-derived
// fields based on them.
func (pc *PivotCache) orphanedFields(removed []*CacheField) []*CacheField {
	orphaned := append([]*CacheField(nil), removed...)
	bases := make(map[int]bool, len(removed))
	for _, f := range removed {
		bases[f.Index()] = true
	}
	for _, f := range pc.fields {
		if !f.database && f.grouping != nil && bases[f.grouping.BaseIndex] {
			orphaned = append(orphaned, f)
		}
	}
	return orphaned
}

// buildRecords transposes source columns to rows.
func buildRecords(columns [][]Value) [][]Value {
	if len(columns) == 0 {
		return nil
	}
	records := make([][]Value, len(columns[0]))
	for r := range records {
		rec := make([]Value, len(columns))
		for c := range columns {
			rec[c] = columns[c][r]
		}
		records[r] = rec
	}
	return records
}

// AddPivotTable creates a pivot table depending on the cache, with one field
// view per cache field and no field on any axis.
func (pc *PivotCache) AddPivotTable(name string) (*PivotTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrParameterInvalid
	}
	pt := &PivotTable{cache: pc, name: name, uid: newUID()}
	for i := range pc.fields {
		pt.fields = append(pt.fields, newPivotField(pt, i))
	}
	pc.tables = append(pc.tables, pt)
	pc.released = false
	return pt, nil
}

// RemovePivotTable removes a dependent pivot table. The cache is released
// once no pivot table depends on it.
func (pc *PivotCache) RemovePivotTable(pt *PivotTable) error {
	for i, t := range pc.tables {
		if t == pt {
			pc.tables = append(pc.tables[:i], pc.tables[i+1:]...)
			pt.cache = nil
			if len(pc.tables) == 0 {
				pc.released = true
				pc.log.Debug("pivot cache released", Fields{"cache": pc.uid})
			}
			return nil
		}
	}
	return ErrTableNotDependent
}
