// Package engine turns an abundance table plus a grouping scheme into
// per-feature row slices and drives the statistical tests over them.
// Row iterators are one-shot: they yield each feature exactly once in
// table row order and are not restartable; callers re-invoke the
// constructor to iterate again. Shape and conversion failures that
// would invalidate every row are raised by the constructors, before any
// feature is processed.
package engine

import (
	"strconv"

	"otusig/domain/core"
	"otusig/domain/group"
	"otusig/domain/table"
)

// GroupRows yields, per feature, one numeric array per partition group
// in partition order.
type GroupRows struct {
	t         *table.Table
	partition group.IndexPartition
	next      int
}

// NewGroupRows builds a group-slice iterator over the table.
func NewGroupRows(t *table.Table, partition group.IndexPartition) *GroupRows {
	return &GroupRows{t: t, partition: partition}
}

// Len returns the number of rows the iterator will yield.
func (it *GroupRows) Len() int { return it.t.FeatureCount() }

// Next yields the grouped arrays for the next feature. Each array is
// owned by the caller.
func (it *GroupRows) Next() ([][]float64, bool) {
	if it.next >= it.t.FeatureCount() {
		return nil, false
	}
	row := it.t.Data[it.next]
	it.next++

	groups := make([][]float64, len(it.partition))
	for gi, g := range it.partition {
		vals := make([]float64, len(g.Indices))
		for vi, ci := range g.Indices {
			vals[vi] = row[ci]
		}
		groups[gi] = vals
	}
	return groups, true
}

// PairedRows yields, per feature, two aligned arrays: before[i] pairs
// with after[i] by position.
type PairedRows struct {
	before [][]float64 // columns, one per before-sample
	after  [][]float64
	rows   int
	next   int
}

// NewPairedRows builds a paired-slice iterator. The before and after
// sample lists must have equal length and every id must be a table
// column; both are checked here, not per row.
func NewPairedRows(t *table.Table, before, after []core.SampleID) (*PairedRows, error) {
	if len(before) != len(after) {
		return nil, core.NewLengthMismatchError(len(before), len(after))
	}
	bCols := make([][]float64, len(before))
	aCols := make([][]float64, len(after))
	for i := range before {
		var err error
		if bCols[i], err = t.SampleColumn(before[i]); err != nil {
			return nil, err
		}
		if aCols[i], err = t.SampleColumn(after[i]); err != nil {
			return nil, err
		}
	}
	return &PairedRows{before: bCols, after: aCols, rows: t.FeatureCount()}, nil
}

// Len returns the number of rows the iterator will yield.
func (it *PairedRows) Len() int { return it.rows }

// Next yields the aligned before/after arrays for the next feature.
func (it *PairedRows) Next() (before, after []float64, ok bool) {
	if it.next >= it.rows {
		return nil, nil, false
	}
	i := it.next
	it.next++

	b := make([]float64, len(it.before))
	a := make([]float64, len(it.after))
	for j := range it.before {
		b[j] = it.before[j][i]
		a[j] = it.after[j][i]
	}
	return b, a, true
}

// CorrelationRows yields, per feature, the full numeric row plus the
// shared gradient vector resolved from a metadata field in table column
// order.
type CorrelationRows struct {
	t        *table.Table
	gradient []float64
	next     int
}

// NewCorrelationRows builds a correlation-slice iterator. The gradient
// vector is shared by every feature, so a value that cannot convert to
// float aborts construction rather than a single row.
func NewCorrelationRows(t *table.Table, md table.Metadata, field string) (*CorrelationRows, error) {
	gradient, err := gradientVector(t.SampleIDs, md, field)
	if err != nil {
		return nil, err
	}
	return &CorrelationRows{t: t, gradient: gradient}, nil
}

// Len returns the number of rows the iterator will yield.
func (it *CorrelationRows) Len() int { return it.t.FeatureCount() }

// Next yields the next feature row and the gradient vector. The row is
// owned by the caller; the gradient is shared and must be treated as
// read-only.
func (it *CorrelationRows) Next() (row, gradient []float64, ok bool) {
	if it.next >= it.t.FeatureCount() {
		return nil, nil, false
	}
	row = it.t.Row(it.next)
	it.next++
	return row, it.gradient, true
}

// LongitudinalRows yields, per feature, one abundance array per subject
// (in that subject's sample order) plus the matching per-subject
// gradient arrays.
type LongitudinalRows struct {
	t         *table.Table
	indices   [][]int
	gradients [][]float64
	next      int
}

// NewLongitudinalRows builds a longitudinal-slice iterator. Per-subject
// gradients are resolved once up front with the same fail-fast float
// conversion rule as NewCorrelationRows.
func NewLongitudinalRows(t *table.Table, md table.Metadata, field string, subjects group.SubjectGroups) (*LongitudinalRows, error) {
	indices, err := subjects.ColumnIndices(t)
	if err != nil {
		return nil, err
	}
	gradients := make([][]float64, len(subjects))
	for i, sg := range subjects {
		if gradients[i], err = gradientVector(sg.Samples, md, field); err != nil {
			return nil, err
		}
	}
	return &LongitudinalRows{t: t, indices: indices, gradients: gradients}, nil
}

// Len returns the number of rows the iterator will yield.
func (it *LongitudinalRows) Len() int { return it.t.FeatureCount() }

// Next yields per-subject abundance arrays for the next feature plus
// the shared per-subject gradient arrays (read-only).
func (it *LongitudinalRows) Next() (obs, gradients [][]float64, ok bool) {
	if it.next >= it.t.FeatureCount() {
		return nil, nil, false
	}
	row := it.t.Data[it.next]
	it.next++

	obs = make([][]float64, len(it.indices))
	for si, subject := range it.indices {
		vals := make([]float64, len(subject))
		for vi, ci := range subject {
			vals[vi] = row[ci]
		}
		obs[si] = vals
	}
	return obs, it.gradients, true
}

// gradientVector resolves a metadata field to floats for the given
// samples, in order. Every sample needs a metadata record, the field
// must exist, and every value must parse as a float.
func gradientVector(samples []core.SampleID, md table.Metadata, field string) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, sid := range samples {
		rec, ok := md[sid]
		if !ok {
			return nil, core.NewUnknownSampleError(sid)
		}
		raw, err := rec.Lookup(field)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, core.NewGradientError(sid, raw)
		}
		out[i] = v
	}
	return out, nil
}
