package table

import (
	"fmt"
	"strings"

	"otusig/domain/core"
)

// Table is the canonical feature-by-sample abundance matrix. Rows are
// features (OTUs), columns are samples. It is treated as immutable once
// constructed: all derived structures (partitions, row slices, results)
// are built fresh from it per run and discarded afterwards.
type Table struct {
	FeatureIDs []core.FeatureID
	SampleIDs  []core.SampleID
	Data       [][]float64 // rows=features, cols=samples
	Taxonomy   [][]string  // optional per-feature lineage; nil when the source had none

	sampleIdx map[core.SampleID]int
}

// New builds a Table and validates its internal consistency.
func New(featureIDs []core.FeatureID, sampleIDs []core.SampleID, data [][]float64, taxonomy [][]string) (*Table, error) {
	if len(featureIDs) == 0 {
		return nil, core.ErrEmptyTable
	}
	if len(data) != len(featureIDs) {
		return nil, fmt.Errorf("table has %d data rows for %d features", len(data), len(featureIDs))
	}
	for i, row := range data {
		if len(row) != len(sampleIDs) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(sampleIDs))
		}
	}
	if taxonomy != nil && len(taxonomy) != len(featureIDs) {
		return nil, fmt.Errorf("taxonomy has %d entries for %d features", len(taxonomy), len(featureIDs))
	}

	idx := make(map[core.SampleID]int, len(sampleIDs))
	for i, sid := range sampleIDs {
		if _, dup := idx[sid]; dup {
			return nil, fmt.Errorf("duplicate sample id %q", sid)
		}
		idx[sid] = i
	}

	return &Table{
		FeatureIDs: featureIDs,
		SampleIDs:  sampleIDs,
		Data:       data,
		Taxonomy:   taxonomy,
		sampleIdx:  idx,
	}, nil
}

// FeatureCount returns the number of features (rows)
func (t *Table) FeatureCount() int {
	return len(t.FeatureIDs)
}

// SampleCount returns the number of samples (columns)
func (t *Table) SampleCount() int {
	return len(t.SampleIDs)
}

// Row returns an owned copy of feature row i. Callers may hand the copy
// to concurrent workers without further synchronization.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.Data[i]))
	copy(row, t.Data[i])
	return row
}

// SampleIndex resolves a sample id to its column position.
func (t *Table) SampleIndex(id core.SampleID) (int, error) {
	i, ok := t.sampleIdx[id]
	if !ok {
		return -1, core.NewUnknownSampleError(id)
	}
	return i, nil
}

// SampleColumn returns an owned copy of the column for the given sample,
// one value per feature in row order.
func (t *Table) SampleColumn(id core.SampleID) ([]float64, error) {
	j, err := t.SampleIndex(id)
	if err != nil {
		return nil, err
	}
	col := make([]float64, len(t.Data))
	for i := range t.Data {
		col[i] = t.Data[i][j]
	}
	return col, nil
}

// HasTaxonomy reports whether the table carries per-feature annotations.
// Formatters check this once per call so every output row has the same shape.
func (t *Table) HasTaxonomy() bool {
	return t.Taxonomy != nil
}

// TaxonomyString renders the lineage of feature i for tabular output.
func (t *Table) TaxonomyString(i int) string {
	if t.Taxonomy == nil {
		return ""
	}
	return strings.Join(t.Taxonomy[i], ", ")
}
