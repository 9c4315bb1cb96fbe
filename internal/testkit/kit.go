// Package testkit provides fixtures and synthetic data for tests.
package testkit

import (
	"math/rand"

	"otusig/domain/core"
	"otusig/domain/table"
)

// TwoGroupTable builds the canonical 2-feature x 4-sample fixture:
// samples s1,s2 form group A and s3,s4 form group B under the
// Treatment field.
func TwoGroupTable() (*table.Table, table.Metadata) {
	t := MustTable(
		[]string{"otu1", "otu2"},
		[]string{"s1", "s2", "s3", "s4"},
		[][]float64{
			{10, 12, 30, 33},
			{5, 4, 6, 5},
		},
		nil,
	)
	md := table.Metadata{
		"s1": {"Treatment": "A", "Dose": "1"},
		"s2": {"Treatment": "A", "Dose": "2"},
		"s3": {"Treatment": "B", "Dose": "3"},
		"s4": {"Treatment": "B", "Dose": "4"},
	}
	return t, md
}

// MustTable builds a table from plain strings, panicking on invalid
// shapes. Test-only convenience.
func MustTable(features, samples []string, data [][]float64, taxonomy [][]string) *table.Table {
	fids := make([]core.FeatureID, len(features))
	for i, f := range features {
		fids[i] = core.FeatureID(f)
	}
	sids := make([]core.SampleID, len(samples))
	for i, s := range samples {
		sids[i] = core.SampleID(s)
	}
	t, err := table.New(fids, sids, data, taxonomy)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleIDs converts plain strings to sample ids.
func SampleIDs(ids ...string) []core.SampleID {
	out := make([]core.SampleID, len(ids))
	for i, s := range ids {
		out[i] = core.SampleID(s)
	}
	return out
}

// LinearSeries generates y = slope*x + intercept + noise over x = 0..n-1.
func LinearSeries(n int, slope, intercept, noise float64, rng *rand.Rand) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		y[i] = slope*x[i] + intercept + noise*rng.NormFloat64()
	}
	return x, y
}

// RandomCounts generates a feature table of uniform random counts.
func RandomCounts(features, samples int, rng *rand.Rand) *table.Table {
	fids := make([]string, features)
	data := make([][]float64, features)
	for i := range fids {
		fids[i] = "otu" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		row := make([]float64, samples)
		for j := range row {
			row[j] = float64(rng.Intn(100))
		}
		data[i] = row
	}
	sids := make([]string, samples)
	for j := range sids {
		sids[j] = "s" + string(rune('0'+j%10)) + string(rune('a'+j/10))
	}
	return MustTable(fids, sids, data, nil)
}
